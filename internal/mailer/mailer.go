package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// ReminderEmail carries everything the due-date reminder template needs.
type ReminderEmail struct {
	TaskTitle     string
	TaskNumber    string
	DueDate       time.Time
	AssigneeEmail string
	AssigneeName  string
	ReporterEmail string
	ReporterName  string
	WorkspaceName string
	SpaceName     string
}

// Mailer sends outbound mail. The core treats dispatch as fire-and-forget
// except for invitations, where a failed send rolls the invitation back.
type Mailer interface {
	// SendInvitation emails an invitation link. The template differs by
	// whether the invitee already has an account.
	SendInvitation(to, workspaceName, senderName, invitationID string, userExists bool) error

	// SendDueDateReminder emails the assignee (and reporter, if different)
	// that a task is due in daysLeft days.
	SendDueDateReminder(data ReminderEmail, daysLeft int) error
}

// SMTPMailer is the production Mailer on an SMTP relay.
type SMTPMailer struct {
	dialer    *gomail.Dialer
	from      string
	clientURL string
}

// NewSMTPMailer creates an SMTPMailer.
func NewSMTPMailer(host string, port int, user, password, from, clientURL string) *SMTPMailer {
	return &SMTPMailer{
		dialer:    gomail.NewDialer(host, port, user, password),
		from:      from,
		clientURL: clientURL,
	}
}

// SendInvitation implements Mailer.SendInvitation.
func (m *SMTPMailer) SendInvitation(to, workspaceName, senderName, invitationID string, userExists bool) error {
	link := fmt.Sprintf("%s/invitation/%s", m.clientURL, invitationID)

	var subject, body string
	if userExists {
		subject = fmt.Sprintf("You're invited to join %s", workspaceName)
		body = invitationExistingUserBody(workspaceName, senderName, link)
	} else {
		subject = fmt.Sprintf("You're invited to join %s - Create your account", workspaceName)
		body = invitationNewUserBody(workspaceName, senderName, link)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

// SendDueDateReminder implements Mailer.SendDueDateReminder.
func (m *SMTPMailer) SendDueDateReminder(data ReminderEmail, daysLeft int) error {
	subject := fmt.Sprintf("Reminder: %s %q is due in %d day(s)", data.TaskNumber, data.TaskTitle, daysLeft)
	body := reminderBody(data, daysLeft)

	recipients := make([]string, 0, 2)
	if data.AssigneeEmail != "" {
		recipients = append(recipients, data.AssigneeEmail)
	}
	if data.ReporterEmail != "" && data.ReporterEmail != data.AssigneeEmail {
		recipients = append(recipients, data.ReporterEmail)
	}
	if len(recipients) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

var _ Mailer = (*SMTPMailer)(nil)
