package mailer

import "fmt"

func invitationExistingUserBody(workspaceName, senderName, link string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>You've been invited to %s</h2>
  <p>%s has invited you to collaborate in the <strong>%s</strong> workspace.</p>
  <p>Sign in with your existing account to join:</p>
  <p><a href="%s" style="background: #4f46e5; color: #fff; padding: 10px 20px; border-radius: 4px; text-decoration: none;">Join workspace</a></p>
  <p style="color: #6b7280; font-size: 12px;">This invitation expires in 7 days. If you weren't expecting it, you can ignore this email.</p>
</div>`, workspaceName, senderName, workspaceName, link)
}

func invitationNewUserBody(workspaceName, senderName, link string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>You've been invited to %s</h2>
  <p>%s has invited you to collaborate in the <strong>%s</strong> workspace.</p>
  <p>Create your account to get started:</p>
  <p><a href="%s" style="background: #4f46e5; color: #fff; padding: 10px 20px; border-radius: 4px; text-decoration: none;">Create account &amp; join</a></p>
  <p style="color: #6b7280; font-size: 12px;">This invitation expires in 7 days. If you weren't expecting it, you can ignore this email.</p>
</div>`, workspaceName, senderName, workspaceName, link)
}

func reminderBody(data ReminderEmail, daysLeft int) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Task due in %d day(s)</h2>
  <p><strong>%s %s</strong> in %s / %s is due on %s.</p>
  <p>Assignee: %s</p>
</div>`,
		daysLeft,
		data.TaskNumber,
		data.TaskTitle,
		data.WorkspaceName,
		data.SpaceName,
		data.DueDate.Format("Jan 2, 2006"),
		data.AssigneeName,
	)
}
