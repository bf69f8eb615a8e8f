package services

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/workspacehq/workspace-api/internal/mailer"
	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/repository"
	"github.com/workspacehq/workspace-api/internal/utils"
)

// reminderDays are the due-date horizons the daily scan notifies about.
var reminderDays = []int{7, 1}

// ReminderService runs the scheduled due-date reminder scan.
type ReminderService struct {
	taskRepo repository.TaskRepository
	mail     mailer.Mailer
	cron     *cron.Cron
	// running drops overlapping triggers: a scan that fires while one is
	// in flight is skipped, not queued.
	running atomic.Bool
	now     func() time.Time
}

// NewReminderService creates a ReminderService. Call Start to schedule it.
func NewReminderService(taskRepo repository.TaskRepository, mail mailer.Mailer, loc *time.Location) *ReminderService {
	return &ReminderService{
		taskRepo: taskRepo,
		mail:     mail,
		cron:     cron.New(cron.WithLocation(loc)),
		now:      time.Now,
	}
}

// Start registers the scan on the given cron schedule (e.g. "0 9 * * *") and
// starts the scheduler in its own goroutine.
func (s *ReminderService) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.Scan); err != nil {
		return fmt.Errorf("failed to schedule reminder scan: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop stops the scheduler, waiting for a running scan to finish.
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
}

// Scan emails reminders for not-done tasks due exactly 7 days and exactly 1
// day from now. Individual send failures are logged and skipped.
func (s *ReminderService) Scan() {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("reminder scan already in progress, skipping trigger")
		return
	}
	defer s.running.Store(false)

	for _, daysLeft := range reminderDays {
		tasks, err := s.dueIn(daysLeft)
		if err != nil {
			log.Printf("reminder scan failed for %d-day window: %v", daysLeft, err)
			continue
		}
		for i := range tasks {
			s.remind(&tasks[i], daysLeft)
		}
	}
}

// dueIn returns not-done tasks whose due date falls on the calendar day
// daysLeft days from now.
func (s *ReminderService) dueIn(daysLeft int) ([]models.Task, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, daysLeft)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
	return s.taskRepo.DueInRange(dayStart, dayEnd)
}

func (s *ReminderService) remind(task *models.Task, daysLeft int) {
	if task.DueDate == nil {
		return
	}

	data := mailer.ReminderEmail{
		TaskTitle:     task.Title,
		TaskNumber:    utils.FormatTaskNumber(task.Number),
		DueDate:       *task.DueDate,
		ReporterEmail: task.Reporter.Email,
		ReporterName:  task.Reporter.Name,
		WorkspaceName: task.Space.Workspace.Name,
		SpaceName:     task.Space.Name,
	}
	if task.Assignee != nil {
		data.AssigneeEmail = task.Assignee.Email
		data.AssigneeName = task.Assignee.Name
	}

	if err := s.mail.SendDueDateReminder(data, daysLeft); err != nil {
		log.Printf("failed to send reminder for task %d: %v", task.ID, err)
	}
}
