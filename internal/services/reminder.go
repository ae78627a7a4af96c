package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/logger"
)

// ReminderService sends daily deadline reminders for tasks that are due
// within the next 24 hours and not yet completed.
type ReminderService struct {
	db       *gorm.DB
	notifier *Notifier
	cron     *cron.Cron
}

func NewReminderService(db *gorm.DB, notifier *Notifier) *ReminderService {
	return &ReminderService{
		db:       db,
		notifier: notifier,
		cron:     cron.New(),
	}
}

// Start schedules the daily reminder run at 08:00 server time.
func (s *ReminderService) Start() error {
	_, err := s.cron.AddFunc("0 8 * * *", func() {
		if err := s.RunOnce(); err != nil {
			logger.Error().Err(err).Msg("deadline reminder run failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("deadline reminder scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce scans for tasks due in the next 24 hours and notifies the
// assignee, or the whole project when the task is unassigned.
func (s *ReminderService) RunOnce() error {
	now := time.Now()
	cutoff := now.Add(24 * time.Hour)

	var tasks []models.Task
	err := s.db.Preload("Project").
		Where("deadline IS NOT NULL AND deadline > ? AND deadline <= ? AND status <> ?",
			now, cutoff, models.TaskCompleted).
		Find(&tasks).Error
	if err != nil {
		return err
	}

	for _, task := range tasks {
		if task.Project == nil {
			continue
		}

		title := "Task deadline approaching"
		body := fmt.Sprintf("The task %q in %q is due %s",
			task.Title, task.Project.Title, task.Deadline.Format("Jan 2 15:04"))
		data := map[string]interface{}{
			"project_id": task.ProjectID,
			"task_id":    task.ID,
			"deadline":   task.Deadline,
		}

		if task.AssignedTo != nil {
			s.notifier.NotifyUser(*task.AssignedTo, "task.deadline", title, body, data)
		} else {
			// No actor to exclude for scheduled reminders.
			s.notifier.NotifyProject(task.Project, 0, "task.deadline", title, body, data)
		}
	}

	logger.Info().Int("tasks", len(tasks)).Msg("deadline reminders dispatched")
	return nil
}
