package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/logger"
)

// Notifier fans project events out to everyone involved in a project.
// It is strictly best-effort: every failure is logged and swallowed so
// the operation that triggered the event always succeeds or fails on
// its own merits.
type Notifier struct {
	db    *gorm.DB
	queue TaskQueue
}

func NewNotifier(db *gorm.DB, queue TaskQueue) *Notifier {
	return &Notifier{db: db, queue: queue}
}

// ProjectRecipients computes the notification audience for a project:
// the owner, the supervisor (if any) and every accepted member, each
// at most once, with the acting user excluded.
func (n *Notifier) ProjectRecipients(project *models.Project, actorID uint) ([]uint, error) {
	seen := make(map[uint]bool)
	var recipients []uint

	add := func(id uint) {
		if id == actorID || seen[id] {
			return
		}
		seen[id] = true
		recipients = append(recipients, id)
	}

	add(project.OwnerID)
	if project.SupervisorID != nil {
		add(*project.SupervisorID)
	}

	var memberIDs []uint
	err := n.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND status = ?", project.ID, models.InvitationAccepted).
		Pluck("student_id", &memberIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range memberIDs {
		add(id)
	}

	return recipients, nil
}

// NotifyProject enqueues one delivery per recipient. Data is marshaled
// once and shared across deliveries.
func (n *Notifier) NotifyProject(project *models.Project, actorID uint, eventType, title, body string, data map[string]interface{}) {
	recipients, err := n.ProjectRecipients(project, actorID)
	if err != nil {
		logger.Error().Err(err).Uint("project_id", project.ID).Str("type", eventType).
			Msg("failed to resolve notification recipients")
		return
	}

	n.NotifyUsers(recipients, eventType, title, body, data)
}

// NotifyUsers enqueues one delivery per given recipient.
func (n *Notifier) NotifyUsers(recipients []uint, eventType, title, body string, data map[string]interface{}) {
	var dataStr string
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			dataStr = string(b)
		}
	}

	for _, recipientID := range recipients {
		task := &NotifyTask{
			RecipientID: recipientID,
			Type:        eventType,
			Title:       title,
			Body:        body,
			Data:        dataStr,
		}
		if err := n.queue.Enqueue(task); err != nil {
			logger.Error().Err(err).Uint("recipient_id", recipientID).Str("type", eventType).
				Msg("failed to enqueue notification")
		}
	}
}

// NotifyUser enqueues a delivery to a single recipient.
func (n *Notifier) NotifyUser(recipientID uint, eventType, title, body string, data map[string]interface{}) {
	n.NotifyUsers([]uint{recipientID}, eventType, title, body, data)
}
