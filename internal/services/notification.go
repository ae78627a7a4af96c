package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/logger"
	"github.com/bytehub/bytehub/pkg/response"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Deliver persists a single notification for its recipient. It is the
// queue processor: both the sync queue and the async worker call it.
func (s *NotificationService) Deliver(ctx context.Context, task *NotifyTask) error {
	n := &models.Notification{
		ID:     uuid.NewString(),
		UserID: task.RecipientID,
		Type:   task.Type,
		Title:  task.Title,
		Body:   task.Body,
		Data:   task.Data,
	}
	return s.db.WithContext(ctx).Create(n).Error
}

// GetAll returns one page of the user's notifications, newest first,
// along with the total row count.
func (s *NotificationService) GetAll(userID uint, page, pageSize int) ([]models.Notification, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error
	return notifications, total, err
}

// GetUnread returns the user's unread notifications, newest first.
func (s *NotificationService) GetUnread(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ? AND read_at IS NULL", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// UnreadCount returns how many notifications the user has not read.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkAsRead stamps a single notification as read. The lookup is scoped
// to the user so one user can never touch another's notifications.
func (s *NotificationService) MarkAsRead(userID uint, notificationID string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
		return nil, response.NewNotFound("notification not found")
	}

	if n.ReadAt == nil {
		now := time.Now()
		n.ReadAt = &now
		if err := s.db.Model(&n).Update("read_at", now).Error; err != nil {
			return nil, response.NewServerError("failed to mark notification as read")
		}
	}

	return &n, nil
}

// MarkAllAsRead stamps all of the user's unread notifications as read.
func (s *NotificationService) MarkAllAsRead(userID uint) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

// Delete removes a single notification belonging to the user.
func (s *NotificationService) Delete(userID uint, notificationID string) error {
	result := s.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return response.NewServerError("failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("notification not found")
	}
	return nil
}

// DeleteAll removes every notification belonging to the user.
func (s *NotificationService) DeleteAll(userID uint) (int64, error) {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

// CleanupOld deletes notifications older than the retention window.
func (s *NotificationService) CleanupOld(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

// StartNotificationCleanupScheduler periodically prunes old notifications.
func StartNotificationCleanupScheduler(db *gorm.DB, retentionDays int) {
	go func() {
		service := NewNotificationService(db)

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			deleted, err := service.CleanupOld(retentionDays)
			if err != nil {
				logger.Error().Err(err).Msg("failed to cleanup old notifications")
				continue
			}
			if deleted > 0 {
				logger.Info().Int64("deleted", deleted).Msg("cleaned up old notifications")
			}
		}
	}()
}
