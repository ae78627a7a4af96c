package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bytehub/bytehub/internal/models"
)

func deliverTestNotification(t *testing.T, svc *NotificationService, userID uint) *models.Notification {
	t.Helper()
	err := svc.Deliver(context.Background(), &NotifyTask{
		RecipientID: userID,
		Type:        "task.created",
		Title:       "New task",
		Body:        "something happened",
	})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	notifications, _, err := svc.GetAll(userID, 1, 50)
	if err != nil || len(notifications) == 0 {
		t.Fatalf("GetAll() = %v, %v", notifications, err)
	}
	return &notifications[0]
}

func TestNotification_MarkAsReadScoped(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", models.RoleStudent)
	bob := createTestUser(t, db, "bob", models.RoleStudent)

	svc := NewNotificationService(db)
	n := deliverTestNotification(t, svc, alice.ID)

	// Bob cannot read Alice's notification
	if _, err := svc.MarkAsRead(bob.ID, n.ID); err == nil {
		t.Error("expected cross-user MarkAsRead to fail")
	} else {
		expectAppError(t, err, 404)
	}

	read, err := svc.MarkAsRead(alice.ID, n.ID)
	if err != nil {
		t.Fatalf("MarkAsRead() error = %v", err)
	}
	if read.ReadAt == nil {
		t.Error("expected ReadAt to be stamped")
	}

	// Marking again is a no-op, not an error
	again, err := svc.MarkAsRead(alice.ID, n.ID)
	if err != nil {
		t.Fatalf("second MarkAsRead() error = %v", err)
	}
	if !again.ReadAt.Equal(*read.ReadAt) {
		t.Error("ReadAt should not move on a repeat call")
	}

	count, err := svc.UnreadCount(alice.ID)
	if err != nil || count != 0 {
		t.Errorf("UnreadCount() = %d, %v, expected 0", count, err)
	}
}

func TestNotification_MarkAllAsRead(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "reader", models.RoleStudent)

	svc := NewNotificationService(db)
	for i := 0; i < 3; i++ {
		deliverTestNotification(t, svc, user.ID)
	}

	affected, err := svc.MarkAllAsRead(user.ID)
	if err != nil {
		t.Fatalf("MarkAllAsRead() error = %v", err)
	}
	if affected != 3 {
		t.Errorf("affected = %d, expected 3", affected)
	}

	unread, err := svc.GetUnread(user.ID)
	if err != nil {
		t.Fatalf("GetUnread() error = %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("unread = %d, expected 0", len(unread))
	}
}

func TestNotification_DeleteScoped(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", models.RoleStudent)
	bob := createTestUser(t, db, "bob", models.RoleStudent)

	svc := NewNotificationService(db)
	n := deliverTestNotification(t, svc, alice.ID)
	deliverTestNotification(t, svc, bob.ID)

	expectAppError(t, svc.Delete(bob.ID, n.ID), 404)

	if err := svc.Delete(alice.ID, n.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	expectAppError(t, svc.Delete(alice.ID, n.ID), 404)

	// DeleteAll only touches the caller's rows
	affected, err := svc.DeleteAll(bob.ID)
	if err != nil || affected != 1 {
		t.Errorf("DeleteAll() = %d, %v, expected 1", affected, err)
	}
}

func TestNotification_ListPaginates(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "busy", models.RoleStudent)

	svc := NewNotificationService(db)
	for i := 0; i < 5; i++ {
		deliverTestNotification(t, svc, user.ID)
	}

	page, total, err := svc.GetAll(user.ID, 1, 2)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, expected 5", total)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, expected 2", len(page))
	}

	last, total, err := svc.GetAll(user.ID, 3, 2)
	if err != nil {
		t.Fatalf("GetAll(page 3) error = %v", err)
	}
	if total != 5 || len(last) != 1 {
		t.Errorf("last page = %d rows (total %d), expected 1 row of 5", len(last), total)
	}
}

func TestNotification_CleanupOld(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "keeper", models.RoleStudent)

	svc := NewNotificationService(db)
	deliverTestNotification(t, svc, user.ID)

	stale := models.Notification{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Type:      "task.created",
		Title:     "Old news",
		CreatedAt: time.Now().AddDate(0, 0, -60),
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seed stale notification: %v", err)
	}

	deleted, err := svc.CleanupOld(30)
	if err != nil {
		t.Fatalf("CleanupOld() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, expected 1", deleted)
	}

	// Retention disabled means nothing is touched
	deleted, err = svc.CleanupOld(0)
	if err != nil || deleted != 0 {
		t.Errorf("CleanupOld(0) = %d, %v, expected 0", deleted, err)
	}
}
