package services

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bytehub/bytehub/internal/models"
)

// newTestDB opens a fresh in-memory database, one per test, and
// migrates the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.StudentInvitation{},
		&models.SupervisorInvitation{},
		&models.Task{},
		&models.Comment{},
		&models.Rating{},
		&models.ProjectVersion{},
		&models.GitCommit{},
		&models.Notification{},
		&models.SystemLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@test.local", name),
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, owner *models.User) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:   "Test Project",
		OwnerID: owner.ID,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

func addTestMember(t *testing.T, db *gorm.DB, projectID, studentID uint) {
	t.Helper()

	member := &models.ProjectMember{
		ProjectID: projectID,
		StudentID: studentID,
		Status:    models.InvitationAccepted,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}
}

// immediateQueue delivers inline so tests see notifications without
// waiting on goroutines.
type immediateQueue struct {
	service *NotificationService
}

func newImmediateQueue(db *gorm.DB) *immediateQueue {
	return &immediateQueue{service: NewNotificationService(db)}
}

func (q *immediateQueue) Enqueue(task *NotifyTask) error {
	return q.service.Deliver(context.Background(), task)
}

func (q *immediateQueue) IsAsync() bool { return false }
func (q *immediateQueue) Close() error  { return nil }

func newTestNotifier(db *gorm.DB) *Notifier {
	return NewNotifier(db, newImmediateQueue(db))
}
