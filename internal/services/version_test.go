package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
)

func seedTestVersion(t *testing.T, db *gorm.DB, projectID, userID uint, title string) *models.ProjectVersion {
	t.Helper()
	version := models.ProjectVersion{
		ProjectID: projectID,
		UserID:    userID,
		Title:     title,
		FilePath:  "/tmp/does-not-exist.zip",
	}
	if err := db.Create(&version).Error; err != nil {
		t.Fatalf("seed version: %v", err)
	}
	return &version
}

func TestVersion_UpdatePermissions(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	uploader := createTestUser(t, db, "uploader", models.RoleStudent)
	other := createTestUser(t, db, "other", models.RoleStudent)
	project := createTestProject(t, db, owner)
	addTestMember(t, db, project.ID, uploader.ID)
	addTestMember(t, db, project.ID, other.ID)

	svc := NewVersionService(db, newTestNotifier(db), t.TempDir())
	version := seedTestVersion(t, db, project.ID, uploader.ID, "v1")

	title := "v1.1"
	updated, err := svc.Update(uploader, version.ID, &UpdateVersionRequest{Title: &title})
	if err != nil {
		t.Fatalf("uploader Update() error = %v", err)
	}
	if updated.Title != "v1.1" {
		t.Errorf("Title = %q, expected v1.1", updated.Title)
	}

	// The project owner can edit too, a plain member cannot
	desc := "owner note"
	if _, err := svc.Update(owner, version.ID, &UpdateVersionRequest{Description: &desc}); err != nil {
		t.Fatalf("owner Update() error = %v", err)
	}
	_, err = svc.Update(other, version.ID, &UpdateVersionRequest{Title: &title})
	expectAppError(t, err, 403)
}

func TestVersion_GetRequiresAccess(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	outsider := createTestUser(t, db, "outsider", models.RoleStudent)
	project := createTestProject(t, db, owner)

	svc := NewVersionService(db, newTestNotifier(db), t.TempDir())
	version := seedTestVersion(t, db, project.ID, owner.ID, "v1")

	if _, err := svc.Get(owner, version.ID); err != nil {
		t.Fatalf("owner Get() error = %v", err)
	}
	_, err := svc.Get(outsider, version.ID)
	expectAppError(t, err, 403)
}

func TestVersion_TimelineOrder(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	project := createTestProject(t, db, owner)

	svc := NewVersionService(db, newTestNotifier(db), t.TempDir())
	seedTestVersion(t, db, project.ID, owner.ID, "v1")
	seedTestVersion(t, db, project.ID, owner.ID, "v2")

	timeline, err := svc.Timeline(owner, project.ID)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("len(timeline) = %d, expected 2", len(timeline))
	}
	if timeline[0].Title != "v1" || timeline[1].Title != "v2" {
		t.Errorf("timeline order = %q, %q, expected v1 then v2", timeline[0].Title, timeline[1].Title)
	}
}

func TestVersion_DeleteByUploader(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	uploader := createTestUser(t, db, "uploader", models.RoleStudent)
	project := createTestProject(t, db, owner)
	addTestMember(t, db, project.ID, uploader.ID)

	svc := NewVersionService(db, newTestNotifier(db), t.TempDir())
	version := seedTestVersion(t, db, project.ID, uploader.ID, "v1")

	if err := svc.Delete(uploader, version.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	expectAppError(t, svc.Delete(uploader, version.ID), 404)
}
