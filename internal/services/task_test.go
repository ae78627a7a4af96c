package services

import (
	"encoding/json"
	"testing"

	"github.com/bytehub/bytehub/internal/models"
)

func TestTask_CreateAndNotify(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	member := createTestUser(t, db, "member", models.RoleStudent)
	project := createTestProject(t, db, owner)
	addTestMember(t, db, project.ID, member.ID)

	svc := NewTaskService(db, newTestNotifier(db))

	task, err := svc.Create(owner, project.ID, &CreateTaskRequest{
		Title:      "Write report",
		AssignedTo: &member.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.Status != models.TaskPending {
		t.Errorf("Status = %q, expected pending", task.Status)
	}

	// The member hears about the new task, the actor does not
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", member.ID, "task.created").
		Count(&count)
	if count != 1 {
		t.Errorf("member notifications = %d, expected 1", count)
	}
	db.Model(&models.Notification{}).Where("user_id = ?", owner.ID).Count(&count)
	if count != 0 {
		t.Errorf("actor should receive no notification, got %d", count)
	}
}

func TestTask_AssigneeOutsideProject(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	outsider := createTestUser(t, db, "outsider", models.RoleStudent)
	project := createTestProject(t, db, owner)

	svc := NewTaskService(db, newTestNotifier(db))

	_, err := svc.Create(owner, project.ID, &CreateTaskRequest{
		Title:      "Orphan task",
		AssignedTo: &outsider.ID,
	})
	expectAppError(t, err, 400)
}

func TestTask_MemberCanCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	member := createTestUser(t, db, "member", models.RoleStudent)
	project := createTestProject(t, db, owner)
	addTestMember(t, db, project.ID, member.ID)

	svc := NewTaskService(db, newTestNotifier(db))

	task, err := svc.Create(member, project.ID, &CreateTaskRequest{Title: "Member task"})
	if err != nil {
		t.Fatalf("Create() by member error = %v", err)
	}
	if task.CreatedBy != member.ID {
		t.Errorf("CreatedBy = %d, expected %d", task.CreatedBy, member.ID)
	}
}

func TestTask_OutsiderCannotCreateOrUpdate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	outsider := createTestUser(t, db, "outsider", models.RoleStudent)
	project := createTestProject(t, db, owner)

	svc := NewTaskService(db, newTestNotifier(db))

	_, err := svc.Create(outsider, project.ID, &CreateTaskRequest{Title: "Nope"})
	expectAppError(t, err, 403)

	task, err := svc.Create(owner, project.ID, &CreateTaskRequest{Title: "Real"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	title := "Hijacked"
	_, err = svc.Update(outsider, task.ID, &UpdateTaskRequest{Title: &title})
	expectAppError(t, err, 403)
}

func TestTask_MemberEditsAnyField(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	member := createTestUser(t, db, "member", models.RoleStudent)
	project := createTestProject(t, db, owner)
	addTestMember(t, db, project.ID, member.ID)

	svc := NewTaskService(db, newTestNotifier(db))

	task, err := svc.Create(owner, project.ID, &CreateTaskRequest{
		Title:      "Do it",
		AssignedTo: &member.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	status := models.TaskInProgress
	title := "Do it properly"
	updated, err := svc.Update(member, task.ID, &UpdateTaskRequest{Status: &status, Title: &title})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != models.TaskInProgress {
		t.Errorf("Status = %q, expected in_progress", updated.Status)
	}
	if updated.Title != title {
		t.Errorf("Title = %q, expected %q", updated.Title, title)
	}

	// Bad status values bounce
	bad := "done-ish"
	_, err = svc.Update(member, task.ID, &UpdateTaskRequest{Status: &bad})
	expectAppError(t, err, 400)
}

func TestTask_StatusChangeNotifies(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	member := createTestUser(t, db, "member", models.RoleStudent)
	project := createTestProject(t, db, owner)
	addTestMember(t, db, project.ID, member.ID)

	svc := NewTaskService(db, newTestNotifier(db))

	task, err := svc.Create(owner, project.ID, &CreateTaskRequest{
		Title:      "Ship it",
		AssignedTo: &member.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	status := models.TaskCompleted
	if _, err := svc.Update(member, task.ID, &UpdateTaskRequest{Status: &status}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// The owner hears about the status change; the acting member does not
	var notif models.Notification
	if err := db.Where("user_id = ? AND type = ?", owner.ID, "task.status_changed").
		First(&notif).Error; err != nil {
		t.Fatalf("owner status-change notification missing: %v", err)
	}

	// The payload carries both ends of the transition
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(notif.Data), &data); err != nil {
		t.Fatalf("Data is not valid JSON: %v", err)
	}
	if data["old_status"] != models.TaskPending {
		t.Errorf("old_status = %v, expected pending", data["old_status"])
	}
	if data["new_status"] != models.TaskCompleted {
		t.Errorf("new_status = %v, expected completed", data["new_status"])
	}

	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", member.ID, "task.status_changed").
		Count(&count)
	if count != 0 {
		t.Errorf("actor should not be notified, got %d", count)
	}
}

func TestTask_DeleteRemovesComments(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	project := createTestProject(t, db, owner)

	svc := NewTaskService(db, newTestNotifier(db))

	task, err := svc.Create(owner, project.ID, &CreateTaskRequest{Title: "Temp"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	db.Create(&models.Comment{TaskID: &task.ID, UserID: owner.ID, Body: "note"})

	if err := svc.Delete(owner, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var count int64
	db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&count)
	if count != 0 {
		t.Errorf("task comments not cleaned up: %d left", count)
	}
}
