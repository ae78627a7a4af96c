package services

import (
	"testing"

	"github.com/bytehub/bytehub/internal/models"
)

func TestUser_ListByRole(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "zed", models.RoleStudent)
	createTestUser(t, db, "amy", models.RoleStudent)
	createTestUser(t, db, "prof", models.RoleSupervisor)

	svc := NewUserService(db)

	students, err := svc.ListByRole(models.RoleStudent)
	if err != nil {
		t.Fatalf("ListByRole() error = %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("students = %d, expected 2", len(students))
	}
	if students[0].Name != "amy" {
		t.Errorf("first student = %q, expected amy (name order)", students[0].Name)
	}
}

func TestUser_ListFilters(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", models.RoleStudent)
	createTestUser(t, db, "bob", models.RoleStudent)
	createTestUser(t, db, "prof", models.RoleSupervisor)

	svc := NewUserService(db)

	resp, err := svc.List(&UserListRequest{Role: "student"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, expected 2", resp.Total)
	}

	resp, err = svc.List(&UserListRequest{Search: "alice"})
	if err != nil {
		t.Fatalf("List(search) error = %v", err)
	}
	if resp.Total != 1 || resp.Items[0].Name != "alice" {
		t.Errorf("search result = %+v, expected alice only", resp.Items)
	}
}

func TestUser_UpdateRole(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "casey", models.RoleStudent)

	svc := NewUserService(db)

	role := "supervisor"
	updated, err := svc.Update(user.ID, &UpdateUserRequest{Role: &role})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Role != models.RoleSupervisor {
		t.Errorf("Role = %q, expected supervisor", updated.Role)
	}

	bad := "superuser"
	_, err = svc.Update(user.ID, &UpdateUserRequest{Role: &bad})
	expectAppError(t, err, 400)
}

func TestUser_DeleteGuards(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "root", models.RoleAdmin)
	victim := createTestUser(t, db, "gone", models.RoleStudent)

	svc := NewUserService(db)

	expectAppError(t, svc.Delete(admin.ID, admin.ID), 400)

	if err := svc.Delete(admin.ID, victim.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	expectAppError(t, svc.Delete(admin.ID, victim.ID), 404)
}
