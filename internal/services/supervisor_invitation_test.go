package services

import (
	"testing"

	"github.com/bytehub/bytehub/internal/models"
)

func TestSupervisorInvitation_AcceptAssignsSupervisor(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	supervisor := createTestUser(t, db, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, db, owner)

	svc := NewSupervisorInvitationService(db, newTestNotifier(db))

	invitation, err := svc.Invite(owner, project.ID, &InviteSupervisorRequest{SupervisorID: supervisor.ID})
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}

	accepted, err := svc.Accept(supervisor, invitation.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if accepted.Status != models.InvitationAccepted {
		t.Errorf("Status = %q, expected accepted", accepted.Status)
	}

	var reloaded models.Project
	if err := db.First(&reloaded, project.ID).Error; err != nil {
		t.Fatalf("failed to reload project: %v", err)
	}
	if reloaded.SupervisorID == nil || *reloaded.SupervisorID != supervisor.ID {
		t.Error("project supervisor_id not set after accept")
	}
}

func TestSupervisorInvitation_ProjectAlreadySupervised(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	supA := createTestUser(t, db, "supA", models.RoleSupervisor)
	supB := createTestUser(t, db, "supB", models.RoleSupervisor)
	project := createTestProject(t, db, owner)

	svc := NewSupervisorInvitationService(db, newTestNotifier(db))

	invA, err := svc.Invite(owner, project.ID, &InviteSupervisorRequest{SupervisorID: supA.ID})
	if err != nil {
		t.Fatalf("Invite(supA) error = %v", err)
	}
	invB, err := svc.Invite(owner, project.ID, &InviteSupervisorRequest{SupervisorID: supB.ID})
	if err != nil {
		t.Fatalf("Invite(supB) error = %v", err)
	}

	if _, err := svc.Accept(supA, invA.ID); err != nil {
		t.Fatalf("Accept(supA) error = %v", err)
	}

	// The project gained a supervisor in the meantime
	_, err = svc.Accept(supB, invB.ID)
	expectAppError(t, err, 409)

	// New invites are blocked while supervised
	supC := createTestUser(t, db, "supC", models.RoleSupervisor)
	_, err = svc.Invite(owner, project.ID, &InviteSupervisorRequest{SupervisorID: supC.ID})
	expectAppError(t, err, 422)
}

func TestSupervisorInvitation_DuplicatePending(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	supervisor := createTestUser(t, db, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, db, owner)

	svc := NewSupervisorInvitationService(db, newTestNotifier(db))

	if _, err := svc.Invite(owner, project.ID, &InviteSupervisorRequest{SupervisorID: supervisor.ID}); err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	_, err := svc.Invite(owner, project.ID, &InviteSupervisorRequest{SupervisorID: supervisor.ID})
	expectAppError(t, err, 422)
}

func TestSupervisorInvitation_OnlyOwnerInvites(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	member := createTestUser(t, db, "member", models.RoleStudent)
	supervisor := createTestUser(t, db, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, db, owner)
	addTestMember(t, db, project.ID, member.ID)

	svc := NewSupervisorInvitationService(db, newTestNotifier(db))

	_, err := svc.Invite(member, project.ID, &InviteSupervisorRequest{SupervisorID: supervisor.ID})
	expectAppError(t, err, 403)
}

func TestProject_LeaveSupervision(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	supervisor := createTestUser(t, db, "supervisor", models.RoleSupervisor)
	project := createTestProject(t, db, owner)
	db.Model(project).Update("supervisor_id", supervisor.ID)

	svc := NewProjectService(db, newTestNotifier(db))

	if err := svc.LeaveSupervision(supervisor, project.ID); err != nil {
		t.Fatalf("LeaveSupervision() error = %v", err)
	}

	var reloaded models.Project
	db.First(&reloaded, project.ID)
	if reloaded.SupervisorID != nil {
		t.Error("supervisor_id should be cleared")
	}

	// The owner is told about it
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", owner.ID, "project.supervisor_left").
		Count(&count)
	if count != 1 {
		t.Errorf("expected 1 notification for the owner, got %d", count)
	}

	// A non-supervisor cannot leave
	err := svc.LeaveSupervision(owner, project.ID)
	expectAppError(t, err, 403)
}

func TestProject_AdminRemovesSupervisor(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleStudent)
	supervisor := createTestUser(t, db, "supervisor", models.RoleSupervisor)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	project := createTestProject(t, db, owner)
	db.Model(project).Update("supervisor_id", supervisor.ID)

	svc := NewProjectService(db, newTestNotifier(db))

	if err := svc.LeaveSupervision(admin, project.ID); err != nil {
		t.Fatalf("LeaveSupervision() by admin error = %v", err)
	}

	var reloaded models.Project
	db.First(&reloaded, project.ID)
	if reloaded.SupervisorID != nil {
		t.Error("supervisor_id should be cleared")
	}

	// A detached project has nobody to remove
	err := svc.LeaveSupervision(admin, project.ID)
	expectAppError(t, err, 403)
}
