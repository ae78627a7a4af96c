package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/response"
)

type SupervisorInvitationService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewSupervisorInvitationService(db *gorm.DB, notifier *Notifier) *SupervisorInvitationService {
	return &SupervisorInvitationService{db: db, notifier: notifier}
}

type InviteSupervisorRequest struct {
	SupervisorID uint `json:"supervisor_id" binding:"required"`
}

// Invite asks a supervisor to take over a project. Only the owner may
// ask, only while the project has no supervisor, and only one pending
// request per (project, supervisor) pair.
func (s *SupervisorInvitationService) Invite(actor *models.User, projectID uint, req *InviteSupervisorRequest) (*models.SupervisorInvitation, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	if project.OwnerID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, response.NewForbidden("only the project owner can invite a supervisor")
	}
	if project.SupervisorID != nil {
		return nil, response.NewUnprocessable("project already has a supervisor")
	}

	var supervisor models.User
	if err := s.db.First(&supervisor, req.SupervisorID).Error; err != nil {
		return nil, response.NewNotFound("supervisor not found")
	}
	if supervisor.Role != models.RoleSupervisor {
		return nil, response.NewBadRequest("invited user is not a supervisor")
	}

	var existing models.SupervisorInvitation
	err := s.db.Where("project_id = ? AND supervisor_id = ? AND status = ?",
		projectID, supervisor.ID, models.InvitationPending).First(&existing).Error
	if err == nil {
		return nil, response.NewUnprocessable("an invitation for this supervisor is already pending")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	invitation := models.SupervisorInvitation{
		ProjectID:    projectID,
		StudentID:    project.OwnerID,
		SupervisorID: supervisor.ID,
		Status:       models.InvitationPending,
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, response.NewServerError("failed to create invitation")
	}

	s.notifier.NotifyUser(supervisor.ID, "supervision.requested",
		"Supervision request",
		fmt.Sprintf("%s asked you to supervise the project %q", actor.Name, project.Title),
		map[string]interface{}{"project_id": project.ID, "invitation_id": invitation.ID})

	return &invitation, nil
}

// ListForSupervisor returns the pending requests addressed to the supervisor.
func (s *SupervisorInvitationService) ListForSupervisor(supervisorID uint) ([]models.SupervisorInvitation, error) {
	var invitations []models.SupervisorInvitation
	err := s.db.Preload("Project").Preload("Project.Owner").Preload("Student").
		Where("supervisor_id = ? AND status = ?", supervisorID, models.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// ListForProject returns a project's supervision requests for its owner.
func (s *SupervisorInvitationService) ListForProject(actor *models.User, projectID uint) ([]models.SupervisorInvitation, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	if project.OwnerID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, response.NewForbidden("you cannot view supervision requests for this project")
	}

	var invitations []models.SupervisorInvitation
	err := s.db.Preload("Supervisor").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// Accept makes the supervisor the project's supervisor. The status flip
// and the project update happen in one transaction. A project that
// gained a supervisor in the meantime rejects the acceptance.
func (s *SupervisorInvitationService) Accept(actor *models.User, invitationID uint) (*models.SupervisorInvitation, error) {
	var invitation models.SupervisorInvitation
	if err := s.db.Preload("Project").First(&invitation, invitationID).Error; err != nil {
		return nil, response.NewNotFound("invitation not found")
	}

	if invitation.SupervisorID != actor.ID {
		return nil, response.NewForbidden("this invitation is not addressed to you")
	}
	if invitation.Status != models.InvitationPending {
		return nil, response.NewConflict("invitation has already been responded to")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, invitation.ProjectID).Error; err != nil {
			return err
		}
		if project.SupervisorID != nil {
			return response.NewConflict("project already has a supervisor")
		}

		if err := tx.Model(&project).Update("supervisor_id", actor.ID).Error; err != nil {
			return err
		}
		return tx.Model(&invitation).Update("status", models.InvitationAccepted).Error
	})
	if err != nil {
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, response.NewServerError("failed to accept invitation")
	}
	invitation.Status = models.InvitationAccepted

	if invitation.Project != nil {
		sup := actor.ID
		invitation.Project.SupervisorID = &sup
		s.notifier.NotifyProject(invitation.Project, actor.ID, "supervision.accepted",
			"Supervisor joined",
			fmt.Sprintf("%s is now supervising the project %q", actor.Name, invitation.Project.Title),
			map[string]interface{}{"project_id": invitation.ProjectID, "supervisor_id": actor.ID})
	}

	return &invitation, nil
}

// Reject declines a pending supervision request.
func (s *SupervisorInvitationService) Reject(actor *models.User, invitationID uint) (*models.SupervisorInvitation, error) {
	var invitation models.SupervisorInvitation
	if err := s.db.Preload("Project").First(&invitation, invitationID).Error; err != nil {
		return nil, response.NewNotFound("invitation not found")
	}

	if invitation.SupervisorID != actor.ID {
		return nil, response.NewForbidden("this invitation is not addressed to you")
	}
	if invitation.Status != models.InvitationPending {
		return nil, response.NewConflict("invitation has already been responded to")
	}

	if err := s.db.Model(&invitation).Update("status", models.InvitationRejected).Error; err != nil {
		return nil, response.NewServerError("failed to reject invitation")
	}
	invitation.Status = models.InvitationRejected

	if invitation.Project != nil {
		s.notifier.NotifyUser(invitation.StudentID, "supervision.rejected",
			"Supervision declined",
			fmt.Sprintf("%s declined to supervise %q", actor.Name, invitation.Project.Title),
			map[string]interface{}{"project_id": invitation.ProjectID})
	}

	return &invitation, nil
}
