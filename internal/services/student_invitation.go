package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/response"
)

type StudentInvitationService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewStudentInvitationService(db *gorm.DB, notifier *Notifier) *StudentInvitationService {
	return &StudentInvitationService{db: db, notifier: notifier}
}

type InviteStudentRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
}

// Invite sends (or re-sends) a membership invitation to a student.
// A pending invitation for the same pair is a conflict; a terminal one
// is reset to pending on the same row.
func (s *StudentInvitationService) Invite(actor *models.User, projectID uint, req *InviteStudentRequest) (*models.StudentInvitation, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	if !CanEditProject(actor, &project) {
		return nil, response.NewForbidden("you cannot invite students to this project")
	}

	var student models.User
	if err := s.db.First(&student, req.StudentID).Error; err != nil {
		return nil, response.NewNotFound("student not found")
	}
	if student.Role != models.RoleStudent {
		return nil, response.NewBadRequest("invited user is not a student")
	}
	if student.ID == project.OwnerID {
		return nil, response.NewUnprocessable("the owner is already part of the project")
	}

	var member models.ProjectMember
	err := s.db.Where("project_id = ? AND student_id = ?", projectID, student.ID).First(&member).Error
	if err == nil {
		return nil, response.NewUnprocessable("student is already a member of this project")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var invitation models.StudentInvitation
	err = s.db.Where("project_id = ? AND student_id = ?", projectID, student.ID).First(&invitation).Error
	switch {
	case err == nil:
		if invitation.Status == models.InvitationPending {
			return nil, response.NewUnprocessable("an invitation for this student is already pending")
		}
		invitation.Status = models.InvitationPending
		invitation.SentByID = actor.ID
		if err := s.db.Save(&invitation).Error; err != nil {
			return nil, response.NewServerError("failed to re-send invitation")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		invitation = models.StudentInvitation{
			ProjectID: projectID,
			StudentID: student.ID,
			SentByID:  actor.ID,
			Status:    models.InvitationPending,
		}
		if err := s.db.Create(&invitation).Error; err != nil {
			return nil, response.NewServerError("failed to create invitation")
		}
	default:
		return nil, err
	}

	s.notifier.NotifyUser(student.ID, "invitation.received",
		"Project invitation",
		fmt.Sprintf("%s invited you to join the project %q", actor.Name, project.Title),
		map[string]interface{}{"project_id": project.ID, "invitation_id": invitation.ID})

	return &invitation, nil
}

// ListForProject returns a project's invitations for its managers.
func (s *StudentInvitationService) ListForProject(actor *models.User, projectID uint) ([]models.StudentInvitation, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	if !CanEditProject(actor, &project) {
		return nil, response.NewForbidden("you cannot view invitations for this project")
	}

	var invitations []models.StudentInvitation
	err := s.db.Preload("Student").Preload("SentBy").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// ListForStudent returns the pending invitations addressed to the student.
func (s *StudentInvitationService) ListForStudent(studentID uint) ([]models.StudentInvitation, error) {
	var invitations []models.StudentInvitation
	err := s.db.Preload("Project").Preload("Project.Owner").Preload("SentBy").
		Where("student_id = ? AND status = ?", studentID, models.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// Accept turns a pending invitation into a membership. The status flip
// and the membership row are written in one transaction, so an accepted
// invitation always has its membership.
func (s *StudentInvitationService) Accept(actor *models.User, invitationID uint) (*models.StudentInvitation, error) {
	var invitation models.StudentInvitation
	if err := s.db.Preload("Project").First(&invitation, invitationID).Error; err != nil {
		return nil, response.NewNotFound("invitation not found")
	}

	if invitation.StudentID != actor.ID {
		return nil, response.NewForbidden("this invitation is not addressed to you")
	}
	if invitation.Status != models.InvitationPending {
		return nil, response.NewConflict("invitation has already been responded to")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&invitation).Update("status", models.InvitationAccepted).Error; err != nil {
			return err
		}

		var member models.ProjectMember
		err := tx.Where("project_id = ? AND student_id = ?", invitation.ProjectID, invitation.StudentID).
			First(&member).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			member = models.ProjectMember{
				ProjectID: invitation.ProjectID,
				StudentID: invitation.StudentID,
				Status:    models.InvitationAccepted,
			}
			return tx.Create(&member).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&member).Update("status", models.InvitationAccepted).Error
	})
	if err != nil {
		return nil, response.NewServerError("failed to accept invitation")
	}
	invitation.Status = models.InvitationAccepted

	if invitation.Project != nil {
		s.notifier.NotifyProject(invitation.Project, actor.ID, "invitation.accepted",
			"Invitation accepted",
			fmt.Sprintf("%s joined the project %q", actor.Name, invitation.Project.Title),
			map[string]interface{}{"project_id": invitation.ProjectID, "student_id": actor.ID})
	}

	return &invitation, nil
}

// Reject declines a pending invitation.
func (s *StudentInvitationService) Reject(actor *models.User, invitationID uint) (*models.StudentInvitation, error) {
	var invitation models.StudentInvitation
	if err := s.db.Preload("Project").First(&invitation, invitationID).Error; err != nil {
		return nil, response.NewNotFound("invitation not found")
	}

	if invitation.StudentID != actor.ID {
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
		s.notifier.NotifyUser(invitation.SentByID, "invitation.rejected",
			"Invitation declined",
			fmt.Sprintf("%s declined the invitation to %q", actor.Name, invitation.Project.Title),
			map[string]interface{}{"project_id": invitation.ProjectID, "student_id": actor.ID})
	}

	return &invitation, nil
}

// RemoveMember takes an accepted member out of a project. The member's
// rows elsewhere (comments, ratings) stay.
func (s *StudentInvitationService) RemoveMember(actor *models.User, projectID, studentID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return response.NewNotFound("project not found")
	}

	if !CanEditProject(actor, &project) && actor.ID != studentID {
		return response.NewForbidden("you cannot remove this member")
	}

	result := s.db.Where("project_id = ? AND student_id = ?", projectID, studentID).
		Delete(&models.ProjectMember{})
	if result.Error != nil {
		return response.NewServerError("failed to remove member")
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("membership not found")
	}

	// Allow a future re-invite by clearing the invitation row too.
	s.db.Where("project_id = ? AND student_id = ?", projectID, studentID).
		Delete(&models.StudentInvitation{})

	return nil
}
