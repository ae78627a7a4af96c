package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
)

// Project access rules. Admins see everything; the owner and the
// accepted supervisor can edit; only the owner (or an admin) can
// delete; accepted members can view.

// CanAccessProject reports whether the user may view the project.
// hasMembership is true when the user is an accepted project member.
// A nil user or project always fails.
func CanAccessProject(user *models.User, project *models.Project, hasMembership bool) bool {
	if user == nil || project == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	if project.OwnerID == user.ID {
		return true
	}
	if project.SupervisorID != nil && *project.SupervisorID == user.ID {
		return true
	}
	return hasMembership
}

// CanEditProject reports whether the user may modify the project and
// its tasks.
func CanEditProject(user *models.User, project *models.Project) bool {
	if user == nil || project == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	if project.OwnerID == user.ID {
		return true
	}
	return project.SupervisorID != nil && *project.SupervisorID == user.ID
}

// CanDeleteProject reports whether the user may delete the project.
func CanDeleteProject(user *models.User, project *models.Project) bool {
	if user == nil || project == nil {
		return false
	}
	return user.Role == models.RoleAdmin || project.OwnerID == user.ID
}

// AccessService resolves access checks against the database.
type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// HasMembership reports whether the user is an accepted member of the project.
func (s *AccessService) HasMembership(projectID, userID uint) (bool, error) {
	var member models.ProjectMember
	err := s.db.Where("project_id = ? AND student_id = ? AND status = ?",
		projectID, userID, models.InvitationAccepted).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CanAccess resolves membership and applies the view rule.
func (s *AccessService) CanAccess(user *models.User, project *models.Project) (bool, error) {
	if user.Role == models.RoleAdmin || project.OwnerID == user.ID ||
		(project.SupervisorID != nil && *project.SupervisorID == user.ID) {
		return true, nil
	}
	return s.HasMembership(project.ID, user.ID)
}
