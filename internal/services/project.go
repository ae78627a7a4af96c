package services

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/response"
)

type ProjectService struct {
	db       *gorm.DB
	access   *AccessService
	notifier *Notifier
}

func NewProjectService(db *gorm.DB, notifier *Notifier) *ProjectService {
	return &ProjectService{
		db:       db,
		access:   NewAccessService(db),
		notifier: notifier,
	}
}

type CreateProjectRequest struct {
	Title         string `json:"title" binding:"required,max=255"`
	Description   string `json:"description"`
	GithubRepoURL string `json:"github_repo_url"`
	GithubBranch  string `json:"github_branch"`
}

type UpdateProjectRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	GithubRepoURL *string `json:"github_repo_url"`
	GithubBranch  *string `json:"github_branch"`
}

// Create makes a new project owned by the acting student.
func (s *ProjectService) Create(owner *models.User, req *CreateProjectRequest) (*models.Project, error) {
	if owner.Role != models.RoleStudent && owner.Role != models.RoleAdmin {
		return nil, response.NewForbidden("only students can create projects")
	}

	project := models.Project{
		Title:         req.Title,
		Description:   req.Description,
		OwnerID:       owner.ID,
		GithubRepoURL: req.GithubRepoURL,
		GithubBranch:  req.GithubBranch,
	}
	if project.GithubBranch == "" {
		project.GithubBranch = "main"
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, response.NewServerError("failed to create project")
	}

	return s.GetByID(project.ID)
}

// GetByID loads a project with its owner and supervisor, without any
// access check. Callers enforce access.
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.Preload("Owner").Preload("Supervisor").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

// Get loads a project the user is allowed to view.
func (s *ProjectService) Get(user *models.User, id uint) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.CanAccess(user, project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("you do not have access to this project")
	}

	return project, nil
}

// List returns the projects visible to the user: admins see every
// project, supervisors the ones they supervise, students the ones they
// own or joined.
func (s *ProjectService) List(user *models.User) ([]models.Project, error) {
	var projects []models.Project
	query := s.db.Preload("Owner").Preload("Supervisor").Order("created_at DESC")

	switch user.Role {
	case models.RoleAdmin:
		// no filter
	case models.RoleSupervisor:
		query = query.Where("supervisor_id = ?", user.ID)
	default:
		memberProjects := s.db.Model(&models.ProjectMember{}).
			Select("project_id").
			Where("student_id = ? AND status = ?", user.ID, models.InvitationAccepted)
		query = query.Where("owner_id = ? OR id IN (?)", user.ID, memberProjects)
	}

	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update modifies a project. Owner, supervisor and admin may edit.
func (s *ProjectService) Update(user *models.User, id uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !CanEditProject(user, project) {
		return nil, response.NewForbidden("you cannot edit this project")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.GithubRepoURL != nil {
		updates["github_repo_url"] = *req.GithubRepoURL
	}
	if req.GithubBranch != nil {
		updates["github_branch"] = *req.GithubBranch
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, response.NewServerError("failed to update project")
		}
	}

	updated, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyProject(updated, user.ID, "project.updated",
		"Project updated",
		fmt.Sprintf("%s updated the project %q", user.Name, updated.Title),
		map[string]interface{}{"project_id": updated.ID})

	return updated, nil
}

// Delete removes a project and everything hanging off it. Only the
// owner or an admin may delete.
func (s *ProjectService) Delete(user *models.User, id uint) error {
	project, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if !CanDeleteProject(user, project) {
		return response.NewForbidden("you cannot delete this project")
	}

	recipients, _ := s.notifier.ProjectRecipients(project, user.ID)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.Task{}, &models.Comment{}, &models.Rating{},
			&models.ProjectVersion{}, &models.GitCommit{},
			&models.ProjectMember{}, &models.StudentInvitation{},
			&models.SupervisorInvitation{},
		} {
			if err := tx.Where("project_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	if err != nil {
		return response.NewServerError("failed to delete project")
	}

	s.notifier.NotifyUsers(recipients, "project.deleted",
		"Project deleted",
		fmt.Sprintf("%s deleted the project %q", user.Name, project.Title),
		map[string]interface{}{"project_id": project.ID, "title": project.Title})

	return nil
}

type ProjectProgress struct {
	Total     int64 `json:"total_tasks"`
	Completed int64 `json:"completed_tasks"`
	Percent   int   `json:"progress_percentage"`
}

// Progress derives completion from the project's tasks: the rounded
// percentage of completed tasks, or zero when there are none.
func (s *ProjectService) Progress(user *models.User, id uint) (*ProjectProgress, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.CanAccess(user, project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("you do not have access to this project")
	}

	var total, completed int64
	if err := s.db.Model(&models.Task{}).Where("project_id = ?", id).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Task{}).
		Where("project_id = ? AND status = ?", id, models.TaskCompleted).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	progress := &ProjectProgress{Total: total, Completed: completed}
	if total > 0 {
		progress.Percent = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return progress, nil
}

// LeaveSupervision detaches the supervisor from a project. The current
// supervisor steps down, or an admin removes them.
func (s *ProjectService) LeaveSupervision(user *models.User, id uint) error {
	project, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if project.SupervisorID == nil {
		return response.NewForbidden("this project has no supervisor")
	}
	if *project.SupervisorID != user.ID && user.Role != models.RoleAdmin {
		return response.NewForbidden("you are not supervising this project")
	}

	if err := s.db.Model(project).Update("supervisor_id", nil).Error; err != nil {
		return response.NewServerError("failed to leave supervision")
	}

	s.notifier.NotifyUser(project.OwnerID, "project.supervisor_left",
		"Supervisor left",
		fmt.Sprintf("%s is no longer supervising %q", user.Name, project.Title),
		map[string]interface{}{"project_id": project.ID})

	return nil
}

// Members returns the accepted members of a project with their user records.
func (s *ProjectService) Members(user *models.User, id uint) ([]models.ProjectMember, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.CanAccess(user, project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("you do not have access to this project")
	}

	var members []models.ProjectMember
	err = s.db.Preload("Student").
		Where("project_id = ? AND status = ?", id, models.InvitationAccepted).
		Find(&members).Error
	return members, err
}
