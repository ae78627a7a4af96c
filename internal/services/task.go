package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/response"
)

type TaskService struct {
	db       *gorm.DB
	access   *AccessService
	notifier *Notifier
}

func NewTaskService(db *gorm.DB, notifier *Notifier) *TaskService {
	return &TaskService{
		db:       db,
		access:   NewAccessService(db),
		notifier: notifier,
	}
}

type CreateTaskRequest struct {
	ProjectID   uint       `json:"project_id" binding:"required"`
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	AssignedTo  *uint      `json:"assigned_to"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	AssignedTo  *uint      `json:"assigned_to"`
}

func validTaskStatus(status string) bool {
	switch status {
	case models.TaskPending, models.TaskInProgress, models.TaskCompleted:
		return true
	}
	return false
}

// Create adds a task to a project. Anyone with project access may do
// this; an assignee must belong to the project.
func (s *TaskService) Create(actor *models.User, projectID uint, req *CreateTaskRequest) (*models.Task, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	ok, err := s.access.CanAccess(actor, &project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("you cannot create tasks in this project")
	}

	if req.AssignedTo != nil {
		if err := s.validateAssignee(&project, *req.AssignedTo); err != nil {
			return nil, err
		}
	}

	task := models.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskPending,
		Deadline:    req.Deadline,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   actor.ID,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, response.NewServerError("failed to create task")
	}

	s.notifier.NotifyProject(&project, actor.ID, "task.created",
		"New task",
		fmt.Sprintf("%s created the task %q in %q", actor.Name, task.Title, project.Title),
		map[string]interface{}{"project_id": project.ID, "task_id": task.ID})

	return &task, nil
}

// validateAssignee requires the assignee to belong to the project.
func (s *TaskService) validateAssignee(project *models.Project, assigneeID uint) error {
	if assigneeID == project.OwnerID {
		return nil
	}
	if project.SupervisorID != nil && *project.SupervisorID == assigneeID {
		return nil
	}
	ok, err := s.access.HasMembership(project.ID, assigneeID)
	if err != nil {
		return err
	}
	if !ok {
		return response.NewBadRequest("assignee is not part of this project")
	}
	return nil
}

// List returns a project's tasks, newest first, for anyone who can view
// the project.
func (s *TaskService) List(actor *models.User, projectID uint) ([]models.Task, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	ok, err := s.access.CanAccess(actor, &project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("you do not have access to this project")
	}

	var tasks []models.Task
	err = s.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// Get returns a single task for anyone who can view its project.
func (s *TaskService) Get(actor *models.User, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.Preload("Project").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	ok, err := s.access.CanAccess(actor, task.Project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("you do not have access to this task")
	}

	return &task, nil
}

// Update modifies a task. Anyone with project access may change any
// field; a reassignment still has to land on someone in the project.
func (s *TaskService) Update(actor *models.User, taskID uint, req *UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := s.db.Preload("Project").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	ok, err := s.access.CanAccess(actor, task.Project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("you cannot update this task")
	}

	updates := map[string]interface{}{}
	oldStatus := task.Status

	if req.Status != nil {
		if !validTaskStatus(*req.Status) {
			return nil, response.NewBadRequest("invalid task status")
		}
		updates["status"] = *req.Status
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Deadline != nil {
		updates["deadline"] = *req.Deadline
	}
	if req.AssignedTo != nil {
		if err := s.validateAssignee(task.Project, *req.AssignedTo); err != nil {
			return nil, err
		}
		updates["assigned_to"] = *req.AssignedTo
	}

	if len(updates) > 0 {
		if err := s.db.Model(&task).Updates(updates).Error; err != nil {
			return nil, response.NewServerError("failed to update task")
		}
	}

	if err := s.db.First(&task, taskID).Error; err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != oldStatus {
		s.notifier.NotifyProject(task.Project, actor.ID, "task.status_changed",
			"Task status changed",
			fmt.Sprintf("%s moved the task %q to %s", actor.Name, task.Title, task.Status),
			map[string]interface{}{
				"project_id": task.ProjectID,
				"task_id":    task.ID,
				"old_status": oldStatus,
				"new_status": task.Status,
			})
	}

	return &task, nil
}

// Delete removes a task and its comments.
func (s *TaskService) Delete(actor *models.User, taskID uint) error {
	var task models.Task
	if err := s.db.Preload("Project").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("task not found")
		}
		return err
	}

	// Only the project owner and admins may remove tasks; supervisors
	// can edit them but not erase the record.
	if !CanDeleteProject(actor, task.Project) {
		return response.NewForbidden("you cannot delete this task")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, taskID).Error
	})
	if err != nil {
		return response.NewServerError("failed to delete task")
	}

	return nil
}
