package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/response"
)

type CommentService struct {
	db       *gorm.DB
	access   *AccessService
	notifier *Notifier
}

func NewCommentService(db *gorm.DB, notifier *Notifier) *CommentService {
	return &CommentService{
		db:       db,
		access:   NewAccessService(db),
		notifier: notifier,
	}
}

type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// CreateOnProject posts a comment on the project thread. Anyone who can
// view the project can comment.
func (s *CommentService) CreateOnProject(actor *models.User, projectID uint, req *CreateCommentRequest) (*models.Comment, error) {
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

	comment := models.Comment{
		ProjectID: &projectID,
		UserID:    actor.ID,
		Body:      req.Comment,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, response.NewServerError("failed to create comment")
	}

	s.notifier.NotifyProject(&project, actor.ID, "comment.created",
		"New comment",
		fmt.Sprintf("%s commented on the project %q", actor.Name, project.Title),
		map[string]interface{}{"project_id": project.ID, "comment_id": comment.ID})

	return s.getByID(comment.ID)
}

// CreateOnTask posts a comment on a task thread. Project editors and
// the task's assignee may comment.
func (s *CommentService) CreateOnTask(actor *models.User, taskID uint, req *CreateCommentRequest) (*models.Comment, error) {
	var task models.Task
	if err := s.db.Preload("Project").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	isAssignee := task.AssignedTo != nil && *task.AssignedTo == actor.ID
	if !CanEditProject(actor, task.Project) && !isAssignee {
		return nil, response.NewForbidden("you cannot comment on this task")
	}

	comment := models.Comment{
		TaskID: &taskID,
		UserID: actor.ID,
		Body:   req.Comment,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, response.NewServerError("failed to create comment")
	}

	s.notifier.NotifyProject(task.Project, actor.ID, "comment.created",
		"New comment",
		fmt.Sprintf("%s commented on the task %q", actor.Name, task.Title),
		map[string]interface{}{"project_id": task.ProjectID, "task_id": task.ID, "comment_id": comment.ID})

	return s.getByID(comment.ID)
}

func (s *CommentService) getByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForProject returns a project's thread, oldest first.
func (s *CommentService) ListForProject(actor *models.User, projectID uint) ([]models.Comment, error) {
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

	var comments []models.Comment
	err = s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// ListForTask returns a task's thread, oldest first.
func (s *CommentService) ListForTask(actor *models.User, taskID uint) ([]models.Comment, error) {
	var task models.Task
	if err := s.db.Preload("Project").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	isAssignee := task.AssignedTo != nil && *task.AssignedTo == actor.ID
	if !CanEditProject(actor, task.Project) && !isAssignee {
		return nil, response.NewForbidden("you cannot view comments on this task")
	}

	var comments []models.Comment
	err := s.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// Update edits a comment's body. Only the author may edit.
func (s *CommentService) Update(actor *models.User, commentID uint, req *CreateCommentRequest) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("comment not found")
		}
		return nil, err
	}

	if comment.UserID != actor.ID {
		return nil, response.NewForbidden("you can only edit your own comments")
	}

	if err := s.db.Model(&comment).Update("comment", req.Comment).Error; err != nil {
		return nil, response.NewServerError("failed to update comment")
	}

	return s.getByID(comment.ID)
}

// Delete removes a comment. The author, or anyone who can edit the
// project it belongs to, may delete it.
func (s *CommentService) Delete(actor *models.User, commentID uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("comment not found")
		}
		return err
	}

	if comment.UserID != actor.ID {
		project, err := s.resolveProject(&comment)
		if err != nil {
			return err
		}
		if !CanEditProject(actor, project) {
			return response.NewForbidden("you cannot delete this comment")
		}
	}

	if err := s.db.Delete(&comment).Error; err != nil {
		return response.NewServerError("failed to delete comment")
	}
	return nil
}

func (s *CommentService) resolveProject(comment *models.Comment) (*models.Project, error) {
	var projectID uint
	switch {
	case comment.ProjectID != nil:
		projectID = *comment.ProjectID
	case comment.TaskID != nil:
		var task models.Task
		if err := s.db.First(&task, *comment.TaskID).Error; err != nil {
			return nil, response.NewNotFound("task not found")
		}
		projectID = task.ProjectID
	default:
		return nil, response.NewServerError("comment has no thread")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}
	return &project, nil
}
