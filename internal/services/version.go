package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/response"
)

// Uploads are capped at 50 MB.
const maxVersionFileSize = 50 << 20

type VersionService struct {
	db        *gorm.DB
	access    *AccessService
	notifier  *Notifier
	uploadDir string
}

func NewVersionService(db *gorm.DB, notifier *Notifier, uploadDir string) *VersionService {
	return &VersionService{
		db:        db,
		access:    NewAccessService(db),
		notifier:  notifier,
		uploadDir: uploadDir,
	}
}

type UploadVersionRequest struct {
	Title       string `form:"version_title" binding:"required,max=255"`
	Description string `form:"version_description"`
}

// Upload stores a new version file on disk and appends a version row.
// Files are stored under a uuid name so uploads can never collide or
// escape the upload directory.
func (s *VersionService) Upload(c *gin.Context, actor *models.User, projectID uint, req *UploadVersionRequest, file *multipart.FileHeader) (*models.ProjectVersion, error) {
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

	if file.Size > maxVersionFileSize {
		return nil, response.NewBadRequest("file exceeds the 50MB limit")
	}

	dir := filepath.Join(s.uploadDir, fmt.Sprintf("project_%d", projectID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, response.NewServerError("failed to prepare upload directory")
	}

	ext := filepath.Ext(file.Filename)
	storedName := uuid.NewString() + ext
	dest := filepath.Join(dir, storedName)

	if err := c.SaveUploadedFile(file, dest); err != nil {
		return nil, response.NewServerError("failed to store uploaded file")
	}

	version := models.ProjectVersion{
		ProjectID:   projectID,
		UserID:      actor.ID,
		Title:       req.Title,
		Description: req.Description,
		FilePath:    dest,
	}
	if err := s.db.Create(&version).Error; err != nil {
		os.Remove(dest)
		return nil, response.NewServerError("failed to record version")
	}

	s.notifier.NotifyProject(&project, actor.ID, "version.uploaded",
		"New version uploaded",
		fmt.Sprintf("%s uploaded version %q to %q", actor.Name, version.Title, project.Title),
		map[string]interface{}{"project_id": project.ID, "version_id": version.ID})

	return &version, nil
}

// ListForProject returns a project's version history, newest first.
func (s *VersionService) ListForProject(actor *models.User, projectID uint) ([]models.ProjectVersion, error) {
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

	var versions []models.ProjectVersion
	err = s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&versions).Error
	return versions, err
}

// Timeline returns a project's versions in upload order, oldest first.
func (s *VersionService) Timeline(actor *models.User, projectID uint) ([]models.ProjectVersion, error) {
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

	var versions []models.ProjectVersion
	err = s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&versions).Error
	return versions, err
}

// Get returns a single version for anyone who can view its project.
func (s *VersionService) Get(actor *models.User, versionID uint) (*models.ProjectVersion, error) {
	var version models.ProjectVersion
	if err := s.db.Preload("User").First(&version, versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("version not found")
		}
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, version.ProjectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	ok, err := s.access.CanAccess(actor, &project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("you do not have access to this version")
	}

	return &version, nil
}

type UpdateVersionRequest struct {
	Title       *string `json:"version_title" binding:"omitempty,max=255"`
	Description *string `json:"version_description"`
}

// Update edits a version's title and description. The uploader, project
// editors and admins may edit; the stored file itself is immutable.
func (s *VersionService) Update(actor *models.User, versionID uint, req *UpdateVersionRequest) (*models.ProjectVersion, error) {
	var version models.ProjectVersion
	if err := s.db.First(&version, versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("version not found")
		}
		return nil, err
	}

	if version.UserID != actor.ID {
		var project models.Project
		if err := s.db.First(&project, version.ProjectID).Error; err != nil {
			return nil, response.NewNotFound("project not found")
		}
		if !CanEditProject(actor, &project) {
			return nil, response.NewForbidden("you cannot edit this version")
		}
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := s.db.Model(&version).Updates(updates).Error; err != nil {
			return nil, response.NewServerError("failed to update version")
		}
	}

	return s.Get(actor, versionID)
}

// Delete removes a version row and its file. The uploader, project
// editors and admins may delete.
func (s *VersionService) Delete(actor *models.User, versionID uint) error {
	var version models.ProjectVersion
	if err := s.db.First(&version, versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("version not found")
		}
		return err
	}

	if version.UserID != actor.ID {
		var project models.Project
		if err := s.db.First(&project, version.ProjectID).Error; err != nil {
			return response.NewNotFound("project not found")
		}
		if !CanEditProject(actor, &project) {
			return response.NewForbidden("you cannot delete this version")
		}
	}

	if err := s.db.Delete(&version).Error; err != nil {
		return response.NewServerError("failed to delete version")
	}

	// Best-effort file removal; the row is already gone.
	os.Remove(version.FilePath)

	return nil
}
