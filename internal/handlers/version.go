package handlers

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/services"
	"github.com/bytehub/bytehub/pkg/response"
)

type VersionHandler struct {
	versionService *services.VersionService
}

func NewVersionHandler(db *gorm.DB, notifier *services.Notifier, uploadDir string) *VersionHandler {
	return &VersionHandler{
		versionService: services.NewVersionService(db, notifier, uploadDir),
	}
}

// Upload stores a new version file
// POST /api/project/:id/versions/upload  (multipart/form-data)
func (h *VersionHandler) Upload(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UploadVersionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	version, err := h.versionService.Upload(c, currentUser(c), projectID, &req, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, version)
}

// List returns a project's version history
// GET /api/project/:id/versions
func (h *VersionHandler) List(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	versions, err := h.versionService.ListForProject(currentUser(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, versions)
}

// Timeline returns a project's versions oldest-first
// GET /api/project/:id/versions/timeline
func (h *VersionHandler) Timeline(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	versions, err := h.versionService.Timeline(currentUser(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, versions)
}

// Get returns a single version
// GET /api/project/:id/versions/:versionId
func (h *VersionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "versionId")
	if !ok {
		return
	}

	version, err := h.versionService.Get(currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, version)
}

// Update edits a version's title and description
// PUT /api/project/versions/:versionId
func (h *VersionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "versionId")
	if !ok {
		return
	}

	var req services.UpdateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	version, err := h.versionService.Update(currentUser(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, version)
}

// Download streams the stored version file
// GET /api/project/versions/:versionId/download
func (h *VersionHandler) Download(c *gin.Context) {
	id, ok := pathID(c, "versionId")
	if !ok {
		return
	}

	version, err := h.versionService.Get(currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	downloadName := version.Title + filepath.Ext(version.FilePath)
	c.FileAttachment(version.FilePath, downloadName)
}

// Delete removes a version and its file
// DELETE /api/project/versions/:versionId
func (h *VersionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "versionId")
	if !ok {
		return
	}

	if err := h.versionService.Delete(currentUser(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "version deleted"})
}
