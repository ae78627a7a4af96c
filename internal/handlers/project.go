package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/services"
	"github.com/bytehub/bytehub/pkg/response"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	memberService  *services.StudentInvitationService
}

func NewProjectHandler(db *gorm.DB, notifier *services.Notifier) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db, notifier),
		memberService:  services.NewStudentInvitationService(db, notifier),
	}
}

// Create makes a new project
// POST /api/project/create
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(currentUser(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// List returns the projects visible to the current user
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(currentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// Get returns one project
// GET /api/project/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.Get(currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Update modifies a project
// PUT /api/project/update/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(currentUser(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Delete removes a project and everything in it
// DELETE /api/project/delete/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(currentUser(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project deleted"})
}

// Progress returns the task-derived completion percentage
// GET /api/project/:id/progress
func (h *ProjectHandler) Progress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	progress, err := h.projectService.Progress(currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, progress)
}

// Members returns the accepted members of a project
// GET /api/project/:id/members
func (h *ProjectHandler) Members(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.Members(currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, members)
}

// RemoveMember takes a member out of a project
// DELETE /api/project/:id/members/:studentId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}

	if err := h.memberService.RemoveMember(currentUser(c), id, studentID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed"})
}

// LeaveSupervision lets the supervisor step down from a project
// POST /api/project/:id/leave-supervision
func (h *ProjectHandler) LeaveSupervision(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.LeaveSupervision(currentUser(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "left supervision"})
}
