package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/middleware"
	"github.com/bytehub/bytehub/internal/services"
	"github.com/bytehub/bytehub/pkg/response"
)

type InvitationHandler struct {
	studentService    *services.StudentInvitationService
	supervisorService *services.SupervisorInvitationService
}

func NewInvitationHandler(db *gorm.DB, notifier *services.Notifier) *InvitationHandler {
	return &InvitationHandler{
		studentService:    services.NewStudentInvitationService(db, notifier),
		supervisorService: services.NewSupervisorInvitationService(db, notifier),
	}
}

// InviteStudent invites a student into a project
// POST /api/project/:id/invite-student
func (h *InvitationHandler) InviteStudent(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.InviteStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	invitation, err := h.studentService.Invite(currentUser(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, invitation)
}

// ListProjectInvitations returns a project's student invitations
// GET /api/project/:id/invitations
func (h *InvitationHandler) ListProjectInvitations(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invitations, err := h.studentService.ListForProject(currentUser(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, invitations)
}

// MyInvitations returns the pending invitations addressed to the current student
// GET /api/student/invitations
func (h *InvitationHandler) MyInvitations(c *gin.Context) {
	invitations, err := h.studentService.ListForStudent(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, invitations)
}

// AcceptInvitation joins the project
// POST /api/student/invitations/:id/accept
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invitation, err := h.studentService.Accept(currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, invitation)
}

// RejectInvitation declines the invitation
// POST /api/student/invitations/:id/reject
func (h *InvitationHandler) RejectInvitation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invitation, err := h.studentService.Reject(currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, invitation)
}

// InviteSupervisor asks a supervisor to take over a project
// POST /api/project/:id/invite-supervisor
func (h *InvitationHandler) InviteSupervisor(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.InviteSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	invitation, err := h.supervisorService.Invite(currentUser(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, invitation)
}

// ListProjectSupervisorInvitations returns a project's supervision requests
// GET /api/project/:id/supervisor-invitations
func (h *InvitationHandler) ListProjectSupervisorInvitations(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invitations, err := h.supervisorService.ListForProject(currentUser(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, invitations)
}

// MySupervisionRequests returns the pending requests addressed to the current supervisor
// GET /api/supervisor/invitations
func (h *InvitationHandler) MySupervisionRequests(c *gin.Context) {
	invitations, err := h.supervisorService.ListForSupervisor(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, invitations)
}

// AcceptSupervision makes the current supervisor the project's supervisor
// POST /api/supervisor/invitations/:id/accept
func (h *InvitationHandler) AcceptSupervision(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invitation, err := h.supervisorService.Accept(currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, invitation)
}

// RejectSupervision declines a supervision request
// POST /api/supervisor/invitations/:id/reject
func (h *InvitationHandler) RejectSupervision(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invitation, err := h.supervisorService.Reject(currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, invitation)
}
