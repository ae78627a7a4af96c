package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/middleware"
	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/internal/services"
	"github.com/bytehub/bytehub/pkg/response"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db),
	}
}

// Students returns all student accounts for the invitation picker
// GET /api/students
func (h *UserHandler) Students(c *gin.Context) {
	users, err := h.userService.ListByRole(models.RoleStudent)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, users)
}

// Supervisors returns all supervisor accounts
// GET /api/supervisors
func (h *UserHandler) Supervisors(c *gin.Context) {
	users, err := h.userService.ListByRole(models.RoleSupervisor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, users)
}

// List is the admin view over all accounts
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	var req services.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Update lets an admin rename an account or change its role
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// Delete removes an account
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "user deleted"})
}
