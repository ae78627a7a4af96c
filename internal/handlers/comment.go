package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/services"
	"github.com/bytehub/bytehub/pkg/response"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(db *gorm.DB, notifier *services.Notifier) *CommentHandler {
	return &CommentHandler{
		commentService: services.NewCommentService(db, notifier),
	}
}

// CreateOnProject posts a comment on the project thread
// POST /api/project/:id/comment
func (h *CommentHandler) CreateOnProject(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.CreateOnProject(currentUser(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, comment)
}

// ListForProject returns the project thread
// GET /api/project/:id/comments
func (h *CommentHandler) ListForProject(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListForProject(currentUser(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, comments)
}

// CreateOnTask posts a comment on a task thread
// POST /api/task/:id/comment
func (h *CommentHandler) CreateOnTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.CreateOnTask(currentUser(c), taskID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, comment)
}

// ListForTask returns a task thread
// GET /api/task/:id/comments
func (h *CommentHandler) ListForTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListForTask(currentUser(c), taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, comments)
}

// Update edits a comment's body
// PUT /api/comment/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Update(currentUser(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, comment)
}

// Delete removes a comment
// DELETE /api/comment/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(currentUser(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "comment deleted"})
}
