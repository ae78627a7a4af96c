package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/services"
	"github.com/bytehub/bytehub/pkg/response"
)

type RatingHandler struct {
	ratingService *services.RatingService
}

func NewRatingHandler(db *gorm.DB) *RatingHandler {
	return &RatingHandler{
		ratingService: services.NewRatingService(db),
	}
}

// Create records the current user's rating for a project
// POST /api/project/:id/rate
func (h *RatingHandler) Create(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rating, err := h.ratingService.Create(currentUser(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, rating)
}

// List returns a project's ratings and their average
// GET /api/project/:id/ratings
func (h *RatingHandler) List(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.ratingService.ListForProject(currentUser(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, summary)
}

// Delete removes the current user's rating of a project
// DELETE /api/project/:id/ratings
func (h *RatingHandler) Delete(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ratingService.Delete(currentUser(c), projectID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "rating deleted"})
}
