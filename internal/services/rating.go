package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/response"
)

type RatingService struct {
	db     *gorm.DB
	access *AccessService
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db, access: NewAccessService(db)}
}

type CreateRatingRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// Create records the user's score for a project. At most one rating
// per (project, user); a second attempt is a conflict, not an update.
func (s *RatingService) Create(actor *models.User, projectID uint, req *CreateRatingRequest) (*models.Rating, error) {
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

	var existing models.Rating
	err = s.db.Where("project_id = ? AND user_id = ?", projectID, actor.ID).First(&existing).Error
	if err == nil {
		return nil, response.NewConflict("you have already rated this project")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rating := models.Rating{
		ProjectID: projectID,
		UserID:    actor.ID,
		Rating:    req.Rating,
	}
	if err := s.db.Create(&rating).Error; err != nil {
		// Lost a race on the unique index.
		return nil, response.NewConflict("you have already rated this project")
	}

	return &rating, nil
}

type RatingSummary struct {
	Average float64         `json:"average"`
	Count   int64           `json:"count"`
	Ratings []models.Rating `json:"ratings"`
}

// ListForProject returns a project's ratings and their average.
func (s *RatingService) ListForProject(actor *models.User, projectID uint) (*RatingSummary, error) {
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

	var ratings []models.Rating
	if err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&ratings).Error; err != nil {
		return nil, err
	}

	summary := &RatingSummary{Ratings: ratings, Count: int64(len(ratings))}
	if len(ratings) > 0 {
		var sum int
		for _, r := range ratings {
			sum += r.Rating
		}
		summary.Average = float64(sum) / float64(len(ratings))
	}
	return summary, nil
}

// Delete removes the caller's own rating of a project.
func (s *RatingService) Delete(actor *models.User, projectID uint) error {
	result := s.db.Where("project_id = ? AND user_id = ?", projectID, actor.ID).
		Delete(&models.Rating{})
	if result.Error != nil {
		return response.NewServerError("failed to delete rating")
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("you have not rated this project")
	}
	return nil
}
