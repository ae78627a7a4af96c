package models

import (
	"time"
)

// Rating is one user's 1-5 score for a project, at most one per pair.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_rating_project_user;not null" json:"project_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_rating_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string { return "ratings" }
