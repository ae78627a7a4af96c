package models

import (
	"time"
)

// ProjectVersion is one uploaded deliverable in a project's append-only
// version history.
type ProjectVersion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string    `gorm:"column:version_title;size:255;not null" json:"version_title"`
	Description string    `gorm:"column:version_description;type:text" json:"version_description"`
	FilePath    string    `gorm:"size:500;not null" json:"file_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProjectVersion) TableName() string { return "project_versions" }
