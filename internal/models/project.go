package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a student project.
// Status is a legacy display column; progress is always derived from tasks.
type Project struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Title              string         `gorm:"size:255;not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	OwnerID            uint           `gorm:"not null;index" json:"owner_id"`
	Owner              *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	SupervisorID       *uint          `gorm:"index" json:"supervisor_id"`
	Supervisor         *User          `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Status             string         `gorm:"size:50;default:pending" json:"status"`
	GithubRepoURL      string         `gorm:"size:500" json:"github_repo_url"`
	GithubBranch       string         `gorm:"size:255;default:main" json:"github_branch"`
	GithubLastSyncedAt *time.Time     `json:"github_last_synced_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
