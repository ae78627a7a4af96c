package models

import (
	"time"
)

// GitCommit mirrors one commit fetched from the project's GitHub repository.
// (project_id, commit_hash) is unique so re-syncing upserts instead of
// duplicating.
type GitCommit struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"uniqueIndex:idx_project_commit;not null" json:"project_id"`
	CommitHash  string     `gorm:"uniqueIndex:idx_project_commit;size:64;not null" json:"commit_hash"`
	AuthorName  string     `gorm:"size:255" json:"author_name"`
	AuthorEmail string     `gorm:"size:255" json:"author_email"`
	Message     string     `gorm:"type:text" json:"message"`
	CommittedAt *time.Time `json:"committed_at"`
	URL         string     `gorm:"size:500" json:"url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (GitCommit) TableName() string { return "git_commits" }
