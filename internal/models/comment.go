package models

import (
	"time"
)

// Comment attaches to exactly one of a project thread or a task thread.
// The XOR is enforced by the comment service; both columns are nullable here.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID *uint     `gorm:"index" json:"project_id,omitempty"`
	TaskID    *uint     `gorm:"index" json:"task_id,omitempty"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Body      string    `gorm:"column:comment;type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }
