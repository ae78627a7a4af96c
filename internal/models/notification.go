package models

import (
	"time"
)

// Notification is one delivered message addressed to a single recipient.
// Rows are created only by the fan-out path and mutated only by the
// recipient's own read/delete actions.
type Notification struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"` // uuid
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Type      string     `gorm:"size:100;not null" json:"type"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	Data      string     `gorm:"type:text" json:"data"` // JSON payload
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
