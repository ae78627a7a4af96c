package models

import (
	"time"
)

// ProjectMember records an accepted student membership in a project.
// A row exists if and only if a student invitation for the same
// (project, student) pair reached status accepted. The owner never has a
// membership row; ownership is implicit membership.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_student;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	StudentID uint      `gorm:"uniqueIndex:idx_project_student;not null" json:"student_id"`
	Student   *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Status    string    `gorm:"size:50;default:accepted" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
