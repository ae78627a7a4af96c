package models

import (
	"time"
)

// Invitation statuses. pending is the only non-terminal state.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// StudentInvitation invites a student to join a project as a member.
// The (project_id, student_id) pair is unique: re-inviting after a terminal
// state reuses the row, and concurrent duplicate invites lose on the index.
type StudentInvitation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_invite_project_student;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	StudentID uint      `gorm:"uniqueIndex:idx_invite_project_student;not null" json:"student_id"`
	Student   *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	SentByID  uint      `gorm:"not null" json:"sent_by_id"`
	SentBy    *User     `gorm:"foreignKey:SentByID" json:"sent_by,omitempty"`
	Status    string    `gorm:"size:50;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudentInvitation) TableName() string { return "student_invitations" }

// SupervisorInvitation asks a supervisor to take over a project.
// StudentID is the project owner at the time the invitation was sent.
type SupervisorInvitation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectID    uint      `gorm:"not null;index" json:"project_id"`
	Project      *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	StudentID    uint      `gorm:"not null" json:"student_id"`
	Student      *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	SupervisorID uint      `gorm:"not null;index" json:"supervisor_id"`
	Supervisor   *User     `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Status       string    `gorm:"size:50;default:pending" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (SupervisorInvitation) TableName() string { return "supervisor_invitations" }
