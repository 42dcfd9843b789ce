package models

import "time"

// Submission statuses. A submission enters pending on creation, moves to
// approved or disapproved when graded, and re-enters pending exactly once
// when a disapproval granted resubmission.
const (
	SubmissionStatusPending     = "pending"
	SubmissionStatusApproved    = "approved"
	SubmissionStatusDisapproved = "disapproved"
)

// Submission is a student's attempt at an assignment, carrying grading state.
// The unique index over (assignment_id, student_id) guarantees at most one
// record per pair; a resubmission mutates the record in place.
type Submission struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	AssignmentID uint   `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"assignment_id"`
	StudentID    uint   `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"student_id"`
	URL          string `gorm:"size:512;not null" json:"url"`
	Status       string `gorm:"size:16;not null;default:pending" json:"status"`
	IsSeen       bool   `json:"is_seen"`
	// IsApproved mirrors status == approved.
	IsApproved bool `json:"is_approved"`
	// CanResubmit is a one-shot permission flag, consumed on resubmit.
	CanResubmit     bool   `json:"can_resubmit"`
	Points          int    `gorm:"not null;default:0" json:"points"`
	Feedback        string `gorm:"type:text" json:"feedback"`
	RejectionReason string `gorm:"type:text" json:"rejection_reason"`

	Assignment Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student    User       `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPending reports whether the submission awaits a grading decision.
func (s Submission) IsPending() bool {
	return s.Status == SubmissionStatusPending
}

// IsGraded reports whether a grading decision has been recorded.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusApproved || s.Status == SubmissionStatusDisapproved
}
