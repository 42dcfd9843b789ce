package models

import "time"

// Assignment statuses. New submissions are only accepted while open.
const (
	AssignmentStatusOpen   = "open"
	AssignmentStatusClosed = "closed"
)

// Assignment is a unit of work a teacher issues to their students.
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	Link        string    `gorm:"size:512;not null" json:"link"`
	// Points is the maximum awardable score for this assignment.
	Points    int    `gorm:"not null" json:"points"`
	Status    string `gorm:"size:16;not null;default:open" json:"status"`
	TeacherID uint   `gorm:"not null;index" json:"teacher_id"`
	Teacher   User   `gorm:"foreignKey:TeacherID" json:"-"`
	// Submissions load in creation order; insertion order is submission order.
	Submissions []Submission `json:"submissions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsOpen reports whether the assignment still accepts first submissions.
func (a Assignment) IsOpen() bool {
	return a.Status == AssignmentStatusOpen
}

// IsPastDeadline returns true when the deadline has already passed.
func (a Assignment) IsPastDeadline(reference time.Time) bool {
	return reference.After(a.Deadline)
}
