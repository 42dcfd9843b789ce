package models

import "time"

// Roles recognised by the portal. Every identity lives in one table with a
// role discriminant so login is a single indexed lookup by email.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User is the unified identity record for admins, teachers and students.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FullName     string `gorm:"size:255;not null" json:"fullname"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:32;not null;index" json:"role"`

	// Profile fields populated for teachers and students only.
	Gender    string `gorm:"size:16" json:"gender,omitempty"`
	CNIC      string `gorm:"size:32;index" json:"cnic,omitempty"`
	City      string `gorm:"size:128" json:"city,omitempty"`
	HasLaptop bool   `json:"has_laptop"`

	BatchID  *uint `json:"batch_id,omitempty"`
	CourseID *uint `json:"course_id,omitempty"`
	// TeacherID points a student at their teacher; a teacher's roster is the
	// set of students carrying their id here.
	TeacherID *uint `gorm:"index" json:"teacher_id,omitempty"`

	Batch  *Batch  `json:"batch,omitempty"`
	Course *Course `json:"course,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTeacher reports whether this identity carries the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsStudent reports whether this identity carries the student role.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}
