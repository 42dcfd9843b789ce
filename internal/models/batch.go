package models

import "time"

// Batch is a scheduled intake of a course.
type Batch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"batchname"`
	Code      string    `gorm:"size:64;uniqueIndex;not null" json:"batchcode"`
	CourseID  uint      `gorm:"not null" json:"course_id"`
	Course    Course    `json:"course"`
	Time      string    `gorm:"size:64;not null" json:"time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
