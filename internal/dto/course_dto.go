package dto

import (
	"time"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
)

// CourseCreateRequest creates a course.
type CourseCreateRequest struct {
	Name string `json:"coursename" validate:"required"`
	City string `json:"city" validate:"required"`
}

// CourseUpdateRequest partially updates a course.
type CourseUpdateRequest struct {
	Name *string `json:"coursename" validate:"omitempty,min=1"`
	City *string `json:"city" validate:"omitempty,min=1"`
}

// CourseResponse is returned to API clients when viewing courses.
type CourseResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"coursename"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:        model.ID,
		Name:      model.Name,
		City:      model.City,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
