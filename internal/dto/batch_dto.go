package dto

import (
	"time"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
)

// BatchCreateRequest creates a batch under an existing course.
type BatchCreateRequest struct {
	Name     string `json:"batchname" validate:"required"`
	Code     string `json:"batchcode" validate:"required"`
	CourseID uint   `json:"course_id" validate:"required,gt=0"`
	Time     string `json:"time" validate:"required"`
}

// BatchUpdateRequest partially updates a batch.
type BatchUpdateRequest struct {
	Name     *string `json:"batchname" validate:"omitempty,min=1"`
	Code     *string `json:"batchcode" validate:"omitempty,min=1"`
	CourseID *uint   `json:"course_id" validate:"omitempty,gt=0"`
	Time     *string `json:"time" validate:"omitempty,min=1"`
}

// BatchResponse is returned to API clients when viewing batches.
type BatchResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"batchname"`
	Code      string          `json:"batchcode"`
	CourseID  uint            `json:"course_id"`
	Course    *CourseResponse `json:"course,omitempty"`
	Time      string          `json:"time"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewBatchResponse converts a Batch model into a DTO.
func NewBatchResponse(model models.Batch) BatchResponse {
	response := BatchResponse{
		ID:        model.ID,
		Name:      model.Name,
		Code:      model.Code,
		CourseID:  model.CourseID,
		Time:      model.Time,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	if model.Course.ID != 0 {
		course := NewCourseResponse(model.Course)
		response.Course = &course
	}

	return response
}

// NewBatchResponseSlice converts batch models into DTOs.
func NewBatchResponseSlice(batches []models.Batch) []BatchResponse {
	responses := make([]BatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, NewBatchResponse(batch))
	}

	return responses
}
