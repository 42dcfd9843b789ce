package dto

import (
	"time"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
)

// AssignmentCreateRequest creates an assignment owned by the calling teacher.
type AssignmentCreateRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	Link        string    `json:"link" validate:"required,url"`
	Points      int       `json:"points" validate:"required,gt=0,lte=100"`
}

// AssignmentUpdateRequest partially updates an assignment, including its
// open/closed status.
type AssignmentUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1"`
	Description *string    `json:"description" validate:"omitempty,min=1"`
	Deadline    *time.Time `json:"deadline"`
	Link        *string    `json:"link" validate:"omitempty,url"`
	Points      *int       `json:"points" validate:"omitempty,gt=0,lte=100"`
	Status      *string    `json:"status" validate:"omitempty,oneof=open closed"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Link        string    `json:"link"`
	Points      int       `json:"points"`
	Status      string    `json:"status"`
	TeacherID   uint      `json:"teacher_id"`
	// SubmissionIDs preserves submission order (creation order).
	SubmissionIDs []uint    `json:"submission_ids,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Deadline    time.Time `json:"deadline"`
	Points      int       `json:"points"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Deadline:    model.Deadline,
		Link:        model.Link,
		Points:      model.Points,
		Status:      model.Status,
		TeacherID:   model.TeacherID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if len(model.Submissions) > 0 {
		ids := make([]uint, 0, len(model.Submissions))
		for _, submission := range model.Submissions {
			ids = append(ids, submission.ID)
		}
		response.SubmissionIDs = ids
	}

	return response
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

// NewAssignmentLite builds the compact assignment summary.
func NewAssignmentLite(model models.Assignment) AssignmentLite {
	return AssignmentLite{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Deadline:    model.Deadline,
		Points:      model.Points,
	}
}
