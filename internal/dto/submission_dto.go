package dto

import (
	"time"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
)

// SubmissionCreateRequest submits (or resubmits) a URL artifact against an
// assignment. The student id comes from the authenticated token. The URL only
// has to be present; scheme-less links like "a.com" are accepted.
type SubmissionCreateRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required,gt=0"`
	URL          string `json:"url" validate:"required"`
}

// GradeSubmissionRequest records a grading decision. Approvals require
// points and feedback; disapprovals require a rejection reason and may grant
// a one-shot resubmission.
type GradeSubmissionRequest struct {
	Status          string  `json:"status" validate:"required,oneof=approved disapproved"`
	Points          *int    `json:"points" validate:"omitempty,gte=0,lte=100"`
	Feedback        *string `json:"feedback"`
	RejectionReason *string `json:"rejection_reason"`
	CanResubmit     *bool   `json:"can_resubmit"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID              uint            `json:"id"`
	AssignmentID    uint            `json:"assignment_id"`
	StudentID       uint            `json:"student_id"`
	URL             string          `json:"url"`
	Status          string          `json:"status"`
	IsSeen          bool            `json:"is_seen"`
	IsApproved      bool            `json:"is_approved"`
	CanResubmit     bool            `json:"can_resubmit"`
	Points          int             `json:"points"`
	Feedback        string          `json:"feedback"`
	RejectionReason string          `json:"rejection_reason"`
	Assignment      *AssignmentLite `json:"assignment,omitempty"`
	Student         *UserLite       `json:"student,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:              model.ID,
		AssignmentID:    model.AssignmentID,
		StudentID:       model.StudentID,
		URL:             model.URL,
		Status:          model.Status,
		IsSeen:          model.IsSeen,
		IsApproved:      model.IsApproved,
		CanResubmit:     model.CanResubmit,
		Points:          model.Points,
		Feedback:        model.Feedback,
		RejectionReason: model.RejectionReason,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	if model.Assignment.ID != 0 {
		assignment := NewAssignmentLite(model.Assignment)
		response.Assignment = &assignment
	}

	if model.Student.ID != 0 {
		student := NewUserLite(model.Student)
		response.Student = &student
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
