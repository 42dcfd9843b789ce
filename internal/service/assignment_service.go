package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/dto"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/repository"
)

// ErrStudentUnassigned indicates a student has no teacher and therefore no
// assignment feed.
var ErrStudentUnassigned = errors.New("student has no assigned teacher")

// AssignmentService manages the assignment registry. Deleting an assignment
// removes its submissions in the same transaction; the registry owns that
// cascade.
type AssignmentService interface {
	Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	ListForUser(ctx context.Context, userID uint, role string) ([]dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Update(ctx context.Context, id, teacherID uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, id, teacherID uint) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	events      EventPublisher
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	users repository.UserRepository,
	events EventPublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		users:       users,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:       payload.Title,
		Description: payload.Description,
		Deadline:    payload.Deadline,
		Link:        payload.Link,
		Points:      payload.Points,
		Status:      models.AssignmentStatusOpen,
		TeacherID:   teacherID,
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Uint("teacher_id", teacherID).
		Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

// ListForUser returns the assignment feed for the caller. Teachers see the
// assignments they own; students see everything published by their assigned
// teacher.
func (s *assignmentService) ListForUser(ctx context.Context, userID uint, role string) ([]dto.AssignmentResponse, error) {
	teacherID := userID

	if role == models.RoleStudent {
		student, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if student.TeacherID == nil {
			return nil, ErrStudentUnassigned
		}
		teacherID = *student.TeacherID
	}

	assignments, err := s.assignments.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, id, teacherID uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.loadOwned(ctx, id, teacherID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}
	if payload.Deadline != nil {
		assignment.Deadline = *payload.Deadline
	}
	if payload.Link != nil {
		assignment.Link = *payload.Link
	}
	if payload.Points != nil {
		assignment.Points = *payload.Points
	}
	if payload.Status != nil {
		assignment.Status = *payload.Status
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, id, teacherID uint) error {
	if _, err := s.loadOwned(ctx, id, teacherID); err != nil {
		return err
	}

	if err := s.assignments.DeleteWithSubmissions(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted with submissions")
	s.events.Publish(ctx, EventAssignmentDeleted, map[string]interface{}{
		"assignment_id": id,
		"teacher_id":    teacherID,
	})

	return nil
}

func (s *assignmentService) loadOwned(ctx context.Context, id, teacherID uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}
	if assignment.TeacherID != teacherID {
		return models.Assignment{}, ErrNotAssignmentOwner
	}

	return assignment, nil
}
