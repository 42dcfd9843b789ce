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

// Batch sentinel errors surfaced to handlers.
var (
	ErrBatchNotFound  = errors.New("batch not found")
	ErrBatchCodeTaken = errors.New("batch code already in use")
)

// BatchService manages batch records under courses.
type BatchService interface {
	Create(ctx context.Context, payload dto.BatchCreateRequest) (dto.BatchResponse, error)
	List(ctx context.Context) ([]dto.BatchResponse, error)
	GetByID(ctx context.Context, id uint) (dto.BatchResponse, error)
	Update(ctx context.Context, id uint, payload dto.BatchUpdateRequest) (dto.BatchResponse, error)
	Delete(ctx context.Context, id uint) error
}

type batchService struct {
	batches   repository.BatchRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewBatchService constructs a BatchService instance.
func NewBatchService(batches repository.BatchRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) BatchService {
	return &batchService{
		batches:   batches,
		courses:   courses,
		validator: validate,
		logger:    logger.With().Str("component", "batch_service").Logger(),
	}
}

func (s *batchService) Create(ctx context.Context, payload dto.BatchCreateRequest) (dto.BatchResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BatchResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, ErrCourseNotFound
		}
		return dto.BatchResponse{}, err
	}

	batch := models.Batch{
		Name:     payload.Name,
		Code:     payload.Code,
		CourseID: payload.CourseID,
		Time:     payload.Time,
	}
	if err := s.batches.Create(ctx, &batch); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.BatchResponse{}, ErrBatchCodeTaken
		}
		return dto.BatchResponse{}, err
	}

	s.logger.Info().Uint("batch_id", batch.ID).Uint("course_id", batch.CourseID).Msg("batch created")

	created, err := s.batches.GetByID(ctx, batch.ID)
	if err != nil {
		return dto.NewBatchResponse(batch), nil
	}

	return dto.NewBatchResponse(created), nil
}

func (s *batchService) List(ctx context.Context) ([]dto.BatchResponse, error) {
	batches, err := s.batches.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewBatchResponseSlice(batches), nil
}

func (s *batchService) GetByID(ctx context.Context, id uint) (dto.BatchResponse, error) {
	batch, err := s.batches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, ErrBatchNotFound
		}
		return dto.BatchResponse{}, err
	}

	return dto.NewBatchResponse(batch), nil
}

func (s *batchService) Update(ctx context.Context, id uint, payload dto.BatchUpdateRequest) (dto.BatchResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BatchResponse{}, err
	}

	batch, err := s.batches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, ErrBatchNotFound
		}
		return dto.BatchResponse{}, err
	}

	if payload.CourseID != nil && *payload.CourseID != batch.CourseID {
		if _, err := s.courses.GetByID(ctx, *payload.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.BatchResponse{}, ErrCourseNotFound
			}
			return dto.BatchResponse{}, err
		}
		batch.CourseID = *payload.CourseID
	}
	if payload.Name != nil {
		batch.Name = *payload.Name
	}
	if payload.Code != nil {
		batch.Code = *payload.Code
	}
	if payload.Time != nil {
		batch.Time = *payload.Time
	}

	if err := s.batches.Update(ctx, &batch); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.BatchResponse{}, ErrBatchCodeTaken
		}
		return dto.BatchResponse{}, err
	}

	updated, err := s.batches.GetByID(ctx, id)
	if err != nil {
		return dto.NewBatchResponse(batch), nil
	}

	return dto.NewBatchResponse(updated), nil
}

func (s *batchService) Delete(ctx context.Context, id uint) error {
	if err := s.batches.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBatchNotFound
		}
		return err
	}

	return nil
}
