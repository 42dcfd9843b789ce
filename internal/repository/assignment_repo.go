package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
)

// AssignmentRepository defines persistence operations for assignments,
// including the cascading deletes the registry owns.
type AssignmentRepository interface {
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Assignment, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	// DeleteWithSubmissions removes an assignment and its submissions in one
	// transaction.
	DeleteWithSubmissions(ctx context.Context, id uint) error
	// PurgeByTeacher removes every assignment owned by the teacher together
	// with their submissions in one transaction.
	PurgeByTeacher(ctx context.Context, teacherID uint) error
	CountByTeacher(ctx context.Context, teacherID uint) (int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Assignment{}).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("submissions.created_at ASC")
		})
}

func (r *assignmentRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.baseQuery(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.baseQuery(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Omit("Submissions").Save(assignment).Error
}

func (r *assignmentRepository) DeleteWithSubmissions(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Assignment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *assignmentRepository) PurgeByTeacher(ctx context.Context, teacherID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subQuery := tx.Model(&models.Assignment{}).
			Select("id").
			Where("teacher_id = ?", teacherID)

		if err := tx.Where("assignment_id IN (?)", subQuery).Delete(&models.Submission{}).Error; err != nil {
			return err
		}

		return tx.Where("teacher_id = ?", teacherID).Delete(&models.Assignment{}).Error
	})
}

func (r *assignmentRepository) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
