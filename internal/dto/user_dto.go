package dto

import (
	"time"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
)

// RegisterTeacherRequest creates a teacher account.
type RegisterTeacherRequest struct {
	FullName string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Gender   string `json:"gender" validate:"required"`
	CNIC     string `json:"cnic" validate:"required"`
	BatchID  uint   `json:"batch_id" validate:"required,gt=0"`
	CourseID uint   `json:"course_id" validate:"required,gt=0"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterStudentRequest creates a student account.
type RegisterStudentRequest struct {
	FullName  string `json:"fullname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Gender    string `json:"gender" validate:"required"`
	CNIC      string `json:"cnic" validate:"required"`
	City      string `json:"city" validate:"required"`
	BatchID   uint   `json:"batch_id" validate:"required,gt=0"`
	CourseID  uint   `json:"course_id" validate:"required,gt=0"`
	TeacherID uint   `json:"teacher_id" validate:"required,gt=0"`
	HasLaptop bool   `json:"has_laptop"`
	Password  string `json:"password" validate:"required,min=8"`
}

// RegisterAdminRequest creates an admin account.
type RegisterAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest partially updates a teacher or student profile.
type UpdateUserRequest struct {
	FullName  *string `json:"fullname" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Gender    *string `json:"gender"`
	CNIC      *string `json:"cnic"`
	City      *string `json:"city"`
	BatchID   *uint   `json:"batch_id" validate:"omitempty,gt=0"`
	CourseID  *uint   `json:"course_id" validate:"omitempty,gt=0"`
	HasLaptop *bool   `json:"has_laptop"`
}

// AssignStudentsRequest attaches a set of students to a teacher.
type AssignStudentsRequest struct {
	StudentIDs []uint `json:"student_ids" validate:"required,min=1,dive,gt=0"`
}

// UserResponse is returned to API clients when viewing identities.
type UserResponse struct {
	ID        uint            `json:"id"`
	FullName  string          `json:"fullname"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	Gender    string          `json:"gender,omitempty"`
	CNIC      string          `json:"cnic,omitempty"`
	City      string          `json:"city,omitempty"`
	HasLaptop bool            `json:"has_laptop"`
	BatchID   *uint           `json:"batch_id,omitempty"`
	CourseID  *uint           `json:"course_id,omitempty"`
	TeacherID *uint           `json:"teacher_id,omitempty"`
	Batch     *BatchResponse  `json:"batch,omitempty"`
	Course    *CourseResponse `json:"course,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UserLite summarizes an identity without profile details.
type UserLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	response := UserResponse{
		ID:        model.ID,
		FullName:  model.FullName,
		Email:     model.Email,
		Role:      model.Role,
		Gender:    model.Gender,
		CNIC:      model.CNIC,
		City:      model.City,
		HasLaptop: model.HasLaptop,
		BatchID:   model.BatchID,
		CourseID:  model.CourseID,
		TeacherID: model.TeacherID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	if model.Batch != nil {
		batch := NewBatchResponse(*model.Batch)
		response.Batch = &batch
	}

	if model.Course != nil {
		course := NewCourseResponse(*model.Course)
		response.Course = &course
	}

	return response
}

// NewUserResponseSlice converts user models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}

// NewUserLite builds the compact identity summary.
func NewUserLite(model models.User) UserLite {
	return UserLite{
		ID:    model.ID,
		Name:  model.FullName,
		Email: model.Email,
	}
}
