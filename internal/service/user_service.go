package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/dto"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/mailer"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/observability"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/repository"
)

var (
	// ErrUserNotFound indicates the identity id did not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates another identity already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrRoleMismatch indicates the resolved identity has a different role
	// than the operation expects.
	ErrRoleMismatch = errors.New("user role mismatch")
)

// UserService manages teacher, student, and admin accounts, including the
// cascade that removes a teacher's assignments and submissions.
type UserService interface {
	CreateTeacher(ctx context.Context, payload dto.RegisterTeacherRequest) (dto.UserResponse, error)
	CreateStudent(ctx context.Context, payload dto.RegisterStudentRequest) (dto.UserResponse, error)
	CreateAdmin(ctx context.Context, payload dto.RegisterAdminRequest) (dto.UserResponse, error)
	ListTeachers(ctx context.Context) ([]dto.UserResponse, error)
	ListStudents(ctx context.Context) ([]dto.UserResponse, error)
	ListStudentsByTeacher(ctx context.Context, teacherID uint) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uint, role string, payload dto.UpdateUserRequest) (dto.UserResponse, error)
	DeleteStudent(ctx context.Context, id uint) error
	DeleteTeacher(ctx context.Context, id uint) error
	AssignStudents(ctx context.Context, teacherID uint, payload dto.AssignStudentsRequest) (dto.UserResponse, []dto.UserLite, error)
}

type userService struct {
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	mail        mailer.Mailer
	events      EventPublisher
	logger      zerolog.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users repository.UserRepository, assignments repository.AssignmentRepository, validate *validator.Validate, mail mailer.Mailer, events EventPublisher, logger zerolog.Logger) UserService {
	return &userService{
		users:       users,
		assignments: assignments,
		validator:   validate,
		mail:        mail,
		events:      events,
		logger:      logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) CreateTeacher(ctx context.Context, payload dto.RegisterTeacherRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return dto.UserResponse{}, err
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	batchID := payload.BatchID
	courseID := payload.CourseID
	teacher := models.User{
		FullName:     payload.FullName,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleTeacher,
		Gender:       payload.Gender,
		CNIC:         payload.CNIC,
		BatchID:      &batchID,
		CourseID:     &courseID,
	}

	if err := s.users.Create(ctx, &teacher); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher created")
	s.events.Publish(ctx, EventTeacherCreated, dto.NewUserLite(teacher))
	s.sendTeacherWelcome(ctx, teacher, payload.Password)

	return dto.NewUserResponse(teacher), nil
}

func (s *userService) sendTeacherWelcome(ctx context.Context, teacher models.User, password string) {
	subject := "Your Teacher Account Has Been Created"
	text := "Account Created"
	html := "<div style=\"font-family: Arial, sans-serif; line-height: 1.6;\">" +
		"<h3>Account Created</h3>" +
		"<p>Dear " + teacher.FullName + ",</p>" +
		"<p>Your teacher account has been successfully created.</p>" +
		"<p><strong>Email:</strong> " + teacher.Email + "</p>" +
		"<p><strong>Password:</strong> " + password + "</p>" +
		"<p>You can now access your account.</p>" +
		"<p>Best regards,</p>" +
		"<p><strong>Submission Portal Team</strong></p>" +
		"</div>"

	if err := s.mail.Send(ctx, teacher.Email, subject, text, html); err != nil {
		s.logger.Warn().Err(err).Uint("teacher_id", teacher.ID).Msg("failed to send welcome email")
		observability.EmailDeliveries().WithLabelValues("failure").Inc()
		return
	}

	observability.EmailDeliveries().WithLabelValues("success").Inc()
}

func (s *userService) CreateStudent(ctx context.Context, payload dto.RegisterStudentRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return dto.UserResponse{}, err
	}

	teacher, err := s.users.GetByID(ctx, payload.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	if !teacher.IsTeacher() {
		return dto.UserResponse{}, ErrRoleMismatch
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	batchID := payload.BatchID
	courseID := payload.CourseID
	teacherID := payload.TeacherID
	student := models.User{
		FullName:     payload.FullName,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		Gender:       payload.Gender,
		CNIC:         payload.CNIC,
		City:         payload.City,
		HasLaptop:    payload.HasLaptop,
		BatchID:      &batchID,
		CourseID:     &courseID,
		TeacherID:    &teacherID,
	}

	if err := s.users.Create(ctx, &student); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student created")

	return dto.NewUserResponse(student), nil
}

func (s *userService) CreateAdmin(ctx context.Context, payload dto.RegisterAdminRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return dto.UserResponse{}, err
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	admin := models.User{
		FullName:     payload.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	if err := s.users.Create(ctx, &admin); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("admin_id", admin.ID).Msg("admin created")

	return dto.NewUserResponse(admin), nil
}

func (s *userService) ListTeachers(ctx context.Context) ([]dto.UserResponse, error) {
	teachers, err := s.users.ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(teachers), nil
}

func (s *userService) ListStudents(ctx context.Context) ([]dto.UserResponse, error) {
	students, err := s.users.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(students), nil
}

func (s *userService) ListStudentsByTeacher(ctx context.Context, teacherID uint) ([]dto.UserResponse, error) {
	students, err := s.users.ListStudentsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(students), nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, role string, payload dto.UpdateUserRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.loadWithRole(ctx, id, role)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if payload.FullName != nil {
		user.FullName = *payload.FullName
	}
	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return dto.UserResponse{}, err
			}
			user.Email = email
		}
	}
	if payload.Gender != nil {
		user.Gender = *payload.Gender
	}
	if payload.CNIC != nil {
		user.CNIC = *payload.CNIC
	}
	if payload.City != nil {
		user.City = *payload.City
	}
	if payload.BatchID != nil {
		user.BatchID = payload.BatchID
	}
	if payload.CourseID != nil {
		user.CourseID = payload.CourseID
	}
	if payload.HasLaptop != nil {
		user.HasLaptop = *payload.HasLaptop
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) DeleteStudent(ctx context.Context, id uint) error {
	if _, err := s.loadWithRole(ctx, id, models.RoleStudent); err != nil {
		return err
	}

	return s.users.Delete(ctx, id)
}

// DeleteTeacher removes the teacher after invoking the assignment registry's
// transactional cascade over their assignments and submissions, then detaches
// their students.
func (s *userService) DeleteTeacher(ctx context.Context, id uint) error {
	teacher, err := s.loadWithRole(ctx, id, models.RoleTeacher)
	if err != nil {
		return err
	}

	if err := s.assignments.PurgeByTeacher(ctx, id); err != nil {
		return err
	}

	if err := s.users.DetachStudentsFromTeacher(ctx, id); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("teacher_id", id).Msg("teacher deleted with cascade")
	s.events.Publish(ctx, EventTeacherDeleted, dto.NewUserLite(teacher))

	return nil
}

func (s *userService) AssignStudents(ctx context.Context, teacherID uint, payload dto.AssignStudentsRequest) (dto.UserResponse, []dto.UserLite, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, nil, err
	}

	teacher, err := s.loadWithRole(ctx, teacherID, models.RoleTeacher)
	if err != nil {
		return dto.UserResponse{}, nil, err
	}

	assigned := make([]dto.UserLite, 0, len(payload.StudentIDs))
	for _, studentID := range payload.StudentIDs {
		student, err := s.loadWithRole(ctx, studentID, models.RoleStudent)
		if err != nil {
			return dto.UserResponse{}, nil, err
		}

		id := teacherID
		student.TeacherID = &id
		if err := s.users.Update(ctx, &student); err != nil {
			return dto.UserResponse{}, nil, err
		}

		assigned = append(assigned, dto.NewUserLite(student))
	}

	s.logger.Info().
		Uint("teacher_id", teacherID).
		Int("students", len(assigned)).
		Msg("students assigned to teacher")

	return dto.NewUserResponse(teacher), assigned, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}

func (s *userService) loadWithRole(ctx context.Context, id uint, role string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if role != "" && user.Role != role {
		return models.User{}, ErrRoleMismatch
	}

	return user, nil
}
