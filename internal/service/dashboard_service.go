package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/dto"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/repository"
)

// DashboardService computes per-role widget rollups and the student
// leaderboard. Rollups are cached in Redis per identity; the cache is a
// soft dependency and every read falls through to the database when it is
// unavailable. Cached entries expire by TTL only, so widgets can trail
// grading and submission writes by up to one TTL window.
type DashboardService interface {
	StudentWidgets(ctx context.Context, studentID uint) (dto.StudentWidgets, error)
	TeacherWidgets(ctx context.Context, teacherID uint) (dto.TeacherWidgets, error)
	AdminWidgets(ctx context.Context) (dto.AdminWidgets, error)
	Leaderboard(ctx context.Context, teacherID uint) ([]dto.LeaderboardEntry, error)
}

type dashboardService struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService constructs a DashboardService instance. A nil cache
// disables caching entirely.
func NewDashboardService(
	users repository.UserRepository,
	courses repository.CourseRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		users:       users,
		courses:     courses,
		assignments: assignments,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) StudentWidgets(ctx context.Context, studentID uint) (dto.StudentWidgets, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", studentID)

	var widgets dto.StudentWidgets
	if s.readCache(ctx, cacheKey, &widgets) {
		return widgets, nil
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentWidgets{}, ErrUserNotFound
		}
		return dto.StudentWidgets{}, err
	}

	approved, err := s.submissions.ListApprovedByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentWidgets{}, err
	}
	for _, submission := range approved {
		widgets.TotalPoints += submission.Points
	}

	if student.TeacherID != nil {
		total, err := s.assignments.CountByTeacher(ctx, *student.TeacherID)
		if err != nil {
			return dto.StudentWidgets{}, err
		}
		widgets.TotalAssignments = total
	}

	submitted, err := s.submissions.CountByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentWidgets{}, err
	}
	widgets.SubmittedAssignments = submitted

	s.writeCache(ctx, cacheKey, widgets)

	return widgets, nil
}

func (s *dashboardService) TeacherWidgets(ctx context.Context, teacherID uint) (dto.TeacherWidgets, error) {
	cacheKey := fmt.Sprintf("dashboard:teacher:%d", teacherID)

	var widgets dto.TeacherWidgets
	if s.readCache(ctx, cacheKey, &widgets) {
		return widgets, nil
	}

	students, err := s.users.CountStudentsByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherWidgets{}, err
	}
	widgets.TotalStudents = students

	assignments, err := s.assignments.CountByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherWidgets{}, err
	}
	widgets.TotalAssignments = assignments

	midnight := startOfDay(time.Now())
	daily, err := s.submissions.ListByTeacherSince(ctx, teacherID, midnight)
	if err != nil {
		return dto.TeacherWidgets{}, err
	}
	widgets.DailySubmissions = dto.NewSubmissionResponseSlice(daily)

	s.writeCache(ctx, cacheKey, widgets)

	return widgets, nil
}

func (s *dashboardService) AdminWidgets(ctx context.Context) (dto.AdminWidgets, error) {
	cacheKey := "dashboard:admin"

	var widgets dto.AdminWidgets
	if s.readCache(ctx, cacheKey, &widgets) {
		return widgets, nil
	}

	teachers, err := s.users.CountByRole(ctx, models.RoleTeacher)
	if err != nil {
		return dto.AdminWidgets{}, err
	}
	widgets.TotalTeachers = teachers

	students, err := s.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return dto.AdminWidgets{}, err
	}
	widgets.TotalStudents = students

	courses, err := s.courses.Count(ctx)
	if err != nil {
		return dto.AdminWidgets{}, err
	}
	widgets.TotalCourses = courses

	s.writeCache(ctx, cacheKey, widgets)

	return widgets, nil
}

// Leaderboard ranks a teacher's students by total approved points. Ties fall
// back to approved submission count, then student id for a stable order.
func (s *dashboardService) Leaderboard(ctx context.Context, teacherID uint) ([]dto.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("dashboard:leaderboard:%d", teacherID)

	var entries []dto.LeaderboardEntry
	if s.readCache(ctx, cacheKey, &entries) {
		return entries, nil
	}

	students, err := s.users.ListStudentsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	entries = make([]dto.LeaderboardEntry, 0, len(students))
	for _, student := range students {
		approved, err := s.submissions.ListApprovedByStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}

		entry := dto.LeaderboardEntry{
			StudentID:   student.ID,
			StudentName: student.FullName,
			Approved:    int64(len(approved)),
		}
		for _, submission := range approved {
			entry.TotalPoints += submission.Points
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		if entries[i].Approved != entries[j].Approved {
			return entries[i].Approved > entries[j].Approved
		}
		return entries[i].StudentID < entries[j].StudentID
	})

	s.writeCache(ctx, cacheKey, entries)

	return entries, nil
}

func (s *dashboardService) readCache(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read dashboard cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), out); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to decode dashboard cache")
		return false
	}

	s.logger.Debug().Str("key", key).Msg("dashboard cache hit")

	return true
}

func (s *dashboardService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store dashboard cache")
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
