package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
)

type memoryUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]models.User), nextID: 1}
}

func (m *memoryUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) ListByRole(_ context.Context, role string) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, user := range m.users {
		if user.Role == role {
			results = append(results, user)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryUserRepo) ListStudentsByTeacher(_ context.Context, teacherID uint) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, user := range m.users {
		if user.Role == models.RoleStudent && user.TeacherID != nil && *user.TeacherID == teacherID {
			results = append(results, user)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[m.nextID] = *user
	m.nextID++
	return nil
}

func (m *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memoryUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var count int64
	for _, user := range m.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (m *memoryUserRepo) CountStudentsByTeacher(_ context.Context, teacherID uint) (int64, error) {
	var count int64
	for _, user := range m.users {
		if user.Role == models.RoleStudent && user.TeacherID != nil && *user.TeacherID == teacherID {
			count++
		}
	}
	return count, nil
}

func (m *memoryUserRepo) DetachStudentsFromTeacher(_ context.Context, teacherID uint) error {
	for id, user := range m.users {
		if user.TeacherID != nil && *user.TeacherID == teacherID {
			user.TeacherID = nil
			m.users[id] = user
		}
	}
	return nil
}

type memoryCourseRepo struct {
	courses map[uint]models.Course
	nextID  uint
}

func newMemoryCourseRepo() *memoryCourseRepo {
	return &memoryCourseRepo{courses: make(map[uint]models.Course), nextID: 1}
}

func (m *memoryCourseRepo) List(_ context.Context) ([]models.Course, error) {
	results := make([]models.Course, 0, len(m.courses))
	for _, course := range m.courses {
		results = append(results, course)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryCourseRepo) GetByID(_ context.Context, id uint) (models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (m *memoryCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = m.nextID
	m.courses[m.nextID] = *course
	m.nextID++
	return nil
}

func (m *memoryCourseRepo) Update(_ context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *memoryCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.courses)), nil
}

type memoryBatchRepo struct {
	batches map[uint]models.Batch
	nextID  uint
}

func newMemoryBatchRepo() *memoryBatchRepo {
	return &memoryBatchRepo{batches: make(map[uint]models.Batch), nextID: 1}
}

func (m *memoryBatchRepo) List(_ context.Context) ([]models.Batch, error) {
	results := make([]models.Batch, 0, len(m.batches))
	for _, batch := range m.batches {
		results = append(results, batch)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryBatchRepo) GetByID(_ context.Context, id uint) (models.Batch, error) {
	batch, ok := m.batches[id]
	if !ok {
		return models.Batch{}, gorm.ErrRecordNotFound
	}
	return batch, nil
}

func (m *memoryBatchRepo) Create(_ context.Context, batch *models.Batch) error {
	batch.ID = m.nextID
	m.batches[m.nextID] = *batch
	m.nextID++
	return nil
}

func (m *memoryBatchRepo) Update(_ context.Context, batch *models.Batch) error {
	if _, ok := m.batches[batch.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.batches[batch.ID] = *batch
	return nil
}

func (m *memoryBatchRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.batches[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.batches, id)
	return nil
}

type memoryAssignmentRepo struct {
	assignments map[uint]models.Assignment
	nextID      uint
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{assignments: make(map[uint]models.Assignment), nextID: 1}
}

func (m *memoryAssignmentRepo) ListByTeacher(_ context.Context, teacherID uint) ([]models.Assignment, error) {
	results := make([]models.Assignment, 0)
	for _, assignment := range m.assignments {
		if assignment.TeacherID == teacherID {
			results = append(results, assignment)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (m *memoryAssignmentRepo) GetByID(_ context.Context, id uint) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (m *memoryAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	assignment.ID = m.nextID
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()
	m.assignments[m.nextID] = *assignment
	m.nextID++
	return nil
}

func (m *memoryAssignmentRepo) Update(_ context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.UpdatedAt = time.Now()
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) DeleteWithSubmissions(_ context.Context, id uint) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

func (m *memoryAssignmentRepo) PurgeByTeacher(_ context.Context, teacherID uint) error {
	for id, assignment := range m.assignments {
		if assignment.TeacherID == teacherID {
			delete(m.assignments, id)
		}
	}
	return nil
}

func (m *memoryAssignmentRepo) CountByTeacher(_ context.Context, teacherID uint) (int64, error) {
	var count int64
	for _, assignment := range m.assignments {
		if assignment.TeacherID == teacherID {
			count++
		}
	}
	return count, nil
}

// memorySubmissionRepo joins against the assignment and user fakes so reads
// carry the same preloads the GORM repository provides.
type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	assignments *memoryAssignmentRepo
	users       *memoryUserRepo
	nextID      uint
}

func newMemorySubmissionRepo(assignments *memoryAssignmentRepo, users *memoryUserRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{
		submissions: make(map[uint]models.Submission),
		assignments: assignments,
		users:       users,
		nextID:      1,
	}
}

func (m *memorySubmissionRepo) preload(submission models.Submission) models.Submission {
	if m.assignments != nil {
		if assignment, ok := m.assignments.assignments[submission.AssignmentID]; ok {
			submission.Assignment = assignment
		}
	}
	if m.users != nil {
		if student, ok := m.users.users[submission.StudentID]; ok {
			submission.Student = student
		}
	}
	return submission
}

func (m *memorySubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return m.preload(submission), nil
}

func (m *memorySubmissionRepo) GetByAssignmentAndStudent(_ context.Context, assignmentID, studentID uint) (models.Submission, error) {
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			return m.preload(submission), nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) ListByAssignment(_ context.Context, assignmentID uint) ([]models.Submission, error) {
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID {
			results = append(results, m.preload(submission))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) ListByStudent(_ context.Context, studentID uint) ([]models.Submission, error) {
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if submission.StudentID == studentID {
			results = append(results, m.preload(submission))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) ListByTeacherSince(_ context.Context, teacherID uint, since time.Time) ([]models.Submission, error) {
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		loaded := m.preload(submission)
		if loaded.Assignment.TeacherID == teacherID && !loaded.CreatedAt.Before(since) {
			results = append(results, loaded)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) ListApprovedByStudent(_ context.Context, studentID uint) ([]models.Submission, error) {
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if submission.StudentID == studentID && submission.Status == models.SubmissionStatusApproved {
			results = append(results, m.preload(submission))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	submission.ID = m.nextID
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = time.Now()
	m.submissions[m.nextID] = *submission
	m.nextID++
	return nil
}

func (m *memorySubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	if _, ok := m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *submission
	stored.Assignment = models.Assignment{}
	stored.Student = models.User{}
	stored.UpdatedAt = time.Now()
	m.submissions[submission.ID] = stored
	return nil
}

func (m *memorySubmissionRepo) CountByStudent(_ context.Context, studentID uint) (int64, error) {
	var count int64
	for _, submission := range m.submissions {
		if submission.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

type sentMail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *captureMailer) Send(_ context.Context, to, subject, plainText, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Text: plainText, HTML: html})
	return nil
}

type capturedEvent struct {
	Kind    string
	Payload interface{}
}

type captureEvents struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (e *captureEvents) Publish(_ context.Context, kind string, payload interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, capturedEvent{Kind: kind, Payload: payload})
}

func (e *captureEvents) kinds() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	kinds := make([]string, 0, len(e.events))
	for _, event := range e.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}
