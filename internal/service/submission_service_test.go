package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/dto"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
)

type submissionFixture struct {
	service     SubmissionService
	users       *memoryUserRepo
	assignments *memoryAssignmentRepo
	submissions *memorySubmissionRepo
	mail        *captureMailer
	events      *captureEvents
	teacherID   uint
	studentID   uint
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	users := newMemoryUserRepo()
	assignments := newMemoryAssignmentRepo()
	submissions := newMemorySubmissionRepo(assignments, users)
	mail := &captureMailer{}
	events := &captureEvents{}

	teacher := models.User{FullName: "Teacher One", Email: "teacher@portal.test", Role: models.RoleTeacher}
	require.NoError(t, users.Create(context.Background(), &teacher))

	student := models.User{FullName: "Student One", Email: "student@portal.test", Role: models.RoleStudent, TeacherID: &teacher.ID}
	require.NoError(t, users.Create(context.Background(), &student))

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewSubmissionService(submissions, assignments, validate, mail, events, zerolog.Nop())

	return &submissionFixture{
		service:     svc,
		users:       users,
		assignments: assignments,
		submissions: submissions,
		mail:        mail,
		events:      events,
		teacherID:   teacher.ID,
		studentID:   student.ID,
	}
}

func (f *submissionFixture) createAssignment(t *testing.T, status string, points int) uint {
	t.Helper()

	assignment := models.Assignment{
		Title:     "HTML Portfolio",
		Status:    status,
		Points:    points,
		TeacherID: f.teacherID,
	}
	require.NoError(t, f.assignments.Create(context.Background(), &assignment))
	return assignment.ID
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestSubmitCreatesPendingSubmission(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	result, created, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://github.com/student/portfolio",
	})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, models.SubmissionStatusPending, result.Status)
	require.False(t, result.IsSeen)
	require.False(t, result.IsApproved)
	require.False(t, result.CanResubmit)
	require.Zero(t, result.Points)
	require.Equal(t, []string{EventSubmissionCreated}, f.events.kinds())
}

func TestSubmitAcceptsSchemelessURL(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	result, created, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "a.com",
	})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "a.com", result.URL)
	require.Equal(t, models.SubmissionStatusPending, result.Status)
}

func TestSubmitRejectsClosedAssignment(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusClosed, 100)

	_, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://github.com/student/portfolio",
	})
	require.ErrorIs(t, err, ErrAssignmentClosed)
}

func TestSubmitRejectsUnknownAssignment(t *testing.T) {
	f := newSubmissionFixture(t)

	_, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: 99,
		URL:          "https://github.com/student/portfolio",
	})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSubmitRejectsDuplicateWithoutPermission(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	_, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	_, _, err = f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://b.example.com",
	})
	require.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestResubmissionLifecycle(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	first, created, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)
	require.True(t, created)

	graded, err := f.service.Grade(context.Background(), first.ID, f.teacherID, dto.GradeSubmissionRequest{
		Status:          models.SubmissionStatusDisapproved,
		RejectionReason: strPtr("submitted after review window"),
		CanResubmit:     boolPtr(true),
	})
	require.NoError(t, err)
	require.True(t, graded.CanResubmit)

	// The permission survives the assignment closing.
	assignment, err := f.assignments.GetByID(context.Background(), assignmentID)
	require.NoError(t, err)
	assignment.Status = models.AssignmentStatusClosed
	require.NoError(t, f.assignments.Update(context.Background(), &assignment))

	second, created, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://b.example.com",
	})
	require.NoError(t, err)
	require.False(t, created, "resubmission mutates the record in place")
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "https://b.example.com", second.URL)
	require.Equal(t, models.SubmissionStatusPending, second.Status)
	require.False(t, second.CanResubmit, "permission is one-shot")
	require.False(t, second.IsSeen)
	require.False(t, second.IsApproved)
	require.Zero(t, second.Points)
	require.Empty(t, second.Feedback)
	require.Empty(t, second.RejectionReason)

	_, _, err = f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://c.example.com",
	})
	require.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestGradeApprovesSubmission(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 80)

	submission, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	graded, err := f.service.Grade(context.Background(), submission.ID, f.teacherID, dto.GradeSubmissionRequest{
		Status:   models.SubmissionStatusApproved,
		Points:   intPtr(75),
		Feedback: strPtr("clean markup, good structure"),
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusApproved, graded.Status)
	require.True(t, graded.IsApproved)
	require.True(t, graded.IsSeen)
	require.False(t, graded.CanResubmit)
	require.Equal(t, 75, graded.Points)
	require.Equal(t, "clean markup, good structure", graded.Feedback)
	require.Empty(t, graded.RejectionReason)
	require.Empty(t, f.mail.sent, "approval sends no email")
}

func TestGradeApprovalRequiresPointsAndFeedback(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	submission, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	_, err = f.service.Grade(context.Background(), submission.ID, f.teacherID, dto.GradeSubmissionRequest{
		Status: models.SubmissionStatusApproved,
		Points: intPtr(50),
	})
	require.ErrorIs(t, err, ErrApprovalRequiresGrade)

	_, err = f.service.Grade(context.Background(), submission.ID, f.teacherID, dto.GradeSubmissionRequest{
		Status:   models.SubmissionStatusApproved,
		Feedback: strPtr("nice"),
	})
	require.ErrorIs(t, err, ErrApprovalRequiresGrade)
}

func TestGradeApprovalCapsPointsAtAssignmentMaximum(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 50)

	submission, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	_, err = f.service.Grade(context.Background(), submission.ID, f.teacherID, dto.GradeSubmissionRequest{
		Status:   models.SubmissionStatusApproved,
		Points:   intPtr(60),
		Feedback: strPtr("good"),
	})
	require.ErrorIs(t, err, ErrPointsExceedMax)
}

func TestGradeDisapprovalRequiresReason(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	submission, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	_, err = f.service.Grade(context.Background(), submission.ID, f.teacherID, dto.GradeSubmissionRequest{
		Status: models.SubmissionStatusDisapproved,
	})
	require.ErrorIs(t, err, ErrDisapprovalRequiresReason)
}

func TestGradeDisapprovalSendsEmail(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	submission, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	graded, err := f.service.Grade(context.Background(), submission.ID, f.teacherID, dto.GradeSubmissionRequest{
		Status:          models.SubmissionStatusDisapproved,
		RejectionReason: strPtr("broken links"),
		CanResubmit:     boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusDisapproved, graded.Status)
	require.True(t, graded.IsSeen)
	require.Zero(t, graded.Points)

	require.Len(t, f.mail.sent, 1)
	require.Equal(t, "student@portal.test", f.mail.sent[0].To)
	require.Equal(t, "Submission Disapproved - Resubmission Allowed", f.mail.sent[0].Subject)
	require.Contains(t, f.mail.sent[0].Text, "broken links")
}

func TestGradeDisapprovalWithoutResubmissionSubject(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	submission, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	_, err = f.service.Grade(context.Background(), submission.ID, f.teacherID, dto.GradeSubmissionRequest{
		Status:          models.SubmissionStatusDisapproved,
		RejectionReason: strPtr("plagiarized"),
	})
	require.NoError(t, err)

	require.Len(t, f.mail.sent, 1)
	require.Equal(t, "Submission Disapproved", f.mail.sent[0].Subject)
}

func TestGradeMailFailureDoesNotFailGrading(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	submission, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	f.mail.err = context.DeadlineExceeded
	graded, err := f.service.Grade(context.Background(), submission.ID, f.teacherID, dto.GradeSubmissionRequest{
		Status:          models.SubmissionStatusDisapproved,
		RejectionReason: strPtr("incomplete"),
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusDisapproved, graded.Status)
}

func TestGradeRejectsForeignTeacher(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	other := models.User{FullName: "Teacher Two", Email: "other@portal.test", Role: models.RoleTeacher}
	require.NoError(t, f.users.Create(context.Background(), &other))

	submission, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	_, err = f.service.Grade(context.Background(), submission.ID, other.ID, dto.GradeSubmissionRequest{
		Status:          models.SubmissionStatusDisapproved,
		RejectionReason: strPtr("not yours to judge"),
	})
	require.ErrorIs(t, err, ErrNotAssignmentOwner)
}

func TestMarkSeenIsIdempotent(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	submission, _, err := f.service.Submit(context.Background(), f.studentID, dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		URL:          "https://a.example.com",
	})
	require.NoError(t, err)

	seen, err := f.service.MarkSeen(context.Background(), submission.ID, f.teacherID)
	require.NoError(t, err)
	require.True(t, seen.IsSeen)

	again, err := f.service.MarkSeen(context.Background(), submission.ID, f.teacherID)
	require.NoError(t, err)
	require.True(t, again.IsSeen)
}

func TestListByAssignmentEnforcesOwnership(t *testing.T) {
	f := newSubmissionFixture(t)
	assignmentID := f.createAssignment(t, models.AssignmentStatusOpen, 100)

	other := models.User{FullName: "Teacher Two", Email: "other@portal.test", Role: models.RoleTeacher}
	require.NoError(t, f.users.Create(context.Background(), &other))

	_, err := f.service.ListByAssignment(context.Background(), assignmentID, other.ID)
	require.ErrorIs(t, err, ErrNotAssignmentOwner)

	submissions, err := f.service.ListByAssignment(context.Background(), assignmentID, f.teacherID)
	require.NoError(t, err)
	require.Empty(t, submissions)
}
