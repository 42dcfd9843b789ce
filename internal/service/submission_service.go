package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/dto"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/mailer"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/observability"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/repository"
)

// Sentinel errors for the submission lifecycle.
var (
	// ErrAssignmentNotFound indicates the target assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrSubmissionNotFound indicates the submission id did not resolve.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrAssignmentClosed rejects first submissions against a closed assignment.
	ErrAssignmentClosed = errors.New("assignment is closed")
	// ErrAlreadySubmitted rejects a submit when a record exists and resubmission
	// was not granted.
	ErrAlreadySubmitted = errors.New("assignment already submitted")
	// ErrNotAssignmentOwner rejects grading operations by a teacher that does
	// not own the underlying assignment.
	ErrNotAssignmentOwner = errors.New("caller does not own the assignment")
	// ErrPointsExceedMax rejects an approval awarding more than the assignment allows.
	ErrPointsExceedMax = errors.New("points exceed assignment maximum")
	// ErrApprovalRequiresGrade rejects an approval without points or feedback.
	ErrApprovalRequiresGrade = errors.New("points and feedback are required for approval")
	// ErrDisapprovalRequiresReason rejects a disapproval without a reason.
	ErrDisapprovalRequiresReason = errors.New("rejection reason is required for disapproval")
)

// SubmissionService owns every state transition of a submission: creation,
// the one-shot resubmission re-entry, grading, and the seen flag.
type SubmissionService interface {
	// Submit creates the submission for (student, assignment), or mutates the
	// existing record in place when resubmission was granted. The returned
	// bool is true when a new record was created.
	Submit(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, bool, error)
	Grade(ctx context.Context, submissionID, teacherID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
	MarkSeen(ctx context.Context, submissionID, teacherID uint) (dto.SubmissionResponse, error)
	ListByAssignment(ctx context.Context, assignmentID, teacherID uint) ([]dto.SubmissionResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	mail        mailer.Mailer
	events      EventPublisher
	sanitizer   *bluemonday.Policy
	tracer      trace.Tracer
	logger      zerolog.Logger
}

// NewSubmissionService constructs the lifecycle engine. The mailer and event
// publisher are side-effect ports; their failures never fail an operation.
func NewSubmissionService(subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, validate *validator.Validate, mail mailer.Mailer, events EventPublisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		assignments: assignmentRepo,
		validator:   validate,
		mail:        mail,
		events:      events,
		sanitizer:   bluemonday.StrictPolicy(),
		tracer:      otel.Tracer("github.com/Md-Zainulabdin/submission-portal-backend/internal/service/submission"),
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) Submit(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, bool, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, false, err
	}

	existing, err := s.submissions.GetByAssignmentAndStudent(ctx, payload.AssignmentID, studentID)
	switch {
	case err == nil:
		updated, resubmitErr := s.resubmit(ctx, existing, payload.URL)
		return updated, false, resubmitErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First submission for this pair.
	default:
		return dto.SubmissionResponse{}, false, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, false, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, false, err
	}

	if !assignment.IsOpen() {
		return dto.SubmissionResponse{}, false, ErrAssignmentClosed
	}

	submission := models.Submission{
		AssignmentID: payload.AssignmentID,
		StudentID:    studentID,
		URL:          payload.URL,
		Status:       models.SubmissionStatusPending,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, false, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, false, err
	}

	s.logger.Info().
		Uint("submission_id", created.ID).
		Uint("assignment_id", created.AssignmentID).
		Uint("student_id", studentID).
		Msg("submission created")

	observability.Submissions().WithLabelValues("created").Inc()
	s.events.Publish(ctx, EventSubmissionCreated, dto.NewSubmissionResponse(created))

	return dto.NewSubmissionResponse(created), true, nil
}

// resubmit re-enters pending, consuming the one-shot permission flag. Stale
// grading fields from the disapproval are cleared. Resubmission stays valid
// after the assignment closes; only first submissions check openness.
func (s *submissionService) resubmit(ctx context.Context, submission models.Submission, url string) (dto.SubmissionResponse, error) {
	if !submission.CanResubmit {
		return dto.SubmissionResponse{}, ErrAlreadySubmitted
	}

	submission.URL = url
	submission.Status = models.SubmissionStatusPending
	submission.CanResubmit = false
	submission.IsSeen = false
	submission.IsApproved = false
	submission.Points = 0
	submission.Feedback = ""
	submission.RejectionReason = ""

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", updated.ID).
		Uint("student_id", updated.StudentID).
		Msg("submission resubmitted")

	observability.Submissions().WithLabelValues("resubmitted").Inc()
	s.events.Publish(ctx, EventSubmissionResubmitted, dto.NewSubmissionResponse(updated))

	return dto.NewSubmissionResponse(updated), nil
}

func (s *submissionService) Grade(ctx context.Context, submissionID, teacherID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.grade", trace.WithAttributes(
		attribute.Int64("submission.id", int64(submissionID)),
		attribute.Int64("teacher.id", int64(teacherID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.loadOwned(ctx, submissionID, teacherID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	switch payload.Status {
	case models.SubmissionStatusApproved:
		err = s.approve(&submission, payload)
	case models.SubmissionStatusDisapproved:
		err = s.disapprove(&submission, payload)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decision_rejected")
		return dto.SubmissionResponse{}, err
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", updated.ID).
		Str("decision", payload.Status).
		Msg("submission graded")

	observability.GradingDecisions().WithLabelValues(payload.Status).Inc()
	s.events.Publish(ctx, EventSubmissionGraded, dto.NewSubmissionResponse(updated))

	if updated.Status == models.SubmissionStatusDisapproved {
		// Awaited, but a failed delivery never fails the grading.
		s.notifyDisapproval(ctx, updated)
	}

	return dto.NewSubmissionResponse(updated), nil
}

func (s *submissionService) approve(submission *models.Submission, payload dto.GradeSubmissionRequest) error {
	if payload.Points == nil || payload.Feedback == nil || strings.TrimSpace(*payload.Feedback) == "" {
		return ErrApprovalRequiresGrade
	}

	maxPoints := submission.Assignment.Points
	if maxPoints <= 0 {
		maxPoints = 100
	}
	if *payload.Points > maxPoints {
		return ErrPointsExceedMax
	}

	submission.Status = models.SubmissionStatusApproved
	submission.IsApproved = true
	submission.IsSeen = true
	submission.CanResubmit = false
	submission.Points = *payload.Points
	submission.Feedback = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Feedback))
	submission.RejectionReason = ""

	return nil
}

func (s *submissionService) disapprove(submission *models.Submission, payload dto.GradeSubmissionRequest) error {
	if payload.RejectionReason == nil || strings.TrimSpace(*payload.RejectionReason) == "" {
		return ErrDisapprovalRequiresReason
	}

	canResubmit := false
	if payload.CanResubmit != nil {
		canResubmit = *payload.CanResubmit
	}

	submission.Status = models.SubmissionStatusDisapproved
	submission.IsApproved = false
	submission.IsSeen = true
	submission.CanResubmit = canResubmit
	submission.Points = 0
	submission.Feedback = ""
	submission.RejectionReason = strings.TrimSpace(s.sanitizer.Sanitize(*payload.RejectionReason))

	return nil
}

func (s *submissionService) notifyDisapproval(ctx context.Context, submission models.Submission) {
	if submission.Student.Email == "" {
		return
	}

	subject := "Submission Disapproved"
	closing := "Please review the feedback from your teacher."
	if submission.CanResubmit {
		subject = "Submission Disapproved - Resubmission Allowed"
		closing = "You may submit your work once more."
	}

	text := "Your submission for \"" + submission.Assignment.Title + "\" was disapproved. Reason: " +
		submission.RejectionReason + ". " + closing
	html := "<p>Dear " + submission.Student.FullName + ",</p>" +
		"<p>Your submission for <strong>" + submission.Assignment.Title + "</strong> was disapproved.</p>" +
		"<p><strong>Reason:</strong> " + submission.RejectionReason + "</p>" +
		"<p>" + closing + "</p>" +
		"<p>Best regards,<br><strong>Submission Portal Team</strong></p>"

	if err := s.mail.Send(ctx, submission.Student.Email, subject, text, html); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to send disapproval email")
		observability.EmailDeliveries().WithLabelValues("failure").Inc()
		return
	}

	observability.EmailDeliveries().WithLabelValues("success").Inc()
}

func (s *submissionService) MarkSeen(ctx context.Context, submissionID, teacherID uint) (dto.SubmissionResponse, error) {
	submission, err := s.loadOwned(ctx, submissionID, teacherID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if submission.IsSeen {
		return dto.NewSubmissionResponse(submission), nil
	}

	submission.IsSeen = true
	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListByAssignment(ctx context.Context, assignmentID, teacherID uint) ([]dto.SubmissionResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	if assignment.TeacherID != teacherID {
		return nil, ErrNotAssignmentOwner
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListByStudent(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// loadOwned resolves a submission and verifies the calling teacher owns the
// assignment behind it.
func (s *submissionService) loadOwned(ctx context.Context, submissionID, teacherID uint) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	if submission.Assignment.TeacherID != teacherID {
		return models.Submission{}, ErrNotAssignmentOwner
	}

	return submission, nil
}
