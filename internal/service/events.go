package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/observability"
)

// Lifecycle event kinds published to the broker.
const (
	EventSubmissionCreated     = "submission.created"
	EventSubmissionResubmitted = "submission.resubmitted"
	EventSubmissionGraded      = "submission.graded"
	EventTeacherCreated        = "teacher.created"
	EventTeacherDeleted        = "teacher.deleted"
	EventAssignmentDeleted     = "assignment.deleted"
)

// EventPublisher emits best-effort lifecycle events. Publishing never fails
// the calling operation; consumers are outside this service.
type EventPublisher interface {
	Publish(ctx context.Context, kind string, payload interface{})
}

type lifecycleEvent struct {
	Source  string      `json:"source"`
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

type natsEventPublisher struct {
	conn        *nats.Conn
	subjectBase string
	logger      zerolog.Logger
	nodeID      string
}

// NewEventPublisher builds a NATS-backed publisher. A nil connection yields a
// publisher that silently drops events, so wiring stays optional.
func NewEventPublisher(conn *nats.Conn, subjectBase string, logger zerolog.Logger) EventPublisher {
	return &natsEventPublisher{
		conn:        conn,
		subjectBase: subjectBase,
		logger:      logger.With().Str("component", "event_publisher").Logger(),
		nodeID:      uuid.NewString(),
	}
}

func (p *natsEventPublisher) Publish(_ context.Context, kind string, payload interface{}) {
	if p.conn == nil {
		return
	}

	event := lifecycleEvent{
		Source:  p.nodeID,
		Kind:    kind,
		Payload: payload,
		SentAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Str("kind", kind).Msg("failed to encode lifecycle event")
		observability.LifecycleEventsDropped().Inc()
		return
	}

	subject := p.subjectBase + "." + kind
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish lifecycle event")
		observability.LifecycleEventsDropped().Inc()
	}
}
