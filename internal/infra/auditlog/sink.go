package auditlog

import (
	"context"
	"time"

	"seguraassina/internal/domain"
	"seguraassina/internal/usecase"

	"github.com/rs/zerolog"
)

// Sink writes audit events as structured log lines.
type Sink struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Sink {
	return &Sink{logger: logger.With().Str("component", "audit").Logger()}
}

func (s *Sink) Append(_ context.Context, event domain.AuditEvent) error {
	level := zerolog.InfoLevel
	if event.Result == domain.AuditResultFailure {
		level = zerolog.WarnLevel
	}
	e := s.logger.WithLevel(level).
		Str("event_type", string(event.EventType)).
		Str("result", string(event.Result)).
		Time("created_at", event.CreatedAt.UTC().Truncate(time.Millisecond)).
		Int("document_size", event.DocumentSize)
	if event.Reason != "" {
		e = e.Str("reason", string(event.Reason))
	}
	if event.ErrorCode != "" {
		e = e.Str("error_code", event.ErrorCode)
	}
	if event.Digest != "" {
		e = e.Str("digest", event.Digest)
	}
	if event.KeySize != 0 {
		e = e.Int("key_size", int(event.KeySize))
	}
	if event.RequestID != "" {
		e = e.Str("request_id", event.RequestID)
	}
	e.Msg("audit")
	return nil
}

var _ usecase.AuditSink = (*Sink)(nil)
