package usecase

import (
	"context"
	"time"

	"seguraassina/internal/domain"
)

type Clock func() time.Time

// AuditSink receives operation events. Implementations must not block on
// slow backends for long; events are emitted inline with each request.
type AuditSink interface {
	Append(ctx context.Context, event domain.AuditEvent) error
}

type Metrics interface {
	KeysGenerated(size domain.KeySize)
	DocumentSigned()
	VerificationCompleted(reason domain.ReasonCode)
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
