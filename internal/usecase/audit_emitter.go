package usecase

import (
	"context"
	"errors"
	"time"

	"seguraassina/internal/domain"
)

type AuditEmitter struct {
	Sink  AuditSink
	Clock Clock
}

func NewAuditEmitter(sink AuditSink, clock Clock) *AuditEmitter {
	return &AuditEmitter{
		Sink:  sink,
		Clock: clock,
	}
}

func (e *AuditEmitter) Emit(ctx context.Context, event domain.AuditEvent) error {
	if e == nil || e.Sink == nil {
		return errors.New("audit sink required")
	}
	if event.EventType == "" || event.Result == "" {
		return errors.New("audit event missing required fields")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = e.now()
	} else {
		event.CreatedAt = event.CreatedAt.UTC()
	}
	if event.RequestID == "" {
		event.RequestID = RequestIDFromContext(ctx)
	}
	return e.Sink.Append(ctx, event)
}

func (e *AuditEmitter) EmitKeysGenerated(ctx context.Context, size domain.KeySize, err error) error {
	return e.Emit(ctx, domain.AuditEvent{
		EventType: domain.AuditEventKeysGenerated,
		Result:    resultOf(err),
		ErrorCode: domain.ErrorCode(err),
		KeySize:   size,
	})
}

func (e *AuditEmitter) EmitDocumentSigned(ctx context.Context, digest domain.Digest, size domain.KeySize, documentSize int, err error) error {
	return e.Emit(ctx, domain.AuditEvent{
		EventType:    domain.AuditEventDocumentSigned,
		Result:       resultOf(err),
		ErrorCode:    domain.ErrorCode(err),
		Digest:       digest.Hex(),
		KeySize:      size,
		DocumentSize: documentSize,
	})
}

func (e *AuditEmitter) EmitSignatureVerified(ctx context.Context, result domain.VerificationResult, documentSize int) error {
	outcome := domain.AuditResultSuccess
	if !result.Valid {
		outcome = domain.AuditResultFailure
	}
	return e.Emit(ctx, domain.AuditEvent{
		EventType:    domain.AuditEventSignatureVerified,
		Result:       outcome,
		Reason:       result.Reason,
		Digest:       result.HashCalculated.Hex(),
		DocumentSize: documentSize,
	})
}

func (e *AuditEmitter) EmitDigestComputed(ctx context.Context, digest domain.Digest, documentSize int) error {
	return e.Emit(ctx, domain.AuditEvent{
		EventType:    domain.AuditEventDigestComputed,
		Result:       domain.AuditResultSuccess,
		Digest:       digest.Hex(),
		DocumentSize: documentSize,
	})
}

func (e *AuditEmitter) now() time.Time {
	if e != nil && e.Clock != nil {
		return e.Clock().UTC()
	}
	return time.Now().UTC()
}

func resultOf(err error) domain.AuditResult {
	if err != nil {
		return domain.AuditResultFailure
	}
	return domain.AuditResultSuccess
}
