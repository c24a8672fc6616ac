package domain

import "time"

type AuditEventType string

const (
	AuditEventKeysGenerated     AuditEventType = "keys.generated"
	AuditEventDocumentSigned    AuditEventType = "document.signed"
	AuditEventSignatureVerified AuditEventType = "signature.verified"
	AuditEventDigestComputed    AuditEventType = "digest.computed"
)

type AuditResult string

const (
	AuditResultSuccess AuditResult = "success"
	AuditResultFailure AuditResult = "failure"
)

// AuditEvent describes one operation. It carries digests and outcome codes
// only; documents, signatures and key material never go into an event.
type AuditEvent struct {
	EventType    AuditEventType
	Result       AuditResult
	Reason       ReasonCode
	ErrorCode    string
	Digest       string
	KeySize      KeySize
	DocumentSize int
	RequestID    string
	CreatedAt    time.Time
}
