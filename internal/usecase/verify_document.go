package usecase

import (
	"context"

	"seguraassina/internal/domain"
	"seguraassina/internal/infra/crypto"
)

type VerifyDocument struct {
	Crypto  *crypto.Service
	Audit   *AuditEmitter
	Metrics Metrics
}

type VerifyDocumentRequest struct {
	Document  []byte
	Signature string
	PublicKey string
}

// Execute checks the signature against the document and public key text.
//
// The returned result is always populated. A public key that does not parse
// yields Reason INVALID_KEY together with an error wrapping
// domain.ErrMalformedKey; every other failure is reported only through the
// result.
func (uc *VerifyDocument) Execute(ctx context.Context, req VerifyDocumentRequest) (domain.VerificationResult, error) {
	svc := cryptoService(uc.Crypto)

	key, keyErr := svc.ImportPublicKey(req.PublicKey)
	result := svc.Verify(req.Document, req.Signature, key)

	if uc.Metrics != nil {
		uc.Metrics.VerificationCompleted(result.Reason)
	}
	if uc.Audit != nil {
		_ = uc.Audit.EmitSignatureVerified(ctx, result, len(req.Document))
	}
	return result, keyErr
}
