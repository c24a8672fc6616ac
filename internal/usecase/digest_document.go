package usecase

import (
	"context"

	"seguraassina/internal/domain"
	"seguraassina/internal/infra/crypto"
)

const AlgorithmSHA256 = "SHA-256"

type DigestDocument struct {
	Crypto *crypto.Service
	Audit  *AuditEmitter
}

type DigestDocumentResponse struct {
	Digest       domain.Digest
	Algorithm    string
	DocumentSize int
}

func (uc *DigestDocument) Execute(ctx context.Context, document []byte) DigestDocumentResponse {
	digest := cryptoService(uc.Crypto).Digest(document)
	if uc.Audit != nil {
		_ = uc.Audit.EmitDigestComputed(ctx, digest, len(document))
	}
	return DigestDocumentResponse{
		Digest:       digest,
		Algorithm:    AlgorithmSHA256,
		DocumentSize: len(document),
	}
}
