package usecase

import (
	"context"
	"fmt"
	"strings"

	"seguraassina/internal/domain"
	"seguraassina/internal/infra/crypto"
)

const AlgorithmSHA256WithRSA = "SHA256withRSA"

type SignDocument struct {
	Crypto  *crypto.Service
	Audit   *AuditEmitter
	Metrics Metrics
}

type SignDocumentRequest struct {
	Document   []byte
	PrivateKey string
}

type SignDocumentResponse struct {
	Signature    []byte
	Digest       domain.Digest
	Algorithm    string
	DocumentSize int
	KeySize      domain.KeySize
}

func (r SignDocumentResponse) SignatureBase64() string {
	return crypto.EncodeSignature(r.Signature)
}

// Execute signs the SHA-256 digest of the document with the given PEM key.
func (uc *SignDocument) Execute(ctx context.Context, req SignDocumentRequest) (SignDocumentResponse, error) {
	svc := cryptoService(uc.Crypto)
	if strings.TrimSpace(req.PrivateKey) == "" {
		err := fmt.Errorf("%w: private key is required", domain.ErrMalformedInput)
		uc.audit(ctx, svc.Digest(req.Document), 0, len(req.Document), err)
		return SignDocumentResponse{}, err
	}
	key, err := svc.ImportPrivateKey(req.PrivateKey)
	if err != nil {
		uc.audit(ctx, svc.Digest(req.Document), 0, len(req.Document), err)
		return SignDocumentResponse{}, err
	}
	size := domain.KeySize(key.N.BitLen())
	sig, digest, err := svc.Sign(req.Document, key)
	uc.audit(ctx, digest, size, len(req.Document), err)
	if err != nil {
		return SignDocumentResponse{}, err
	}
	if uc.Metrics != nil {
		uc.Metrics.DocumentSigned()
	}
	return SignDocumentResponse{
		Signature:    sig,
		Digest:       digest,
		Algorithm:    AlgorithmSHA256WithRSA,
		DocumentSize: len(req.Document),
		KeySize:      size,
	}, nil
}

func (uc *SignDocument) audit(ctx context.Context, digest domain.Digest, size domain.KeySize, documentSize int, err error) {
	if uc.Audit != nil {
		_ = uc.Audit.EmitDocumentSigned(ctx, digest, size, documentSize, err)
	}
}
