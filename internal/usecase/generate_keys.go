package usecase

import (
	"context"

	"seguraassina/internal/domain"
	"seguraassina/internal/infra/crypto"
)

type GenerateKeys struct {
	Crypto  *crypto.Service
	Audit   *AuditEmitter
	Metrics Metrics
}

type GenerateKeysRequest struct {
	// KeySize in bits. Zero selects domain.DefaultKeySize.
	KeySize int
}

func (uc *GenerateKeys) Execute(ctx context.Context, req GenerateKeysRequest) (domain.KeyPair, error) {
	size, err := domain.ParseKeySize(req.KeySize)
	if err != nil {
		uc.audit(ctx, domain.KeySize(req.KeySize), err)
		return domain.KeyPair{}, err
	}
	pair, err := cryptoService(uc.Crypto).GenerateKeyPair(size)
	uc.audit(ctx, size, err)
	if err != nil {
		return domain.KeyPair{}, err
	}
	if uc.Metrics != nil {
		uc.Metrics.KeysGenerated(size)
	}
	return pair, nil
}

func (uc *GenerateKeys) audit(ctx context.Context, size domain.KeySize, err error) {
	if uc.Audit != nil {
		_ = uc.Audit.EmitKeysGenerated(ctx, size, err)
	}
}

func cryptoService(svc *crypto.Service) *crypto.Service {
	if svc == nil {
		return crypto.NewService()
	}
	return svc
}
