package crypto

import (
	"crypto/rsa"

	"seguraassina/internal/domain"
)

// Service groups the digest, key codec and signature functions. It holds no
// state, so one value may be shared across goroutines.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Digest(document []byte) domain.Digest {
	return Digest(document)
}

func (s *Service) GenerateKeyPair(size domain.KeySize) (domain.KeyPair, error) {
	return GenerateKeyPair(size)
}

func (s *Service) ImportPrivateKey(text string) (*rsa.PrivateKey, error) {
	return ImportPrivateKey(text)
}

func (s *Service) ImportPublicKey(text string) (*rsa.PublicKey, error) {
	return ImportPublicKey(text)
}

func (s *Service) Sign(document []byte, key *rsa.PrivateKey) ([]byte, domain.Digest, error) {
	return Sign(document, key)
}

func (s *Service) Verify(document []byte, signatureB64 string, key *rsa.PublicKey) domain.VerificationResult {
	return Verify(document, signatureB64, key)
}
