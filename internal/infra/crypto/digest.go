package crypto

import (
	"crypto/sha256"

	"seguraassina/internal/domain"
)

// Digest is the single hash used by both signing and verification.
func Digest(document []byte) domain.Digest {
	return domain.Digest(sha256.Sum256(document))
}
