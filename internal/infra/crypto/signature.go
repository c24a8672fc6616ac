package crypto

import (
	stdcrypto "crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"

	"seguraassina/internal/domain"
)

// Sign hashes the document and signs the digest with RSASSA-PKCS1-v1_5.
// The digest that was signed is returned with the signature.
func Sign(document []byte, key *rsa.PrivateKey) ([]byte, domain.Digest, error) {
	digest := Digest(document)
	if key == nil {
		return nil, digest, fmt.Errorf("%w: private key is required", domain.ErrMalformedKey)
	}
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, stdcrypto.SHA256, digest[:])
	if err != nil {
		return nil, digest, fmt.Errorf("sign digest: %w", err)
	}
	return sig, digest, nil
}

// Verify checks a base64 signature over the document digest. A rejected
// signature is a result, not an error: altered documents and mismatched
// keys are indistinguishable here and both yield ReasonIntegrityViolation.
func Verify(document []byte, signatureB64 string, key *rsa.PublicKey) domain.VerificationResult {
	result := domain.VerificationResult{HashCalculated: Digest(document)}
	if key == nil {
		result.Reason = domain.ReasonInvalidKey
		return result
	}
	sig, err := DecodeSignature(signatureB64)
	if err != nil {
		result.Reason = domain.ReasonInvalidSignature
		return result
	}
	digest := result.HashCalculated
	if err := rsa.VerifyPKCS1v15(key, stdcrypto.SHA256, digest[:], sig); err != nil {
		result.Reason = domain.ReasonIntegrityViolation
		return result
	}
	result.Valid = true
	result.Reason = domain.ReasonOK
	return result
}

func EncodeSignature(sig []byte) string {
	return base64.StdEncoding.EncodeToString(sig)
}

// DecodeSignature parses standard padded base64. Empty input is rejected.
func DecodeSignature(value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: signature is empty", domain.ErrMalformedInput)
	}
	sig, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: signature is not valid base64: %v", domain.ErrMalformedInput, err)
	}
	if len(sig) == 0 {
		return nil, fmt.Errorf("%w: signature is empty", domain.ErrMalformedInput)
	}
	return sig, nil
}
