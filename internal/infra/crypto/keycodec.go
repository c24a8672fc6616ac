package crypto

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"seguraassina/internal/domain"
)

const (
	pemTypeRSAPrivateKey = "RSA PRIVATE KEY"
	pemTypePrivateKey    = "PRIVATE KEY"
	pemTypeRSAPublicKey  = "RSA PUBLIC KEY"
	pemTypePublicKey     = "PUBLIC KEY"
)

// minImportBits is the smallest modulus crypto/rsa will sign or verify with.
const minImportBits = 1024

// GenerateKeyPair creates a fresh RSA key pair and returns it PEM encoded.
func GenerateKeyPair(size domain.KeySize) (domain.KeyPair, error) {
	if !size.Valid() {
		return domain.KeyPair{}, fmt.Errorf("%w: unsupported key size %d", domain.ErrInvalidParameter, int(size))
	}
	key, err := rsa.GenerateKey(rand.Reader, int(size))
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("generate rsa key: %w", err)
	}
	publicPEM, err := ExportPublicKey(&key.PublicKey)
	if err != nil {
		return domain.KeyPair{}, err
	}
	return domain.KeyPair{
		PrivateKey: ExportPrivateKey(key),
		PublicKey:  publicPEM,
		KeySize:    size,
	}, nil
}

func ExportPrivateKey(key *rsa.PrivateKey) string {
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  pemTypeRSAPrivateKey,
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

func ExportPublicKey(key *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  pemTypePublicKey,
		Bytes: der,
	})), nil
}

// ImportPrivateKey accepts PKCS#1 and PKCS#8 encoded RSA private keys.
func ImportPrivateKey(text string) (*rsa.PrivateKey, error) {
	block, err := decodeSinglePEM(text)
	if err != nil {
		return nil, err
	}
	var key *rsa.PrivateKey
	switch block.Type {
	case pemTypeRSAPrivateKey:
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, malformedKey("invalid PKCS#1 private key: %v", err)
		}
	case pemTypePrivateKey:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, malformedKey("invalid PKCS#8 private key: %v", err)
		}
		rsaKey, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, malformedKey("private key is %T, want RSA", parsed)
		}
		key = rsaKey
	default:
		return nil, malformedKey("unexpected PEM block %q, want a private key", block.Type)
	}
	if err := checkModulus(key.N.BitLen()); err != nil {
		return nil, err
	}
	if err := key.Validate(); err != nil {
		return nil, malformedKey("inconsistent private key: %v", err)
	}
	return key, nil
}

// ImportPublicKey accepts PKIX and PKCS#1 encoded RSA public keys.
func ImportPublicKey(text string) (*rsa.PublicKey, error) {
	block, err := decodeSinglePEM(text)
	if err != nil {
		return nil, err
	}
	var key *rsa.PublicKey
	switch block.Type {
	case pemTypePublicKey:
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, malformedKey("invalid PKIX public key: %v", err)
		}
		rsaKey, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, malformedKey("public key is %T, want RSA", parsed)
		}
		key = rsaKey
	case pemTypeRSAPublicKey:
		key, err = x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, malformedKey("invalid PKCS#1 public key: %v", err)
		}
	default:
		return nil, malformedKey("unexpected PEM block %q, want a public key", block.Type)
	}
	if err := checkModulus(key.N.BitLen()); err != nil {
		return nil, err
	}
	return key, nil
}

func checkModulus(bits int) error {
	if bits < minImportBits {
		return malformedKey("%d-bit key is too small, need at least %d bits", bits, minImportBits)
	}
	return nil
}

func decodeSinglePEM(text string) (*pem.Block, error) {
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return nil, malformedKey("key is empty")
	}
	block, rest := pem.Decode([]byte(text))
	if block == nil {
		return nil, malformedKey("key is not PEM encoded")
	}
	if len(bytes.TrimSpace(rest)) != 0 {
		return nil, malformedKey("unexpected data after PEM block")
	}
	if _, encrypted := block.Headers["DEK-Info"]; encrypted {
		return nil, malformedKey("encrypted PEM keys are not supported")
	}
	return block, nil
}

func malformedKey(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedKey, fmt.Sprintf(format, args...))
}
