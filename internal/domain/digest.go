package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const DigestSize = 32

// Digest is a SHA-256 value. It renders as 64 lowercase hex characters.
type Digest [DigestSize]byte

func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) String() string {
	return d.Hex()
}

func (d Digest) Bytes() []byte {
	out := make([]byte, DigestSize)
	copy(out, d[:])
	return out
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.Hex()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest decodes the external lowercase hex form.
func ParseDigest(value string) (Digest, error) {
	var d Digest
	if len(value) != hex.EncodedLen(DigestSize) || strings.ToLower(value) != value {
		return d, fmt.Errorf("%w: digest must be %d lowercase hex characters", ErrMalformedInput, hex.EncodedLen(DigestSize))
	}
	if _, err := hex.Decode(d[:], []byte(value)); err != nil {
		return d, fmt.Errorf("%w: digest is not hex: %v", ErrMalformedInput, err)
	}
	return d, nil
}
