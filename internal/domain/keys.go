package domain

import "fmt"

// KeySize is an RSA modulus length in bits.
type KeySize int

const (
	KeySize2048 KeySize = 2048
	KeySize4096 KeySize = 4096

	DefaultKeySize = KeySize2048
)

// Valid reports whether the size is one of the accepted modulus lengths.
func (s KeySize) Valid() bool {
	switch s {
	case KeySize2048, KeySize4096:
		return true
	default:
		return false
	}
}

// ParseKeySize resolves a requested bit length. Zero selects DefaultKeySize.
func ParseKeySize(bits int) (KeySize, error) {
	if bits == 0 {
		return DefaultKeySize, nil
	}
	size := KeySize(bits)
	if !size.Valid() {
		return 0, fmt.Errorf("%w: key size must be %d or %d bits, got %d", ErrInvalidParameter, KeySize2048, KeySize4096, bits)
	}
	return size, nil
}

// KeyPair is PEM-encoded key material handed back to the caller. Nothing
// keeps a reference to it once the generating call returns.
type KeyPair struct {
	PrivateKey string
	PublicKey  string
	KeySize    KeySize
}
