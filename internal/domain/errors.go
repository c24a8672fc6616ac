package domain

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrMalformedKey     = errors.New("malformed key")
	ErrMalformedInput   = errors.New("malformed input")
	ErrDocumentTooLarge = errors.New("document too large")
	ErrNotFound         = errors.New("not found")
)

// ErrorCode is the stable machine-readable code for an error kind.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidParameter):
		return "INVALID_PARAMETER"
	case errors.Is(err, ErrMalformedKey):
		return "MALFORMED_KEY"
	case errors.Is(err, ErrMalformedInput):
		return "MALFORMED_INPUT"
	case errors.Is(err, ErrDocumentTooLarge):
		return "DOCUMENT_TOO_LARGE"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}
