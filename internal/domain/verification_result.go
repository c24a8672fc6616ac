package domain

type ReasonCode string

const (
	ReasonOK                 ReasonCode = "OK"
	ReasonIntegrityViolation ReasonCode = "INTEGRITY_VIOLATION"
	// ReasonAuthenticityFailure is reserved. A PKCS#1 v1.5 check cannot tell
	// a modified document from a non-matching key, so Verify reports both
	// as ReasonIntegrityViolation and never returns this code.
	ReasonAuthenticityFailure ReasonCode = "AUTHENTICITY_FAILURE"
	ReasonInvalidKey          ReasonCode = "INVALID_KEY"
	ReasonInvalidSignature    ReasonCode = "INVALID_SIGNATURE"
)

// VerificationResult is the outcome of checking a document/signature/key
// triple. Valid is true iff Reason is ReasonOK. HashCalculated is the digest
// of the document that was actually checked, set on every outcome.
type VerificationResult struct {
	Valid          bool       `json:"valid"`
	HashCalculated Digest     `json:"hash_calculated"`
	Reason         ReasonCode `json:"reason"`
}
