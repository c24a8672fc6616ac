// Package logging builds the service logger and keeps key material and
// document bytes out of every log sink.
package logging

import (
	"io"
	"regexp"
)

const RedactedValue = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	// Whole PEM blocks, including escaped newlines as they appear in JSON.
	regexp.MustCompile(`-----BEGIN [A-Z ]*(PRIVATE|PUBLIC) KEY-----(?s:.*?)-----END [A-Z ]*(PRIVATE|PUBLIC) KEY-----(?:\\n|\n)?`),
	// A private key header without its footer: drop up to the end of the value.
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[^"]*`),
	// Long base64 runs: signatures, documents, DER.
	regexp.MustCompile(`[A-Za-z0-9+/]{200,}={0,2}`),
}

// FilterSensitiveValue replaces PEM blocks and long base64 runs.
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

func ContainsSensitiveData(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// FilteringWriter redacts sensitive data before it reaches w.
type FilteringWriter struct {
	w io.Writer
}

func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write reports len(p) on success so callers do not treat redaction as a
// short write.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := fw.w.Write([]byte(FilterSensitiveValue(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
