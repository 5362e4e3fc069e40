package core

import "errors"

const (
	// MaxTokenLength bounds the compact serialization accepted by Split.
	MaxTokenLength = 8192

	// segmentCount is header, claims and signature.
	segmentCount = 3

	separator = '.'
)

// ErrMalformed marks every structural failure produced by this package.
var ErrMalformed = errors.New("malformed token")

// Parts holds the three encoded segments of a compact token exactly as they
// appeared on the wire.
type Parts struct {
	Header    string
	Claims    string
	Signature string
}

// SigningInput returns the bytes the signature was computed over. It is
// rebuilt from the original segments and never from re-serialized JSON.
func (p Parts) SigningInput() string {
	return p.Header + string(separator) + p.Claims
}
