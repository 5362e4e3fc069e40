package jwt

import (
	"errors"
	"fmt"

	"github.com/cybergodev/hsjwt/internal/signing"
)

// Token structure and cryptography errors
var (
	// ErrInvalidToken reports a malformed token: wrong segment count,
	// undecodable base64, unparsable JSON or an empty signing input.
	ErrInvalidToken = errors.New("invalid token")

	// ErrSignatureInvalid reports a well-formed signature that does not match
	// the recomputed MAC.
	ErrSignatureInvalid = signing.ErrSignatureInvalid

	// ErrUnsupportedAlgorithm reports an algorithm with no implementation or
	// one excluded by WithAlgorithms.
	ErrUnsupportedAlgorithm = signing.ErrUnsupportedAlgorithm

	// ErrInvalidKey reports an empty key or one shorter than the configured minimum.
	ErrInvalidKey = signing.ErrInvalidKey

	// ErrInvalidClaims reports claims that cannot be serialized.
	ErrInvalidClaims = errors.New("invalid claims")
)

// Claim validation errors, one per check in the validation chain
var (
	ErrTokenExpired          = errors.New("token has expired")
	ErrExpirationInvalid     = errors.New("expiration claim is malformed")
	ErrIssuerInvalid         = errors.New("issuer claim is missing or unexpected")
	ErrAudienceInvalid       = errors.New("audience claim is missing or unexpected")
	ErrTokenNotYetValid      = errors.New("token is not valid yet")
	ErrNotBeforeInvalid      = errors.New("not-before claim is malformed")
	ErrIssuedAtInvalid       = errors.New("issued-at claim is missing or malformed")
	ErrTokenUsedBeforeIssued = errors.New("token used before issued")
	ErrSubjectInvalid        = errors.New("subject claim is missing or unexpected")
	ErrTokenIDInvalid        = errors.New("token id claim is missing or unexpected")
	ErrClaimInvalid          = errors.New("claim is missing or unexpected")
)

// Processor errors
var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrProcessorClosed = errors.New("processor is closed: cannot perform operations")
)

// ValidationError represents a validation error for a specific claim.
// errors.Is matches it against the sentinel held in Err.
type ValidationError struct {
	Field   string // The claim that failed validation
	Message string // Human-readable error message
	Err     error  // Sentinel identifying the failed check
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for field '%s': %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func claimError(field string, err error, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Err: err}
}

func invalidToken(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidToken, err)
}
