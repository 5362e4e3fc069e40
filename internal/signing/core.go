package signing

import (
	"crypto"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cybergodev/hsjwt/internal/core"
)

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	ErrInvalidKey           = errors.New("invalid HMAC key")
	ErrSignatureInvalid     = errors.New("signature verification failed")
)

// Method computes and checks the MAC carried in the third token segment.
type Method interface {
	Alg() string
	Hash() crypto.Hash
	Size() int
	Sign(signingInput string, key []byte) ([]byte, error)
	Verify(signingInput string, signature, key []byte) error
}

// GetMethod resolves an algorithm identifier. The match is exact: "hs256",
// " HS256" and "none" are all unsupported.
func GetMethod(alg string) (Method, error) {
	switch alg {
	case hmacHS256.name:
		return hmacHS256, nil
	case hmacHS384.name:
		return hmacHS384, nil
	case hmacHS512.name:
		return hmacHS512, nil
	}

	if strings.TrimSpace(alg) == "" {
		return nil, fmt.Errorf("%w: algorithm cannot be empty", ErrUnsupportedAlgorithm)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
}

// Algorithms lists every identifier GetMethod accepts.
func Algorithms() []string {
	return []string{hmacHS256.name, hmacHS384.name, hmacHS512.name}
}

// SigningInput marshals header and claims and joins their base64url forms
// with a dot. Canonical ordering is the job of the values' MarshalJSON.
func SigningInput(header, claims any) (string, error) {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	var b strings.Builder
	b.Grow(len(headerJSON)*4/3 + len(claimsJSON)*4/3 + 3)
	b.WriteString(core.EncodeSegment(headerJSON))
	b.WriteByte('.')
	b.WriteString(core.EncodeSegment(claimsJSON))
	return b.String(), nil
}

// SignedString produces the full compact serialization.
func SignedString(header, claims any, method Method, key []byte) (string, error) {
	if method == nil {
		return "", fmt.Errorf("%w: no method", ErrUnsupportedAlgorithm)
	}

	signingInput, err := SigningInput(header, claims)
	if err != nil {
		return "", err
	}

	sig, err := method.Sign(signingInput, key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signingInput + "." + core.EncodeSegment(sig), nil
}
