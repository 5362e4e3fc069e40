package jwt

import (
	"github.com/cybergodev/hsjwt/internal/signing"
)

// SigningMethod represents supported JWT signing algorithms.
// All methods use HMAC with SHA-2 family hash functions.
type SigningMethod string

const (
	// SigningMethodHS256 uses HMAC with SHA-256 (recommended for most use cases)
	SigningMethodHS256 SigningMethod = "HS256"

	// SigningMethodHS384 uses HMAC with SHA-384 (higher security, larger signatures)
	SigningMethodHS384 SigningMethod = "HS384"

	// SigningMethodHS512 uses HMAC with SHA-512 (maximum security, largest signatures)
	SigningMethodHS512 SigningMethod = "HS512"
)

// TokenType is the only "typ" header value this package emits.
const TokenType = "JWT"

// Registered claim names as defined in RFC 7519.
const (
	ClaimIssuer    = "iss"
	ClaimSubject   = "sub"
	ClaimAudience  = "aud"
	ClaimExpiresAt = "exp"
	ClaimNotBefore = "nbf"
	ClaimIssuedAt  = "iat"
	ClaimTokenID   = "jti"
)

func (m SigningMethod) method() (signing.Method, error) {
	return signing.GetMethod(string(m))
}

// Valid reports whether m has an implementation.
func (m SigningMethod) Valid() bool {
	_, err := m.method()
	return err == nil
}

// SignatureSize is the MAC length in bytes, or 0 for an unsupported method.
func (m SigningMethod) SignatureSize() int {
	sm, err := m.method()
	if err != nil {
		return 0
	}
	return sm.Size()
}

// Header is the JOSE header. Field order fixes the canonical encoding
// {"alg":...,"typ":"JWT"}.
type Header struct {
	Algorithm SigningMethod `json:"alg"`
	Type      string        `json:"typ,omitempty"`
}

// Token is the result of a verified decode: the signature matched and every
// enabled claim check passed.
type Token struct {
	Header Header
	Claims ClaimSet
	Raw    string
}

// UnverifiedToken is the result of an inspection decode. Its signature was
// never checked and its claims must not be trusted.
type UnverifiedToken struct {
	Header       Header
	Claims       ClaimSet
	Raw          string
	SigningInput string
}
