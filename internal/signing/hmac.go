package signing

import (
	"crypto"
	"crypto/hmac"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"

	"github.com/cybergodev/hsjwt/internal/security"
)

type hmacMethod struct {
	name string
	hash crypto.Hash
}

var (
	hmacHS256 = &hmacMethod{"HS256", crypto.SHA256}
	hmacHS384 = &hmacMethod{"HS384", crypto.SHA384}
	hmacHS512 = &hmacMethod{"HS512", crypto.SHA512}
)

func (h *hmacMethod) Alg() string       { return h.name }
func (h *hmacMethod) Hash() crypto.Hash { return h.hash }
func (h *hmacMethod) Size() int         { return h.hash.Size() }

// Sign returns the raw MAC of signingInput under key.
func (h *hmacMethod) Sign(signingInput string, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if !h.hash.Available() {
		return nil, fmt.Errorf("%w: hash function %v not available", ErrUnsupportedAlgorithm, h.hash)
	}

	mac := hmac.New(h.hash.New, key)
	mac.Write([]byte(signingInput))
	return mac.Sum(nil), nil
}

// Verify recomputes the MAC and compares it with signature in constant time.
func (h *hmacMethod) Verify(signingInput string, signature, key []byte) error {
	expected, err := h.Sign(signingInput, key)
	if err != nil {
		return err
	}
	defer security.ZeroBytes(expected)

	if !security.SecureCompare(signature, expected) {
		return ErrSignatureInvalid
	}
	return nil
}
