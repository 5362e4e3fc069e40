package jwt

import (
	"fmt"

	"github.com/cybergodev/hsjwt/internal/signing"
)

// Encode signs claims with HS256 and returns the compact serialization.
// claims is not modified.
func Encode(claims ClaimSet, key []byte) (string, error) {
	return EncodeWithMethod(claims, key, SigningMethodHS256)
}

// EncodeWithMethod is Encode with an explicit algorithm. The header is always
// {"alg":<method>,"typ":"JWT"} and claims serialize with sorted names, so the
// same inputs always produce the same token. A claim value with no JSON
// form (a NaN number, for one) fails with ErrInvalidClaims.
func EncodeWithMethod(claims ClaimSet, key []byte, method SigningMethod) (string, error) {
	m, err := method.method()
	if err != nil {
		return "", err
	}
	if len(key) == 0 {
		return "", fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}

	header := Header{Algorithm: method, Type: TokenType}
	return signing.SignedString(header, claims, m, key)
}
