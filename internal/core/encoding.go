package core

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

var (
	rawURL    = base64.RawURLEncoding.Strict()
	paddedURL = base64.URLEncoding.Strict()
)

// EncodeSegment encodes b with the URL-safe alphabet and no padding.
func EncodeSegment(b []byte) string {
	return rawURL.EncodeToString(b)
}

// DecodeBase64URL decodes a URL-safe base64 string with or without trailing
// padding. Characters outside the URL-safe alphabet are rejected, including
// the line breaks the standard decoder would otherwise skip.
func DecodeBase64URL(s string) ([]byte, error) {
	body := strings.TrimRight(s, "=")
	if !isValidBase64URL(body) {
		return nil, fmt.Errorf("%w: invalid base64url characters", ErrMalformed)
	}

	enc := rawURL
	if len(body) != len(s) {
		enc = paddedURL
	}

	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode base64url: %v", ErrMalformed, err)
	}
	return b, nil
}

// DecodeSegment base64url-decodes segment and unmarshals the JSON it carries
// into dest.
func DecodeSegment(segment string, dest any) error {
	if segment == "" {
		return fmt.Errorf("%w: empty segment", ErrMalformed)
	}

	raw, err := DecodeBase64URL(segment)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: failed to unmarshal JSON: %v", ErrMalformed, err)
	}
	return nil
}

func isValidBase64URL(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '-' || c == '_') {
			return false
		}
	}
	return true
}
