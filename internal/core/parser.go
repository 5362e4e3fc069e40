package core

import (
	"fmt"
	"strings"
)

// Split breaks a compact token into its three segments. Anything other than
// exactly three non-empty, dot-separated segments is malformed.
func Split(token string) (Parts, error) {
	if token == "" {
		return Parts{}, fmt.Errorf("%w: empty token", ErrMalformed)
	}
	if len(token) > MaxTokenLength {
		return Parts{}, fmt.Errorf("%w: token too large: maximum %d characters allowed", ErrMalformed, MaxTokenLength)
	}

	p1, p2, p3, ok := split3(token, separator)
	if !ok {
		return Parts{}, fmt.Errorf("%w: token must have %d segments, got %d",
			ErrMalformed, segmentCount, strings.Count(token, string(separator))+1)
	}
	if p1 == "" || p2 == "" || p3 == "" {
		return Parts{}, fmt.Errorf("%w: empty segment", ErrMalformed)
	}

	return Parts{Header: p1, Claims: p2, Signature: p3}, nil
}

// Parse splits token and decodes the header and claims segments into header
// and claims. The signature segment is left encoded.
func Parse(token string, header, claims any) (Parts, error) {
	parts, err := Split(token)
	if err != nil {
		return Parts{}, err
	}

	if err := DecodeSegment(parts.Header, header); err != nil {
		return Parts{}, fmt.Errorf("failed to decode header: %w", err)
	}
	if err := DecodeSegment(parts.Claims, claims); err != nil {
		return Parts{}, fmt.Errorf("failed to decode claims: %w", err)
	}
	return parts, nil
}

// DecodeSignature returns the raw MAC bytes carried by the third segment.
func (p Parts) DecodeSignature() ([]byte, error) {
	sig, err := DecodeBase64URL(p.Signature)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	return sig, nil
}

// split3 cuts s at the first two occurrences of sep and fails unless there
// are exactly two.
func split3(s string, sep byte) (string, string, string, bool) {
	first, second := -1, -1
	for i := 0; i < len(s); i++ {
		if s[i] != sep {
			continue
		}
		switch {
		case first == -1:
			first = i
		case second == -1:
			second = i
		default:
			return "", "", "", false
		}
	}

	if second == -1 {
		return "", "", "", false
	}
	return s[:first], s[first+1 : second], s[second+1:], true
}
