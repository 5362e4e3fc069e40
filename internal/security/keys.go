package security

import (
	"bytes"
	"strings"
)

// MinKeyLength is the smallest HMAC secret a Processor accepts.
const MinKeyLength = 32

var weakPatterns = [...]string{
	"12345678", "87654321", "11111111", "00000000", "aaaaaaaa",
	"abcdefgh", "qwerty", "asdfgh", "zxcvbn", "letmein", "welcome",
	"password", "changeme", "default", "example", "sample", "secret",
	"admin", "guest", "test",
}

// IsWeakKey flags keys that are empty, constant, sequential, built from a short
// repeated unit, made of too few distinct bytes, or containing a well-known
// dictionary fragment.
func IsWeakKey(key []byte) bool {
	if len(key) == 0 {
		return true
	}

	if isConstant(key) || isSequential(key) || hasLowEntropy(key) || hasShortPeriod(key) {
		return true
	}

	lower := strings.ToLower(string(key))
	for _, p := range weakPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func isConstant(key []byte) bool {
	for _, b := range key[1:] {
		if b != key[0] {
			return false
		}
	}
	return true
}

func isSequential(key []byte) bool {
	if len(key) < 8 {
		return false
	}
	asc, desc := true, true
	for i := 1; i < 8; i++ {
		if key[i] != key[i-1]+1 {
			asc = false
		}
		if key[i] != key[i-1]-1 {
			desc = false
		}
	}
	return asc || desc
}

// hasLowEntropy requires at least 30% distinct bytes and, for long keys, more
// than two character classes.
func hasLowEntropy(key []byte) bool {
	if len(key) < 8 {
		return true
	}

	var seen [256]bool
	distinct := 0
	var lower, upper, digit, other bool
	for _, b := range key {
		if !seen[b] {
			seen[b] = true
			distinct++
		}
		switch {
		case b >= 'a' && b <= 'z':
			lower = true
		case b >= 'A' && b <= 'Z':
			upper = true
		case b >= '0' && b <= '9':
			digit = true
		default:
			other = true
		}
	}

	if float64(distinct)/float64(len(key)) < 0.3 {
		return true
	}

	classes := 0
	for _, ok := range [...]bool{lower, upper, digit, other} {
		if ok {
			classes++
		}
	}

	minClasses := 2
	if len(key) >= MinKeyLength {
		minClasses = 3
	}
	return classes < minClasses
}

// hasShortPeriod detects keys such as "abcabcabc" whose unit is 2..4 bytes.
func hasShortPeriod(key []byte) bool {
	for period := 2; period <= 4; period++ {
		if len(key) < period*3 {
			continue
		}
		unit := key[:period]
		repeated := true
		for i := period; i < len(key); i += period {
			end := min(i+period, len(key))
			if !bytes.Equal(key[i:end], unit[:end-i]) {
				repeated = false
				break
			}
		}
		if repeated {
			return true
		}
	}
	return false
}
