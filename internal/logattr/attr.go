// Package logattr holds slog attribute constructors shared by the processor
// and the command line tool. Constructors for optional values return an empty
// Attr, which slog handlers drop, so callers never need nil checks.
package logattr

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Operation names the processor call that produced a record.
func Operation(op string) slog.Attr {
	return slog.String("operation", op)
}

// Algorithm creates an attribute for the token's alg header.
func Algorithm(alg string) slog.Attr {
	if alg == "" {
		return slog.Attr{}
	}
	return slog.String("alg", alg)
}

// Claim names the claim that failed validation.
func Claim(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("claim", name)
}

// TokenID creates an attribute for a jti. Token contents are never logged.
func TokenID(jti string) slog.Attr {
	if jti == "" {
		return slog.Attr{}
	}
	return slog.String("jti", jti)
}

// Duration creates an attribute for a duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
