package jwt

import (
	"testing"
	"time"
)

func benchmarkClaims() ClaimSet {
	c := NewClaimSet()
	c.SetString(ClaimSubject, "user123")
	c.SetString("username", "testuser")
	c.SetString("role", "admin")
	c.Set("permissions", Strings("read", "write", "delete"))
	c.SetTime(ClaimExpiresAt, time.Now().Add(time.Hour))
	return c
}

func BenchmarkEncode(b *testing.B) {
	claims := benchmarkClaims()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Encode(claims, codecKey); err != nil {
			b.Fatalf("Failed to encode token: %v", err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	token, err := Encode(benchmarkClaims(), codecKey)
	if err != nil {
		b.Fatalf("Failed to encode token: %v", err)
	}
	parser := NewParser()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := parser.Parse(token, codecKey); err != nil {
			b.Fatalf("Failed to decode token: %v", err)
		}
	}
}

func BenchmarkDecodeUnverified(b *testing.B) {
	token, err := Encode(benchmarkClaims(), codecKey)
	if err != nil {
		b.Fatalf("Failed to encode token: %v", err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := DecodeUnverified(token); err != nil {
			b.Fatalf("Failed to inspect token: %v", err)
		}
	}
}

func BenchmarkSigningMethods(b *testing.B) {
	claims := benchmarkClaims()

	for _, method := range []SigningMethod{SigningMethodHS256, SigningMethodHS384, SigningMethodHS512} {
		b.Run(string(method), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				token, err := EncodeWithMethod(claims, codecKey, method)
				if err != nil {
					b.Fatalf("Failed to encode token: %v", err)
				}
				if _, err := Decode(token, codecKey); err != nil {
					b.Fatalf("Failed to decode token: %v", err)
				}
			}
		})
	}
}

func BenchmarkProcessorIssueVerify(b *testing.B) {
	p, err := New(testSecretKey)
	if err != nil {
		b.Fatalf("Failed to create processor: %v", err)
	}
	defer p.Close()

	claims := benchmarkClaims()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			token, err := p.Issue(claims)
			if err != nil {
				b.Errorf("Failed to issue token: %v", err)
				return
			}
			if _, err := p.Verify(token); err != nil {
				b.Errorf("Failed to verify token: %v", err)
				return
			}
		}
	})
}

func BenchmarkSecureCompare(b *testing.B) {
	x := make([]byte, 64)
	y := make([]byte, 64)

	b.ReportAllocs()
	for b.Loop() {
		SecureCompare(x, y)
	}
}
