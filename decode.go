package jwt

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cybergodev/hsjwt/internal/core"
	"github.com/cybergodev/hsjwt/internal/security"
	"github.com/cybergodev/hsjwt/internal/signing"
)

// Parser decodes tokens and runs the claim validation chain. It is immutable
// after NewParser and safe for concurrent use.
type Parser struct {
	algorithms   []SigningMethod
	clock        func() time.Time
	leeway       time.Duration
	minKeyLength int

	checkExp   bool
	requireExp bool
	checkNbf   bool
	checkIat   bool

	issuer      string
	hasIssuer   bool
	audience    string
	hasAudience bool
	subject     string
	hasSubject  bool

	tokenID        string
	hasTokenID     bool
	requireTokenID bool

	claims []claimRequirement
}

type claimRequirement struct {
	name     string
	value    Value
	presence bool // only require the claim to exist
}

// NewParser returns a Parser. Without options it accepts HS256, HS384 and
// HS512, checks exp and nbf when present and reads time from time.Now.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		algorithms:   []SigningMethod{SigningMethodHS256, SigningMethodHS384, SigningMethodHS512},
		clock:        time.Now,
		minKeyLength: 1,
		checkExp:     true,
		checkNbf:     true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decode verifies token with key and validates its claims. Claims are only
// returned when every step succeeds.
func Decode(token string, key []byte, opts ...ParserOption) (*Token, error) {
	return NewParser(opts...).Parse(token, key)
}

// DecodeUnverified parses token and validates its claims without checking
// the signature. The result proves nothing about who issued the token.
func DecodeUnverified(token string, opts ...ParserOption) (*UnverifiedToken, error) {
	return NewParser(opts...).ParseUnverified(token)
}

// SecureCompare reports whether a and b are equal. Once the lengths match it
// examines every byte regardless of where the first difference is.
func SecureCompare(a, b []byte) bool {
	return security.SecureCompare(a, b)
}

// Parse is the verified decode path.
func (p *Parser) Parse(token string, key []byte) (*Token, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	if len(key) < p.minKeyLength {
		return nil, fmt.Errorf("%w: key must be at least %d bytes, got %d", ErrInvalidKey, p.minKeyLength, len(key))
	}

	header, claims, parts, err := p.parse(token)
	if err != nil {
		return nil, err
	}

	method, err := p.method(header.Algorithm)
	if err != nil {
		return nil, err
	}

	sig, err := parts.DecodeSignature()
	if err != nil {
		return nil, invalidToken(err)
	}
	if err := method.Verify(parts.SigningInput(), sig, key); err != nil {
		return nil, err
	}

	if err := p.validate(claims); err != nil {
		return nil, err
	}
	return &Token{Header: header, Claims: claims, Raw: token}, nil
}

// ParseUnverified is the inspection path: structure and claims are checked,
// the signature and algorithm are not.
func (p *Parser) ParseUnverified(token string) (*UnverifiedToken, error) {
	header, claims, parts, err := p.parse(token)
	if err != nil {
		return nil, err
	}
	if err := p.validate(claims); err != nil {
		return nil, err
	}
	return &UnverifiedToken{
		Header:       header,
		Claims:       claims,
		Raw:          token,
		SigningInput: parts.SigningInput(),
	}, nil
}

func (p *Parser) parse(token string) (Header, ClaimSet, core.Parts, error) {
	var rawHeader, claims ClaimSet
	parts, err := core.Parse(token, &rawHeader, &claims)
	if err != nil {
		return Header{}, ClaimSet{}, core.Parts{}, invalidToken(err)
	}
	if strings.TrimSpace(parts.SigningInput()) == "" {
		return Header{}, ClaimSet{}, core.Parts{}, invalidToken(errors.New("empty signing input"))
	}

	header, err := headerFromClaims(rawHeader)
	if err != nil {
		return Header{}, ClaimSet{}, core.Parts{}, invalidToken(err)
	}
	return header, claims, parts, nil
}

// headerFromClaims reads alg and typ from a decoded header object. alg is
// required; typ, when present, must be "JWT" in any case.
func headerFromClaims(raw ClaimSet) (Header, error) {
	v, ok := raw.Get("alg")
	if !ok {
		return Header{}, errors.New("header is missing alg")
	}
	alg, ok := v.AsString()
	if !ok {
		return Header{}, fmt.Errorf("header alg must be a string, got %s", v.Kind())
	}

	h := Header{Algorithm: SigningMethod(alg)}
	if v, ok := raw.Get("typ"); ok {
		typ, ok := v.AsString()
		if !ok || !strings.EqualFold(typ, TokenType) {
			return Header{}, fmt.Errorf("unexpected token type %v", v.Interface())
		}
		h.Type = typ
	}
	return h, nil
}

func (p *Parser) method(alg SigningMethod) (signing.Method, error) {
	m, err := alg.method()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(p.algorithms, alg) {
		return nil, fmt.Errorf("%w: %q is not allowed", ErrUnsupportedAlgorithm, alg)
	}
	return m, nil
}
