package jwt

import (
	"fmt"
	"time"
)

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithAlgorithms restricts the accepted header algorithms. Methods without an
// implementation are ignored.
func WithAlgorithms(methods ...SigningMethod) ParserOption {
	return func(p *Parser) {
		p.algorithms = p.algorithms[:0:0]
		for _, m := range methods {
			if m.Valid() {
				p.algorithms = append(p.algorithms, m)
			}
		}
	}
}

// WithClock replaces time.Now for the exp, nbf and iat checks.
func WithClock(clock func() time.Time) ParserOption {
	return func(p *Parser) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithLeeway tolerates clock skew in the time-based checks.
func WithLeeway(d time.Duration) ParserOption {
	return func(p *Parser) {
		p.leeway = max(d, 0)
	}
}

// WithMinKeyLength rejects verification keys shorter than n bytes.
func WithMinKeyLength(n int) ParserOption {
	return func(p *Parser) {
		p.minKeyLength = max(n, 1)
	}
}

// WithoutExpirationCheck skips the exp check entirely.
func WithoutExpirationCheck() ParserOption {
	return func(p *Parser) {
		p.checkExp = false
		p.requireExp = false
	}
}

// WithRequiredExpiration makes a missing exp claim an error.
func WithRequiredExpiration() ParserOption {
	return func(p *Parser) {
		p.checkExp = true
		p.requireExp = true
	}
}

// WithoutNotBeforeCheck skips the nbf check.
func WithoutNotBeforeCheck() ParserOption {
	return func(p *Parser) { p.checkNbf = false }
}

// WithIssuedAt requires iat and rejects tokens issued in the future.
func WithIssuedAt() ParserOption {
	return func(p *Parser) { p.checkIat = true }
}

// WithIssuer requires iss to be present and equal to iss.
func WithIssuer(iss string) ParserOption {
	return func(p *Parser) {
		p.issuer = iss
		p.hasIssuer = true
	}
}

// WithAudience requires aud to be aud or an array containing it.
func WithAudience(aud string) ParserOption {
	return func(p *Parser) {
		p.audience = aud
		p.hasAudience = true
	}
}

// WithSubject requires sub to be present and equal to sub.
func WithSubject(sub string) ParserOption {
	return func(p *Parser) {
		p.subject = sub
		p.hasSubject = true
	}
}

// WithTokenID requires jti to be present and equal to jti.
func WithTokenID(jti string) ParserOption {
	return func(p *Parser) {
		p.tokenID = jti
		p.hasTokenID = true
	}
}

// WithRequiredTokenID requires a non-empty string jti of any value.
func WithRequiredTokenID() ParserOption {
	return func(p *Parser) { p.requireTokenID = true }
}

// WithClaim requires claim name to equal v. Checks run in the order given.
func WithClaim(name string, v Value) ParserOption {
	return func(p *Parser) {
		p.claims = append(p.claims, claimRequirement{name: name, value: v})
	}
}

// WithRequiredClaim requires claim name to be present with any value.
func WithRequiredClaim(name string) ParserOption {
	return func(p *Parser) {
		p.claims = append(p.claims, claimRequirement{name: name, presence: true})
	}
}

// validate runs the claim checks in a fixed order and stops at the first
// failure.
func (p *Parser) validate(claims ClaimSet) error {
	now := p.clock()

	if p.hasIssuer {
		if err := p.verifyIssuer(claims); err != nil {
			return err
		}
	}
	if p.checkExp {
		if err := p.verifyExpiration(claims, now); err != nil {
			return err
		}
	}
	if p.hasAudience {
		if err := p.verifyAudience(claims); err != nil {
			return err
		}
	}
	if p.checkNbf {
		if err := p.verifyNotBefore(claims, now); err != nil {
			return err
		}
	}
	if p.checkIat {
		if err := p.verifyIssuedAt(claims, now); err != nil {
			return err
		}
	}
	if p.hasSubject {
		if err := verifyStringClaim(claims, ClaimSubject, p.subject, ErrSubjectInvalid); err != nil {
			return err
		}
	}
	if p.hasTokenID || p.requireTokenID {
		if err := p.verifyTokenID(claims); err != nil {
			return err
		}
	}
	for _, req := range p.claims {
		if err := req.verify(claims); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) verifyIssuer(claims ClaimSet) error {
	return verifyStringClaim(claims, ClaimIssuer, p.issuer, ErrIssuerInvalid)
}

func (p *Parser) verifyExpiration(claims ClaimSet, now time.Time) error {
	v, ok := claims.Get(ClaimExpiresAt)
	if !ok {
		if p.requireExp {
			return claimError(ClaimExpiresAt, ErrExpirationInvalid, "claim is required")
		}
		return nil
	}

	exp, err := parseNumericDate(v)
	if err != nil {
		return claimError(ClaimExpiresAt, ErrExpirationInvalid, "%v", err)
	}
	if !now.Add(-p.leeway).Before(exp) {
		return claimError(ClaimExpiresAt, ErrTokenExpired, "expired at %s", exp.Format(time.RFC3339))
	}
	return nil
}

func (p *Parser) verifyAudience(claims ClaimSet) error {
	v, ok := claims.Get(ClaimAudience)
	if !ok {
		return claimError(ClaimAudience, ErrAudienceInvalid, "claim is required")
	}

	if s, ok := v.AsString(); ok {
		if s == p.audience {
			return nil
		}
		return claimError(ClaimAudience, ErrAudienceInvalid, "unexpected value %q", s)
	}

	items, ok := v.AsArray()
	if !ok {
		return claimError(ClaimAudience, ErrAudienceInvalid, "must be a string or array of strings, got %s", v.Kind())
	}
	found := false
	for _, item := range items {
		s, ok := item.AsString()
		if !ok {
			return claimError(ClaimAudience, ErrAudienceInvalid, "array items must be strings, got %s", item.Kind())
		}
		if s == p.audience {
			found = true
		}
	}
	if !found {
		return claimError(ClaimAudience, ErrAudienceInvalid, "%q not in audience", p.audience)
	}
	return nil
}

func (p *Parser) verifyNotBefore(claims ClaimSet, now time.Time) error {
	v, ok := claims.Get(ClaimNotBefore)
	if !ok {
		return nil
	}

	nbf, err := parseNumericDate(v)
	if err != nil {
		return claimError(ClaimNotBefore, ErrNotBeforeInvalid, "%v", err)
	}
	if now.Add(p.leeway).Before(nbf) {
		return claimError(ClaimNotBefore, ErrTokenNotYetValid, "valid from %s", nbf.Format(time.RFC3339))
	}
	return nil
}

func (p *Parser) verifyIssuedAt(claims ClaimSet, now time.Time) error {
	v, ok := claims.Get(ClaimIssuedAt)
	if !ok {
		return claimError(ClaimIssuedAt, ErrIssuedAtInvalid, "claim is required")
	}

	iat, err := parseNumericDate(v)
	if err != nil {
		return claimError(ClaimIssuedAt, ErrIssuedAtInvalid, "%v", err)
	}
	if now.Add(p.leeway).Before(iat) {
		return claimError(ClaimIssuedAt, ErrTokenUsedBeforeIssued, "issued at %s", iat.Format(time.RFC3339))
	}
	return nil
}

func (p *Parser) verifyTokenID(claims ClaimSet) error {
	if p.hasTokenID {
		return verifyStringClaim(claims, ClaimTokenID, p.tokenID, ErrTokenIDInvalid)
	}
	jti, ok := claims.GetString(ClaimTokenID)
	if !ok || jti == "" {
		return claimError(ClaimTokenID, ErrTokenIDInvalid, "claim is required")
	}
	return nil
}

func (r claimRequirement) verify(claims ClaimSet) error {
	v, ok := claims.Get(r.name)
	if !ok {
		return claimError(r.name, ErrClaimInvalid, "claim is required")
	}
	if !r.presence && !v.Equal(r.value) {
		return claimError(r.name, ErrClaimInvalid, "unexpected value")
	}
	return nil
}

func verifyStringClaim(claims ClaimSet, name, want string, sentinel error) error {
	v, ok := claims.Get(name)
	if !ok {
		return claimError(name, sentinel, "claim is required")
	}
	got, ok := v.AsString()
	if !ok {
		return claimError(name, sentinel, "must be a string, got %s", v.Kind())
	}
	if got != want {
		return claimError(name, sentinel, "unexpected value %q", got)
	}
	return nil
}

const (
	maxClaimCount      = 100
	maxClaimNameLength = 256
)

// validateClaimNames bounds what a Processor will sign: a limited number of
// claims whose names are non-empty and free of control characters.
func validateClaimNames(claims ClaimSet) error {
	if claims.Len() > maxClaimCount {
		return &ValidationError{
			Field:   "claims",
			Message: fmt.Sprintf("too many claims: maximum %d allowed", maxClaimCount),
			Err:     ErrInvalidClaims,
		}
	}

	for _, name := range claims.Names() {
		if name == "" {
			return &ValidationError{Field: name, Message: "claim name cannot be empty", Err: ErrInvalidClaims}
		}
		if len(name) > maxClaimNameLength {
			return &ValidationError{
				Field:   name[:32] + "...",
				Message: fmt.Sprintf("name too long: maximum %d characters", maxClaimNameLength),
				Err:     ErrInvalidClaims,
			}
		}
		for i := 0; i < len(name); i++ {
			if name[i] < 32 || name[i] == 0x7f {
				return &ValidationError{Field: name, Message: "contains invalid control character", Err: ErrInvalidClaims}
			}
		}
	}
	return nil
}
