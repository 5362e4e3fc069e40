package jwt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cybergodev/hsjwt/internal/logattr"
	"github.com/cybergodev/hsjwt/internal/security"
)

// ClaimTokenType marks refresh tokens so they cannot pass as access tokens.
const ClaimTokenType = "token_type"

const refreshTokenType = "refresh"

// Processor issues and verifies tokens under one protected key and a fixed
// configuration. It is safe for concurrent use; Close wipes the key.
type Processor struct {
	secretKey       *security.SecureBytes
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	issuer          string
	audience        string
	signingMethod   SigningMethod
	leeway          time.Duration
	minKeyLength    int
	stampTokenID    bool
	clock           func() time.Time
	log             *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// New creates a Processor with secretKey and optional configuration. Any
// SecretKey in config is replaced by secretKey.
func New(secretKey string, config ...Config) (*Processor, error) {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg.SecretKey = secretKey
	return NewFromConfig(cfg)
}

// NewFromConfig creates a Processor from a complete Config, such as one
// returned by LoadConfig.
func NewFromConfig(cfg Config) (*Processor, error) {
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = SigningMethodHS256
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "jwt-service"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	p := &Processor{
		secretKey:       security.NewSecureBytes([]byte(cfg.SecretKey)),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		issuer:          cfg.Issuer,
		audience:        cfg.Audience,
		signingMethod:   cfg.SigningMethod,
		leeway:          cfg.Leeway,
		minKeyLength:    max(cfg.MinKeyLength, security.MinKeyLength),
		stampTokenID:    cfg.StampTokenID,
		clock:           cfg.Clock,
		log:             cfg.Logger,
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.log == nil {
		p.log = logattr.Discard()
	}
	p.log = p.log.With(logattr.Component("jwt"))

	runtime.SetFinalizer(p, (*Processor).finalize)
	return p, nil
}

// NewTokenID returns a random identifier suitable for the jti claim.
func NewTokenID() string {
	return uuid.NewString()
}

// Issue signs an access token. iss, iat and exp are always set by the
// processor, aud when configured and not already present, and jti when
// StampTokenID is on and the caller supplied none. claims is not modified.
func (p *Processor) Issue(claims ClaimSet) (string, error) {
	return p.IssueWithContext(context.Background(), claims)
}

// IssueWithContext is Issue with context support
func (p *Processor) IssueWithContext(ctx context.Context, claims ClaimSet) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.checkClosed(); err != nil {
		return "", err
	}
	return p.issue(ctx, claims, p.accessTokenTTL, false)
}

// IssueRefresh signs a refresh token with RefreshTokenTTL. Verify rejects
// it; only Refresh accepts it.
func (p *Processor) IssueRefresh(claims ClaimSet) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.checkClosed(); err != nil {
		return "", err
	}
	return p.issue(context.Background(), claims, p.refreshTokenTTL, true)
}

// Refresh verifies a refresh token and issues a new access token carrying
// its claims with fresh timestamps and token id.
func (p *Processor) Refresh(refreshToken string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.checkClosed(); err != nil {
		return "", err
	}

	ctx := context.Background()
	tok, err := p.verify(ctx, "refresh", refreshToken,
		WithClaim(ClaimTokenType, String(refreshTokenType)))
	if err != nil {
		return "", fmt.Errorf("invalid refresh token: %w", err)
	}

	claims := tok.Claims
	for _, name := range []string{ClaimIssuedAt, ClaimExpiresAt, ClaimNotBefore, ClaimTokenID, ClaimTokenType} {
		claims.Delete(name)
	}
	return p.issue(ctx, claims, p.accessTokenTTL, false)
}

// Verify checks an access token's signature, issuer, audience (when
// configured), exp and iat. Refresh tokens are rejected.
func (p *Processor) Verify(token string) (*Token, error) {
	return p.VerifyWithContext(context.Background(), token)
}

// VerifyWithContext is Verify with context support
func (p *Processor) VerifyWithContext(ctx context.Context, token string) (*Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.checkClosed(); err != nil {
		return nil, err
	}

	tok, err := p.verify(ctx, "verify", token)
	if err != nil {
		return nil, err
	}
	if typ, _ := tok.Claims.GetString(ClaimTokenType); typ == refreshTokenType {
		err := claimError(ClaimTokenType, ErrClaimInvalid, "refresh token cannot be used as an access token")
		p.logRejected(ctx, "verify", err)
		return nil, err
	}
	return tok, nil
}

// Inspect decodes a token without verifying it or checking its timestamps.
// The result must not be used for authorization.
func (p *Processor) Inspect(token string) (*UnverifiedToken, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.checkClosed(); err != nil {
		return nil, err
	}
	return DecodeUnverified(token, WithoutExpirationCheck(), WithoutNotBeforeCheck())
}

// Close securely clears the secret key. Further calls fail with
// ErrProcessorClosed.
func (p *Processor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrProcessorClosed
	}

	if p.secretKey != nil {
		p.secretKey.Destroy()
		p.secretKey = nil
	}

	p.closed = true
	runtime.SetFinalizer(p, nil)
	return nil
}

// IsClosed returns true if the processor has been closed
func (p *Processor) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

func (p *Processor) finalize() {
	if !p.closed {
		_ = p.Close()
	}
}

func (p *Processor) checkClosed() error {
	if p.closed {
		return ErrProcessorClosed
	}
	return nil
}

// issue must be called with p.mu held for reading.
func (p *Processor) issue(ctx context.Context, claims ClaimSet, ttl time.Duration, refresh bool) (string, error) {
	if err := validateClaimNames(claims); err != nil {
		p.logRejected(ctx, "issue", err)
		return "", err
	}

	c := claims.Clone()
	now := p.clock()

	c.SetString(ClaimIssuer, p.issuer)
	if p.audience != "" && !c.Has(ClaimAudience) {
		c.SetString(ClaimAudience, p.audience)
	}
	c.SetTime(ClaimIssuedAt, now)
	c.SetTime(ClaimExpiresAt, now.Add(ttl))
	if p.stampTokenID && !c.Has(ClaimTokenID) {
		c.SetString(ClaimTokenID, NewTokenID())
	}
	if refresh {
		c.SetString(ClaimTokenType, refreshTokenType)
	} else {
		c.Delete(ClaimTokenType)
	}

	token, err := EncodeWithMethod(c, p.secretKey.Bytes(), p.signingMethod)
	if err != nil {
		p.logRejected(ctx, "issue", err)
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	jti, _ := c.GetString(ClaimTokenID)
	p.log.DebugContext(ctx, "token issued",
		logattr.Operation("issue"),
		logattr.Algorithm(string(p.signingMethod)),
		logattr.TokenID(jti),
		logattr.Duration("ttl", ttl),
	)
	return token, nil
}

// verify must be called with p.mu held for reading.
func (p *Processor) verify(ctx context.Context, op, token string, extra ...ParserOption) (*Token, error) {
	opts := []ParserOption{
		WithAlgorithms(p.signingMethod),
		WithClock(p.clock),
		WithLeeway(p.leeway),
		WithMinKeyLength(p.minKeyLength),
		WithIssuer(p.issuer),
		WithRequiredExpiration(),
		WithIssuedAt(),
	}
	if p.audience != "" {
		opts = append(opts, WithAudience(p.audience))
	}
	opts = append(opts, extra...)

	tok, err := NewParser(opts...).Parse(token, p.secretKey.Bytes())
	if err != nil {
		p.logRejected(ctx, op, err)
		return nil, err
	}
	return tok, nil
}

func (p *Processor) logRejected(ctx context.Context, op string, err error) {
	var claim string
	var verr *ValidationError
	if errors.As(err, &verr) {
		claim = verr.Field
	}
	p.log.DebugContext(ctx, "token rejected",
		logattr.Operation(op),
		logattr.Claim(claim),
		logattr.Error(err),
	)
}
