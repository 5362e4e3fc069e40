package jwt

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/cybergodev/hsjwt/internal/security"
)

// maxLeeway caps clock skew tolerance.
const maxLeeway = 2 * time.Minute

// Config represents Processor configuration
type Config struct {
	// SecretKey is the HMAC key used for signing and verification (minimum MinKeyLength bytes)
	SecretKey string `env:"JWT_SECRET_KEY" json:"-"`

	// AccessTokenTTL defines the lifetime of access tokens
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"15m" json:"access_token_ttl"`

	// RefreshTokenTTL defines the lifetime of refresh tokens (must be greater than AccessTokenTTL)
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" envDefault:"168h" json:"refresh_token_ttl"`

	// Issuer is stamped into iss on issue and required on verify
	Issuer string `env:"JWT_ISSUER" envDefault:"jwt-service" json:"issuer"`

	// Audience, when set, is stamped into aud on issue and required on verify
	Audience string `env:"JWT_AUDIENCE" json:"audience"`

	// SigningMethod specifies the algorithm used to sign tokens
	SigningMethod SigningMethod `env:"JWT_SIGNING_METHOD" envDefault:"HS256" json:"signing_method"`

	// Leeway tolerates clock skew in exp, nbf and iat checks
	Leeway time.Duration `env:"JWT_LEEWAY" envDefault:"0s" json:"leeway"`

	// MinKeyLength is the shortest secret accepted, never below security.MinKeyLength
	MinKeyLength int `env:"JWT_MIN_KEY_LENGTH" envDefault:"32" json:"min_key_length"`

	// StampTokenID adds a random jti to every issued token
	StampTokenID bool `env:"JWT_STAMP_TOKEN_ID" envDefault:"true" json:"stamp_token_id"`

	// Logger receives debug records for rejected tokens; nil discards them
	Logger *slog.Logger `json:"-"`

	// Clock replaces time.Now; nil means time.Now
	Clock func() time.Time `json:"-"`
}

// DefaultConfig returns a secure default configuration for production use
func DefaultConfig() Config {
	return Config{
		SecretKey:       "",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "jwt-service",
		SigningMethod:   SigningMethodHS256,
		MinKeyLength:    security.MinKeyLength,
		StampTokenID:    true,
	}
}

// LoadConfig reads configuration from the environment after loading the
// given .env files (".env" when none are named). Missing files are ignored.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: failed to load %s: %w", ErrInvalidConfig, file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c == nil {
		return ErrInvalidConfig
	}

	minLen := max(c.MinKeyLength, security.MinKeyLength)
	keyLen := len(c.SecretKey)
	if keyLen < minLen {
		return fmt.Errorf("%w: minimum %d bytes required, got %d", ErrInvalidKey, minLen, keyLen)
	}

	if security.IsWeakKey([]byte(c.SecretKey)) {
		return fmt.Errorf("%w: key must have sufficient entropy and complexity", ErrInvalidKey)
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("%w: TTL must be positive", ErrInvalidConfig)
	}

	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return fmt.Errorf("%w: access token TTL must be less than refresh token TTL", ErrInvalidConfig)
	}

	if c.Leeway < 0 || c.Leeway > maxLeeway {
		return fmt.Errorf("%w: leeway must be between 0 and %s", ErrInvalidConfig, maxLeeway)
	}

	if !c.SigningMethod.Valid() {
		return fmt.Errorf("%w: signing method %q", ErrUnsupportedAlgorithm, c.SigningMethod)
	}
	return nil
}
