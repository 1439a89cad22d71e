package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretBytes is the shortest accepted HS256 signing secret.
const MinSecretBytes = 32

// DefaultMaxAge is the session lifetime when none is configured.
const DefaultMaxAge = 30 * 24 * time.Hour

const issuer = "signin-web"

var (
	// ErrInvalidToken reports a malformed, forged, or expired session token.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrWeakSecret reports a signing secret shorter than MinSecretBytes.
	ErrWeakSecret = fmt.Errorf("session secret must be at least %d bytes", MinSecretBytes)
)

// tokenClaims is the JWT body of a session token.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID      string `json:"id,omitempty"`
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// CodecConfig configures a Codec.
type CodecConfig struct {
	Secret []byte
	MaxAge time.Duration
	Now    func() time.Time
}

// Codec signs and verifies session tokens as HS256 JWTs.
type Codec struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewCodec validates cfg and builds a Codec.
func NewCodec(cfg CodecConfig) (*Codec, error) {
	if len(cfg.Secret) < MinSecretBytes {
		return nil, ErrWeakSecret
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &Codec{secret: secret, maxAge: cfg.MaxAge, now: cfg.Now}, nil
}

// Issue stamps a fresh issue/expiry window onto token and signs it.
func (c *Codec) Issue(token Token) (string, Token, error) {
	now := c.now().UTC().Truncate(time.Second)
	token.IssuedAt = now
	token.ExpiresAt = now.Add(c.maxAge)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   token.ID,
			IssuedAt:  jwt.NewNumericDate(token.IssuedAt),
			NotBefore: jwt.NewNumericDate(token.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
			ID:        uuid.NewString(),
		},
		UserID:      token.ID,
		Email:       token.Email,
		AccessToken: token.AccessToken,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", Token{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, token, nil
}

// Parse verifies raw and returns the token it carries.
func (c *Codec) Parse(raw string) (Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Token{}, ErrInvalidToken
	}
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return Token{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	token := Token{
		ID:          claims.UserID,
		Email:       claims.Email,
		AccessToken: claims.AccessToken,
	}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	token.ExpiresAt = claims.ExpiresAt.Time.UTC()
	return token, nil
}

// MaxAge returns the configured session lifetime.
func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}
