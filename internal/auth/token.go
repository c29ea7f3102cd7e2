package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultAccessTTL = time.Hour

// Claims is the payload carried by a signed session token: subject id,
// email, role and expiry. It is reconstructed by signature verification on
// every request and never persisted.
type Claims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// TokenSigner issues and validates HS256 session tokens. The signing key is
// loaded once at startup and read-only for the process lifetime, so the
// signer is safe for unsynchronized concurrent use.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// TokenOption configures TokenSigner behavior.
type TokenOption func(*TokenSigner)

// WithAccessTTL overrides the session token lifetime.
func WithAccessTTL(ttl time.Duration) TokenOption {
	return func(s *TokenSigner) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithIssuer overrides the issuer claim.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenSigner) {
		if iss := strings.TrimSpace(issuer); iss != "" {
			s.issuer = iss
		}
	}
}

// WithTokenClock overrides the time source (useful for tests).
func WithTokenClock(fn func() time.Time) TokenOption {
	return func(s *TokenSigner) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewTokenSigner constructs a signer around the process-wide secret.
func NewTokenSigner(secret []byte, opts ...TokenOption) (*TokenSigner, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}
	s := &TokenSigner{
		secret: secret,
		ttl:    defaultAccessTTL,
		issuer: "ae2i",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured session token lifetime.
func (s *TokenSigner) TTL() time.Duration { return s.ttl }

// Sign issues a session token for the user with expiry = now + TTL.
func (s *TokenSigner) Sign(u *User) (string, time.Time, error) {
	if u == nil || strings.TrimSpace(u.ID) == "" {
		return "", time.Time{}, errors.New("auth: user id is required")
	}
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks the signature and embedded expiry, returning the claims
// unchanged on success. It never consults the store: staleness of role or
// active status is bounded by the token TTL. Any failure yields
// ErrUnauthenticated.
func (s *TokenSigner) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrUnauthenticated
	}
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnauthenticated
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrUnauthenticated
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrUnauthenticated
	}
	if claims.Issuer != s.issuer {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrUnauthenticated
	}
	if !claims.Role.Valid() {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
