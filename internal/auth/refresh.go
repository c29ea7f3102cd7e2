package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultRefreshTTL = 7 * 24 * time.Hour

	// 32 random bytes; guessing a value is infeasible.
	refreshTokenBytes = 32
)

// RefreshTokens manages the lifecycle of opaque rotation tokens. Persistence
// is delegated to the store; this adapter only generates values and applies
// the validity rules.
type RefreshTokens struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// RefreshOption configures the adapter.
type RefreshOption func(*RefreshTokens)

// WithRefreshTTL overrides the refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) RefreshOption {
	return func(r *RefreshTokens) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithRefreshClock overrides the time source (useful for tests).
func WithRefreshClock(fn func() time.Time) RefreshOption {
	return func(r *RefreshTokens) {
		if fn != nil {
			r.now = fn
		}
	}
}

// NewRefreshTokens constructs the adapter.
func NewRefreshTokens(store Store, opts ...RefreshOption) *RefreshTokens {
	r := &RefreshTokens{
		store: store,
		ttl:   defaultRefreshTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Issue generates and persists a fresh token for the user.
func (r *RefreshTokens) Issue(ctx context.Context, userID string) (*RefreshToken, error) {
	value, err := generateTokenValue()
	if err != nil {
		return nil, err
	}
	rec := &RefreshToken{
		UserID:    userID,
		Token:     value,
		ExpiresAt: r.now().UTC().Add(r.ttl),
	}
	if err := r.store.RefreshTokens(ctx).Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}
	return rec, nil
}

// Redeem re-validates a presented token value. The token is not rotated: the
// same value stays valid for repeated use until its natural expiry or an
// explicit revocation. Checks run in order: existence, revocation, expiry —
// so an expired-but-known token surfaces ErrTokenExpired, not ErrTokenNotFound.
func (r *RefreshTokens) Redeem(ctx context.Context, value string) (*RefreshToken, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrTokenNotFound
	}
	rec, err := r.store.RefreshTokens(ctx).FindByToken(ctx, value)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	if rec.Revoked {
		return nil, ErrTokenRevoked
	}
	if !r.now().Before(rec.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	return rec, nil
}

// Revoke marks the token revoked. Idempotent: revoking an unknown or
// already-revoked value is a no-op, so logout never fails visibly.
func (r *RefreshTokens) Revoke(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if err := r.store.RefreshTokens(ctx).MarkRevoked(ctx, value); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func generateTokenValue() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
