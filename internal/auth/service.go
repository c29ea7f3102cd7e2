package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Service orchestrates the session lifecycle: registration, login, token
// refresh, logout, whoami and external sign-on. It composes the credential
// verifier, token signer and refresh token adapter, and delegates all
// persistence to the store.
type Service struct {
	store   Store
	tokens  *TokenSigner
	refresh *RefreshTokens
	audit   *AuditRecorder
	logger  zerolog.Logger
	now     func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithLogger sets the logger used for swallowed best-effort failures.
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source (useful for tests). The token signer
// and refresh adapter keep their own clocks.
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithRefreshTokens replaces the default refresh token adapter.
func WithRefreshTokens(r *RefreshTokens) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.refresh = r
		}
	}
}

// NewService constructs the orchestrator.
func NewService(store Store, tokens *TokenSigner, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token signer is required")
	}
	s := &Service{
		store:  store,
		tokens: tokens,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.refresh == nil {
		s.refresh = NewRefreshTokens(store)
	}
	s.audit = NewAuditRecorder(store, s.logger)
	return s, nil
}

// Session is the result of a successful authentication flow.
type Session struct {
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
	User            *User
}

// Register creates a new identity with a credential hash and opens a
// session. ErrConflict when the email is already registered.
func (s *Service) Register(ctx context.Context, email, password, fullName string, role Role) (*Session, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)
	if email == "" || password == "" || fullName == "" {
		return nil, fmt.Errorf("%w: email, password and full name are required", ErrInvalidInput)
	}
	if role == "" {
		role = DefaultRole
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.store.Users(ctx).Create(ctx, user); err != nil {
		return nil, err
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, user.ID, "register", "user", user.ID, nil)
	return session, nil
}

// Login verifies credentials and opens a session. Unknown email, missing
// credential hash (external-only account) and password mismatch all surface
// as ErrInvalidCredentials. The active flag is checked after password
// verification, so disabled status is only revealed to callers who already
// hold the correct credential.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.store.Users(ctx).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	s.touchLastLogin(ctx, user)

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, user.ID, "login", "user", user.ID, nil)
	return session, nil
}

// Refresh redeems a refresh token and issues a new session token with a
// fresh TTL. The refresh token value itself is unchanged.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	rec, err := s.refresh.Redeem(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	user, err := s.store.Users(ctx).Find(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, ErrTokenNotFound
		}
		return "", time.Time{}, err
	}
	return s.tokens.Sign(user)
}

// Logout revokes the refresh token. It never fails from the caller's point
// of view: unknown tokens are a no-op and store failures are swallowed.
func (s *Service) Logout(ctx context.Context, refreshToken string) {
	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Msg("refresh token revoke failed")
		return
	}
	if actorID := subjectFromContext(ctx); actorID != "" {
		s.audit.Record(ctx, actorID, "logout", "user", actorID, nil)
	}
}

// Whoami verifies the session token and re-reads the identity from the
// store. Unlike per-request authorization, this path reflects live active
// status and profile changes within the token's lifetime; the asymmetry is
// the accepted staleness trade-off of stateless verification.
func (s *Service) Whoami(ctx context.Context, rawToken string) (*User, error) {
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.store.Users(ctx).Find(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate recovers claims from an Authorization header value. It never
// errors: a missing header, wrong scheme, malformed token, bad signature or
// past expiry all yield nil.
func (s *Service) Authenticate(header string) *Claims {
	token, ok := bearerToken(header)
	if !ok {
		return nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}
	return claims
}

// ExternalIdentity carries the profile asserted by a third-party identity
// provider after a successful exchange.
type ExternalIdentity struct {
	Provider     string
	ExternalID   string
	Email        string
	FullName     string
	ProfilePhoto string
}

// ExternalSignIn resolves the asserted profile to an identity, creating one
// on first sign-on, and opens a session the same way a login would. The
// provider's email claim is trusted without a verification step of our own.
func (s *Service) ExternalSignIn(ctx context.Context, ext ExternalIdentity) (*Session, error) {
	if strings.TrimSpace(ext.Email) == "" || strings.TrimSpace(ext.ExternalID) == "" {
		return nil, fmt.Errorf("%w: external identity requires email and id", ErrInvalidInput)
	}

	users := s.store.Users(ctx)
	user, err := users.FindByEmail(ctx, ext.Email)
	if errors.Is(err, ErrNotFound) {
		user, err = users.FindByLinkedIn(ctx, ext.ExternalID)
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	action := "linkedin_login"
	if user == nil {
		user = &User{
			Email:         ext.Email,
			FullName:      ext.FullName,
			Role:          DefaultRole,
			Active:        true,
			EmailVerified: true,
			LinkedInID:    ext.ExternalID,
			ProfilePhoto:  ext.ProfilePhoto,
		}
		if err := users.Create(ctx, user); err != nil {
			return nil, err
		}
		action = "linkedin_register"
	} else {
		now := s.now().UTC()
		upd := UserUpdate{
			LinkedInID:  &ext.ExternalID,
			LastLoginAt: &now,
		}
		if ext.ProfilePhoto != "" {
			upd.ProfilePhoto = &ext.ProfilePhoto
		}
		updated, err := users.Update(ctx, user.ID, upd)
		if err != nil {
			return nil, err
		}
		user = updated
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, user.ID, action, "user", user.ID, map[string]any{
		"provider": ext.Provider,
	})
	return session, nil
}

// ListUsers returns every account, for administrative listings.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.store.Users(ctx).List(ctx)
}

// UpdateUser applies an administrative update to an account.
func (s *Service) UpdateUser(ctx context.Context, id string, upd UserUpdate, actorID string) (*User, error) {
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *upd.Role)
	}
	user, err := s.store.Users(ctx).Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, "update_user", "user", id, nil)
	return user, nil
}

// AuditLog lists activity log entries, newest first.
func (s *Service) AuditLog(ctx context.Context, filter AuditFilter) ([]*AuditEntry, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: negative paging", ErrInvalidInput)
	}
	return s.store.Audit(ctx).List(ctx, filter)
}

// Audit exposes the recorder so HTTP handlers outside this package can
// append entries for their own operations.
func (s *Service) Audit() *AuditRecorder { return s.audit }

// Close waits for in-flight audit appends.
func (s *Service) Close() { s.audit.Wait() }

func (s *Service) openSession(ctx context.Context, user *User) (*Session, error) {
	access, exp, err := s.tokens.Sign(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refresh.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:     access,
		AccessExpiresAt: exp,
		RefreshToken:    refresh.Token,
		User:            user,
	}, nil
}

// touchLastLogin records the login timestamp. Best effort: a failure here
// must not block the login itself.
func (s *Service) touchLastLogin(ctx context.Context, user *User) {
	now := s.now().UTC()
	updated, err := s.store.Users(ctx).Update(ctx, user.ID, UserUpdate{LastLoginAt: &now})
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("last login update failed")
		return
	}
	*user = *updated
}

func subjectFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.Subject
	}
	return ""
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	const scheme = "Bearer "
	if !strings.HasPrefix(header, scheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", false
	}
	return token, true
}
