package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown email, password-less accounts and
	// password mismatches alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrAccountDisabled    = errors.New("auth: account disabled")
	ErrConflict           = errors.New("auth: email already registered")
	ErrUnauthenticated    = errors.New("auth: unauthenticated")
	ErrForbidden          = errors.New("auth: forbidden")
	ErrNotFound           = errors.New("auth: not found")
	ErrInvalidInput       = errors.New("auth: invalid input")
	// ErrUpstream marks failures of an external identity provider exchange.
	ErrUpstream = errors.New("auth: upstream provider failure")

	ErrTokenNotFound = errors.New("auth: refresh token not found")
	ErrTokenRevoked  = errors.New("auth: refresh token revoked")
	ErrTokenExpired  = errors.New("auth: refresh token expired")
)
