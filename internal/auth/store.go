package auth

import "context"

// Store describes the persistence operations required by the auth subsystem.
// The data store is the sole point of cross-request shared mutable state;
// each operation is issued independently, without multi-statement
// transactions.
type Store interface {
	Users(ctx context.Context) UserStore
	RefreshTokens(ctx context.Context) RefreshTokenStore
	Audit(ctx context.Context) AuditStore
}

// UserStore manages user records. Emails are stored and matched exactly as
// given (case-sensitive).
type UserStore interface {
	// Create persists a new user; ErrConflict when the email is taken.
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByLinkedIn(ctx context.Context, linkedInID string) (*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// RefreshTokenStore manages refresh token records.
type RefreshTokenStore interface {
	Create(ctx context.Context, tok *RefreshToken) error
	FindByToken(ctx context.Context, value string) (*RefreshToken, error)
	// MarkRevoked flags the record revoked; ErrNotFound when no record
	// matches. Records are never deleted.
	MarkRevoked(ctx context.Context, value string) error
}

// AuditStore appends and lists immutable activity log entries.
type AuditStore interface {
	Append(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]*AuditEntry, error)
}
