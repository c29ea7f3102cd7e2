package auth

import "time"

// Role is the fixed access level assigned to every user. There is no
// hierarchy: each protected operation declares its own literal allowed set.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleRecruteur Role = "recruteur"
	RoleLecteur   Role = "lecteur"
	RoleCandidat  Role = "candidat"
)

// DefaultRole is assigned when registration omits a role.
const DefaultRole = RoleCandidat

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRecruteur, RoleLecteur, RoleCandidat:
		return true
	}
	return false
}

// User represents an authenticated principal of the platform.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role"`
	Active          bool       `json:"is_active"`
	EmailVerified   bool       `json:"email_verified"`
	LinkedInID      string     `json:"linkedin_id,omitempty"`
	ProfilePhoto    string     `json:"profile_photo,omitempty"`
	CurrentPosition string     `json:"current_position,omitempty"`
	LastLoginAt     *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UserUpdate enumerates the fields an update may touch. Nil fields are left
// unchanged; there is no generic field-map merge.
type UserUpdate struct {
	FullName        *string
	Role            *Role
	Active          *bool
	LinkedInID      *string
	ProfilePhoto    *string
	CurrentPosition *string
	LastLoginAt     *time.Time
}

// RefreshToken is a persisted, opaque, long-lived credential. Its value is a
// bearer secret; validity is determined solely by looking it up in the store.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditEntry records an action in the activity log. Appends are best-effort
// and never block the operation they describe.
type AuditEntry struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"user_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	OccurredAt time.Time      `json:"created_at"`
}

// AuditFilter narrows activity log listings.
type AuditFilter struct {
	Action string
	Limit  int
	Offset int
}
