package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memStore is an in-memory Store used across the package tests.
type memStore struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*User
	tokens  map[string]*RefreshToken
	entries []*AuditEntry

	failAudit bool
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]*User),
		tokens: make(map[string]*RefreshToken),
	}
}

func (m *memStore) Users(context.Context) UserStore                 { return (*memUsers)(m) }
func (m *memStore) RefreshTokens(context.Context) RefreshTokenStore { return (*memTokens)(m) }
func (m *memStore) Audit(context.Context) AuditStore                { return (*memAudit)(m) }

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memUsers memStore

func (m *memUsers) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = (*memStore)(m).nextID("user")
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *memUsers) Find(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUsers) FindByLinkedIn(_ context.Context, linkedInID string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.LinkedInID != "" && u.LinkedInID == linkedInID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUsers) Update(_ context.Context, id string, upd UserUpdate) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Active != nil {
		u.Active = *upd.Active
	}
	if upd.LinkedInID != nil {
		u.LinkedInID = *upd.LinkedInID
	}
	if upd.ProfilePhoto != nil {
		u.ProfilePhoto = *upd.ProfilePhoto
	}
	if upd.CurrentPosition != nil {
		u.CurrentPosition = *upd.CurrentPosition
	}
	if upd.LastLoginAt != nil {
		t := *upd.LastLoginAt
		u.LastLoginAt = &t
	}
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

func (m *memUsers) List(context.Context) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memUsers) delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

type memTokens memStore

func (m *memTokens) Create(_ context.Context, tok *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tok.ID == "" {
		tok.ID = (*memStore)(m).nextID("rt")
	}
	tok.CreatedAt = time.Now().UTC()
	clone := *tok
	m.tokens[tok.Token] = &clone
	return nil
}

func (m *memTokens) FindByToken(_ context.Context, value string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[value]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *tok
	return &clone, nil
}

func (m *memTokens) MarkRevoked(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[value]
	if !ok {
		return ErrNotFound
	}
	tok.Revoked = true
	return nil
}

type memAudit memStore

func (m *memAudit) Append(_ context.Context, entry *AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAudit {
		return fmt.Errorf("audit store unavailable")
	}
	clone := *entry
	m.entries = append(m.entries, &clone)
	return nil
}

func (m *memAudit) List(_ context.Context, filter AuditFilter) ([]*AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*AuditEntry
	for _, e := range m.entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}
