package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/linkedin"
	"github.com/ae2i-algerie/recrutement-api/internal/recruit"
)

// memStore backs both the auth and recruitment stores for handler tests.
type memStore struct {
	mu         sync.Mutex
	seq        int
	users      map[string]*auth.User
	tokens     map[string]*auth.RefreshToken
	audit      []*auth.AuditEntry
	candidates map[string]*recruit.Candidate
	jobs       map[string]*recruit.Job
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*auth.User{},
		tokens:     map[string]*auth.RefreshToken{},
		candidates: map[string]*recruit.Candidate{},
		jobs:       map[string]*recruit.Job{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%04d", prefix, m.seq)
}

func (m *memStore) Users(context.Context) auth.UserStore                 { return (*memUsers)(m) }
func (m *memStore) RefreshTokens(context.Context) auth.RefreshTokenStore { return (*memTokens)(m) }
func (m *memStore) Audit(context.Context) auth.AuditStore                { return (*memAudit)(m) }
func (m *memStore) Candidates(context.Context) recruit.CandidateStore    { return (*memCandidates)(m) }
func (m *memStore) Jobs(context.Context) recruit.JobStore                { return (*memJobs)(m) }

type memUsers memStore

func (m *memUsers) Create(_ context.Context, u *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return auth.ErrConflict
		}
	}
	u.ID = (*memStore)(m).nextID("usr")
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) Find(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *memUsers) FindByLinkedIn(_ context.Context, linkedInID string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.LinkedInID != "" && u.LinkedInID == linkedInID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, id string, upd auth.UserUpdate) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrNotFound
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
	cp := *u
	return &cp, nil
}

func (m *memUsers) List(context.Context) ([]*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*auth.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memTokens memStore

func (m *memTokens) Create(_ context.Context, tok *auth.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok.ID = (*memStore)(m).nextID("rt")
	tok.CreatedAt = time.Now().UTC()
	cp := *tok
	m.tokens[tok.Token] = &cp
	return nil
}

func (m *memTokens) FindByToken(_ context.Context, value string) (*auth.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[value]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *tok
	return &cp, nil
}

func (m *memTokens) MarkRevoked(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[value]
	if !ok {
		return auth.ErrNotFound
	}
	tok.Revoked = true
	return nil
}

type memAudit memStore

func (m *memAudit) Append(_ context.Context, entry *auth.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = (*memStore)(m).nextID("log")
	entry.OccurredAt = time.Now().UTC()
	cp := *entry
	m.audit = append(m.audit, &cp)
	return nil
}

func (m *memAudit) List(_ context.Context, filter auth.AuditFilter) ([]*auth.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*auth.AuditEntry
	for i := len(m.audit) - 1; i >= 0; i-- {
		e := m.audit[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

type memCandidates memStore

func (m *memCandidates) Create(_ context.Context, c *recruit.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = (*memStore)(m).nextID("cand")
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.candidates[c.ID] = &cp
	return nil
}

func (m *memCandidates) Find(_ context.Context, id string) (*recruit.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, recruit.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCandidates) Update(_ context.Context, id string, upd recruit.CandidateUpdate) (*recruit.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, recruit.ErrNotFound
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.Notes != nil {
		c.Notes = *upd.Notes
	}
	if upd.PDFResumeURL != nil {
		c.PDFResumeURL = *upd.PDFResumeURL
	}
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	return &cp, nil
}

func (m *memCandidates) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.candidates[id]; !ok {
		return recruit.ErrNotFound
	}
	delete(m.candidates, id)
	return nil
}

func (m *memCandidates) List(_ context.Context, filter recruit.CandidateFilter) ([]*recruit.Candidate, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*recruit.Candidate
	for _, c := range m.candidates {
		if filter.Diplome != "" && c.Diplome != filter.Diplome {
			continue
		}
		if filter.Wilaya != "" && c.Wilaya != filter.Wilaya {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ExperienceMin != nil && c.ExperienceYears < *filter.ExperienceMin {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := len(matched)
	matched = pageSlice(matched, filter.Limit, filter.Offset)
	return matched, total, nil
}

type memJobs memStore

func (m *memJobs) Create(_ context.Context, j *recruit.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.ID = (*memStore)(m).nextID("job")
	j.CreatedAt = time.Now().UTC()
	j.UpdatedAt = j.CreatedAt
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *memJobs) Find(_ context.Context, id string) (*recruit.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, recruit.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobs) Update(_ context.Context, id string, upd recruit.JobUpdate) (*recruit.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, recruit.ErrNotFound
	}
	if upd.Title != nil {
		j.Title = *upd.Title
	}
	if upd.Description != nil {
		j.Description = *upd.Description
	}
	if upd.ContractType != nil {
		j.ContractType = *upd.ContractType
	}
	if upd.Location != nil {
		j.Location = *upd.Location
	}
	if upd.Wilaya != nil {
		j.Wilaya = *upd.Wilaya
	}
	if upd.SalaryMin != nil {
		j.SalaryMin = upd.SalaryMin
	}
	if upd.SalaryMax != nil {
		j.SalaryMax = upd.SalaryMax
	}
	if upd.ExperienceRequise != nil {
		j.ExperienceRequise = *upd.ExperienceRequise
	}
	if upd.DiplomeRequis != nil {
		j.DiplomeRequis = *upd.DiplomeRequis
	}
	if upd.CompetencesRequises != nil {
		j.CompetencesRequises = upd.CompetencesRequises
	}
	if upd.DateLimite != nil {
		j.DateLimite = upd.DateLimite
	}
	if upd.Active != nil {
		j.Active = *upd.Active
	}
	j.UpdatedAt = time.Now().UTC()
	cp := *j
	return &cp, nil
}

func (m *memJobs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return recruit.ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

func (m *memJobs) List(_ context.Context, filter recruit.JobFilter) ([]*recruit.Job, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*recruit.Job
	for _, j := range m.jobs {
		if filter.Wilaya != "" && j.Wilaya != filter.Wilaya {
			continue
		}
		if filter.ContractType != "" && j.ContractType != filter.ContractType {
			continue
		}
		if filter.Active != nil && j.Active != *filter.Active {
			continue
		}
		cp := *j
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := len(matched)
	matched = pageSlice(matched, filter.Limit, filter.Offset)
	return matched, total, nil
}

func pageSlice[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// testEnv wires the API against the in-memory store.
type testEnv struct {
	api     *API
	handler http.Handler
	store   *memStore
	auth    *auth.Service
}

const testSecret = "handler-test-secret"

func newTestEnv(t *testing.T, provider *linkedin.Provider) *testEnv {
	t.Helper()
	store := newMemStore()
	signer, err := auth.NewTokenSigner([]byte(testSecret))
	if err != nil {
		t.Fatalf("NewTokenSigner: %v", err)
	}
	authSvc, err := auth.NewService(store, signer)
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}
	t.Cleanup(authSvc.Close)
	recruitSvc, err := recruit.NewService(store, authSvc.Audit())
	if err != nil {
		t.Fatalf("recruit.NewService: %v", err)
	}
	api := New(Options{
		Auth:     authSvc,
		Recruit:  recruitSvc,
		LinkedIn: provider,
		Logger:   zerolog.Nop(),
		Version:  "test",
	})
	return &testEnv{api: api, handler: api.Handler(), store: store, auth: authSvc}
}

// do performs a request against the full handler chain and decodes the JSON
// body into a generic map.
func (e *testEnv) do(t *testing.T, method, path, token string, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	var decoded map[string]any
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s response: %v\nbody: %s", method, path, err, rec.Body.String())
		}
	}
	return rec, decoded
}

// register creates an account through the API and returns its access token.
func (e *testEnv) register(t *testing.T, email, password, fullName string, role auth.Role) string {
	t.Helper()
	payload := fmt.Sprintf(`{"email":%q,"password":%q,"full_name":%q,"role":%q}`, email, password, fullName, role)
	rec, body := e.do(t, http.MethodPost, "/auth/register", "", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatalf("register %s: missing access_token", email)
	}
	return token
}

func errorMessage(body map[string]any) string {
	msg, _ := body["error"].(string)
	return msg
}
