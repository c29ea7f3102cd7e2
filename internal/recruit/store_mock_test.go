package recruit

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Store used across the package tests.
type memStore struct {
	mu         sync.Mutex
	seq        int
	candidates map[string]*Candidate
	jobs       map[string]*Job
}

func newMemStore() *memStore {
	return &memStore{
		candidates: make(map[string]*Candidate),
		jobs:       make(map[string]*Job),
	}
}

func (m *memStore) Candidates(context.Context) CandidateStore { return (*memCandidates)(m) }
func (m *memStore) Jobs(context.Context) JobStore             { return (*memJobs)(m) }

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%04d", prefix, m.seq)
}

type memCandidates memStore

func (m *memCandidates) Create(_ context.Context, c *Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = (*memStore)(m).nextID("cand")
	}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	clone := *c
	m.candidates[c.ID] = &clone
	return nil
}

func (m *memCandidates) Find(_ context.Context, id string) (*Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *memCandidates) Update(_ context.Context, id string, upd CandidateUpdate) (*Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, ErrNotFound
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
	clone := *c
	return &clone, nil
}

func (m *memCandidates) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.candidates[id]; !ok {
		return ErrNotFound
	}
	delete(m.candidates, id)
	return nil
}

func (m *memCandidates) List(_ context.Context, filter CandidateFilter) ([]*Candidate, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*Candidate
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
		clone := *c
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := len(matched)
	matched = page(matched, filter.Offset, filter.Limit)
	return matched, total, nil
}

type memJobs memStore

func (m *memJobs) Create(_ context.Context, j *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j.ID == "" {
		j.ID = (*memStore)(m).nextID("job")
	}
	j.CreatedAt = time.Now().UTC()
	j.UpdatedAt = j.CreatedAt
	clone := *j
	m.jobs[j.ID] = &clone
	return nil
}

func (m *memJobs) Find(_ context.Context, id string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *j
	return &clone, nil
}

func (m *memJobs) Update(_ context.Context, id string, upd JobUpdate) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
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
	clone := *j
	return &clone, nil
}

func (m *memJobs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

func (m *memJobs) List(_ context.Context, filter JobFilter) ([]*Job, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*Job
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
		clone := *j
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := len(matched)
	matched = page(matched, filter.Offset, filter.Limit)
	return matched, total, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
