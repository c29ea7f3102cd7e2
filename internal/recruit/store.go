package recruit

import "context"

// Store describes the persistence operations of the recruitment domain.
type Store interface {
	Candidates(ctx context.Context) CandidateStore
	Jobs(ctx context.Context) JobStore
}

// CandidateStore manages candidate records. List returns the page plus the
// total number of rows matching the filter regardless of paging.
type CandidateStore interface {
	Create(ctx context.Context, c *Candidate) error
	Find(ctx context.Context, id string) (*Candidate, error)
	Update(ctx context.Context, id string, upd CandidateUpdate) (*Candidate, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CandidateFilter) ([]*Candidate, int, error)
}

// JobStore manages job offer records.
type JobStore interface {
	Create(ctx context.Context, j *Job) error
	Find(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, id string, upd JobUpdate) (*Job, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter JobFilter) ([]*Job, int, error)
}
