// Package pg implements the persistence interfaces on PostgreSQL.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/recruit"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Store carries the connection pool and hands out per-table views.
type Store struct {
	db *sql.DB
}

var (
	_ auth.Store    = (*Store)(nil)
	_ recruit.Store = (*Store)(nil)
)

// Open connects to PostgreSQL through the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing pool. Used by tests.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Ping verifies connectivity; the readiness probe calls this.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Users(context.Context) auth.UserStore                 { return userStore{s.db} }
func (s *Store) RefreshTokens(context.Context) auth.RefreshTokenStore { return tokenStore{s.db} }
func (s *Store) Audit(context.Context) auth.AuditStore                { return auditStore{s.db} }
func (s *Store) Candidates(context.Context) recruit.CandidateStore    { return candidateStore{s.db} }
func (s *Store) Jobs(context.Context) recruit.JobStore                { return jobStore{s.db} }

// --- helpers ---

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
