package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/ids"
)

type auditStore struct {
	db *sql.DB
}

func (s auditStore) Append(ctx context.Context, entry *auth.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	details := []byte("{}")
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		details = raw
	}
	_, err := s.db.ExecContext(ctx, `
		insert into activity_logs (id, user_id, action, entity_type, entity_id, details, created_at)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, nullIfEmpty(entry.ActorID), entry.Action, entry.EntityType,
		nullIfEmpty(entry.EntityID), details, entry.OccurredAt)
	return err
}

func (s auditStore) List(ctx context.Context, filter auth.AuditFilter) ([]*auth.AuditEntry, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query := `
		select id, coalesce(user_id, ''), action, entity_type, coalesce(entity_id, ''), details, created_at
		from activity_logs`
	args := []any{}
	if filter.Action != "" {
		query += ` where action = $1`
		args = append(args, filter.Action)
	}
	query += fmt.Sprintf(` order by created_at desc limit $%d offset $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*auth.AuditEntry
	for rows.Next() {
		var (
			e   auth.AuditEntry
			raw []byte
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &raw, &e.OccurredAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Details); err != nil {
				return nil, fmt.Errorf("decode details: %w", err)
			}
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
