package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/ids"
)

type tokenStore struct {
	db *sql.DB
}

func (s tokenStore) Create(ctx context.Context, tok *auth.RefreshToken) error {
	if tok.ID == "" {
		tok.ID = ids.New()
	}
	err := s.db.QueryRowContext(ctx, `
		insert into refresh_tokens (id, user_id, token, expires_at)
		values ($1, $2, $3, $4)
		returning created_at
	`, tok.ID, tok.UserID, tok.Token, tok.ExpiresAt).Scan(&tok.CreatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return auth.ErrConflict
			case pgErrForeignKeyViolation:
				return auth.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (s tokenStore) FindByToken(ctx context.Context, value string) (*auth.RefreshToken, error) {
	var tok auth.RefreshToken
	err := s.db.QueryRowContext(ctx, `
		select id, user_id, token, expires_at, revoked, created_at
		from refresh_tokens
		where token = $1
	`, value).Scan(&tok.ID, &tok.UserID, &tok.Token, &tok.ExpiresAt, &tok.Revoked, &tok.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (s tokenStore) MarkRevoked(ctx context.Context, value string) error {
	res, err := s.db.ExecContext(ctx,
		`update refresh_tokens set revoked = true where token = $1`, value)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}
