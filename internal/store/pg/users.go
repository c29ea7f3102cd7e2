package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/ids"
)

type userStore struct {
	db *sql.DB
}

const userColumns = `id, email, full_name, coalesce(password_hash, ''), role, is_active,
	email_verified, coalesce(linkedin_id, ''), coalesce(profile_photo, ''),
	coalesce(current_position, ''), last_login, created_at, updated_at`

func (s userStore) Create(ctx context.Context, u *auth.User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	err := s.db.QueryRowContext(ctx, `
		insert into users (id, email, full_name, password_hash, role, is_active, email_verified, linkedin_id, profile_photo)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		returning created_at, updated_at
	`, u.ID, u.Email, u.FullName, nullIfEmpty(u.PasswordHash), string(u.Role), u.Active,
		u.EmailVerified, nullIfEmpty(u.LinkedInID), nullIfEmpty(u.ProfilePhoto)).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return auth.ErrConflict
		}
		return err
	}
	return nil
}

func (s userStore) Find(ctx context.Context, id string) (*auth.User, error) {
	return s.findBy(ctx, "id = $1", id)
}

func (s userStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findBy(ctx, "email = $1", email)
}

func (s userStore) FindByLinkedIn(ctx context.Context, linkedInID string) (*auth.User, error) {
	return s.findBy(ctx, "linkedin_id = $1", linkedInID)
}

func (s userStore) findBy(ctx context.Context, where string, arg any) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where `+where, arg)
	return scanUser(row)
}

func (s userStore) Update(ctx context.Context, id string, upd auth.UserUpdate) (*auth.User, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.FullName != nil {
		sets = append(sets, fmt.Sprintf("full_name = $%d", idx))
		args = append(args, *upd.FullName)
		idx++
	}
	if upd.Role != nil {
		sets = append(sets, fmt.Sprintf("role = $%d", idx))
		args = append(args, string(*upd.Role))
		idx++
	}
	if upd.Active != nil {
		sets = append(sets, fmt.Sprintf("is_active = $%d", idx))
		args = append(args, *upd.Active)
		idx++
	}
	if upd.LinkedInID != nil {
		sets = append(sets, fmt.Sprintf("linkedin_id = $%d", idx))
		args = append(args, nullIfEmpty(*upd.LinkedInID))
		idx++
	}
	if upd.ProfilePhoto != nil {
		sets = append(sets, fmt.Sprintf("profile_photo = $%d", idx))
		args = append(args, nullIfEmpty(*upd.ProfilePhoto))
		idx++
	}
	if upd.CurrentPosition != nil {
		sets = append(sets, fmt.Sprintf("current_position = $%d", idx))
		args = append(args, nullIfEmpty(*upd.CurrentPosition))
		idx++
	}
	if upd.LastLoginAt != nil {
		sets = append(sets, fmt.Sprintf("last_login = $%d", idx))
		args = append(args, *upd.LastLoginAt)
		idx++
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update users set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return nil, auth.ErrConflict
			}
			return nil, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if aff == 0 {
			return nil, auth.ErrNotFound
		}
	}
	return s.Find(ctx, id)
}

func (s userStore) List(ctx context.Context) ([]*auth.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*auth.User, error) {
	var (
		u         auth.User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &role, &u.Active,
		&u.EmailVerified, &u.LinkedInID, &u.ProfilePhoto, &u.CurrentPosition,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = auth.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}
