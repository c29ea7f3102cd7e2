package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ae2i-algerie/recrutement-api/internal/ids"
	"github.com/ae2i-algerie/recrutement-api/internal/recruit"
)

type candidateStore struct {
	db *sql.DB
}

const candidateColumns = `id, coalesce(user_id, ''), first_name, last_name, email, phone, wilaya,
	diplome, specialite, experience_years, competences, langues,
	coalesce(cv_url, ''), coalesce(lettre_motivation, ''), coalesce(disponibilite, ''),
	coalesce(pretention_salariale, ''), status, coalesce(notes, ''),
	coalesce(pdf_resume_url, ''), created_at, updated_at`

func (s candidateStore) Create(ctx context.Context, c *recruit.Candidate) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	competences, err := jsonStrings(c.Competences)
	if err != nil {
		return err
	}
	langues, err := jsonStrings(c.Langues)
	if err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, `
		insert into candidates (id, user_id, first_name, last_name, email, phone, wilaya,
			diplome, specialite, experience_years, competences, langues,
			cv_url, lettre_motivation, disponibilite, pretention_salariale, status)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		returning created_at, updated_at
	`, c.ID, nullIfEmpty(c.UserID), c.FirstName, c.LastName, c.Email, c.Phone, c.Wilaya,
		c.Diplome, c.Specialite, c.ExperienceYears, competences, langues,
		nullIfEmpty(c.CVURL), nullIfEmpty(c.LettreMotivation), nullIfEmpty(c.Disponibilite),
		nullIfEmpty(c.PretentionSalariale), c.Status).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (s candidateStore) Find(ctx context.Context, id string) (*recruit.Candidate, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+candidateColumns+` from candidates where id = $1`, id)
	return scanCandidate(row)
}

func (s candidateStore) Update(ctx context.Context, id string, upd recruit.CandidateUpdate) (*recruit.Candidate, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", idx))
		args = append(args, *upd.Status)
		idx++
	}
	if upd.Notes != nil {
		sets = append(sets, fmt.Sprintf("notes = $%d", idx))
		args = append(args, nullIfEmpty(*upd.Notes))
		idx++
	}
	if upd.PDFResumeURL != nil {
		sets = append(sets, fmt.Sprintf("pdf_resume_url = $%d", idx))
		args = append(args, nullIfEmpty(*upd.PDFResumeURL))
		idx++
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update candidates set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if aff == 0 {
			return nil, recruit.ErrNotFound
		}
	}
	return s.Find(ctx, id)
}

func (s candidateStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from candidates where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return recruit.ErrNotFound
	}
	return nil
}

func (s candidateStore) List(ctx context.Context, filter recruit.CandidateFilter) ([]*recruit.Candidate, int, error) {
	var (
		where []string
		args  []any
		idx   = 1
	)
	if filter.Diplome != "" {
		where = append(where, fmt.Sprintf("diplome = $%d", idx))
		args = append(args, filter.Diplome)
		idx++
	}
	if filter.Wilaya != "" {
		where = append(where, fmt.Sprintf("wilaya = $%d", idx))
		args = append(args, filter.Wilaya)
		idx++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, filter.Status)
		idx++
	}
	if filter.ExperienceMin != nil {
		where = append(where, fmt.Sprintf("experience_years >= $%d", idx))
		args = append(args, *filter.ExperienceMin)
		idx++
	}
	clause := ""
	if len(where) > 0 {
		clause = " where " + strings.Join(where, " and ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`select count(*) from candidates`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `select ` + candidateColumns + ` from candidates` + clause + ` order by created_at desc`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` limit $%d offset $%d`, idx, idx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var candidates []*recruit.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return candidates, total, nil
}

func scanCandidate(row rowScanner) (*recruit.Candidate, error) {
	var (
		c                    recruit.Candidate
		competences, langues []byte
	)
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Wilaya,
		&c.Diplome, &c.Specialite, &c.ExperienceYears, &competences, &langues,
		&c.CVURL, &c.LettreMotivation, &c.Disponibilite, &c.PretentionSalariale,
		&c.Status, &c.Notes, &c.PDFResumeURL, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recruit.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.Competences, err = decodeStrings(competences); err != nil {
		return nil, err
	}
	if c.Langues, err = decodeStrings(langues); err != nil {
		return nil, err
	}
	return &c, nil
}

func jsonStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return raw, nil
}

func decodeStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}
