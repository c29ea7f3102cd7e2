package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ae2i-algerie/recrutement-api/internal/ids"
	"github.com/ae2i-algerie/recrutement-api/internal/recruit"
)

type jobStore struct {
	db *sql.DB
}

const jobColumns = `id, title, description, contract_type, location, wilaya,
	salaire_min, salaire_max, experience_requise, diplome_requis,
	competences_requises, date_limite, is_active, coalesce(created_by, ''),
	created_at, updated_at`

func (s jobStore) Create(ctx context.Context, j *recruit.Job) error {
	if j.ID == "" {
		j.ID = ids.New()
	}
	competences, err := jsonStrings(j.CompetencesRequises)
	if err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, `
		insert into jobs (id, title, description, contract_type, location, wilaya,
			salaire_min, salaire_max, experience_requise, diplome_requis,
			competences_requises, date_limite, is_active, created_by)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		returning created_at, updated_at
	`, j.ID, j.Title, j.Description, j.ContractType, j.Location, j.Wilaya,
		j.SalaryMin, j.SalaryMax, j.ExperienceRequise, j.DiplomeRequis,
		competences, nullTime(j.DateLimite), j.Active, nullIfEmpty(j.CreatedBy)).
		Scan(&j.CreatedAt, &j.UpdatedAt)
}

func (s jobStore) Find(ctx context.Context, id string) (*recruit.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+jobColumns+` from jobs where id = $1`, id)
	return scanJob(row)
}

func (s jobStore) Update(ctx context.Context, id string, upd recruit.JobUpdate) (*recruit.Job, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.ContractType != nil {
		add("contract_type", *upd.ContractType)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Wilaya != nil {
		add("wilaya", *upd.Wilaya)
	}
	if upd.SalaryMin != nil {
		add("salaire_min", *upd.SalaryMin)
	}
	if upd.SalaryMax != nil {
		add("salaire_max", *upd.SalaryMax)
	}
	if upd.ExperienceRequise != nil {
		add("experience_requise", *upd.ExperienceRequise)
	}
	if upd.DiplomeRequis != nil {
		add("diplome_requis", *upd.DiplomeRequis)
	}
	if upd.CompetencesRequises != nil {
		competences, err := jsonStrings(upd.CompetencesRequises)
		if err != nil {
			return nil, err
		}
		add("competences_requises", competences)
	}
	if upd.DateLimite != nil {
		add("date_limite", *upd.DateLimite)
	}
	if upd.Active != nil {
		add("is_active", *upd.Active)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update jobs set %s where id = $%d`, strings.Join(sets, ", "), idx)
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

func (s jobStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from jobs where id = $1`, id)
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

func (s jobStore) List(ctx context.Context, filter recruit.JobFilter) ([]*recruit.Job, int, error) {
	var (
		where []string
		args  []any
		idx   = 1
	)
	if filter.Wilaya != "" {
		where = append(where, fmt.Sprintf("wilaya = $%d", idx))
		args = append(args, filter.Wilaya)
		idx++
	}
	if filter.ContractType != "" {
		where = append(where, fmt.Sprintf("contract_type = $%d", idx))
		args = append(args, filter.ContractType)
		idx++
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("is_active = $%d", idx))
		args = append(args, *filter.Active)
		idx++
	}
	clause := ""
	if len(where) > 0 {
		clause = " where " + strings.Join(where, " and ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`select count(*) from jobs`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `select ` + jobColumns + ` from jobs` + clause + ` order by created_at desc`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` limit $%d offset $%d`, idx, idx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []*recruit.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func scanJob(row rowScanner) (*recruit.Job, error) {
	var (
		j                    recruit.Job
		salaryMin, salaryMax sql.NullInt64
		dateLimite           sql.NullTime
		competences          []byte
	)
	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.ContractType, &j.Location, &j.Wilaya,
		&salaryMin, &salaryMax, &j.ExperienceRequise, &j.DiplomeRequis,
		&competences, &dateLimite, &j.Active, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recruit.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if salaryMin.Valid {
		v := int(salaryMin.Int64)
		j.SalaryMin = &v
	}
	if salaryMax.Valid {
		v := int(salaryMax.Int64)
		j.SalaryMax = &v
	}
	if dateLimite.Valid {
		t := dateLimite.Time
		j.DateLimite = &t
	}
	if j.CompetencesRequises, err = decodeStrings(competences); err != nil {
		return nil, err
	}
	return &j, nil
}
