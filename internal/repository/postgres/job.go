package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/jobtracker-server/internal/model"
)

var _ model.JobStore = (*JobRepository)(nil)

type JobRepository struct {
	db *Connection
}

func NewJobRepository(db *Connection) *JobRepository {
	return &JobRepository{
		db: db,
	}
}

const jobColumns = `id, owner_id, company_name, job_title, status,
		to_char(application_date, 'YYYY-MM-DD'), notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (model.Job, error) {
	var job model.Job
	err := row.Scan(
		&job.ID, &job.OwnerID, &job.CompanyName, &job.JobTitle, &job.Status,
		&job.ApplicationDate, &job.Notes, &job.CreatedAt, &job.UpdatedAt,
	)
	return job, err
}

func (r *JobRepository) Create(ctx context.Context, job model.Job) (model.Job, error) {
	if _, _, err := whereScope(model.Scope{OwnerID: job.OwnerID}, 1, false); err != nil {
		return model.Job{}, err
	}

	query := `
		INSERT INTO jobs (owner_id, company_name, job_title, status, application_date, notes)
		VALUES ($1, $2, $3, $4, $5::text::date, $6)
		RETURNING ` + jobColumns

	saved, err := scanJob(r.db.QueryRow(ctx, query,
		job.OwnerID, job.CompanyName, job.JobTitle, string(job.Status), job.ApplicationDate, job.Notes,
	))
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	return saved, nil
}

func (r *JobRepository) List(ctx context.Context, scope model.Scope) ([]model.Job, error) {
	where, args, err := whereScope(scope, 1, false)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + jobColumns + ` FROM jobs ` + where + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}

func (r *JobRepository) Get(ctx context.Context, scope model.Scope) (model.Job, error) {
	where, args, err := whereScope(scope, 1, true)
	if err != nil {
		return model.Job{}, err
	}

	query := `SELECT ` + jobColumns + ` FROM jobs ` + where

	job, err := scanJob(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Job{}, model.ErrNotFound
		}
		return model.Job{}, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

func (r *JobRepository) Update(ctx context.Context, scope model.Scope, fields model.JobFields) (model.Job, error) {
	where, args, err := whereScope(scope, 6, true)
	if err != nil {
		return model.Job{}, err
	}

	query := `
		UPDATE jobs SET
			company_name = COALESCE($1, company_name),
			job_title = COALESCE($2, job_title),
			status = COALESCE($3, status),
			application_date = $4::text::date,
			notes = $5,
			updated_at = clock_timestamp()
		` + where + `
		RETURNING ` + jobColumns

	params := append([]any{
		fields.CompanyName, fields.JobTitle, fields.Status, fields.ApplicationDate, fields.Notes,
	}, args...)

	job, err := scanJob(r.db.QueryRow(ctx, query, params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Job{}, model.ErrNotFound
		}
		return model.Job{}, fmt.Errorf("failed to update job: %w", err)
	}

	return job, nil
}

func (r *JobRepository) Delete(ctx context.Context, scope model.Scope) (int64, error) {
	where, args, err := whereScope(scope, 1, true)
	if err != nil {
		return 0, err
	}

	cmd, err := r.db.Exec(ctx, `DELETE FROM jobs `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete job: %w", err)
	}

	return cmd.RowsAffected(), nil
}
