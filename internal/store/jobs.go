package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type jobRepo struct {
	pool Pool
}

const jobColumns = `id, user_id, title, description, start_at, end_at, location,
	client, status, priority, assigned_to, notes, created_at, updated_at`

func (r *jobRepo) Insert(ctx context.Context, job *Job) error {
	defer observeDB(ctx, "jobs.insert")()

	const q = `INSERT INTO jobs
		(id, user_id, title, description, start_at, end_at, location,
		 client, status, priority, assigned_to, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.pool.Exec(ctx, q,
		job.ID, job.UserID, job.Title, job.Description, job.Start, job.End,
		job.Location, job.Client, job.Status, job.Priority, job.AssignedTo,
		job.Notes, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*Job, error) {
	defer observeDB(ctx, "jobs.get")()

	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=$1`, id)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

func (r *jobRepo) ListByUser(ctx context.Context, userID string, filter JobFilter) ([]Job, error) {
	defer observeDB(ctx, "jobs.list")()

	q := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id=$1`
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		q += fmt.Sprintf(" AND priority=$%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		q += fmt.Sprintf(" AND start_at>=$%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		q += fmt.Sprintf(" AND end_at<=$%d", len(args))
	}
	q += " ORDER BY start_at ASC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, id string, upd JobUpdate) error {
	defer observeDB(ctx, "jobs.update")()

	var (
		sets []string
		args = []any{id}
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Start != nil {
		add("start_at", *upd.Start)
	}
	if upd.End != nil {
		add("end_at", *upd.End)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Client != nil {
		add("client", *upd.Client)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Priority != nil {
		add("priority", *upd.Priority)
	}
	if upd.AssignedTo != nil {
		add("assigned_to", *upd.AssignedTo)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE jobs SET %s WHERE id=$1", strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	defer observeDB(ctx, "jobs.delete")()

	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.UserID, &j.Title, &j.Description, &j.Start, &j.End,
		&j.Location, &j.Client, &j.Status, &j.Priority, &j.AssignedTo, &j.Notes,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
