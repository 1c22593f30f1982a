package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type proposalRepo struct {
	pool Pool
}

const proposalColumns = `id, user_id, title, client_name, client_email, client_phone,
	client_address, project_address, project_description, estimated_start_date,
	estimated_duration, sections, subtotal, tax_rate, tax_amount, total_amount,
	terms, notes, status, valid_until, created_at, updated_at`

func (r *proposalRepo) Insert(ctx context.Context, p *Proposal) error {
	defer observeDB(ctx, "proposals.insert")()

	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}

	const q = `INSERT INTO proposals
		(id, user_id, title, client_name, client_email, client_phone,
		 client_address, project_address, project_description, estimated_start_date,
		 estimated_duration, sections, subtotal, tax_rate, tax_amount, total_amount,
		 terms, notes, status, valid_until, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`
	_, err = r.pool.Exec(ctx, q,
		p.ID, p.UserID, p.Title, p.ClientName, p.ClientEmail, p.ClientPhone,
		p.ClientAddress, p.ProjectAddress, p.ProjectDescription, p.EstimatedStartDate,
		p.EstimatedDuration, sections, p.Subtotal, p.TaxRate, p.TaxAmount, p.TotalAmount,
		p.Terms, p.Notes, p.Status, p.ValidUntil, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

func (r *proposalRepo) GetByID(ctx context.Context, id string) (*Proposal, error) {
	defer observeDB(ctx, "proposals.get")()

	row := r.pool.QueryRow(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE id=$1`, id)
	p, err := scanProposal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get proposal %s: %w", id, err)
	}
	return p, nil
}

func (r *proposalRepo) ListByUser(ctx context.Context, userID string, filter ProposalFilter) ([]Proposal, error) {
	defer observeDB(ctx, "proposals.list")()

	q := `SELECT ` + proposalColumns + ` FROM proposals WHERE user_id=$1`
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		q += fmt.Sprintf(" AND created_at>=$%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		q += fmt.Sprintf(" AND created_at<=$%d", len(args))
	}
	// The original ordered by creation time only for unfiltered queries, to
	// stay within the hosted database's composite-index limits. Postgres has
	// no such constraint, but the observable ordering contract is kept.
	if filter.Status == "" {
		q += " ORDER BY created_at DESC"
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, *p)
	}
	return proposals, rows.Err()
}

func (r *proposalRepo) Update(ctx context.Context, id string, upd ProposalUpdate) error {
	defer observeDB(ctx, "proposals.update")()

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
	if upd.ClientName != nil {
		add("client_name", *upd.ClientName)
	}
	if upd.ClientEmail != nil {
		add("client_email", *upd.ClientEmail)
	}
	if upd.ClientPhone != nil {
		add("client_phone", *upd.ClientPhone)
	}
	if upd.ClientAddress != nil {
		add("client_address", *upd.ClientAddress)
	}
	if upd.ProjectAddress != nil {
		add("project_address", *upd.ProjectAddress)
	}
	if upd.ProjectDescription != nil {
		add("project_description", *upd.ProjectDescription)
	}
	if upd.EstimatedStartDate != nil {
		add("estimated_start_date", *upd.EstimatedStartDate)
	}
	if upd.EstimatedDuration != nil {
		add("estimated_duration", *upd.EstimatedDuration)
	}
	if upd.Sections != nil {
		sections, err := json.Marshal(upd.Sections)
		if err != nil {
			return fmt.Errorf("encode sections: %w", err)
		}
		add("sections", sections)
	}
	if upd.Subtotal != nil {
		add("subtotal", *upd.Subtotal)
	}
	if upd.TaxRate != nil {
		add("tax_rate", *upd.TaxRate)
	}
	if upd.TaxAmount != nil {
		add("tax_amount", *upd.TaxAmount)
	}
	if upd.TotalAmount != nil {
		add("total_amount", *upd.TotalAmount)
	}
	if upd.Terms != nil {
		add("terms", *upd.Terms)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.ValidUntil != nil {
		add("valid_until", *upd.ValidUntil)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE proposals SET %s WHERE id=$1", strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update proposal %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *proposalRepo) Delete(ctx context.Context, id string) error {
	defer observeDB(ctx, "proposals.delete")()

	tag, err := r.pool.Exec(ctx, `DELETE FROM proposals WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete proposal %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProposal(row pgx.Row) (*Proposal, error) {
	var (
		p        Proposal
		sections []byte
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.ClientName, &p.ClientEmail,
		&p.ClientPhone, &p.ClientAddress, &p.ProjectAddress, &p.ProjectDescription,
		&p.EstimatedStartDate, &p.EstimatedDuration, &sections, &p.Subtotal,
		&p.TaxRate, &p.TaxAmount, &p.TotalAmount, &p.Terms, &p.Notes, &p.Status,
		&p.ValidUntil, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &p.Sections); err != nil {
			return nil, fmt.Errorf("decode sections: %w", err)
		}
	}
	if p.Sections == nil {
		p.Sections = []ProposalSection{}
	}
	return &p, nil
}
