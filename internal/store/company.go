package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type companyRepo struct {
	pool Pool
}

func (r *companyRepo) Get(ctx context.Context, userID string) (*CompanyInfo, error) {
	defer observeDB(ctx, "company.get")()

	const q = `SELECT user_id, name, address, city, state, zip_code, phone,
		email, website, logo_url, updated_at FROM company_info WHERE user_id=$1`
	var c CompanyInfo
	err := r.pool.QueryRow(ctx, q, userID).Scan(&c.UserID, &c.Name, &c.Address,
		&c.City, &c.State, &c.ZipCode, &c.Phone, &c.Email, &c.Website, &c.LogoURL,
		&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Missing company info is not an error; callers get a blank record.
		return &CompanyInfo{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company info for %s: %w", userID, err)
	}
	return &c, nil
}

func (r *companyRepo) Upsert(ctx context.Context, userID string, upd CompanyInfoUpdate) error {
	defer observeDB(ctx, "company.upsert")()

	columns := []string{"user_id", "updated_at"}
	args := []any{userID, time.Now().UTC()}
	add := func(column string, value any) {
		columns = append(columns, column)
		args = append(args, value)
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.City != nil {
		add("city", *upd.City)
	}
	if upd.State != nil {
		add("state", *upd.State)
	}
	if upd.ZipCode != nil {
		add("zip_code", *upd.ZipCode)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Website != nil {
		add("website", *upd.Website)
	}
	if upd.LogoURL != nil {
		add("logo_url", *upd.LogoURL)
	}

	placeholders := make([]string, len(columns))
	var conflicts []string
	for i, col := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if col != "user_id" {
			conflicts = append(conflicts, fmt.Sprintf("%s=EXCLUDED.%s", col, col))
		}
	}

	q := fmt.Sprintf(`INSERT INTO company_info (%s) VALUES (%s)
		ON CONFLICT (user_id) DO UPDATE SET %s`,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(conflicts, ", "))

	if _, err := r.pool.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("upsert company info for %s: %w", userID, err)
	}
	return nil
}
