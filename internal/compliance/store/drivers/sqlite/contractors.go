package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tallyworks/compliance/internal/compliance/domain"
)

type contractorsRepo struct {
	db dbtx
}

const contractorColumns = `id, name, email, tin_encrypted, w9_received, w9_received_date,
	address, city, state, zip_code, created_at, updated_at`

func (r *contractorsRepo) scan(row interface{ Scan(...any) error }) (domain.Contractor, error) {
	var (
		c       domain.Contractor
		tin     []byte
		w9Date  sql.NullString
	)

	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &tin, &c.W9Received, &w9Date,
		&c.Address, &c.City, &c.State, &c.ZipCode, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Contractor{}, err
	}

	c.TINEncrypted = tin
	c.W9ReceivedDate, err = mapNullDatePtr(w9Date)
	if err != nil {
		return domain.Contractor{}, err
	}

	return c, nil
}

func (r *contractorsRepo) GetByID(ctx context.Context, id string) (domain.Contractor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contractorColumns+` FROM contractors WHERE id = ?`, id)

	c, err := r.scan(row)
	if err != nil {
		return domain.Contractor{}, mapNotFound(err)
	}
	return c, nil
}

func (r *contractorsRepo) GetByEmail(ctx context.Context, email string) (domain.Contractor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contractorColumns+` FROM contractors WHERE email = ?`, email)

	c, err := r.scan(row)
	if err != nil {
		return domain.Contractor{}, mapNotFound(err)
	}
	return c, nil
}

func (r *contractorsRepo) Create(ctx context.Context, c domain.Contractor) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contractors (id, name, email, tin_encrypted, w9_received, w9_received_date,
			address, city, state, zip_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.TINEncrypted, c.W9Received, mapOptionalDate(c.W9ReceivedDate),
		c.Address, c.City, c.State, c.ZipCode, c.CreatedAt, c.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *contractorsRepo) Update(ctx context.Context, c domain.Contractor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contractors
		SET name = ?, email = ?, tin_encrypted = ?, w9_received = ?, w9_received_date = ?,
			address = ?, city = ?, state = ?, zip_code = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Email, c.TINEncrypted, c.W9Received, mapOptionalDate(c.W9ReceivedDate),
		c.Address, c.City, c.State, c.ZipCode, time.Now().UTC(), c.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *contractorsRepo) List(ctx context.Context, w9Received *bool) ([]domain.Contractor, error) {
	query := `SELECT ` + contractorColumns + ` FROM contractors`
	var args []any
	if w9Received != nil {
		query += ` WHERE w9_received = ?`
		args = append(args, *w9Received)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Contractor
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contractorsRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM contractors ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *contractorsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contractors`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
