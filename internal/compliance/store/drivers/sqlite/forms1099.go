package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tallyworks/compliance/internal/compliance/domain"
)

type formsRepo struct {
	db dbtx
}

const formColumns = `id, year, contractor_id, total_paid, filed, filed_confirmation,
	sent_to_contractor, sent_date, created_at`

func (r *formsRepo) scan(row interface{ Scan(...any) error }) (domain.Form1099, error) {
	var (
		f        domain.Form1099
		total    string
		sentDate sql.NullString
	)

	err := row.Scan(
		&f.ID, &f.Year, &f.ContractorID, &total, &f.Filed, &f.FiledConfirmation,
		&f.SentToContractor, &sentDate, &f.CreatedAt,
	)
	if err != nil {
		return domain.Form1099{}, err
	}

	f.TotalPaid, err = parseAmount(total)
	if err != nil {
		return domain.Form1099{}, err
	}

	f.SentDate, err = mapNullDatePtr(sentDate)
	if err != nil {
		return domain.Form1099{}, err
	}

	return f, nil
}

func (r *formsRepo) Create(ctx context.Context, f domain.Form1099) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO forms_1099 (id, year, contractor_id, total_paid, filed, filed_confirmation,
			sent_to_contractor, sent_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Year, f.ContractorID, f.TotalPaid.String(), f.Filed, f.FiledConfirmation,
		f.SentToContractor, mapOptionalDate(f.SentDate), f.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *formsRepo) GetForYear(ctx context.Context, contractorID string, year int) (domain.Form1099, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+formColumns+` FROM forms_1099 WHERE contractor_id = ? AND year = ?`,
		contractorID, year)

	f, err := r.scan(row)
	if err != nil {
		return domain.Form1099{}, mapNotFound(err)
	}
	return f, nil
}

func (r *formsRepo) ListByYear(ctx context.Context, year int) ([]domain.Form1099, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+formColumns+` FROM forms_1099 WHERE year = ? ORDER BY created_at`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Form1099
	for rows.Next() {
		f, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *formsRepo) DeleteForYear(ctx context.Context, contractorID string, year int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM forms_1099 WHERE contractor_id = ? AND year = ?`, contractorID, year)
	return err
}
