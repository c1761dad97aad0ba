package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tallyworks/compliance/internal/compliance/domain"
)

type paymentsRepo struct {
	db dbtx
}

const paymentColumns = `id, contractor_id, amount, date, description, external_ref, category, created_at`

func (r *paymentsRepo) scan(row interface{ Scan(...any) error }) (domain.Payment, error) {
	var (
		p       domain.Payment
		amount  string
		date    string
		extRef  sql.NullString
	)

	err := row.Scan(&p.ID, &p.ContractorID, &amount, &date, &p.Description, &extRef, &p.Category, &p.CreatedAt)
	if err != nil {
		return domain.Payment{}, err
	}

	p.Amount, err = parseAmount(amount)
	if err != nil {
		return domain.Payment{}, err
	}

	p.Date, err = parseDate(date)
	if err != nil {
		return domain.Payment{}, err
	}

	p.ExternalRef = mapNullString(extRef)
	return p, nil
}

func (r *paymentsRepo) Create(ctx context.Context, p domain.Payment) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Category == "" {
		p.Category = domain.DefaultPaymentCategory
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, contractor_id, amount, date, description, external_ref, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ContractorID, p.Amount.String(), formatDate(p.Date),
		p.Description, mapStringNull(p.ExternalRef), p.Category, p.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *paymentsRepo) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)

	p, err := r.scan(row)
	if err != nil {
		return domain.Payment{}, mapNotFound(err)
	}
	return p, nil
}

func (r *paymentsRepo) ListForContractor(
	ctx context.Context,
	contractorID string,
	from, to *time.Time,
) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE contractor_id = ?`
	args := []any{contractorID}

	// Date bounds are inclusive; the TEXT column compares correctly
	// because dates are stored as YYYY-MM-DD.
	if from != nil {
		query += ` AND date >= ?`
		args = append(args, formatDate(*from))
	}
	if to != nil {
		query += ` AND date <= ?`
		args = append(args, formatDate(*to))
	}
	query += ` ORDER BY date, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentsRepo) ExistsByExternalRef(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE external_ref = ?`, ref).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
