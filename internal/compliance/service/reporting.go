package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallyworks/compliance/internal/compliance/domain"
	"github.com/tallyworks/compliance/internal/compliance/store"
	"github.com/tallyworks/compliance/pkg/idx"
)

// DefaultThreshold is the fallback annual reporting threshold in currency
// units. It mirrors the common 600.00 reporting floor but is configuration,
// not regulation: deployments override it via REPORTING_THRESHOLD.
var DefaultThreshold = decimal.RequireFromString("600.00")

// ReportingService computes per-contractor totals and classifies reporting
// eligibility. It holds no state beyond the store handle and re-reads the
// store on every call.
type ReportingService struct {
	Store store.Store

	// Threshold is the default used when callers don't supply one.
	Threshold decimal.Decimal
}

// yearBounds returns the inclusive [Jan 1, Dec 31] window for a tax year,
// or open bounds when year is zero (all time).
func yearBounds(year int) (from, to *time.Time) {
	if year <= 0 {
		return nil, nil
	}
	f := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	t := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return &f, &t
}

// TotalFor sums the contractor's payment amounts for a tax year, or across
// all time when year is zero. An unknown contractor or one without
// qualifying payments totals zero; that distinction is not made here.
func (s *ReportingService) TotalFor(ctx context.Context, contractorID string, year int) (decimal.Decimal, error) {
	return totalFor(ctx, s.Store, contractorID, year)
}

func totalFor(ctx context.Context, st store.Store, contractorID string, year int) (decimal.Decimal, error) {
	from, to := yearBounds(year)

	payments, err := st.Payments().ListForContractor(ctx, contractorID, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// ContractorsAboveThreshold returns every contractor whose total for the
// year is at or above the threshold (inclusive: a contractor paid exactly
// the threshold qualifies). Result order follows store iteration order;
// callers needing a stable order sort explicitly.
func (s *ReportingService) ContractorsAboveThreshold(
	ctx context.Context,
	year int,
	threshold decimal.Decimal,
) ([]domain.ReportableContractor, error) {
	if year <= 0 {
		return nil, ErrInvalidYear
	}
	return contractorsAboveThreshold(ctx, s.Store, year, threshold)
}

func contractorsAboveThreshold(
	ctx context.Context,
	st store.Store,
	year int,
	threshold decimal.Decimal,
) ([]domain.ReportableContractor, error) {
	ids, err := st.Contractors().ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.ReportableContractor
	for _, id := range ids {
		total, err := totalFor(ctx, st, id, year)
		if err != nil {
			return nil, err
		}
		if total.LessThan(threshold) {
			continue
		}

		c, err := st.Contractors().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ReportableContractor{Contractor: c, TotalPaid: total})
	}
	return out, nil
}

// GenerateForms materializes Form1099 records for every contractor at or
// above the threshold for the year, replacing any forms generated earlier
// from stale totals. The whole pass runs in one transaction so a partial
// regeneration is never visible.
func (s *ReportingService) GenerateForms(
	ctx context.Context,
	year int,
	threshold decimal.Decimal,
) ([]domain.Form1099, error) {
	if year <= 0 {
		return nil, ErrInvalidYear
	}

	var forms []domain.Form1099
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		reportable, err := contractorsAboveThreshold(ctx, tx, year, threshold)
		if err != nil {
			return err
		}

		for _, rc := range reportable {
			existing, err := tx.Forms1099().GetForYear(ctx, rc.Contractor.ID, year)
			switch {
			case err == nil:
				if existing.Filed {
					// Never rewrite a form that was already filed.
					forms = append(forms, existing)
					continue
				}
				if err := tx.Forms1099().DeleteForYear(ctx, rc.Contractor.ID, year); err != nil {
					return err
				}
			case !errors.Is(err, store.ErrNotFound):
				return err
			}

			form := domain.Form1099{
				ID:           idx.New().String(),
				Year:         year,
				ContractorID: rc.Contractor.ID,
				TotalPaid:    rc.TotalPaid,
			}
			if err := tx.Forms1099().Create(ctx, form); err != nil {
				return err
			}
			forms = append(forms, form)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return forms, nil
}

// EffectiveThreshold resolves the threshold to use for a request: the
// given override when positive, otherwise the configured default.
func (s *ReportingService) EffectiveThreshold(override decimal.Decimal) decimal.Decimal {
	if override.IsPositive() {
		return override
	}
	if s.Threshold.IsPositive() {
		return s.Threshold
	}
	return DefaultThreshold
}
