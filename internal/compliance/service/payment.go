package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tallyworks/compliance/internal/compliance/domain"
	"github.com/tallyworks/compliance/internal/compliance/store"
	"github.com/tallyworks/compliance/pkg/idx"
	"time"
)

// PaymentService records payments against contractors. Payments are
// immutable once written; there is no update path.
type PaymentService struct {
	Store store.Store
}

// RecordPaymentInput is the payload for a new payment.
type RecordPaymentInput struct {
	ContractorID string
	Amount       decimal.Decimal
	Date         time.Time
	Description  string
	ExternalRef  string
	Category     string
}

// RecordPayment validates and stores a payment. Duplicate processor
// references are rejected so replayed webhook deliveries don't double-count
// toward the reporting threshold.
func (s *PaymentService) RecordPayment(ctx context.Context, in RecordPaymentInput) (domain.Payment, error) {
	if in.Amount.IsNegative() {
		return domain.Payment{}, ErrNegativeAmount
	}
	if in.Date.IsZero() {
		return domain.Payment{}, fmt.Errorf("%w: payment date is required", ErrInvalidInput)
	}

	if _, err := s.Store.Contractors().GetByID(ctx, in.ContractorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Payment{}, ErrContractorNotFound
		}
		return domain.Payment{}, err
	}

	if in.ExternalRef != "" {
		exists, err := s.Store.Payments().ExistsByExternalRef(ctx, in.ExternalRef)
		if err != nil {
			return domain.Payment{}, err
		}
		if exists {
			return domain.Payment{}, ErrDuplicatePayment
		}
	}

	category := in.Category
	if category == "" {
		category = domain.DefaultPaymentCategory
	}

	p := domain.Payment{
		ID:           idx.New().String(),
		ContractorID: in.ContractorID,
		Amount:       in.Amount,
		Date:         in.Date,
		Description:  in.Description,
		ExternalRef:  in.ExternalRef,
		Category:     category,
	}

	if err := s.Store.Payments().Create(ctx, p); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Payment{}, ErrDuplicatePayment
		}
		return domain.Payment{}, err
	}

	return p, nil
}

// ListPayments returns a contractor's payments, restricted to the given
// tax year when year > 0.
func (s *PaymentService) ListPayments(ctx context.Context, contractorID string, year int) ([]domain.Payment, error) {
	from, to := yearBounds(year)
	return s.Store.Payments().ListForContractor(ctx, contractorID, from, to)
}
