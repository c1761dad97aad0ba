package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentCategory is applied when a payment is recorded without an
// explicit category.
const DefaultPaymentCategory = "contractor_payment"

// Payment is a single amount paid to a contractor on a calendar date.
// Payments are immutable once recorded; corrections are new payments.
// Amounts are exact fixed-point decimals, never binary floats.
type Payment struct {
	ID           string
	ContractorID string
	Amount       decimal.Decimal
	Date         time.Time // calendar date; time-of-day is ignored
	Description  string
	ExternalRef  string // payment processor reference, unique when set
	Category     string
	CreatedAt    time.Time
}
