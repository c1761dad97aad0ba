package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Form1099 is the materialized annual summary for a contractor whose total
// crossed the reporting threshold. It records what was (or will be) reported;
// rendering and filing happen downstream.
type Form1099 struct {
	ID               string
	Year             int
	ContractorID     string
	TotalPaid        decimal.Decimal // nonemployee compensation for the year
	Filed            bool
	FiledConfirmation string
	SentToContractor bool
	SentDate         *time.Time
	CreatedAt        time.Time
}

// ReportableContractor pairs a contractor with their aggregate total for a
// year, as returned by the threshold classification.
type ReportableContractor struct {
	Contractor Contractor
	TotalPaid  decimal.Decimal
}
