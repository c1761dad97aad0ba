package http

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallyworks/compliance/internal/compliance/domain"
)

// W9SubmitRequest is the W-9 intake payload.
type W9SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	TIN     string `json:"tin"` // SSN or EIN, with or without dashes
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// ContractorResponse never carries the TIN, encrypted or otherwise. The
// reveal endpoint is the only place plaintext TINs appear.
type ContractorResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	W9Received     bool       `json:"w9_received"`
	W9ReceivedDate *time.Time `json:"w9_received_date,omitempty"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	ZipCode        string     `json:"zip_code,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toContractorResponse(c domain.Contractor) ContractorResponse {
	return ContractorResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		W9Received:     c.W9Received,
		W9ReceivedDate: c.W9ReceivedDate,
		Address:        c.Address,
		City:           c.City,
		State:          c.State,
		ZipCode:        c.ZipCode,
		CreatedAt:      c.CreatedAt,
	}
}

// TINResponse carries a decrypted, display-formatted TIN.
type TINResponse struct {
	ContractorID string `json:"contractor_id"`
	TIN          string `json:"tin"`
}

// PaymentRequest records a payment. Amount is a decimal string ("250.00");
// Date is a calendar date ("2026-01-15").
type PaymentRequest struct {
	ContractorID string          `json:"contractor_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Description  string          `json:"description,omitempty"`
	ExternalRef  string          `json:"external_ref,omitempty"`
	Category     string          `json:"category,omitempty"`
}

type PaymentResponse struct {
	ID           string          `json:"id"`
	ContractorID string          `json:"contractor_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Description  string          `json:"description,omitempty"`
	ExternalRef  string          `json:"external_ref,omitempty"`
	Category     string          `json:"category"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toPaymentResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		ContractorID: p.ContractorID,
		Amount:       p.Amount,
		Date:         p.Date.Format("2006-01-02"),
		Description:  p.Description,
		ExternalRef:  p.ExternalRef,
		Category:     p.Category,
		CreatedAt:    p.CreatedAt,
	}
}

// TotalResponse is a contractor's aggregate for an optional year.
type TotalResponse struct {
	ContractorID string          `json:"contractor_id"`
	Year         int             `json:"year,omitempty"`
	Total        decimal.Decimal `json:"total"`
}

// ReportEntry is one contractor at or above the reporting threshold.
type ReportEntry struct {
	Contractor ContractorResponse `json:"contractor"`
	TotalPaid  decimal.Decimal    `json:"total_paid"`
}

// ReportResponse is the annual threshold classification.
type ReportResponse struct {
	Year        int             `json:"year"`
	Threshold   decimal.Decimal `json:"threshold"`
	Contractors []ReportEntry   `json:"contractors"`
}

type FormResponse struct {
	ID           string          `json:"id"`
	Year         int             `json:"year"`
	ContractorID string          `json:"contractor_id"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Filed        bool            `json:"filed"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toFormResponse(f domain.Form1099) FormResponse {
	return FormResponse{
		ID:           f.ID,
		Year:         f.Year,
		ContractorID: f.ContractorID,
		TotalPaid:    f.TotalPaid,
		Filed:        f.Filed,
		CreatedAt:    f.CreatedAt,
	}
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Cipher   string `json:"cipher"`
}

// HealthResponse is returned by the livez/readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
