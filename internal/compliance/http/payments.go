package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tallyworks/compliance/internal/compliance/service"
	"github.com/tallyworks/compliance/pkg/httpx"
	"github.com/tallyworks/compliance/pkg/slogx"
)

type RecordPaymentHandler struct {
	PaymentService *service.PaymentService
}

// ServeHTTP records a payment against a contractor. Amounts are decimal
// strings and dates are calendar dates (YYYY-MM-DD); duplicate external
// references are rejected so webhook replays don't double-count.
func (h *RecordPaymentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	payment, err := h.PaymentService.RecordPayment(ctx, service.RecordPaymentInput{
		ContractorID: req.ContractorID,
		Amount:       req.Amount,
		Date:         date,
		Description:  req.Description,
		ExternalRef:  req.ExternalRef,
		Category:     req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNegativeAmount):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Amount must not be negative")
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, service.ErrContractorNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Contractor not found")
		case errors.Is(err, service.ErrDuplicatePayment):
			httpx.WriteError(w, http.StatusConflict, "duplicate_payment", "A payment with this external reference already exists")
		default:
			log.Error("failed to record payment", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to record payment")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

type ListPaymentsHandler struct {
	PaymentService *service.PaymentService
}

// ServeHTTP lists a contractor's payments, restricted to a tax year when
// the year query parameter is present.
func (h *ListPaymentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	year, ok := parseYearParam(w, r)
	if !ok {
		return
	}

	payments, err := h.PaymentService.ListPayments(ctx, r.PathValue("id"), year)
	if err != nil {
		log.Error("failed to list payments", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list payments")
		return
	}

	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
