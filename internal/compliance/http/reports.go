package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tallyworks/compliance/internal/compliance/service"
	"github.com/tallyworks/compliance/pkg/httpx"
	"github.com/tallyworks/compliance/pkg/slogx"
)

// parseYearParam reads the optional year query parameter. Zero means
// "all time" where the endpoint allows it. Returns false after writing an
// error response when the parameter is malformed.
func parseYearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, true
	}

	year, err := strconv.Atoi(raw)
	if err != nil || year < 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "year must be a non-negative integer")
		return 0, false
	}
	return year, true
}

// parseThresholdParam reads the optional threshold query parameter as a
// decimal string. Zero means "use the configured default".
func parseThresholdParam(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	raw := r.URL.Query().Get("threshold")
	if raw == "" {
		return decimal.Zero, true
	}

	threshold, err := decimal.NewFromString(raw)
	if err != nil || threshold.IsNegative() {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "threshold must be a non-negative decimal")
		return decimal.Zero, false
	}
	return threshold, true
}

type TotalHandler struct {
	ReportingService *service.ReportingService
}

// ServeHTTP returns a contractor's payment total, for a tax year when the
// year query parameter is present or across all time otherwise. An unknown
// contractor totals zero; totals don't distinguish "no contractor" from
// "no payments".
func (h *TotalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	year, ok := parseYearParam(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	total, err := h.ReportingService.TotalFor(ctx, id, year)
	if err != nil {
		log.Error("failed to compute total", "contractor_id", id, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to compute total")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TotalResponse{
		ContractorID: id,
		Year:         year,
		Total:        total,
	})
}

type ThresholdReportHandler struct {
	ReportingService *service.ReportingService
}

// ServeHTTP classifies contractors against the reporting threshold for a
// tax year. The year query parameter is required; threshold is optional
// and falls back to the configured default.
func (h *ThresholdReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	year, ok := parseYearParam(w, r)
	if !ok {
		return
	}
	override, ok := parseThresholdParam(w, r)
	if !ok {
		return
	}
	threshold := h.ReportingService.EffectiveThreshold(override)

	reportable, err := h.ReportingService.ContractorsAboveThreshold(ctx, year, threshold)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidYear):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "year is required")
		default:
			log.Error("failed to build threshold report", "year", year, "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to build report")
		}
		return
	}

	entries := make([]ReportEntry, 0, len(reportable))
	for _, rc := range reportable {
		entries = append(entries, ReportEntry{
			Contractor: toContractorResponse(rc.Contractor),
			TotalPaid:  rc.TotalPaid,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, ReportResponse{
		Year:        year,
		Threshold:   threshold,
		Contractors: entries,
	})
}

// GenerateFormsRequest triggers 1099 form materialization for a year. A
// zero threshold means "use the configured default".
type GenerateFormsRequest struct {
	Year      int             `json:"year"`
	Threshold decimal.Decimal `json:"threshold"`
}

type GenerateFormsHandler struct {
	ReportingService *service.ReportingService
}

// ServeHTTP materializes 1099 form records for every reportable contractor
// in the given year. Regeneration replaces unfiled forms with fresh totals
// and leaves filed forms untouched.
func (h *GenerateFormsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req GenerateFormsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Threshold.IsNegative() {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "threshold must be a non-negative decimal")
		return
	}
	threshold := h.ReportingService.EffectiveThreshold(req.Threshold)

	forms, err := h.ReportingService.GenerateForms(ctx, req.Year, threshold)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidYear):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "year is required")
		default:
			log.Error("failed to generate forms", "year", req.Year, "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to generate forms")
		}
		return
	}

	log.Info("forms generated", "year", req.Year, "count", len(forms))

	out := make([]FormResponse, 0, len(forms))
	for _, f := range forms {
		out = append(out, toFormResponse(f))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
