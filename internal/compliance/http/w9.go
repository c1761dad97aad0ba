package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tallyworks/compliance/internal/compliance/service"
	"github.com/tallyworks/compliance/pkg/httpx"
	"github.com/tallyworks/compliance/pkg/slogx"
)

type W9SubmitHandler struct {
	ContractorService *service.ContractorService
}

// ServeHTTP accepts a W-9 submission, sealing the TIN before it is stored.
// Resubmitting for an existing email replaces the TIN on file. The response
// never echoes the TIN back.
func (h *W9SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req W9SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	contractor, err := h.ContractorService.SubmitW9(ctx, service.W9Submission{
		Name:    req.Name,
		Email:   req.Email,
		TIN:     req.TIN,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			log.Error("failed to submit w9", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to submit W-9")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toContractorResponse(contractor))
}
