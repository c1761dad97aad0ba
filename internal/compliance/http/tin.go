package http

import (
	"errors"
	"net/http"

	"github.com/tallyworks/compliance/internal/compliance/service"
	"github.com/tallyworks/compliance/pkg/httpx"
	"github.com/tallyworks/compliance/pkg/slogx"
	"github.com/tallyworks/compliance/pkg/tincrypt"
)

type TINRevealHandler struct {
	ContractorService *service.ContractorService
}

// ServeHTTP decrypts and returns a contractor's TIN. This is the only
// endpoint that emits plaintext TINs, which is why it sits behind the
// strict rate limit. The optional kind query parameter ("ssn" or "ein")
// selects the display format; ssn is the default.
func (h *TINRevealHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	kind := tincrypt.SSN
	switch r.URL.Query().Get("kind") {
	case "", "ssn":
	case "ein":
		kind = tincrypt.EIN
	default:
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "kind must be ssn or ein")
		return
	}

	id := r.PathValue("id")
	tin, err := h.ContractorService.RevealTIN(ctx, id, kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContractorNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Contractor not found")
		case errors.Is(err, service.ErrNoTIN):
			httpx.WriteError(w, http.StatusNotFound, "tin_not_found", "Contractor has no TIN on file")
		default:
			// Deliberately opaque: a decrypt failure reads the same as any
			// other server error.
			log.Error("failed to reveal tin", "contractor_id", id, "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to reveal TIN")
		}
		return
	}

	log.Info("tin revealed", "contractor_id", id)
	httpx.WriteJSON(w, http.StatusOK, TINResponse{ContractorID: id, TIN: tin})
}
