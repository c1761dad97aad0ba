package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tallyworks/compliance/internal/compliance/service"
	"github.com/tallyworks/compliance/pkg/httpx"
	"github.com/tallyworks/compliance/pkg/slogx"
)

type ContractorsHandler struct {
	ContractorService *service.ContractorService
}

// HandleList lists contractors. The optional w9_received query parameter
// filters by W-9 status ("true" or "false").
func (h *ContractorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var filter *bool
	if raw := r.URL.Query().Get("w9_received"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "w9_received must be true or false")
			return
		}
		filter = &v
	}

	contractors, err := h.ContractorService.ListContractors(ctx, filter)
	if err != nil {
		log.Error("failed to list contractors", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list contractors")
		return
	}

	out := make([]ContractorResponse, 0, len(contractors))
	for _, c := range contractors {
		out = append(out, toContractorResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet fetches a single contractor by id.
func (h *ContractorsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	contractor, err := h.ContractorService.GetContractor(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContractorNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Contractor not found")
		default:
			log.Error("failed to get contractor", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to get contractor")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toContractorResponse(contractor))
}
