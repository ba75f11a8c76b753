package handler

import (
	"log/slog"
	"net/http"

	"github.com/rscoates/magic-library/internal/domain/services"
	"github.com/rscoates/magic-library/internal/httputil"
)

// DecklistHandler handles decklist reconciliation HTTP requests
type DecklistHandler struct {
	decklistService services.DecklistService
	logger          *slog.Logger
}

// NewDecklistHandler creates a new decklist handler
func NewDecklistHandler(decklistService services.DecklistService, logger *slog.Logger) *DecklistHandler {
	return &DecklistHandler{
		decklistService: decklistService,
		logger:          logger,
	}
}

// CheckDecklist reconciles pasted decklist text against owned inventory
// POST /api/decklist/check
func (h *DecklistHandler) CheckDecklist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decklist    string `json:"decklist"`
		IncludeSold bool   `json:"include_sold"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.decklistService.Check(r.Context(), req.Decklist, req.IncludeSold)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}
