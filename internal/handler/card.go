package handler

import (
	"log/slog"
	"net/http"

	"github.com/rscoates/magic-library/internal/domain/services"
	"github.com/rscoates/magic-library/internal/httputil"
)

// CardHandler handles read-only card catalog and reference table requests
type CardHandler struct {
	catalogService services.CatalogService
	logger         *slog.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(catalogService services.CatalogService, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// HealthCheck reports server liveness
// GET /health
func (h *CardHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SearchCards searches the catalog by name, set code, or number
// GET /api/cards/search?q=bolt&limit=N
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cards, err := h.catalogService.SearchCards(r.Context(), query, limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, cards)
}

// GetCard retrieves one printing by set code and collector number
// GET /api/cards/{set}/{number}
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	setCode := r.PathValue("set")
	number := r.PathValue("number")
	if setCode == "" || number == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Set code and number are required")
		return
	}

	card, err := h.catalogService.GetCard(r.Context(), setCode, number)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, card)
}

// ListSets lists all distinct set codes
// GET /api/sets
func (h *CardHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	codes, err := h.catalogService.ListSetCodes(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, codes)
}

// ListSetNumbers lists all card numbers in one set
// GET /api/sets/{set}/numbers
func (h *CardHandler) ListSetNumbers(w http.ResponseWriter, r *http.Request) {
	setCode := r.PathValue("set")
	if setCode == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Set code is required")
		return
	}

	numbers, err := h.catalogService.ListNumbersInSet(r.Context(), setCode)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, numbers)
}

// ListLanguages lists the language reference table
// GET /api/languages
func (h *CardHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.catalogService.ListLanguages(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, languages)
}

// ListFinishes lists the finish reference table
// GET /api/finishes
func (h *CardHandler) ListFinishes(w http.ResponseWriter, r *http.Request) {
	finishes, err := h.catalogService.ListFinishes(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, finishes)
}
