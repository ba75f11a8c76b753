package handler

import (
	"log/slog"
	"net/http"

	"github.com/rscoates/magic-library/internal/domain/services"
	"github.com/rscoates/magic-library/internal/httputil"
)

// CollectionHandler handles collection entry HTTP requests
type CollectionHandler struct {
	inventoryService services.InventoryService
	logger           *slog.Logger
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(inventoryService services.InventoryService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// AddEntry upserts a quantity into a container
// POST /api/collection
func (h *CollectionHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req services.AddEntryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.inventoryService.Add(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, entry)
}

// UpdateEntry edits entry fields directly
// PATCH /api/collection/{id}
func (h *CollectionHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req services.UpdateEntryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.inventoryService.SetFields(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}

// DeleteEntry removes an entry outright
// DELETE /api/collection/{id}
func (h *CollectionHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.inventoryService.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListEntries lists entries with display data
// GET /api/collection?container_id=N&include_sold=true
func (h *CollectionHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	containerID, err := queryInt64Ptr(r, "container_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.inventoryService.List(r.Context(), containerID, queryBool(r, "include_sold"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}

// SearchCollection groups owned entries by card name
// GET /api/collection/search?q=bolt&include_sold=true
func (h *CollectionHandler) SearchCollection(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	summaries, err := h.inventoryService.SearchByCardName(r.Context(), query, queryBool(r, "include_sold"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// MoveEntry atomically transfers quantity to another container
// POST /api/collection/move
func (h *CollectionHandler) MoveEntry(w http.ResponseWriter, r *http.Request) {
	var req services.MoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.inventoryService.Move(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
