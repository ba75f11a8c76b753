package handler

import (
	"log/slog"
	"net/http"

	"github.com/rscoates/magic-library/internal/domain/services"
	"github.com/rscoates/magic-library/internal/httputil"
)

// BinderHandler handles binder layout HTTP requests
type BinderHandler struct {
	binderService services.BinderService
	logger        *slog.Logger
}

// NewBinderHandler creates a new binder handler
func NewBinderHandler(binderService services.BinderService, logger *slog.Logger) *BinderHandler {
	return &BinderHandler{
		binderService: binderService,
		logger:        logger,
	}
}

// GetPage renders one page of binder slots
// GET /api/containers/{id}/binder?page=N
func (h *BinderHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	containerID, err := pathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.binderService.GetPage(r.Context(), containerID, page)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// UpdatePositions bulk-repositions entries within a binder
// PUT /api/containers/{id}/binder/positions
func (h *BinderHandler) UpdatePositions(w http.ResponseWriter, r *http.Request) {
	containerID, err := pathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Updates []services.PositionUpdate `json:"updates"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.binderService.UpdatePositions(r.Context(), containerID, req.Updates)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"updated_count": updated,
	})
}

// GetPosition lists every entry stacked at one position
// GET /api/containers/{id}/binder/positions/{position}
func (h *BinderHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	containerID, err := pathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	position, err := pathID(r, "position")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.binderService.GetPosition(r.Context(), containerID, int(position))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
