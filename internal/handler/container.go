package handler

import (
	"log/slog"
	"net/http"

	"github.com/rscoates/magic-library/internal/domain/services"
	"github.com/rscoates/magic-library/internal/httputil"
)

// ContainerHandler handles storage hierarchy HTTP requests
type ContainerHandler struct {
	containerService services.ContainerService
	logger           *slog.Logger
}

// NewContainerHandler creates a new container handler
func NewContainerHandler(containerService services.ContainerService, logger *slog.Logger) *ContainerHandler {
	return &ContainerHandler{
		containerService: containerService,
		logger:           logger,
	}
}

// CreateContainer creates a new container
// POST /api/containers
func (h *ContainerHandler) CreateContainer(w http.ResponseWriter, r *http.Request) {
	var req services.CreateContainerRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	container, err := h.containerService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, container)
}

// GetContainer retrieves a container with its computed path
// GET /api/containers/{id}
func (h *ContainerHandler) GetContainer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	container, err := h.containerService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, container)
}

// UpdateContainer updates container fields, including re-parenting
// PATCH /api/containers/{id}
func (h *ContainerHandler) UpdateContainer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req services.UpdateContainerRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	container, err := h.containerService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, container)
}

// DeleteContainer deletes a container, its descendants, and their entries
// DELETE /api/containers/{id}
func (h *ContainerHandler) DeleteContainer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.containerService.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListContainers lists containers, flat or as immediate children
// GET /api/containers?parent_id=N
func (h *ContainerHandler) ListContainers(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("parent_id") == "" && !r.URL.Query().Has("roots") {
		containers, err := h.containerService.ListAll(r.Context())
		if err != nil {
			handleError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, containers)
		return
	}

	parentID, err := queryInt64Ptr(r, "parent_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	containers, err := h.containerService.ListChildren(r.Context(), parentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, containers)
}

// GetTree returns the nested container tree
// GET /api/containers/tree  and  GET /api/containers/{id}/tree
func (h *ContainerHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	var rootID *int64
	if r.PathValue("id") != "" {
		id, err := pathID(r, "id")
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		rootID = &id
	}

	tree, err := h.containerService.Tree(r.Context(), rootID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// CreateContainerType adds a new container type label
// POST /api/container-types
func (h *ContainerHandler) CreateContainerType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	containerType, err := h.containerService.CreateType(r.Context(), req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, containerType)
}

// ListContainerTypes lists all container type labels
// GET /api/container-types
func (h *ContainerHandler) ListContainerTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.containerService.ListTypes(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, types)
}
