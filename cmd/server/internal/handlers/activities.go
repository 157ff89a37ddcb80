package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mergington/activities/internal/activities"
)

// ActivitiesHandler adapts the four registry operations to HTTP. It carries
// no business logic of its own; every rule lives in the registry.
type ActivitiesHandler struct {
	registry *activities.Registry
	logger   *zap.Logger
}

// NewActivitiesHandler creates a new activities handler
func NewActivitiesHandler(registry *activities.Registry, logger *zap.Logger) *ActivitiesHandler {
	return &ActivitiesHandler{
		registry: registry,
		logger:   logger,
	}
}

// MessageResponse is the success body for mutations
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure body for every error path
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// List handles GET /activities
func (h *ActivitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, h.registry.List())
}

// Get handles GET /activities/{name}
func (h *ActivitiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	activity, err := h.registry.Get(name)
	if err != nil {
		h.sendRegistryError(w, name, err)
		return
	}
	h.sendJSON(w, http.StatusOK, activity)
}

// Signup handles POST /activities/{name}/signup
func (h *ActivitiesHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	email := r.URL.Query().Get("email")

	if err := h.registry.Signup(name, email); err != nil {
		h.sendRegistryError(w, name, err)
		return
	}
	h.sendJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

// Unregister handles DELETE /activities/{name}/unregister
func (h *ActivitiesHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	email := r.URL.Query().Get("email")

	if err := h.registry.Unregister(name, email); err != nil {
		h.sendRegistryError(w, name, err)
		return
	}
	h.sendJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

// sendRegistryError maps registry errors to the wire contract: 404 for an
// unknown activity, 400 for membership conflicts.
func (h *ActivitiesHandler) sendRegistryError(w http.ResponseWriter, name string, err error) {
	switch {
	case errors.Is(err, activities.ErrActivityNotFound):
		h.sendError(w, "Activity not found", http.StatusNotFound)
	case errors.Is(err, activities.ErrAlreadySignedUp):
		h.sendError(w, "Student is already signed up", http.StatusBadRequest)
	case errors.Is(err, activities.ErrNotSignedUp):
		h.sendError(w, "Student is not signed up for this activity", http.StatusBadRequest)
	case errors.Is(err, activities.ErrActivityFull):
		h.sendError(w, "Activity is full", http.StatusBadRequest)
	default:
		h.logger.Error("Unexpected registry error",
			zap.String("activity", name),
			zap.Error(err),
		)
		h.sendError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *ActivitiesHandler) sendJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *ActivitiesHandler) sendError(w http.ResponseWriter, detail string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: detail})
}
