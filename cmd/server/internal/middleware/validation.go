package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const maxActivityNameBytes = 256

// ValidationMiddleware rejects malformed requests before they reach the
// registry. The one hard rule: mutations require an email query parameter.
// An email that is present but empty passes through; the registry treats it
// as an opaque identity.
type ValidationMiddleware struct {
	logger *zap.Logger
}

func NewValidationMiddleware(logger *zap.Logger) *ValidationMiddleware {
	return &ValidationMiddleware{logger: logger}
}

func (vm *ValidationMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Validate by route. Keep this minimal and fast.
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(path, "/signup"),
			r.Method == http.MethodDelete && strings.HasSuffix(path, "/unregister"):
			if !vm.validateActivityName(w, r) {
				return
			}
			if !vm.requireEmailParam(w, r) {
				return
			}

		case strings.HasPrefix(path, "/activities/"):
			if !vm.validateActivityName(w, r) {
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// --- helpers ---

func (vm *ValidationMiddleware) validateActivityName(w http.ResponseWriter, r *http.Request) bool {
	name := r.PathValue("name")
	if len(name) > maxActivityNameBytes {
		vm.sendDetail(w, "Activity name too long", http.StatusBadRequest)
		return false
	}
	return true
}

// requireEmailParam enforces the transport-level contract: a missing email
// parameter is a validation failure that never consults the registry.
func (vm *ValidationMiddleware) requireEmailParam(w http.ResponseWriter, r *http.Request) bool {
	if !r.URL.Query().Has("email") {
		vm.sendDetail(w, "email parameter is required", http.StatusUnprocessableEntity)
		return false
	}
	return true
}

func (vm *ValidationMiddleware) sendDetail(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
