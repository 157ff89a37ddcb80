package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newValidatedMux(reached *bool) *http.ServeMux {
	validate := NewValidationMiddleware(zap.NewNop()).Middleware
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	})

	mux := http.NewServeMux()
	mux.Handle("GET /activities/{name}", validate(next))
	mux.Handle("POST /activities/{name}/signup", validate(next))
	mux.Handle("DELETE /activities/{name}/unregister", validate(next))
	return mux
}

func TestValidationRequiresEmailOnMutations(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantNext   bool
	}{
		{"signup missing email", http.MethodPost, "/activities/Chess%20Club/signup", http.StatusUnprocessableEntity, false},
		{"signup with email", http.MethodPost, "/activities/Chess%20Club/signup?email=a@b.edu", http.StatusOK, true},
		{"signup with empty email", http.MethodPost, "/activities/Chess%20Club/signup?email=", http.StatusOK, true},
		{"unregister missing email", http.MethodDelete, "/activities/Chess%20Club/unregister", http.StatusUnprocessableEntity, false},
		{"unregister with email", http.MethodDelete, "/activities/Chess%20Club/unregister?email=a@b.edu", http.StatusOK, true},
		{"get needs no email", http.MethodGet, "/activities/Chess%20Club", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			mux := newValidatedMux(&reached)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, reached, "handler reachability mismatch")
			if tt.wantStatus == http.StatusUnprocessableEntity {
				assert.Contains(t, rec.Body.String(), "email")
			}
		})
	}
}

func TestValidationRejectsOverlongActivityName(t *testing.T) {
	reached := false
	mux := newValidatedMux(&reached)

	long := strings.Repeat("x", 300)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activities/"+long, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, reached)
}
