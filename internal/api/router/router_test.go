package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/attunehealth/office-scheduler/internal/http/middleware"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

func newTestRouter() http.Handler {
	return New(&Config{
		Logger:          logging.Default(),
		AdminAuthSecret: "test-secret",
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/summary/2026-03-10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAdminRoutesAcceptValidToken(t *testing.T) {
	router := newTestRouter()

	signed, err := middleware.NewAdminToken("test-secret", "admin", "practice-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	// No summary handler is wired, so an authenticated request should fall
	// through to chi's 404 rather than 401.
	req := httptest.NewRequest(http.MethodGet, "/admin/summary/2026-03-10", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code == http.StatusUnauthorized {
		t.Errorf("valid token rejected: %d", rec.Code)
	}
}
