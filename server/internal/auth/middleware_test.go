package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func do(t *testing.T, h http.Handler, path, header, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set(header, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyMiddleware_ModeNone_PassesThrough(t *testing.T) {
	h := APIKeyMiddleware("none", "X-API-Key", "secret")(okHandler())
	if rec := do(t, h, "/api/v1/traffic", "", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAPIKeyMiddleware_EmptyKey_PassesThrough(t *testing.T) {
	// key="" means auth is not configured, allow all.
	h := APIKeyMiddleware("apikey", "X-API-Key", "")(okHandler())
	if rec := do(t, h, "/api/v1/traffic", "", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAPIKeyMiddleware_CorrectKey_Passes(t *testing.T) {
	h := APIKeyMiddleware("apikey", "X-API-Key", "supersecret")(okHandler())
	if rec := do(t, h, "/api/v1/traffic", "X-API-Key", "supersecret"); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAPIKeyMiddleware_WrongKey_Rejected(t *testing.T) {
	h := APIKeyMiddleware("apikey", "X-API-Key", "supersecret")(okHandler())
	rec := do(t, h, "/api/v1/traffic", "X-API-Key", "wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestAPIKeyMiddleware_MissingKey_Rejected(t *testing.T) {
	h := APIKeyMiddleware("apikey", "X-API-Key", "supersecret")(okHandler())
	if rec := do(t, h, "/api/v1/traffic", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAPIKeyMiddleware_HealthStaysOpen(t *testing.T) {
	h := APIKeyMiddleware("apikey", "X-API-Key", "supersecret")(okHandler())
	if rec := do(t, h, "/api/v1/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (health is unauthenticated)", rec.Code)
	}
}
