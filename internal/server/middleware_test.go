package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestIdentityDefault verifies that the identity middleware falls back to
// the local user when no header is present.
func TestIdentityDefault(t *testing.T) {
	var gotUserID int
	handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = userIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 1 {
		t.Errorf("userID = %d, want 1", gotUserID)
	}
}

// TestIdentityHeader verifies that a valid X-User-ID header selects the user.
func TestIdentityHeader(t *testing.T) {
	var gotUserID int
	handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = userIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotUserID != 42 {
		t.Errorf("userID = %d, want 42", gotUserID)
	}
}

// TestIdentityMalformedHeader verifies that garbage and non-positive ids
// fall back to the local user instead of erroring.
func TestIdentityMalformedHeader(t *testing.T) {
	for _, header := range []string{"abc", "-3", "0"} {
		var gotUserID int
		handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID = userIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-ID", header)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if gotUserID != 1 {
			t.Errorf("X-User-ID=%q: userID = %d, want 1", header, gotUserID)
		}
	}
}

// TestUserIDFromContextDefault verifies that userIDFromContext returns the
// local user when no identity middleware has set a value.
func TestUserIDFromContextDefault(t *testing.T) {
	if id := userIDFromContext(context.Background()); id != 1 {
		t.Errorf("userIDFromContext without context value = %d, want 1", id)
	}
}

// TestRequestLogging verifies that the logging middleware calls the next handler and records status.
func TestRequestLogging(t *testing.T) {
	log := slog.Default()
	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestCORSHeaders verifies that CORS headers are set on responses.
func TestCORSHeaders(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin = %q, want *", got)
	}
}

// TestCORSPreflight verifies that OPTIONS requests get 204 with CORS headers.
func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for OPTIONS")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
