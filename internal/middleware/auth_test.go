package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sanskriti-tours/sanskriti-api/internal/middleware"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/jwt"
)

func newAuthedRequest(t *testing.T, svc *jwt.Service, userID uuid.UUID, email, role string) *http.Request {
	t.Helper()
	token, err := svc.GenerateToken(userID, email, role, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuth_PopulatesClaims(t *testing.T) {
	svc := jwt.NewService("test-secret", "test-issuer")
	userID := uuid.New()

	var gotID uuid.UUID
	var gotEmail string
	h := middleware.Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = middleware.GetUserID(r.Context())
		gotEmail = middleware.GetEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, newAuthedRequest(t, svc, userID, "asha@example.com", "customer"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotID != userID {
		t.Errorf("user ID = %s, want %s", gotID, userID)
	}
	if gotEmail != "asha@example.com" {
		t.Errorf("email = %q, want asha@example.com", gotEmail)
	}
}

func TestAuth_RejectsMissingAndMalformedTokens(t *testing.T) {
	svc := jwt.NewService("test-secret", "test-issuer")
	h := middleware.Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"", "Bearer not-a-token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rr.Code)
		}
	}
}

func TestAuth_RejectsExpiredToken(t *testing.T) {
	svc := jwt.NewService("test-secret", "test-issuer")
	token, err := svc.GenerateToken(uuid.New(), "asha@example.com", "customer", -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	h := middleware.Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireRole(t *testing.T) {
	svc := jwt.NewService("test-secret", "test-issuer")
	h := middleware.Auth(svc)(middleware.RequireRole("customer")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, newAuthedRequest(t, svc, uuid.New(), "asha@example.com", "customer"))
	if rr.Code != http.StatusOK {
		t.Errorf("matching role: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, newAuthedRequest(t, svc, uuid.New(), "asha@example.com", "guest"))
	if rr.Code != http.StatusForbidden {
		t.Errorf("wrong role: expected 403, got %d", rr.Code)
	}
}
