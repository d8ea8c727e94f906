package experience_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
)

func newPublicRouter(t *testing.T) (http.Handler, *experience.Experience) {
	t.Helper()

	repo := experience.NewMemoryRepository()
	exp := &experience.Experience{
		ID:       uuid.New(),
		Title:    "Ganga Aarti Ceremony",
		Slug:     "ganga-aarti-ceremony",
		Category: "ceremony",
		Location: "Varanasi",
		Pricing: experience.PricingConfig{
			Shared: experience.SharedPricing{
				Enabled:    true,
				AdultPrice: 2000,
				ChildPrice: 1000,
			},
		},
	}
	if err := repo.Create(context.Background(), exp); err != nil {
		t.Fatalf("seed experience: %v", err)
	}

	h := experience.NewHandler(experience.NewService(repo, nil))
	return h.PublicRoutes(), exp
}

func postQuote(t *testing.T, router http.Handler, idOrSlug, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/"+idOrSlug+"/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestQuoteEndpoint_SharedPrice(t *testing.T) {
	router, exp := newPublicRouter(t)

	rr := postQuote(t, router, exp.Slug, `{"booking_type":"shared","adults":2,"kids":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if body := rr.Body.String(); !strings.Contains(body, `"total":5000`) {
		t.Errorf("expected total 5000 in body, got %s", body)
	}
}

func TestQuoteEndpoint_UnknownExperience(t *testing.T) {
	router, _ := newPublicRouter(t)

	rr := postQuote(t, router, "no-such-experience", `{"booking_type":"shared","adults":1}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestQuoteEndpoint_DisabledBookingType(t *testing.T) {
	router, exp := newPublicRouter(t)

	rr := postQuote(t, router, exp.Slug, `{"booking_type":"private","adults":2}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestQuoteEndpoint_ValidationFailure(t *testing.T) {
	router, exp := newPublicRouter(t)

	// "luxury" is not a booking type the custom validator accepts.
	rr := postQuote(t, router, exp.Slug, `{"booking_type":"luxury","adults":2}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	rr = postQuote(t, router, exp.Slug, `not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rr.Code)
	}
}
