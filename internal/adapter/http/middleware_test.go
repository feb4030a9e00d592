package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/auth"
	"github.com/miruku-pixel/poddo-pos-engine/internal/config"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, string, string, map[string]interface{})         {}
func (nopLogger) Debug(string, string, string, map[string]interface{})        {}
func (nopLogger) Warn(string, string, string, map[string]interface{})         {}
func (nopLogger) Error(string, string, string, map[string]interface{}, error) {}

func testVerifier() func(http.Handler) http.Handler {
	verifier := auth.NewStaticVerifier(config.AuthConfig{
		Tokens: []config.TokenConfig{
			{Token: "dev-cashier", ActorID: 2, DisplayName: "Cashier", Role: "CASHIER"},
		},
	})
	return AuthMiddleware(verifier, nopLogger{})
}

func TestAuthMiddleware_ResolvesActor(t *testing.T) {
	var seen domain.Actor
	handler := testVerifier()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			t.Fatal("actor missing from request context")
		}
		seen = actor
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders/1", nil)
	req.Header.Set("Authorization", "Bearer dev-cashier")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen.ID != 2 || seen.Role != domain.RoleCashier {
		t.Errorf("actor = %+v", seen)
	}
}

func TestAuthMiddleware_RejectsWith401(t *testing.T) {
	handler := testVerifier()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached")
	}))

	cases := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"missing header", func(*http.Request) {}},
		{"not bearer", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }},
		{"unknown token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders/1", nil)
			c.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
