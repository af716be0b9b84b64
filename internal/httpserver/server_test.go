package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/diet-hub/internal/config"
)

func TestHealthz(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestDietsRequireAuth(t *testing.T) {
	cfg := &config.Config{
		Port:          8080,
		AuthMode:      config.AuthModeDev,
		AuthRequired:  true,
		JWTSecret:     "test-secret",
		JWTIssuer:     "diet-hub",
		JWTTTLMinutes: 60,
	}
	srv := New(cfg)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/diets", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// dev token endpoint stays public
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from dev auth, got %d: %s", w.Code, w.Body.String())
	}
	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&token); err != nil || token.AccessToken == "" {
		t.Fatalf("failed to decode token: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/diets", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}

	// foreign user_id is hidden for non-dietitians
	req = httptest.NewRequest(http.MethodGet, "/v1/diets?user_id=someone-else", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign user_id, got %d", w.Code)
	}
}

func TestDietitianPolicy(t *testing.T) {
	ctx := context.Background()

	open := newDietitianPolicy(&config.Config{})
	if !open.CanActFor(ctx, "a", "b") {
		t.Error("override must be allowed when auth is not required")
	}

	strict := newDietitianPolicy(&config.Config{AuthRequired: true, DietitianUserIDs: []string{"anna"}})
	if !strict.CanActFor(ctx, "anna", "client-1") {
		t.Error("dietitian must be allowed to act for clients")
	}
	if strict.CanActFor(ctx, "bob", "client-1") {
		t.Error("regular user must not act for others")
	}
	if !strict.CanActFor(ctx, "bob", "bob") {
		t.Error("user must be allowed to act for self")
	}
}
