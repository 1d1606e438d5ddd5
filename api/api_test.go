package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"propscout/extract"
	"propscout/gazetteer"
	"propscout/links"
	"propscout/models"
	"propscout/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gaz, err := gazetteer.Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("loading gazetteer: %v", err)
	}
	extractor := extract.New(nil, extract.NewRuleStrategy(gaz), 10)
	resolver := services.NewResolveService(extractor, nil, links.NewBuilder(), nil, nil, nil, nil, time.Second)
	return NewServer(resolver, nil)
}

func TestHandleResolve(t *testing.T) {
	srv := newTestServer(t)

	body := `{"text": "busco casa en venta en candioti hasta 150000 dolares, 3 dormitorios"}`
	req := httptest.NewRequest(http.MethodPost, "/resolve", strings.NewReader(body))
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result services.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Criteria == nil {
		t.Fatal("response missing criteria")
	}
	if result.Criteria.PropertyType != "house" {
		t.Fatalf("property type = %s, want house", result.Criteria.PropertyType)
	}
	if len(result.Links) == 0 {
		t.Fatal("response missing portal links")
	}
	if !result.UsedFallback {
		t.Fatal("expected fallback extraction without an API key")
	}
}

func TestHandleResolveValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty body", `{}`, http.StatusBadRequest},
		{"invalid json", `{"text": `, http.StatusBadRequest},
		{"too short", `{"text": "casa"}`, http.StatusBadRequest},
		{"bad client id", `{"text": "casa en venta en candioti", "client_id": "not-a-uuid"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/resolve", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Routes().ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

type brokenInventory struct{}

func (brokenInventory) Find(_ context.Context, _ *models.Criteria) ([]models.Property, error) {
	return nil, errors.New("connection refused")
}

func TestHandleResolveStoreFailure(t *testing.T) {
	gaz, err := gazetteer.Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("loading gazetteer: %v", err)
	}
	extractor := extract.New(nil, extract.NewRuleStrategy(gaz), 10)
	resolver := services.NewResolveService(extractor, brokenInventory{}, links.NewBuilder(),
		nil, nil, nil, nil, time.Second)
	srv := NewServer(resolver, nil)

	body := `{"text": "casa en venta en candioti hasta 150000"}`
	req := httptest.NewRequest(http.MethodPost, "/resolve", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "could not process request") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestHandleResolveMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/resolve", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandleHealthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("status field = %v", resp["status"])
	}
}
