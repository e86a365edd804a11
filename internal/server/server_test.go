package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/layerviz/layerviz/pkg/cache"
	"github.com/layerviz/layerviz/pkg/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	cfg := DefaultConfig()
	cfg.CacheBackend = "none"
	return NewWithBackends(cfg, cache.NewNullCache(), store.NewMemoryStore(), logger)
}

const renderBody = `{
	"model": {
		"name": "mini",
		"layers": [
			{"name": "conv", "type": "Conv2D", "output_shape": [null, 8, 8, 4]},
			{"name": "dense", "type": "Dense", "units": 10, "output_shape": [null, 10]}
		]
	},
	"view": "layered",
	"format": "svg"
}`

func TestHandleRender(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(renderBody))
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("body starts with %.20q, want <svg", rec.Body.String())
	}
	if rec.Header().Get("X-Render-ID") == "" {
		t.Error("missing X-Render-ID header")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestHandleRenderErrors(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"missing model", `{"view": "layered"}`, http.StatusBadRequest},
		{"bad view", strings.Replace(renderBody, `"layered"`, `"tower"`, 1), http.StatusBadRequest},
		{"bad format", strings.Replace(renderBody, `"svg"`, `"gif"`, 1), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(tt.body))
			s.Handler().ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.want, rec.Body.String())
			}
			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
				t.Errorf("error body = %s, want json with error field", rec.Body.String())
			}
		})
	}
}

func TestRenderArchiveRoundTrip(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(renderBody)))
	if rec.Code != http.StatusOK {
		t.Fatalf("render status = %d", rec.Code)
	}
	id := rec.Header().Get("X-Render-ID")

	list := httptest.NewRecorder()
	s.Handler().ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/api/renders", nil))
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	var listing struct {
		Renders []store.Render `json:"renders"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Renders) != 1 || listing.Renders[0].ID != id {
		t.Errorf("listing = %+v, want one render with id %s", listing.Renders, id)
	}

	get := httptest.NewRecorder()
	s.Handler().ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/renders/"+id, nil))
	if get.Code != http.StatusOK {
		t.Fatalf("get status = %d", get.Code)
	}
	if !bytes.Equal(get.Body.Bytes(), rec.Body.Bytes()) {
		t.Error("archived artifact differs from rendered artifact")
	}

	missing := httptest.NewRecorder()
	s.Handler().ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/api/renders/nope", nil))
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing render status = %d, want 404", missing.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"none backend", func(c *Config) { c.CacheBackend = "none" }, false},
		{"unknown backend", func(c *Config) { c.CacheBackend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.CacheBackend = "redis" }, true},
		{"empty addr", func(c *Config) { c.Addr = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}
