package cache

import (
	"net/url"
	"testing"

	"go-offline-worker/internal/models"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	return u
}

func TestKeyBuilder_Build(t *testing.T) {
	kb := NewKeyBuilder()

	tests := []struct {
		name      string
		request   *models.FetchRequest
		wantKey   string
		wantError bool
	}{
		{
			name:    "basic request",
			request: &models.FetchRequest{Method: "GET", URL: mustParse(t, "http://localhost:3000/static/js/bundle.js")},
			wantKey: "http://localhost:3000/static/js/bundle.js",
		},
		{
			name:    "query is part of the key",
			request: &models.FetchRequest{Method: "GET", URL: mustParse(t, "http://localhost:3000/api/tasks?page=2")},
			wantKey: "http://localhost:3000/api/tasks?page=2",
		},
		{
			name:    "fragment is dropped",
			request: &models.FetchRequest{Method: "GET", URL: mustParse(t, "http://localhost:3000/index.html#/today")},
			wantKey: "http://localhost:3000/index.html",
		},
		{
			name:    "empty path becomes root",
			request: &models.FetchRequest{Method: "GET", URL: mustParse(t, "HTTP://LocalHost:3000")},
			wantKey: "http://localhost:3000/",
		},
		{
			name:      "nil request",
			request:   nil,
			wantError: true,
		},
		{
			name:      "nil url",
			request:   &models.FetchRequest{Method: "GET"},
			wantError: true,
		},
		{
			name:      "relative url",
			request:   &models.FetchRequest{Method: "GET", URL: mustParse(t, "/index.html")},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := kb.Build(tt.request)
			if tt.wantError {
				if err == nil {
					t.Errorf("Build() expected error, got key %q", key)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() unexpected error = %v", err)
			}
			if key != tt.wantKey {
				t.Errorf("Build() = %q, want %q", key, tt.wantKey)
			}
		})
	}
}

func TestKeyBuilder_SameKeyForRequestAndURL(t *testing.T) {
	kb := NewKeyBuilder()
	u := mustParse(t, "http://localhost:3000/manifest.json")

	fromURL, err := kb.BuildURL(u)
	if err != nil {
		t.Fatalf("BuildURL() error = %v", err)
	}
	fromRequest, err := kb.Build(&models.FetchRequest{Method: "GET", URL: u})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if fromURL != fromRequest {
		t.Errorf("BuildURL() = %q, Build() = %q, want equal", fromURL, fromRequest)
	}
}
