package cache_rules

import (
	"net/http"
	"net/url"
	"testing"

	"go.uber.org/zap/zaptest"

	"go-offline-worker/internal/models"
)

func mustRequest(t *testing.T, method, rawURL string) *models.FetchRequest {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", rawURL, err)
	}
	return &models.FetchRequest{Method: method, URL: u, Mode: models.RequestModeSameOrigin}
}

func TestNewClassifier(t *testing.T) {
	logger := zaptest.NewLogger(t)

	classifier := NewClassifier(logger)

	if classifier == nil {
		t.Fatal("NewClassifier returned nil")
	}
	if classifier.logger != logger {
		t.Error("Logger not set correctly")
	}
}

func TestIntercepts(t *testing.T) {
	classifier := NewClassifier(zaptest.NewLogger(t))

	tests := []struct {
		name   string
		method string
		url    string
		want   bool
	}{
		{"get http", http.MethodGet, "http://localhost:3000/index.html", true},
		{"get https", http.MethodGet, "https://tasks.example.com/", true},
		{"post", http.MethodPost, "http://localhost:3000/api/tasks", false},
		{"put", http.MethodPut, "http://localhost:3000/api/tasks/1", false},
		{"delete", http.MethodDelete, "http://localhost:3000/api/tasks/1", false},
		{"head", http.MethodHead, "http://localhost:3000/", false},
		{"extension scheme", http.MethodGet, "chrome-extension://abc/script.js", false},
		{"data url", http.MethodGet, "data:text/plain,hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Intercepts(mustRequest(t, tt.method, tt.url)); got != tt.want {
				t.Errorf("Intercepts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntercepts_NilRequest(t *testing.T) {
	classifier := NewClassifier(zaptest.NewLogger(t))

	if classifier.Intercepts(nil) {
		t.Error("Intercepts(nil) should be false")
	}
	if classifier.Intercepts(&models.FetchRequest{Method: http.MethodGet}) {
		t.Error("Intercepts() without URL should be false")
	}
}

func TestStorable(t *testing.T) {
	classifier := NewClassifier(zaptest.NewLogger(t))
	req := mustRequest(t, http.MethodGet, "http://localhost:3000/static/js/bundle.js")

	tests := []struct {
		name string
		resp *models.Response
		want bool
	}{
		{"200 basic", &models.Response{Status: 200, Type: models.ResponseTypeBasic}, true},
		{"200 cors", &models.Response{Status: 200, Type: models.ResponseTypeCORS}, false},
		{"0 opaque", &models.Response{Status: 0, Type: models.ResponseTypeOpaque}, false},
		{"204 basic", &models.Response{Status: 204, Type: models.ResponseTypeBasic}, false},
		{"206 basic", &models.Response{Status: 206, Type: models.ResponseTypeBasic}, false},
		{"302 basic", &models.Response{Status: 302, Type: models.ResponseTypeBasic}, false},
		{"404 basic", &models.Response{Status: 404, Type: models.ResponseTypeBasic}, false},
		{"500 basic", &models.Response{Status: 500, Type: models.ResponseTypeBasic}, false},
		{"nil response", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Storable(req, tt.resp); got != tt.want {
				t.Errorf("Storable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStorable_NonInterceptedRequest(t *testing.T) {
	classifier := NewClassifier(zaptest.NewLogger(t))
	req := mustRequest(t, http.MethodPost, "http://localhost:3000/api/tasks")

	if classifier.Storable(req, &models.Response{Status: 200, Type: models.ResponseTypeBasic}) {
		t.Error("Storable() should be false for a POST request")
	}
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name   string
		method string
		header http.Header
		want   models.RequestMode
	}{
		{"sec-fetch navigate", http.MethodGet, http.Header{"Sec-Fetch-Mode": {"navigate"}}, models.RequestModeNavigate},
		{"sec-fetch cors", http.MethodGet, http.Header{"Sec-Fetch-Mode": {"cors"}, "Accept": {"text/html"}}, models.RequestModeCORS},
		{"sec-fetch no-cors", http.MethodGet, http.Header{"Sec-Fetch-Mode": {"no-cors"}}, models.RequestModeNoCORS},
		{"accept html", http.MethodGet, http.Header{"Accept": {"text/html,application/xhtml+xml"}}, models.RequestModeNavigate},
		{"post accepting html", http.MethodPost, http.Header{"Accept": {"text/html"}}, models.RequestModeSameOrigin},
		{"json", http.MethodGet, http.Header{"Accept": {"application/json"}}, models.RequestModeSameOrigin},
		{"no headers", http.MethodGet, http.Header{}, models.RequestModeSameOrigin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMode(tt.method, tt.header); got != tt.want {
				t.Errorf("DetectMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
