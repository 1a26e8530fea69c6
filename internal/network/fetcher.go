package network

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
	"go-offline-worker/internal/utils"
)

// Ensure HTTPFetcher implements interfaces.Fetcher
var _ interfaces.Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher performs requests against the network on behalf of the worker.
// Redirects are returned as they are and bodies are fully buffered.
type HTTPFetcher struct {
	client   *http.Client
	origin   *url.URL
	upstream *url.URL
	logger   *zap.Logger
}

// NewHTTPFetcher creates a fetcher for the given origin
func NewHTTPFetcher(origin string, cfg *config.NetworkConfig, logger *zap.Logger) (*HTTPFetcher, error) {
	originURL, err := url.Parse(origin)
	if err != nil || originURL.Host == "" {
		return nil, fmt.Errorf("invalid origin %q", origin)
	}

	upstreamURL := originURL
	if cfg.Upstream != "" {
		upstreamURL, err = url.Parse(cfg.Upstream)
		if err != nil || upstreamURL.Host == "" {
			return nil, fmt.Errorf("invalid upstream %q", cfg.Upstream)
		}
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &HTTPFetcher{
		client:   client,
		origin:   originURL,
		upstream: upstreamURL,
		logger:   logger,
	}, nil
}

// Fetch sends the request and returns the buffered response. An error means
// the network could not be reached; HTTP error statuses are responses.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *models.FetchRequest) (*models.Response, error) {
	if req == nil || req.URL == nil {
		return nil, fmt.Errorf("request url cannot be nil")
	}

	sameOrigin := utils.SameOrigin(req.URL, f.origin)
	target := *req.URL
	target.Fragment = ""
	if sameOrigin {
		target.Scheme = f.upstream.Scheme
		target.Host = f.upstream.Host
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if req.Header != nil {
		utils.CopyHeaders(httpReq.Header, req.Header)
	}
	if sameOrigin {
		httpReq.Host = f.origin.Host
	}

	httpResp, err := f.client.Do(httpReq)
	if err != nil {
		f.logger.Debug("Network request failed", zap.String("url", req.URL.String()), zap.Error(err))
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &models.Response{
		URL:    req.URL.String(),
		Status: httpResp.StatusCode,
		Header: httpResp.Header.Clone(),
		Body:   data,
		Type:   responseType(req, sameOrigin),
	}
	if resp.Type == models.ResponseTypeOpaque {
		resp.Status = 0
		resp.Header = http.Header{}
		resp.Body = nil
	}
	return resp, nil
}

// responseType classifies the response the way a browser would expose it
func responseType(req *models.FetchRequest, sameOrigin bool) models.ResponseType {
	switch {
	case sameOrigin:
		return models.ResponseTypeBasic
	case req.Mode == models.RequestModeNoCORS:
		return models.ResponseTypeOpaque
	default:
		return models.ResponseTypeCORS
	}
}
