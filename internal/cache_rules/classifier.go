package cache_rules

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
)

// Classifier implements the CacheRules interface
type Classifier struct {
	logger *zap.Logger
}

// Ensure Classifier implements the CacheRules interface
var _ interfaces.CacheRules = (*Classifier)(nil)

// NewClassifier creates a new Classifier instance
func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{
		logger: logger,
	}
}

// Intercepts implements CacheRules interface. Only GET requests to http(s)
// URLs go through the cache; everything else passes through.
func (c *Classifier) Intercepts(req *models.FetchRequest) bool {
	if req == nil || req.URL == nil {
		return false
	}
	if req.Method != http.MethodGet {
		return false
	}
	switch strings.ToLower(req.URL.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

// Storable implements CacheRules interface. Only complete same-origin
// responses (status 200, type basic) are written to the cache.
func (c *Classifier) Storable(req *models.FetchRequest, resp *models.Response) bool {
	if !c.Intercepts(req) || resp == nil {
		return false
	}
	if resp.Status != http.StatusOK || resp.Type != models.ResponseTypeBasic {
		if c.logger != nil {
			c.logger.Debug("Response not storable",
				zap.String("url", resp.URL),
				zap.Int("status", resp.Status),
				zap.String("type", string(resp.Type)))
		}
		return false
	}
	return true
}

// DetectMode derives the fetch mode of an incoming HTTP request. A request is
// a navigation when the browser says so through Sec-Fetch-Mode, or, lacking
// that header, when it is a GET that accepts HTML.
func DetectMode(method string, header http.Header) models.RequestMode {
	switch models.RequestMode(strings.ToLower(header.Get("Sec-Fetch-Mode"))) {
	case models.RequestModeNavigate:
		return models.RequestModeNavigate
	case models.RequestModeCORS:
		return models.RequestModeCORS
	case models.RequestModeNoCORS:
		return models.RequestModeNoCORS
	case models.RequestModeSameOrigin:
		return models.RequestModeSameOrigin
	}

	if method == http.MethodGet && strings.Contains(header.Get("Accept"), "text/html") {
		return models.RequestModeNavigate
	}
	return models.RequestModeSameOrigin
}
