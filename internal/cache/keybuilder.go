package cache

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface.
// Keys are exact: the absolute URL without its fragment. Headers never
// participate in matching.
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a cache key for an intercepted request
func (kb *KeyBuilderImpl) Build(req *models.FetchRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}
	return kb.BuildURL(req.URL)
}

// BuildURL creates a cache key for an absolute URL
func (kb *KeyBuilderImpl) BuildURL(u *url.URL) (string, error) {
	if u == nil {
		return "", errors.New("url cannot be nil")
	}

	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("url must be absolute: %q", u.String())
	}

	normalized := *u
	normalized.Fragment = ""
	normalized.RawFragment = ""
	normalized.Scheme = strings.ToLower(normalized.Scheme)
	normalized.Host = strings.ToLower(normalized.Host)
	if normalized.Path == "" {
		normalized.Path = "/"
	}

	return normalized.String(), nil
}
