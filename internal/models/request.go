package models

import (
	"net/http"
	"net/url"
)

// RequestMode is the fetch mode of an intercepted request
type RequestMode string

const (
	RequestModeNavigate   RequestMode = "navigate"
	RequestModeSameOrigin RequestMode = "same-origin"
	RequestModeCORS       RequestMode = "cors"
	RequestModeNoCORS     RequestMode = "no-cors"
)

// FetchRequest represents a request seen by the fetch handler
type FetchRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
	Mode   RequestMode
}

// IsNavigation reports whether the request loads a top-level document
func (r *FetchRequest) IsNavigation() bool {
	return r != nil && r.Mode == RequestModeNavigate
}
