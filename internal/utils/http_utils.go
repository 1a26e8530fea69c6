package utils

import (
	"net/http"
	"net/url"
	"strings"

	"go-offline-worker/internal/models"
)

// hopHeaders are connection-scoped and never forwarded
var hopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

// CopyHeaders copies end-to-end headers from src into dst
func CopyHeaders(dst, src http.Header) {
	for name, values := range src {
		if _, hop := hopHeaders[http.CanonicalHeaderKey(name)]; hop {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

// SameOrigin reports whether two URLs share scheme, host and port
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if port := u.Port(); port != "" {
		return port
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}

// WriteResponse writes a buffered response to the client. Opaque responses
// carry status 0 and are written as 502 since they have nothing to show.
func WriteResponse(w http.ResponseWriter, resp *models.Response) {
	CopyHeaders(w.Header(), resp.Header)
	w.Header().Del("Content-Length")

	status := resp.Status
	if status == 0 {
		status = http.StatusBadGateway
	}
	w.WriteHeader(status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
