package models

import (
	"net/http"
	"time"
)

// ResponseType mirrors the fetch response types a worker can observe
type ResponseType string

const (
	ResponseTypeBasic          ResponseType = "basic"
	ResponseTypeCORS           ResponseType = "cors"
	ResponseTypeOpaque         ResponseType = "opaque"
	ResponseTypeOpaqueRedirect ResponseType = "opaqueredirect"
	ResponseTypeError          ResponseType = "error"
)

// Response is a fully buffered HTTP response. Cached entries are snapshots
// of this type and are never mutated once written.
type Response struct {
	URL      string       `json:"url"`
	Status   int          `json:"status"`
	Header   http.Header  `json:"header,omitempty"`
	Body     []byte       `json:"body,omitempty"`
	Type     ResponseType `json:"type"`
	StoredAt int64        `json:"stored_at,omitempty"`
}

// OK reports whether the status is in the 2xx range
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status <= 299
}

// Clone returns a deep copy so the caller and the cache never share buffers
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Header = r.Header.Clone()
	if r.Body != nil {
		clone.Body = append([]byte(nil), r.Body...)
	}
	return &clone
}

// Snapshot returns a clone stamped with the time it was stored
func (r *Response) Snapshot(now time.Time) *Response {
	clone := r.Clone()
	if clone != nil {
		clone.StoredAt = now.Unix()
	}
	return clone
}
