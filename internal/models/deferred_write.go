package models

import (
	"encoding/json"
	"time"
)

// DeferredWrite is one task mutation waiting to be delivered to the remote
// sync endpoint. It is removed only after the endpoint acknowledges it.
type DeferredWrite struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
