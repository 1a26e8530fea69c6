package models

// FetchOutcome tells the host how a fetch event was resolved
type FetchOutcome string

const (
	// FetchPassthrough means the handler did not respond; the host performs
	// the request itself without consulting the cache.
	FetchPassthrough     FetchOutcome = "passthrough"
	FetchCacheHit        FetchOutcome = "cache_hit"
	FetchNetworkStored   FetchOutcome = "network_stored"
	FetchNetworkUncached FetchOutcome = "network_uncached"
	FetchShellFallback   FetchOutcome = "shell_fallback"
	FetchFailed          FetchOutcome = "failed"
)

// FetchResult is the typed result of a fetch event
type FetchResult struct {
	Outcome  FetchOutcome
	Response *Response
	Err      error
}

// Handled reports whether the handler produced a response or a failure
// instead of passing the request through
func (r FetchResult) Handled() bool {
	return r.Outcome != FetchPassthrough
}

// AssetFailure records one manifest asset that could not be cached
type AssetFailure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// InstallReport summarizes the population of a cache generation
type InstallReport struct {
	Generation string        `json:"generation"`
	Cached     []string      `json:"cached"`
	Failed     *AssetFailure `json:"failed,omitempty"`
	Skipped    []string      `json:"skipped,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Complete reports whether every manifest asset was cached
func (r InstallReport) Complete() bool {
	return r.Failed == nil && r.Error == "" && len(r.Skipped) == 0
}

// GenerationFailure records a stale generation that could not be deleted
type GenerationFailure struct {
	Generation string `json:"generation"`
	Error      string `json:"error"`
}

// ActivateReport summarizes the purge of stale cache generations
type ActivateReport struct {
	Current string              `json:"current"`
	Deleted []string            `json:"deleted"`
	Failed  []GenerationFailure `json:"failed,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// SyncStatus is the overall status of a sync event
type SyncStatus string

const (
	SyncStatusDrained SyncStatus = "drained"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusAborted SyncStatus = "aborted"
	SyncStatusIgnored SyncStatus = "ignored"
)

// Drain failure stages
const (
	DrainStageDeliver = "deliver"
	DrainStageDelete  = "delete"
)

// RecordFailure records a deferred write that stayed queued
type RecordFailure struct {
	ID    string `json:"id"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// DrainReport is the typed result of a sync event
type DrainReport struct {
	Tag       string          `json:"tag"`
	Status    SyncStatus      `json:"status"`
	Attempted int             `json:"attempted"`
	Delivered []string        `json:"delivered"`
	Failed    []RecordFailure `json:"failed,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// PushResult is the typed result of a push event
type PushResult struct {
	Notification *Notification `json:"notification,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// ClickResult is the typed result of a notification click
type ClickResult struct {
	Action  string `json:"action"`
	Closed  bool   `json:"closed"`
	Opened  string `json:"opened,omitempty"`
	Focused bool   `json:"focused,omitempty"`
	Error   string `json:"error,omitempty"`
}
