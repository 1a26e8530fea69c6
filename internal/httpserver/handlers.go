package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-offline-worker/internal/cache_rules"
	"go-offline-worker/internal/models"
	"go-offline-worker/internal/queue"
	"go-offline-worker/internal/utils"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, http.StatusOK, &HealthResponse{
		Status:  "healthy",
		Version: s.worker.Version(),
		State:   s.worker.State(),
	})
}

func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	report := s.worker.OnInstall(r.Context())
	s.writeResponse(w, http.StatusOK, report)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	report := s.worker.OnActivate(r.Context())
	s.writeResponse(w, http.StatusOK, report)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]
	report := s.worker.OnSync(r.Context(), tag)

	status := http.StatusOK
	if report.Status == models.SyncStatusAborted {
		status = http.StatusServiceUnavailable
	}
	s.writeResponse(w, status, report)
}

// handlePush treats the request body as the push message data
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		s.writeErrorResponse(w, "Invalid request", bodyStatus(err))
		return
	}

	result := s.worker.OnPush(r.Context(), data)
	status := http.StatusOK
	if result.Error != "" {
		status = http.StatusInternalServerError
	}
	s.writeResponse(w, status, result)
}

func (s *Server) handleNotificationClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeErrorResponse(w, "Invalid request", bodyStatus(err))
		return
	}

	result := s.worker.OnNotificationClick(r.Context(), req.Action)
	status := http.StatusOK
	if result.Error != "" {
		status = http.StatusInternalServerError
	}
	s.writeResponse(w, status, result)
}

func (s *Server) handleQueueList(w http.ResponseWriter, r *http.Request) {
	pending, err := s.queue.Pending(r.Context())
	if err != nil {
		s.logger.Error("Failed to list deferred writes", zap.Error(err))
		s.writeErrorResponse(w, "Queue unavailable", http.StatusServiceUnavailable)
		return
	}
	if pending == nil {
		pending = []*models.DeferredWrite{}
	}
	s.writeResponse(w, http.StatusOK, &QueueResponse{Pending: pending})
}

// handleEnqueue stores the request body as a new deferred write
func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	payload, err := s.readBody(w, r)
	if err != nil {
		s.writeErrorResponse(w, "Invalid request", bodyStatus(err))
		return
	}

	record, err := s.queue.Enqueue(r.Context(), payload)
	if errors.Is(err, queue.ErrInvalidPayload) {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.writeErrorResponse(w, "Queue unavailable", http.StatusServiceUnavailable)
		return
	}
	s.writeResponse(w, http.StatusAccepted, record)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	items := s.notifications.List()
	if items == nil {
		items = []*models.Notification{}
	}
	s.writeResponse(w, http.StatusOK, items)
}

func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	names, err := s.worker.Generations(r.Context())
	if err != nil {
		s.logger.Error("Failed to list generations", zap.Error(err))
		s.writeErrorResponse(w, "Cache unavailable", http.StatusServiceUnavailable)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeResponse(w, http.StatusOK, &GenerationsResponse{Current: s.worker.Version(), Generations: names})
}

// handleFetch dispatches an application request to the fetch handler and
// performs it directly when the handler passes it through
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		status := bodyStatus(err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	// The path is kept verbatim: no dot-segment or slash cleaning
	target := *s.origin
	target.Path = r.URL.Path
	target.RawPath = r.URL.RawPath
	target.RawQuery = r.URL.RawQuery
	target.Fragment = ""
	req := &models.FetchRequest{
		Method: r.Method,
		URL:    &target,
		Header: r.Header.Clone(),
		Body:   body,
		Mode:   cache_rules.DetectMode(r.Method, r.Header),
	}

	result := s.worker.OnFetch(r.Context(), req)
	if result.Handled() && result.Response == nil {
		result.Outcome = models.FetchFailed
	}

	switch result.Outcome {
	case models.FetchPassthrough:
		resp, err := s.fetcher.Fetch(r.Context(), req)
		if err != nil {
			s.logger.Warn("Pass-through request failed", zap.String("url", req.URL.String()), zap.Error(err))
			w.Header().Set(HeaderCacheStatus, CacheStatusBypass)
			http.Error(w, "upstream unreachable", http.StatusBadGateway)
			return
		}
		w.Header().Set(HeaderCacheStatus, CacheStatusBypass)
		utils.WriteResponse(w, resp)
	case models.FetchCacheHit:
		w.Header().Set(HeaderCacheStatus, CacheStatusHit)
		utils.WriteResponse(w, result.Response)
	case models.FetchShellFallback:
		w.Header().Set(HeaderCacheStatus, CacheStatusFallback)
		utils.WriteResponse(w, result.Response)
	case models.FetchNetworkStored, models.FetchNetworkUncached:
		w.Header().Set(HeaderCacheStatus, CacheStatusMiss)
		utils.WriteResponse(w, result.Response)
	default:
		s.logger.Debug("Fetch failed", zap.String("url", req.URL.String()), zap.Error(result.Err))
		w.Header().Set(HeaderCacheStatus, CacheStatusMiss)
		http.Error(w, "network unreachable", http.StatusGatewayTimeout)
	}
}
