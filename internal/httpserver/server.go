package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/interfaces"
)

const (
	controlPrefix = "/_worker"
	// defaultMaxBodySize bounds request bodies read by the server
	defaultMaxBodySize = 10 << 20
)

// Server hosts the worker: a fetch proxy plus the /_worker control surface
type Server struct {
	cfg           *config.ServerConfig
	origin        *url.URL
	worker        Worker
	queue         Queue
	notifications NotificationLog
	fetcher       interfaces.Fetcher
	logger        *zap.Logger
	maxBodySize   int64

	mu      sync.Mutex
	servers []*http.Server
}

// NewServer creates a new worker HTTP server
func NewServer(
	cfg *config.ServerConfig,
	origin *url.URL,
	w Worker,
	q Queue,
	notifications NotificationLog,
	fetcher interfaces.Fetcher,
	logger *zap.Logger,
) *Server {
	return &Server{
		cfg:           cfg,
		origin:        origin,
		worker:        w,
		queue:         q,
		notifications: notifications,
		fetcher:       fetcher,
		logger:        logger,
		maxBodySize:   defaultMaxBodySize,
	}
}

// StartTCP starts the HTTP server on a TCP address
func (s *Server) StartTCP(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.logger.Info("Starting worker HTTP server", zap.String("address", listener.Addr().String()))
	return s.serve(listener)
}

// StartUnixSocket starts the HTTP server on a Unix socket
func (s *Server) StartUnixSocket(socketPath string) error {
	// Remove existing socket file
	if err := os.RemoveAll(socketPath); err != nil {
		s.logger.Warn("Failed to remove existing socket file", zap.String("path", socketPath), zap.Error(err))
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}

	// Set socket permissions (readable/writable by owner and group)
	if err := os.Chmod(socketPath, 0660); err != nil {
		s.logger.Warn("Failed to set socket permissions", zap.String("path", socketPath), zap.Error(err))
	}

	s.logger.Info("Starting worker HTTP server on Unix socket", zap.String("socket_path", socketPath))
	return s.serve(listener)
}

func (s *Server) serve(listener net.Listener) error {
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.mu.Lock()
	s.servers = append(s.servers, server)
	s.mu.Unlock()

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops every listener
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping worker HTTP server")

	s.mu.Lock()
	servers := s.servers
	s.servers = nil
	s.mu.Unlock()

	var errs []error
	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.createRouter()
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	// Paths reach the fetch handler uncleaned
	router := mux.NewRouter().SkipClean(true)

	control := router.PathPrefix(controlPrefix).Subrouter()

	// Health check
	control.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Lifecycle events
	control.HandleFunc("/install", s.handleInstall).Methods("POST")
	control.HandleFunc("/activate", s.handleActivate).Methods("POST")
	control.HandleFunc("/sync/{tag}", s.handleSync).Methods("POST")
	control.HandleFunc("/push", s.handlePush).Methods("POST")
	control.HandleFunc("/notificationclick", s.handleNotificationClick).Methods("POST")

	// Diagnostics and the deferred write entry point
	control.HandleFunc("/queue", s.handleQueueList).Methods("GET")
	control.HandleFunc("/queue", s.handleEnqueue).Methods("POST")
	control.HandleFunc("/notifications", s.handleNotifications).Methods("GET")
	control.HandleFunc("/generations", s.handleGenerations).Methods("GET")

	// Prometheus metrics endpoint
	control.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Everything else goes through the fetch handler
	router.PathPrefix("/").MatcherFunc(notControlPath).HandlerFunc(s.handleFetch)

	return router
}

// notControlPath keeps unmatched /_worker requests away from the fetch handler
func notControlPath(r *http.Request, _ *mux.RouteMatch) bool {
	return r.URL.Path != controlPrefix && !strings.HasPrefix(r.URL.Path, controlPrefix+"/")
}

// readBody reads the whole request body up to the configured limit
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodySize))
}

// bodyStatus maps a body read error to its response status
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeResponse(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
