// Package http exposes the record operations as a JSON API for the
// external view layer.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"uscite/internal/cache"
	"uscite/internal/middleware/ratelimit"
	"uscite/internal/middleware/security"
	"uscite/internal/middleware/trace"
	"uscite/internal/services"
)

const (
	overviewCacheSize = 32
	overviewCacheTTL  = 30 * time.Second
	cacheCleanupEvery = time.Minute
)

type Server struct {
	http.Server
	service *services.ExpenseService
	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	// Cached filtered overviews, purged on every write.
	overviewCache *cache.LRUCache[services.Overview]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

func NewServer(addr string, service *services.ExpenseService) *Server {
	s := &Server{
		service:          service,
		limiter:          ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:           trace.NewMiddleware(clientIP),
		overviewCache:    cache.NewLRUCache[services.Overview](overviewCacheSize, overviewCacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/records", s.handleRecords)
	mux.HandleFunc("/records/", s.handleRecordByID)
	mux.HandleFunc("/summary", s.handleSummary)
	mux.HandleFunc("/dates/preview", s.handleDatePreview)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := s.tracer.Middleware(
		s.limiter.Middleware(clientIP)(
			headers.Middleware(mux)))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go s.cacheCleanupLoop()

	return s
}

func (s *Server) cacheCleanupLoop() {
	ticker := time.NewTicker(cacheCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.overviewCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the background helpers before shutting the listener
// down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
	})
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
