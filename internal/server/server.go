// Package server exposes browsing, export, statistics and submission over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cuticulome/internal/export"
	"cuticulome/internal/logging"
	"cuticulome/internal/metrics"
	"cuticulome/internal/relay"
	"cuticulome/internal/stats"
	"cuticulome/internal/store"
)

// Version is reported by /health.
const Version = "Cuticulome.db v0.1"

// Options wires a Server. Snapshot, Packager and Relay are required.
type Options struct {
	Snapshot       *store.Snapshot
	Packager       *export.Packager
	Relay          *relay.Relay
	Publications   []stats.PublicationYear
	ExportCacheTTL time.Duration
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
}

type Server struct {
	snapshot     *store.Snapshot
	packager     *export.Packager
	relay        *relay.Relay
	publications []stats.PublicationYear
	exports      *cache.Cache
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func New(opts Options) *Server {
	s := &Server{
		snapshot:     opts.Snapshot,
		packager:     opts.Packager,
		relay:        opts.Relay,
		publications: opts.Publications,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	// the snapshot never changes, so a built archive stays valid until it expires
	if opts.ExportCacheTTL > 0 {
		s.exports = cache.New(opts.ExportCacheTTL, 2*opts.ExportCacheTTL)
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(s.logger))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/proteins", s.listProteins)
	api.GET("/export", s.exportArchive)
	api.GET("/stats", s.statistics)
	api.POST("/submissions", s.submit)
	api.POST("/contact", s.contact)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"healthy":   true,
		"records":   s.snapshot.Len(),
		"loaded_at": s.snapshot.LoadedAt().UTC().Format(time.RFC3339),
		"relay":     s.relay.Enabled(),
		"version":   Version,
	})
}
