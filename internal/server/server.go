// Package server exposes the topology over a small JSON HTTP API
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/renato0307/ktopo/internal/hull"
	"github.com/renato0307/ktopo/internal/logging"
	"github.com/renato0307/ktopo/internal/metrics"
	"github.com/renato0307/ktopo/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Options wires the server to the rest of ktopo
type Options struct {
	Pipeline *pipeline.Pipeline
	// Client performs writes for connections; nil disables them
	Client  client.Client
	Metrics *metrics.Metrics
	// Listers are served under /api/list/:name
	Listers map[string]*ResourceLister
	DevMode bool
}

type Server struct {
	opts   Options
	router *gin.Engine

	hullMu sync.Mutex
	hulls  map[string]*hull.Cache
}

// New builds the router
func New(opts Options) *Server {
	if !opts.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	s := &Server{
		opts:   opts,
		router: gin.New(),
		hulls:  make(map[string]*hull.Cache),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(gin.Recovery(), requestLogger(s.opts.Metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))

	api := r.Group("/api")
	{
		topo := api.Group("/topology")
		topo.GET("", s.getTopology)
		topo.GET("/model", s.getModel)
		topo.GET("/nodes/:uid", s.getNode)
		topo.GET("/filters", s.getFilters)
		topo.PUT("/filters", s.putFilters)
		topo.POST("/hull", s.postHull)
		topo.POST("/connections", s.postConnection)

		api.GET("/kubevirt/network-types", s.listNetworkTypes)
		api.GET("/kubevirt/network-types/:value", s.getNetworkType)

		api.Any("/list/:name", s.listResources)
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logging.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// hullCache returns the per-group cache, creating it on first use
func (s *Server) hullCache(group string) *hull.Cache {
	s.hullMu.Lock()
	defer s.hullMu.Unlock()
	c, ok := s.hulls[group]
	if !ok {
		c = &hull.Cache{}
		s.hulls[group] = c
	}
	return c
}

func abortWithError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, apiError{Error: err.Error()})
}

type apiError struct {
	Error string `json:"error"`
}
