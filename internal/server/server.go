package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rptconv/internal/config"
	"rptconv/internal/logger"
	"rptconv/internal/processor"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const shutdownTimeout = 10 * time.Second

// Server hosts the process endpoint
type Server struct {
	config   *config.ServerConfig
	engine   *gin.Engine
	registry *prometheus.Registry
	log      *slog.Logger
}

// New creates a server running uploads through the configured stages
func New(cfg *config.ServerConfig) *Server {
	pipeline := processor.NewPipeline(cfg.Stages, cfg.StageTimeout)
	return NewWithProcessor(cfg, pipeline, "")
}

// NewWithProcessor creates a server around an arbitrary processor. Request
// workspaces are created under workRoot, or the system temp dir when empty.
func NewWithProcessor(cfg *config.ServerConfig, proc Processor, workRoot string) *Server {
	log := logger.GetLogger().With("component", "server")
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	handler := NewProcessHandler(proc, metrics, workRoot, cfg.MaxUploadBytes)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("rptconv"))
	r.Use(requestLogger(log))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	r.POST("/process-file", handler.ProcessFile)
	r.POST("/api/process-file", handler.ProcessFile)

	if cfg.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))
	}

	return &Server{
		config:   cfg,
		engine:   r,
		registry: registry,
		log:      log,
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting server", "addr", s.config.Addr, "stages", len(s.config.Stages))
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

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
