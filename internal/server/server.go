// Package server wires the extraction pipeline behind an HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fundsift/fundsift/internal/api"
	"github.com/fundsift/fundsift/internal/api/middleware"
	"github.com/fundsift/fundsift/internal/batch"
	"github.com/fundsift/fundsift/internal/config"
	"github.com/fundsift/fundsift/internal/extract"
	"github.com/fundsift/fundsift/internal/fetch"
	"github.com/fundsift/fundsift/internal/monitoring"
	"github.com/fundsift/fundsift/internal/scrape"
	"github.com/fundsift/fundsift/internal/store"
)

// Server wraps the HTTP server and pipeline dependencies.
type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// New wires the full pipeline behind the API routes.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	metrics := monitoring.NewMetrics()

	st, err := store.New(cfg.Store.Dir, log, metrics)
	if err != nil {
		return nil, err
	}

	engine := extract.NewEngine(
		extract.WithBounds(cfg.Extract.Bounds()),
		extract.WithLogger(log),
		extract.WithMetrics(metrics),
	)
	fetcher := fetch.New(cfg.Fetch, log, metrics)
	scraper := scrape.New(fetcher, engine, st, log)

	runner := batch.NewRunner(cfg.Batch.Workers, func(ctx context.Context, url string) error {
		_, err := scraper.ScrapeURL(ctx, url)
		return err
	}, log, metrics)

	handlers := api.NewHandlers(scraper, st, runner, log)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit(100, 200))
	router.Use(monitoring.Middleware(metrics))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/api/extract", handlers.Extract)
	router.GET("/api/funds", handlers.ListFunds)
	router.GET("/api/funds/:slug", handlers.GetFund)
	router.POST("/api/batch", handlers.SubmitBatch)
	router.GET("/api/batch/:id", handlers.BatchStatus)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

// Run starts serving and blocks until the listener closes.
func (s *Server) Run() error {
	s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}
