// Package api serves the calculator, risk registers and portfolio over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// Server wires the HTTP routes to the core operations.
type Server struct {
	echo *echo.Echo
	cfg  *contract.Config
	mgr  contract.StoreManager
	gen  contract.TextGenerator // nil disables AI clauses
	now  func() time.Time
}

// New creates a server for the given configuration, store and optional text generator.
func New(cfg *contract.Config, mgr contract.StoreManager, gen contract.TextGenerator) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = goJSONSerializer{}

	s := &Server{
		echo: e,
		cfg:  cfg,
		mgr:  mgr,
		gen:  gen,
		now:  time.Now,
	}

	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.health)

	api := s.echo.Group("/api")
	api.POST("/penalty", s.computePenalty)
	api.POST("/exposure", s.aggregateExposure)
	api.GET("/portfolio", s.portfolio)

	projects := api.Group("/projects")
	projects.GET("", s.listProjects)
	projects.GET("/:id", s.getProject)
	projects.GET("/:id/exposure", s.projectExposure)
	projects.POST("/:id/calculation", s.calculateProject)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		contract.Logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		contract.Logger.Info().Msg("http server shutting down")
		return s.echo.Shutdown(shutdownCtx)
	}
}
