// Package server assembles the HTTP surface of the availability service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/slotsense/internal/profile"
	"github.com/hrygo/slotsense/server/availability"
	"github.com/hrygo/slotsense/server/feed"
	"github.com/hrygo/slotsense/server/internal/observability"
	"github.com/hrygo/slotsense/server/middleware"
	apiv1 "github.com/hrygo/slotsense/server/router/api/v1"
)

const (
	// shutdownTimeout bounds the graceful drain of in-flight requests.
	shutdownTimeout = 10 * time.Second

	// rateLimitRPS and rateLimitBurst throttle each client IP.
	rateLimitRPS   = 10
	rateLimitBurst = 20
)

// Server is the availability HTTP server.
type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
	metrics    *observability.Metrics
}

// NewServer creates the server with all middleware and routes registered.
func NewServer(p *profile.Profile, logger *slog.Logger) (*Server, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid profile")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.CORS())
	e.Use(echomw.Recover())
	e.Use(middleware.NewRateLimiter(rateLimitRPS, rateLimitBurst).Middleware())

	s := &Server{
		Profile:    p,
		echoServer: e,
		metrics:    observability.NewMetrics(0),
	}

	svc := availability.NewService(p, feed.NewFetcher(nil), logger, s.metrics)
	apiv1.NewAPIV1Service(p, svc).RegisterRoutes(e)

	e.GET("/healthz", s.healthz)
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	})

	return s, nil
}

// Start begins serving in the background. Startup failures other than a
// graceful close are logged, not returned.
func (s *Server) Start() {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("address", address))
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", slog.String("error", err.Error()))
		}
	}()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down server gracefully", slog.String("error", err.Error()))
	}
	slog.Info("server stopped")
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echoServer
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.Profile.Version,
		"metrics": s.metrics.Snapshot(),
	})
}
