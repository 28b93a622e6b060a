// Package server hosts the HTTP surface of the orchestration core.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/storyai/wellspring/internal/profile"
	apiv1 "github.com/storyai/wellspring/server/router/api/v1"
	"github.com/storyai/wellspring/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiService *apiv1.APIV1Service
}

// NewServer builds the HTTP server and the full AI stack behind it.
func NewServer(_ context.Context, instanceProfile *profile.Profile, storeInstance *store.Store) (*Server, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.CORS())
	echoServer.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			// Access logs go through slog like everything else.
			logRequest(v)
			return nil
		},
	}))

	apiService := apiv1.NewAPIV1Service(instanceProfile, storeInstance)
	apiService.Register(echoServer)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": instanceProfile.Version,
		})
	})

	metricsPath := instanceProfile.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	echoServer.GET(metricsPath, echo.WrapHandler(apiService.Exporter.Handler()))

	return &Server{
		Profile:    instanceProfile,
		Store:      storeInstance,
		echoServer: echoServer,
		apiService: apiService,
	}, nil
}

// Start begins serving in a background goroutine.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- s.echoServer.Start(address)
	}()

	// Give the listener a beat to fail fast on a bad address.
	select {
	case err := <-listenErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "failed to listen on %s", address)
		}
		return nil
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		logShutdownError("http server", err)
	}
	if err := s.Store.Close(); err != nil {
		logShutdownError("store", err)
	}
}
