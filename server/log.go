package server

import (
	"log/slog"

	"github.com/labstack/echo/v4/middleware"
)

func logRequest(v middleware.RequestLoggerValues) {
	if v.Status >= 500 {
		slog.Error("request failed", "uri", v.URI, "status", v.Status)
		return
	}
	slog.Info("request", "uri", v.URI, "status", v.Status)
}

func logShutdownError(component string, err error) {
	slog.Error("shutdown error", "component", component, "error", err)
}
