package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huddleai/huddle/internal/version"
)

type PingHandler struct {
	logger *slog.Logger
	robot  string
}

func NewPingHandler(log *slog.Logger, robotName string) *PingHandler {
	return &PingHandler{
		logger: log.With(slog.String("handler", "ping")),
		robot:  robotName,
	}
}

func (h *PingHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.HEAD("/health", h.PingHead)
}

func (h *PingHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"robot":   h.robot,
		"version": version.GetInfo(),
	})
}

func (h *PingHandler) PingHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
