package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/huddleai/huddle/internal/auth"
	"github.com/huddleai/huddle/internal/config"
	"github.com/huddleai/huddle/internal/plugin"
	"github.com/huddleai/huddle/internal/robot"
)

// Handler registers echo routes. Administrative handlers implement it;
// plugin handlers are mounted through their HTTP callbacks instead.
type Handler interface {
	Register(e *echo.Echo)
}

type Server struct {
	echo *echo.Echo
	addr string
}

// New builds the echo host: recovery, request logging, optional JWT auth
// on the administrative endpoints, robot injection into every request
// context, the registered handlers' HTTP routes, and the administrative
// handlers. Errors returned by route callbacks bubble into echo's error
// handler, which owns the 5xx translation.
func New(log *slog.Logger, cfg *config.Config, rb *robot.Robot, admin []Handler) *Server {
	addr := cfg.HTTP.Addr
	if addr == "" {
		addr = config.DefaultHTTPAddr
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", c.RealIP()),
			)
			return nil
		},
	}))
	if secret := cfg.HTTP.JWTSecret; secret != "" {
		e.Use(auth.JWTMiddleware(secret, func(c echo.Context) bool {
			return shouldSkipJWT(c.Request().URL.Path)
		}))
	}
	// The robot rides the request context so HTTPCallback can recover it.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(plugin.WithRobot(req.Context(), rb)))
			return next(c)
		}
	})

	for _, h := range admin {
		if h != nil {
			h.Register(e)
		}
	}
	mountPluginRoutes(e, rb.Registry())

	return &Server{echo: e, addr: addr}
}

// mountPluginRoutes wires every registered handler's HTTP routes through
// an HTTPCallback and writes the finished triple back to echo.
func mountPluginRoutes(e *echo.Echo, reg *plugin.Registry) {
	for desc := range reg.Handlers() {
		for _, route := range desc.Routes {
			cb := plugin.NewHTTPCallback(desc, route.Callback)
			e.Add(route.Method, route.Path, callbackRoute(cb))
			// HEAD must reach the callback's short-circuit rather
			// than echo's default method handling.
			if route.Method == echo.GET {
				e.Add(echo.HEAD, route.Path, callbackRoute(cb))
			}
		}
	}
}

func callbackRoute(cb plugin.HTTPCallback) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := cb.Call(c.Request())
		if err != nil {
			return err
		}
		status, header, body := res.Finish()
		out := c.Response().Header()
		for key, values := range header {
			for _, value := range values {
				out.Add(key, value)
			}
		}
		if len(body) == 0 {
			return c.NoContent(status)
		}
		contentType := header.Get(echo.HeaderContentType)
		if contentType == "" {
			contentType = echo.MIMETextPlainCharsetUTF8
		}
		return c.Blob(status, contentType, body)
	}
}

var adminPathPrefixes = []string{"/plugins"}

func shouldSkipJWT(path string) bool {
	for _, prefix := range adminPathPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return false
		}
	}
	return true
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
