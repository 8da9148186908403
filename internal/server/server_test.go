package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huddleai/huddle/internal/auth"
	"github.com/huddleai/huddle/internal/handlers"
	"github.com/huddleai/huddle/internal/plugin"
	"github.com/huddleai/huddle/internal/robot"
)

func TestShouldSkipJWT(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want bool
	}{
		{path: "/ping", want: true},
		{path: "/info", want: true},
		{path: "/plugins", want: false},
		{path: "/plugins/adapters", want: false},
		{path: "/pluginsummary", want: true},
	}

	for _, tc := range cases {
		got := shouldSkipJWT(tc.path)
		if got != tc.want {
			t.Fatalf("path=%q want=%v got=%v", tc.path, tc.want, got)
		}
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, desc *plugin.HandlerDescriptor, jwtSecret string) (*Server, *plugin.Registry) {
	t.Helper()
	reg := plugin.NewRegistry("test")
	if desc != nil {
		if err := reg.RegisterHandler(desc); err != nil {
			t.Fatalf("register handler: %v", err)
		}
	}
	if jwtSecret != "" {
		reg.Config().HTTP.JWTSecret = jwtSecret
	}
	rb := robot.New(reg, testLogger())
	admin := []Handler{
		handlers.NewPingHandler(testLogger(), "test"),
		handlers.NewPluginsHandler(reg),
	}
	return New(testLogger(), reg.Config(), rb, admin), reg
}

type echoBackHandler struct {
	plugin.BaseHandler
}

func (h *echoBackHandler) HandlerName() string { return "echoback" }

func echoBackDescriptor() *plugin.HandlerDescriptor {
	desc := &plugin.HandlerDescriptor{
		Name: "echoback",
		New: func(r plugin.Robot) plugin.Handler {
			return &echoBackHandler{BaseHandler: plugin.NewBaseHandler(r)}
		},
	}
	desc.Routes = []plugin.HTTPRoute{
		{Method: http.MethodGet, Path: "/echoback", Callback: func(h plugin.Handler, r *http.Request, w *plugin.Response) error {
			eh := h.(*echoBackHandler)
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte("hello from " + eh.Robot().Name()))
			return err
		}},
	}
	return desc
}

func TestPluginRouteServesCallback(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, echoBackDescriptor(), "")

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echoback", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "hello from test" {
		t.Fatalf("body = %q", got)
	}
}

func TestPluginRouteHeadReturns204(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, echoBackDescriptor(), "")

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/echoback", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("HEAD body not empty: %q", rec.Body.String())
	}
}

func TestAdminEndpointsRequireJWT(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	srv, _ := newTestServer(t, nil, secret)

	// No token: rejected.
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plugins/adapters", nil))
	if rec.Code < http.StatusBadRequest {
		t.Fatalf("unauthenticated admin request got %d", rec.Code)
	}

	// Valid token: served.
	token, _, err := auth.GenerateToken("admin", secret, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/plugins/adapters", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated admin request got %d", rec.Code)
	}
	var items []handlers.AdapterMeta
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Plugin routes stay public.
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("public route rejected")
	}
}
