package handlers

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/huddleai/huddle/internal/plugin"
)

// PluginsHandler exposes read-only introspection of the plugin registry.
type PluginsHandler struct {
	registry *plugin.Registry
}

func NewPluginsHandler(registry *plugin.Registry) *PluginsHandler {
	return &PluginsHandler{registry: registry}
}

func (h *PluginsHandler) Register(e *echo.Echo) {
	group := e.Group("/plugins")
	group.GET("/adapters", h.ListAdapters)
	group.GET("/handlers", h.ListHandlers)
	group.GET("/hooks", h.ListHooks)
}

// AdapterMeta describes one registered adapter type.
type AdapterMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name,omitempty"`
}

// RouteMeta describes one HTTP route owned by a handler type.
type RouteMeta struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// HandlerMeta describes one registered handler type.
type HandlerMeta struct {
	Name      string      `json:"name"`
	Namespace string      `json:"namespace,omitempty"`
	Routes    []RouteMeta `json:"routes,omitempty"`
}

// HookMeta describes one hook name and its subscriber count.
type HookMeta struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
}

func (h *PluginsHandler) ListAdapters(c echo.Context) error {
	descs := h.registry.Adapters()
	items := make([]AdapterMeta, 0, len(descs))
	for key, desc := range descs {
		items = append(items, AdapterMeta{Key: key, DisplayName: desc.DisplayName})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return c.JSON(http.StatusOK, items)
}

func (h *PluginsHandler) ListHandlers(c echo.Context) error {
	descs := h.registry.Handlers()
	items := make([]HandlerMeta, 0, len(descs))
	for desc := range descs {
		meta := HandlerMeta{Name: desc.Name, Namespace: desc.Namespace}
		for _, route := range desc.Routes {
			meta.Routes = append(meta.Routes, RouteMeta{Method: route.Method, Path: route.Path})
		}
		items = append(items, meta)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return c.JSON(http.StatusOK, items)
}

func (h *PluginsHandler) ListHooks(c echo.Context) error {
	hooks := h.registry.Hooks()
	items := make([]HookMeta, 0, len(hooks))
	for name, subs := range hooks {
		items = append(items, HookMeta{Name: name, Subscribers: len(subs)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return c.JSON(http.StatusOK, items)
}
