// Package info provides the built-in info handler, exposing the robot's
// identity over GET /info through the HTTP callback path.
package info

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/huddleai/huddle/internal/plugin"
	"github.com/huddleai/huddle/internal/version"
)

// Name is the handler's registered name.
const Name = "info"

// Descriptor returns the info handler type descriptor.
func Descriptor() *plugin.HandlerDescriptor {
	desc := &plugin.HandlerDescriptor{
		Name: Name,
		New: func(r plugin.Robot) plugin.Handler {
			return &handler{BaseHandler: plugin.NewBaseHandler(r)}
		},
	}
	desc.Routes = []plugin.HTTPRoute{
		{Method: http.MethodGet, Path: "/info", Callback: writeInfo},
	}
	return desc
}

type handler struct {
	plugin.BaseHandler
}

// HandlerName implements plugin.Handler.
func (h *handler) HandlerName() string {
	return Name
}

// InfoResponse is the payload served on GET /info.
type InfoResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

func writeInfo(h plugin.Handler, _ *http.Request, w *plugin.Response) error {
	ih, ok := h.(*handler)
	if !ok {
		return fmt.Errorf("info route got handler %T", h)
	}
	robot := ih.Robot()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(InfoResponse{
		ID:      robot.ID(),
		Name:    robot.Name(),
		Version: version.GetInfo(),
	})
}
