package plugin

import (
	"context"
	"log/slog"

	"github.com/huddleai/huddle/internal/config"
)

// Robot is the running bot instance handed to plugin instances. It is an
// opaque collaborator from the registry's point of view; the concrete
// implementation lives in internal/robot.
type Robot interface {
	ID() string
	Name() string
	Logger() *slog.Logger
	Config() *config.Config
}

// Adapter connects the robot to a chat medium. Run blocks until the
// context is cancelled or Stop is called.
type Adapter interface {
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, target string, messages ...string) error
}

// AdapterDescriptor describes a registered adapter type. New constructs a
// fresh adapter instance bound to a robot.
type AdapterDescriptor struct {
	Key         string
	DisplayName string
	New         func(r Robot) Adapter
	// Config, when set, becomes the adapter's section in the
	// configuration root built by Registry.Config.
	Config any
}

// AdapterBuilder produces an adapter descriptor for the key it is
// registered under.
type AdapterBuilder func(key string) *AdapterDescriptor

// Handler is a plugin behavior instance, constructed fresh per use.
type Handler interface {
	HandlerName() string
}

// HandlerDescriptor describes a registered handler type. Handler set
// membership is by descriptor identity, so plugins should register the
// same *HandlerDescriptor value they construct once.
type HandlerDescriptor struct {
	Name      string
	Namespace string
	New       func(r Robot) Handler
	Routes    []HTTPRoute
	// Config, when set, becomes the handler's section in the
	// configuration root built by Registry.Config.
	Config any
}

// HandlerBuilder produces a handler descriptor for the namespace it is
// registered under.
type HandlerBuilder func(namespace string) *HandlerDescriptor

// HTTPRoute declares one HTTP endpoint owned by a handler type.
type HTTPRoute struct {
	Method   string
	Path     string
	Callback RouteCallback
}

// BaseHandler carries the robot binding shared by handler instances.
type BaseHandler struct {
	robot Robot
}

// NewBaseHandler binds a robot to a handler instance.
func NewBaseHandler(r Robot) BaseHandler {
	return BaseHandler{robot: r}
}

// Robot returns the robot this handler instance is bound to.
func (h BaseHandler) Robot() Robot {
	return h.robot
}

// HookEvent carries the payload delivered to hook subscribers.
type HookEvent struct {
	Name    string
	Payload map[string]any
}

// HookSubscriber receives hook notifications. Implementations should be
// best-effort; the registry does not collect errors from them. Subscriber
// sets are keyed by identity, so implementations must be comparable
// (pointer receivers are the norm; use NewHookFunc for plain functions).
type HookSubscriber interface {
	OnHook(ctx context.Context, event HookEvent)
}

// NewHookFunc wraps fn in a comparable HookSubscriber. Each call yields a
// distinct subscriber identity.
func NewHookFunc(fn func(ctx context.Context, event HookEvent)) HookSubscriber {
	return &hookFunc{fn: fn}
}

type hookFunc struct {
	fn func(ctx context.Context, event HookEvent)
}

func (h *hookFunc) OnHook(ctx context.Context, event HookEvent) {
	h.fn(ctx, event)
}
