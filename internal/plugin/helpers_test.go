package plugin_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/huddleai/huddle/internal/config"
	"github.com/huddleai/huddle/internal/plugin"
)

// fakeRobot implements plugin.Robot for callback and registry tests.
type fakeRobot struct {
	id   string
	name string
	cfg  *config.Config
}

func newFakeRobot() *fakeRobot {
	cfg := config.NewDefault("test")
	cfg.Finalize()
	return &fakeRobot{id: "robot-1", name: "test", cfg: cfg}
}

func (r *fakeRobot) ID() string   { return r.id }
func (r *fakeRobot) Name() string { return r.name }

func (r *fakeRobot) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (r *fakeRobot) Config() *config.Config { return r.cfg }

// fakeAdapter satisfies plugin.Adapter without doing anything.
type fakeAdapter struct{}

func (fakeAdapter) Run(context.Context) error  { return nil }
func (fakeAdapter) Stop(context.Context) error { return nil }
func (fakeAdapter) Send(context.Context, string, ...string) error {
	return nil
}

func newAdapterDescriptor(key string) *plugin.AdapterDescriptor {
	return &plugin.AdapterDescriptor{
		Key: key,
		New: func(plugin.Robot) plugin.Adapter { return fakeAdapter{} },
	}
}

// fakeHandler satisfies plugin.Handler and remembers its robot.
type fakeHandler struct {
	plugin.BaseHandler
}

func (h *fakeHandler) HandlerName() string { return "fake" }

func newHandlerDescriptor(name string) *plugin.HandlerDescriptor {
	return &plugin.HandlerDescriptor{
		Name: name,
		New: func(r plugin.Robot) plugin.Handler {
			return &fakeHandler{BaseHandler: plugin.NewBaseHandler(r)}
		},
	}
}

// countingSubscriber records hook events it receives.
type countingSubscriber struct {
	events []plugin.HookEvent
}

func (s *countingSubscriber) OnHook(_ context.Context, event plugin.HookEvent) {
	s.events = append(s.events, event)
}
