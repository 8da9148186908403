package robot

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/huddleai/huddle/internal/config"
	"github.com/huddleai/huddle/internal/plugin"
)

// Robot is the running bot instance. It implements plugin.Robot and is
// handed to adapter and handler instances as an opaque collaborator.
type Robot struct {
	id       string
	registry *plugin.Registry
	logger   *slog.Logger
}

// New creates a Robot backed by the given registry.
func New(registry *plugin.Registry, log *slog.Logger) *Robot {
	id := uuid.NewString()
	return &Robot{
		id:       id,
		registry: registry,
		logger:   log.With(slog.String("robot_id", id)),
	}
}

// ID returns the unique id of this robot instance.
func (r *Robot) ID() string {
	return r.id
}

// Name returns the configured robot name.
func (r *Robot) Name() string {
	return r.registry.Config().Robot.Name
}

// Logger returns the robot's logger.
func (r *Robot) Logger() *slog.Logger {
	return r.logger
}

// Config returns the registry's configuration root.
func (r *Robot) Config() *config.Config {
	return r.registry.Config()
}

// Registry returns the plugin registry that owns this robot's
// registrations.
func (r *Robot) Registry() *plugin.Registry {
	return r.registry
}

// Adapters instantiates every registered adapter bound to this robot.
func (r *Robot) Adapters() []plugin.Adapter {
	descs := r.registry.Adapters()
	items := make([]plugin.Adapter, 0, len(descs))
	for _, desc := range descs {
		items = append(items, desc.New(r))
	}
	return items
}

// TriggerHook notifies hook subscribers through the registry.
func (r *Robot) TriggerHook(ctx context.Context, name string, payload map[string]any) {
	r.registry.TriggerHook(ctx, name, payload)
}
