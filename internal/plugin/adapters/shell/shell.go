// Package shell provides the built-in local adapter. It speaks no network
// protocol: outbound messages go to the robot's log.
package shell

import (
	"context"
	"log/slog"
	"sync"

	"github.com/huddleai/huddle/internal/plugin"
)

// Key is the registry key the shell adapter registers under.
const Key = "shell"

// Descriptor returns the shell adapter type descriptor.
func Descriptor() *plugin.AdapterDescriptor {
	return &plugin.AdapterDescriptor{
		Key:         Key,
		DisplayName: "Shell",
		New: func(r plugin.Robot) plugin.Adapter {
			return &adapter{
				robot:   r,
				logger:  r.Logger().With(slog.String("adapter", Key)),
				stopped: make(chan struct{}),
			}
		},
	}
}

type adapter struct {
	robot   plugin.Robot
	logger  *slog.Logger
	stopped chan struct{}
	once    sync.Once
}

// Run blocks until the context is cancelled or Stop is called.
func (a *adapter) Run(ctx context.Context) error {
	a.logger.Info("shell adapter running", slog.String("robot", a.robot.Name()))
	select {
	case <-ctx.Done():
	case <-a.stopped:
	}
	return nil
}

// Stop ends a Run in progress. Safe to call more than once.
func (a *adapter) Stop(ctx context.Context) error {
	a.once.Do(func() { close(a.stopped) })
	return nil
}

// Send writes outbound messages to the log.
func (a *adapter) Send(ctx context.Context, target string, messages ...string) error {
	for _, msg := range messages {
		a.logger.Info("send", slog.String("target", target), slog.String("text", msg))
	}
	return nil
}
