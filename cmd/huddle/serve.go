package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/huddleai/huddle/internal/config"
	"github.com/huddleai/huddle/internal/handlers"
	"github.com/huddleai/huddle/internal/logger"
	"github.com/huddleai/huddle/internal/plugin"
	"github.com/huddleai/huddle/internal/plugin/adapters/shell"
	"github.com/huddleai/huddle/internal/plugin/handlers/info"
	"github.com/huddleai/huddle/internal/robot"
	"github.com/huddleai/huddle/internal/server"
	"github.com/huddleai/huddle/internal/version"
)

const defaultOwner = "huddle"

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the robot",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	fx.New(
		fx.Provide(
			provideRegistry,
			provideLogger,
			provideRobot,
			provideServerHandler(providePingHandler),
			provideServerHandler(provideAdminHandler),
			provideServer,
		),
		fx.Invoke(
			startAdapters,
			startServer,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

// provideRegistry builds the registry, registers the built-in plugins,
// and layers the config file over the finalized defaults.
func provideRegistry() (*plugin.Registry, error) {
	reg := plugin.NewRegistry(defaultOwner)
	if err := reg.RegisterAdapter(shell.Key, shell.Descriptor()); err != nil {
		return nil, fmt.Errorf("register shell adapter: %w", err)
	}
	if err := reg.RegisterHandler(info.Descriptor()); err != nil {
		return nil, fmt.Errorf("register info handler: %w", err)
	}

	var loadErr error
	reg.Configure(func(cfg *config.Config) {
		loadErr = config.LoadFile(resolveConfigPath(), cfg)
	})
	if loadErr != nil {
		return nil, fmt.Errorf("load config: %w", loadErr)
	}
	return reg, nil
}

func provideLogger(reg *plugin.Registry) *slog.Logger {
	cfg := reg.Config()
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideRobot(reg *plugin.Registry, log *slog.Logger) *robot.Robot {
	return robot.New(reg, log)
}

func providePingHandler(log *slog.Logger, rb *robot.Robot) *handlers.PingHandler {
	return handlers.NewPingHandler(log, rb.Name())
}

func provideAdminHandler(reg *plugin.Registry) *handlers.PluginsHandler {
	return handlers.NewPluginsHandler(reg)
}

type serverParams struct {
	fx.In
	Logger   *slog.Logger
	Registry *plugin.Registry
	Robot    *robot.Robot
	Handlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.New(params.Logger, params.Registry.Config(), params.Robot, params.Handlers)
}

func startAdapters(lc fx.Lifecycle, rb *robot.Robot, log *slog.Logger) {
	adapters := rb.Adapters()
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			for _, a := range adapters {
				go func(a plugin.Adapter) {
					if err := a.Run(ctx); err != nil {
						log.Error("adapter stopped", slog.Any("error", err))
					}
				}(a)
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			for _, a := range adapters {
				if err := a.Stop(stopCtx); err != nil {
					log.Warn("adapter stop failed", slog.Any("error", err))
				}
			}
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, rb *robot.Robot, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting Huddle %s\n", version.GetInfo())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			rb.TriggerHook(ctx, "shut_down_complete", map[string]any{"robot": rb.Name()})
			return nil
		},
	})
}
