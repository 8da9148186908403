package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath = "huddle.toml"
	DefaultHTTPAddr   = ":8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// ErrFinalized is returned when a structural change is attempted after
// Finalize.
var ErrFinalized = errors.New("config is finalized")

// Config is the robot's configuration root. Built-in sections decode from
// TOML; adapter and handler sections are attached structurally by plugins
// before Finalize locks the schema. Value mutation stays allowed after
// finalization.
type Config struct {
	Robot RobotConfig `toml:"robot"`
	Log   LogConfig   `toml:"log"`
	HTTP  HTTPConfig  `toml:"http"`

	adapters  map[string]any
	handlers  map[string]any
	finalized bool
}

// RobotConfig identifies the robot.
type RobotConfig struct {
	Name string `toml:"name" validate:"required"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

// HTTPConfig controls the HTTP host for handler routes. An empty
// JWTSecret leaves the administrative endpoints unauthenticated.
type HTTPConfig struct {
	Addr      string `toml:"addr"`
	JWTSecret string `toml:"jwt_secret"`
}

// NewDefault returns the default configuration bound to the owner.
func NewDefault(owner string) *Config {
	return &Config{
		Robot: RobotConfig{Name: owner},
		Log:   LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		HTTP:  HTTPConfig{Addr: DefaultHTTPAddr},

		adapters: map[string]any{},
		handlers: map[string]any{},
	}
}

// Finalize locks the configuration against further structural changes.
func (c *Config) Finalize() {
	c.finalized = true
}

// Finalized reports whether the schema is locked.
func (c *Config) Finalized() bool {
	return c.finalized
}

// RegisterAdapterSection attaches a settings object for an adapter key.
func (c *Config) RegisterAdapterSection(key string, section any) error {
	if c.finalized {
		return fmt.Errorf("register adapter section %q: %w", key, ErrFinalized)
	}
	c.adapters[key] = section
	return nil
}

// RegisterHandlerSection attaches a settings object for a handler name.
func (c *Config) RegisterHandlerSection(name string, section any) error {
	if c.finalized {
		return fmt.Errorf("register handler section %q: %w", name, ErrFinalized)
	}
	c.handlers[name] = section
	return nil
}

// AdapterSection returns the settings object registered for an adapter key.
func (c *Config) AdapterSection(key string) (any, bool) {
	section, ok := c.adapters[key]
	return section, ok
}

// HandlerSection returns the settings object registered for a handler name.
func (c *Config) HandlerSection(name string) (any, bool) {
	section, ok := c.handlers[name]
	return section, ok
}

// LoadFile decodes the TOML file at path over cfg and validates the
// result. Decoding only sets values, so it is allowed on a finalized
// config. A missing file is a no-op.
func LoadFile(path string, cfg *Config) error {
	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Validate()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the built-in sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
