package plugin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/huddleai/huddle/internal/config"
)

// ErrInvalidRegistration is returned when a register call receives neither
// a usable descriptor nor a builder function.
var ErrInvalidRegistration = errors.New("invalid plugin registration")

// Registry is the per-robot store for configuration and plugin
// registrations. Each of its four containers (config, adapters, handlers,
// hooks) is created lazily on first access and discarded only by the
// matching reset call; resetting one never affects the others.
//
// Registration is expected to happen during a single-threaded setup phase
// before the robot starts serving. Internal state is mutex-guarded, but
// accessors hand out live containers, so mutating a returned container
// while serving is the caller's responsibility.
type Registry struct {
	mu    sync.Mutex
	owner string

	config   *config.Config
	adapters map[string]*AdapterDescriptor
	handlers map[*HandlerDescriptor]struct{}
	hooks    map[string]map[HookSubscriber]struct{}
}

// NewRegistry creates an empty Registry owned by the given namespace.
func NewRegistry(owner string) *Registry {
	return &Registry{owner: strings.TrimSpace(owner)}
}

// Owner returns the namespace this registry was created for.
func (r *Registry) Owner() string {
	return r.owner
}

// Config returns the owner's configuration root, building it on first
// call: defaults bound to the owner, one section per registered plugin
// that declares one, finalized before anything else can see it. The same
// instance is returned until ResetConfig.
func (r *Registry) Config() *config.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configLocked()
}

func (r *Registry) configLocked() *config.Config {
	if r.config != nil {
		return r.config
	}
	cfg := config.NewDefault(r.owner)
	for key, desc := range r.adapters {
		if desc.Config != nil {
			// Cannot fail: cfg is not finalized yet.
			_ = cfg.RegisterAdapterSection(key, desc.Config)
		}
	}
	for desc := range r.handlers {
		if desc.Config != nil {
			_ = cfg.RegisterHandlerSection(desc.Name, desc.Config)
		}
	}
	cfg.Finalize()
	r.config = cfg
	return r.config
}

// Configure runs fn against the shared configuration object.
func (r *Registry) Configure(fn func(cfg *config.Config)) {
	if fn == nil {
		return
	}
	fn(r.Config())
}

// RegisterAdapter stores an adapter type under key. spec is either a ready
// *AdapterDescriptor or an AdapterBuilder invoked with the key. Keys keep
// their case; surrounding whitespace is trimmed. A later registration for
// the same key overwrites the earlier one.
func (r *Registry) RegisterAdapter(key string, spec any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: adapter key is required", ErrInvalidRegistration)
	}

	var desc *AdapterDescriptor
	switch v := spec.(type) {
	case *AdapterDescriptor:
		desc = v
	case AdapterBuilder:
		desc = v(key)
	case func(key string) *AdapterDescriptor:
		desc = v(key)
	default:
		return fmt.Errorf("%w: adapter %q needs a descriptor or a builder func, got %T", ErrInvalidRegistration, key, spec)
	}
	if desc == nil || desc.New == nil {
		return fmt.Errorf("%w: adapter %q descriptor has no constructor", ErrInvalidRegistration, key)
	}
	if desc.Key == "" {
		desc.Key = key
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.adaptersLocked()[key] = desc
	return nil
}

// RegisterHandler adds a handler type to the handler set. spec is either a
// ready *HandlerDescriptor or a HandlerBuilder invoked with the registry
// owner's namespace. Registering the same descriptor twice is a no-op.
func (r *Registry) RegisterHandler(spec any) error {
	var desc *HandlerDescriptor
	switch v := spec.(type) {
	case *HandlerDescriptor:
		desc = v
	case HandlerBuilder:
		desc = v(r.owner)
	case func(namespace string) *HandlerDescriptor:
		desc = v(r.owner)
	default:
		return fmt.Errorf("%w: handler needs a descriptor or a builder func, got %T", ErrInvalidRegistration, spec)
	}
	if desc == nil || desc.New == nil {
		return fmt.Errorf("%w: handler descriptor has no constructor", ErrInvalidRegistration)
	}
	if desc.Namespace == "" {
		desc.Namespace = r.owner
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlersLocked()[desc] = struct{}{}
	return nil
}

// RegisterHook adds sub to the subscriber set for the hook name. Names are
// normalized by lower-casing and trimming, so "Deploy " and "deploy"
// address the same set. Adding the same subscriber twice is a no-op.
func (r *Registry) RegisterHook(name string, sub HookSubscriber) error {
	hook := normalizeHookName(name)
	if hook == "" {
		return fmt.Errorf("%w: hook name is required", ErrInvalidRegistration)
	}
	if sub == nil {
		return fmt.Errorf("%w: hook %q subscriber is nil", ErrInvalidRegistration, hook)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribersLocked(hook)[sub] = struct{}{}
	return nil
}

// Adapters returns the adapter container, creating it empty on first
// access. The same map is returned until ResetAdapters.
func (r *Registry) Adapters() map[string]*AdapterDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adaptersLocked()
}

// Handlers returns the handler set, creating it empty on first access.
// The same map is returned until ResetHandlers.
func (r *Registry) Handlers() map[*HandlerDescriptor]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handlersLocked()
}

// Hooks returns the whole hook container, creating it empty on first
// access. The same map is returned until ResetHooks.
func (r *Registry) Hooks() map[string]map[HookSubscriber]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hooksLocked()
}

// HookSubscribers returns the subscriber set for the normalized hook name,
// inserting an empty set if the name has none yet.
func (r *Registry) HookSubscribers(name string) map[HookSubscriber]struct{} {
	hook := normalizeHookName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscribersLocked(hook)
}

// TriggerHook notifies every subscriber registered under the normalized
// hook name. Unknown names are a no-op.
func (r *Registry) TriggerHook(ctx context.Context, name string, payload map[string]any) {
	hook := normalizeHookName(name)

	r.mu.Lock()
	subs := r.hooksLocked()[hook]
	targets := make([]HookSubscriber, 0, len(subs))
	for sub := range subs {
		targets = append(targets, sub)
	}
	r.mu.Unlock()

	event := HookEvent{Name: hook, Payload: payload}
	for _, sub := range targets {
		sub.OnHook(ctx, event)
	}
}

// Reset returns every container to the unset state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = nil
	r.adapters = nil
	r.handlers = nil
	r.hooks = nil
}

// ResetConfig discards the configuration root; the next Config call
// rebuilds it from defaults.
func (r *Registry) ResetConfig() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = nil
}

// ResetAdapters discards the adapter container.
func (r *Registry) ResetAdapters() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = nil
}

// ResetHandlers discards the handler set.
func (r *Registry) ResetHandlers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = nil
}

// ResetHooks discards the hook container.
func (r *Registry) ResetHooks() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = nil
}

func (r *Registry) adaptersLocked() map[string]*AdapterDescriptor {
	if r.adapters == nil {
		r.adapters = map[string]*AdapterDescriptor{}
	}
	return r.adapters
}

func (r *Registry) handlersLocked() map[*HandlerDescriptor]struct{} {
	if r.handlers == nil {
		r.handlers = map[*HandlerDescriptor]struct{}{}
	}
	return r.handlers
}

func (r *Registry) hooksLocked() map[string]map[HookSubscriber]struct{} {
	if r.hooks == nil {
		r.hooks = map[string]map[HookSubscriber]struct{}{}
	}
	return r.hooks
}

func (r *Registry) subscribersLocked(hook string) map[HookSubscriber]struct{} {
	subs, ok := r.hooksLocked()[hook]
	if !ok {
		subs = map[HookSubscriber]struct{}{}
		r.hooks[hook] = subs
	}
	return subs
}

func normalizeHookName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
