package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"aria-hq/chatbridge/pkg/cache"
	"aria-hq/chatbridge/pkg/config"
	"aria-hq/chatbridge/pkg/providers"
	"aria-hq/chatbridge/pkg/providers/generic"
	"aria-hq/chatbridge/pkg/providers/openai"
	"aria-hq/chatbridge/pkg/providers/openrouter"
)

// Registry holds the constructed provider instances for the process. The
// manager looks providers up by name and never special-cases them in
// control flow.
type Registry struct {
	providers map[string]providers.Provider
	mu        sync.RWMutex
}

// NewRegistry builds a provider instance for each configured provider.
// If any provider fails to construct, the already-built ones are closed and
// the error is returned.
func NewRegistry(cfgs map[string]config.ProviderConfig) (*Registry, error) {
	r := &Registry{
		providers: make(map[string]providers.Provider, len(cfgs)),
	}

	for name, cfg := range cfgs {
		p, err := buildProvider(name, cfg)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to build provider %q: %w", name, err)
		}
		r.providers[name] = p
	}

	slog.Info("provider registry initialized", "providers", r.Names())

	return r, nil
}

// buildProvider constructs one provider adapter from its configuration.
func buildProvider(name string, cfg config.ProviderConfig) (providers.Provider, error) {
	pc := providers.ProviderConfig{
		Name:                name,
		Type:                cfg.Type,
		BaseURL:             cfg.BaseURL,
		APIKey:              cfg.APIKey,
		Model:               cfg.Model,
		Temperature:         cfg.Temperature,
		MaxTokens:           cfg.MaxTokens,
		Timeout:             cfg.Timeout,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	switch cfg.Type {
	case "openrouter":
		return openrouter.NewProvider(pc)
	case "openai":
		return openai.NewProvider(pc)
	case "generic":
		return generic.NewProvider(pc)
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}

// Get returns the provider with the given name.
func (r *Registry) Get(name string) (providers.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes all providers and reports the combined error, if any.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, p := range r.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing provider %q: %w", name, err))
		}
	}
	r.providers = make(map[string]providers.Provider)
	return errors.Join(errs...)
}

// NewStoreFromConfig constructs the cache backend selected by the
// configuration. A disabled cache yields a nil store, which the manager
// treats as "never cache".
func NewStoreFromConfig(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Backend {
	case "memory":
		return cache.NewMemory(cfg.MaxEntries, cfg.TTL/2), nil
	case "sqlite":
		return cache.NewSQLite(cfg.SQLitePath)
	case "redis":
		return cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
