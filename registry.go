package crosswire

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-crosswire/layering"
	"github.com/goliatone/go-crosswire/pkg/activity"
)

// Policy selects how MergeIntoStore combines a store into the shared one.
type Policy int

const (
	// PolicyOverwrite inserts or replaces every incoming entry.
	PolicyOverwrite Policy = iota
	// PolicyFillMissing only fills names that are absent or unset.
	PolicyFillMissing
)

func (p Policy) String() string {
	switch p {
	case PolicyOverwrite:
		return "overwrite"
	case PolicyFillMissing:
		return "fill-missing"
	default:
		return "unknown"
	}
}

// Registry combines one Store shared by every goroutine with per-context
// caches of resolved values. Call Bind once per goroutine or request to get
// memoized resolution.
//
// Store replacement is not synchronised with reads: a goroutine that already
// cached a name keeps seeing that value until the entry is deleted or its
// cache is cleared.
type Registry struct {
	name  string
	store atomic.Pointer[Store]

	storeOpts []StoreOption
	logger    RegistryLogger
	emitter   *activity.Emitter
}

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	name            string
	symbols         SymbolResolver
	evaluator       Evaluator
	evaluatorLogger EvaluatorLogger
	logger          RegistryLogger
	hooks           activity.Hooks
	activity        activity.Config
}

// WithName labels the registry in logs and activity events.
func WithName(name string) Option {
	return func(cfg *registryConfig) {
		cfg.name = name
	}
}

// WithSymbols sets the resolver used by every store the registry builds.
func WithSymbols(symbols SymbolResolver) Option {
	return func(cfg *registryConfig) {
		cfg.symbols = symbols
	}
}

// WithEvaluator sets the evaluator used for expr settings.
func WithEvaluator(evaluator Evaluator) Option {
	return func(cfg *registryConfig) {
		cfg.evaluator = evaluator
	}
}

// WithEvaluatorLogger attaches an evaluator logger to the registry's stores.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *registryConfig) {
		cfg.evaluatorLogger = logger
	}
}

// WithLogger attaches a configuration change logger.
func WithLogger(logger RegistryLogger) Option {
	return func(cfg *registryConfig) {
		if logger == nil {
			cfg.logger = noopRegistryLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithActivityHooks emits configuration activity events to hooks.
func WithActivityHooks(hooks activity.Hooks, channel string) Option {
	return func(cfg *registryConfig) {
		cfg.hooks = hooks
		cfg.activity = activity.Config{Enabled: len(hooks) > 0, Channel: channel}
	}
}

// NewRegistry constructs a Registry with an empty store.
func NewRegistry(opts ...Option) *Registry {
	cfg := registryConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.name == "" {
		cfg.name = "crosswire-" + uuid.NewString()
	}
	if cfg.logger == nil {
		cfg.logger = noopRegistryLogger{}
	}

	r := &Registry{
		name:    cfg.name,
		logger:  cfg.logger,
		emitter: activity.NewEmitter(cfg.hooks, cfg.activity),
	}
	if cfg.symbols != nil {
		r.storeOpts = append(r.storeOpts, WithStoreSymbols(cfg.symbols))
	}
	if cfg.evaluator != nil {
		r.storeOpts = append(r.storeOpts, WithStoreEvaluator(cfg.evaluator))
	}
	if cfg.evaluatorLogger != nil {
		r.storeOpts = append(r.storeOpts, WithStoreEvaluatorLogger(cfg.evaluatorLogger))
	}
	r.store.Store(r.NewStore())
	return r
}

// Name returns the registry label.
func (r *Registry) Name() string {
	return r.name
}

// NewStore builds an empty Store configured like the registry's own.
func (r *Registry) NewStore() *Store {
	return NewStore(r.storeOpts...)
}

// Store returns the shared store.
func (r *Registry) Store() *Store {
	if s := r.store.Load(); s != nil {
		return s
	}
	return r.NewStore()
}

// Bind returns a child of ctx carrying a fresh Cache for this registry.
func (r *Registry) Bind(ctx context.Context) context.Context {
	return withCache(ctx, r, NewCache())
}

// Cache returns the Cache bound to ctx, if any.
func (r *Registry) Cache(ctx context.Context) (*Cache, bool) {
	return cacheFrom(ctx, r)
}

// Get resolves name from the bound cache, then from the shared store. A
// non-empty store value is memoized in the bound cache. The boolean reports
// whether a value other than nil was found.
//
// Values are only resolved once per context returned by Bind. On any other
// context every call resolves the store again, so import_instance settings
// construct a new instance each time.
func (r *Registry) Get(ctx context.Context, name string) (any, bool, error) {
	cache, bound := r.Cache(ctx)
	if bound {
		if value, ok := cache.Get(name); ok && !layering.Empty(value) {
			return value, true, nil
		}
	}

	value, err := r.Store().Resolve(name)
	if err != nil {
		return nil, false, err
	}
	if bound && !layering.Empty(value) {
		cache.Set(name, value)
	}
	return value, value != nil, nil
}

// Set writes value into the bound cache, bypassing the store.
func (r *Registry) Set(ctx context.Context, name string, value any) error {
	cache, bound := r.Cache(ctx)
	if !bound {
		return fmt.Errorf("%w: set %q", ErrUnbound, name)
	}
	cache.Set(name, value)
	return nil
}

// Delete removes name from the bound cache only.
func (r *Registry) Delete(ctx context.Context, name string) error {
	cache, bound := r.Cache(ctx)
	if !bound {
		return fmt.Errorf("%w: delete %q", ErrUnbound, name)
	}
	if !cache.Delete(name) {
		return fmt.Errorf("%w: %q", ErrNotCached, name)
	}
	return nil
}

// ReplaceStore swaps the shared store. Bound caches are left untouched.
func (r *Registry) ReplaceStore(store *Store) {
	if store == nil {
		store = r.NewStore()
	}
	r.store.Store(store)
}

// MergeIntoStore merges store into the shared one under policy, installing
// it wholesale when no shared store exists. It returns the names written.
func (r *Registry) MergeIntoStore(store *Store, policy Policy) ([]string, error) {
	if store == nil {
		return nil, nil
	}
	current := r.store.Load()
	if current == nil {
		if r.store.CompareAndSwap(nil, store) {
			return sortedKeys(store.Settings()), nil
		}
		current = r.store.Load()
	}

	var written []string
	switch policy {
	case PolicyOverwrite:
		written = current.MergeOverwrite(store)
	case PolicyFillMissing:
		written = current.MergeFillMissing(store)
	default:
		return nil, fmt.Errorf("crosswire: unknown merge policy %d", int(policy))
	}
	sort.Strings(written)
	return written, nil
}

// ClearAll empties the cache bound to ctx and installs a fresh shared store.
// It must not run concurrently with store changes from other goroutines.
func (r *Registry) ClearAll(ctx context.Context) {
	if cache, bound := r.Cache(ctx); bound {
		cache.Clear()
	}
	r.store.Store(r.NewStore())
}

func (r *Registry) logConfiguration(operation string, names []string) {
	r.logger.LogConfiguration(ConfigurationEvent{
		Registry:   r.name,
		Operation:  operation,
		Names:      names,
		StoreSize:  r.Store().Len(),
		OccurredAt: time.Now(),
	})
}
