package crosswire

import (
	"context"
	"sync/atomic"

	"github.com/goliatone/go-crosswire/layering"
	"github.com/goliatone/go-crosswire/pkg/activity"
)

// Apply replaces the shared store with one built from sources. Later sources
// win over earlier ones.
func (r *Registry) Apply(ctx context.Context, sources ...Source) error {
	candidate := r.candidate(sources)
	r.ReplaceStore(candidate)
	names := sortedKeys(candidate.Settings())
	return r.report(ctx, activity.BuildConfigurationAppliedEvent, "apply", names, sources)
}

// Append merges sources into the shared store, overwriting names present in
// both.
func (r *Registry) Append(ctx context.Context, sources ...Source) error {
	written, err := r.MergeIntoStore(r.candidate(sources), PolicyOverwrite)
	if err != nil {
		return err
	}
	return r.report(ctx, activity.BuildConfigurationAppendedEvent, "append", written, sources)
}

// Default merges sources into the shared store, only filling names that are
// absent or unset.
func (r *Registry) Default(ctx context.Context, sources ...Source) error {
	written, err := r.MergeIntoStore(r.candidate(sources), PolicyFillMissing)
	if err != nil {
		return err
	}
	return r.report(ctx, activity.BuildConfigurationDefaultedEvent, "default", written, sources)
}

// Clear drops the cache bound to ctx and every stored setting.
func (r *Registry) Clear(ctx context.Context) error {
	r.ClearAll(ctx)
	return r.report(ctx, activity.BuildConfigurationClearedEvent, "clear", nil, nil)
}

func (r *Registry) candidate(sources []Source) *Store {
	layers := make([]map[string]Setting, 0, len(sources))
	for _, source := range sources {
		if source == nil {
			continue
		}
		layers = append(layers, source.Settings())
	}
	store := r.NewStore()
	store.Configure(layering.Flatten(layers...))
	return store
}

type eventBuilder func(activity.ConfigurationEventInput) activity.Event

func (r *Registry) report(ctx context.Context, build eventBuilder, operation string, names []string, sources []Source) error {
	r.logConfiguration(operation, names)
	if !r.emitter.Enabled() {
		return nil
	}
	actor, _ := activity.ActorFrom(ctx)
	event := build(activity.ConfigurationEventInput{
		Actor:     actor,
		Registry:  r.name,
		Names:     names,
		Sources:   sourceNames(sources),
		StoreSize: r.Store().Len(),
	})
	return r.emitter.Emit(ctx, event)
}

type namedSource interface {
	Name() string
}

func sourceNames(sources []Source) []string {
	var names []string
	for _, source := range sources {
		if named, ok := source.(namedSource); ok && named.Name() != "" {
			names = append(names, named.Name())
		}
	}
	return names
}

var defaultRegistry atomic.Pointer[Registry]

func init() {
	defaultRegistry.Store(NewRegistry(WithName("default")))
}

// DefaultRegistry returns the process-wide registry used by the package
// level functions.
func DefaultRegistry() *Registry {
	return defaultRegistry.Load()
}

// SetDefaultRegistry installs r as the process-wide registry and returns the
// previous one. A nil r installs a fresh registry.
func SetDefaultRegistry(r *Registry) *Registry {
	if r == nil {
		r = NewRegistry(WithName("default"))
	}
	return defaultRegistry.Swap(r)
}

// Bind attaches a fresh cache for the default registry to ctx.
func Bind(ctx context.Context) context.Context {
	return DefaultRegistry().Bind(ctx)
}

// ApplyConfiguration calls Apply on the default registry.
func ApplyConfiguration(ctx context.Context, sources ...Source) error {
	return DefaultRegistry().Apply(ctx, sources...)
}

// AppendConfiguration calls Append on the default registry.
func AppendConfiguration(ctx context.Context, sources ...Source) error {
	return DefaultRegistry().Append(ctx, sources...)
}

// DefaultConfiguration calls Default on the default registry.
func DefaultConfiguration(ctx context.Context, sources ...Source) error {
	return DefaultRegistry().Default(ctx, sources...)
}

// ClearConfiguration calls Clear on the default registry.
func ClearConfiguration(ctx context.Context) error {
	return DefaultRegistry().Clear(ctx)
}

// GetDependency resolves name from the default registry without an owning
// instance. Pass a context from Bind to reuse resolved values across calls.
func GetDependency(ctx context.Context, name string) (any, error) {
	return DefaultRegistry().Dependency(ctx, name)
}

// Dependency resolves name like Get but fails with *DependencyNotFoundError
// when nothing is found.
func (r *Registry) Dependency(ctx context.Context, name string) (any, error) {
	value, ok, err := r.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &DependencyNotFoundError{Name: name}
	}
	return value, nil
}
