package crosswire

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/goliatone/go-crosswire/internal/hydrate"
)

// Overrides holds the per-instance dependency values of one owner. Embed it
// in a struct to make that struct Overridable; the zero value is ready to
// use. Values are keyed by dependency name and live apart from the owner's
// own fields, so a dependency may share its name with a field.
type Overrides struct {
	mu     sync.RWMutex
	values map[string]any
}

// DependencyOverrides implements Overridable.
func (o *Overrides) DependencyOverrides() *Overrides {
	return o
}

func (o *Overrides) get(name string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	value, ok := o.values[name]
	return value, ok
}

func (o *Overrides) set(name string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.values == nil {
		o.values = make(map[string]any)
	}
	o.values[name] = value
}

func (o *Overrides) unset(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.values, name)
}

// Overridable owners can carry local dependency overrides.
type Overridable interface {
	DependencyOverrides() *Overrides
}

// Dependency is a named, lazily resolved handle. One Dependency serves any
// number of owners: per-owner state lives in the owner's Overrides.
//
// Resolution order is owner override, registry (bound cache then shared
// store), static default, then *DependencyNotFoundError.
type Dependency[T any] struct {
	name       string
	fallback   T
	hasDefault bool
	registry   *Registry
	decoder    *hydrate.Decoder[T]
}

// DependencyOption configures a Dependency.
type DependencyOption[T any] func(*Dependency[T])

// WithDefault sets the value used when neither an override nor the registry
// provides one. A nil default counts as no default.
func WithDefault[T any](value T) DependencyOption[T] {
	return func(d *Dependency[T]) {
		d.fallback = value
		d.hasDefault = !isNil(value)
	}
}

// WithRegistry resolves through registry instead of DefaultRegistry().
func WithRegistry[T any](registry *Registry) DependencyOption[T] {
	return func(d *Dependency[T]) {
		d.registry = registry
	}
}

// WithDecoderOptions configures how map values are hydrated into T.
func WithDecoderOptions[T any](opts ...hydrate.DecoderOption[T]) DependencyOption[T] {
	return func(d *Dependency[T]) {
		d.decoder = hydrate.NewDecoder(opts...)
	}
}

// NewDependency declares a dependency named name.
func NewDependency[T any](name string, opts ...DependencyOption[T]) *Dependency[T] {
	d := &Dependency[T]{name: name}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.decoder == nil {
		d.decoder = hydrate.NewDecoder[T]()
	}
	return d
}

// Name returns the dependency name.
func (d *Dependency[T]) Name() string {
	return d.name
}

// Get resolves the dependency for owner. owner may be nil when there is no
// owning instance. Registry values are memoized only when ctx comes from
// Bind; see Registry.Get.
func (d *Dependency[T]) Get(ctx context.Context, owner Overridable) (T, error) {
	var zero T

	if overrides := overridesOf(owner); overrides != nil {
		if value, ok := overrides.get(d.name); ok && !isNil(value) {
			return d.convert(value)
		}
	}

	value, ok, err := d.registryOrDefault().Get(ctx, d.name)
	if err != nil {
		return zero, err
	}
	if ok {
		return d.convert(value)
	}

	if d.hasDefault {
		return d.fallback, nil
	}
	return zero, &DependencyNotFoundError{Name: d.name}
}

// MustGet is Get that panics on error.
func (d *Dependency[T]) MustGet(ctx context.Context, owner Overridable) T {
	value, err := d.Get(ctx, owner)
	if err != nil {
		panic(err)
	}
	return value
}

// Set stores value as owner's local override. The registry and other owners
// are unaffected.
func (d *Dependency[T]) Set(owner Overridable, value T) {
	if overrides := overridesOf(owner); overrides != nil {
		overrides.set(d.name, value)
	}
}

// Unset removes owner's local override.
func (d *Dependency[T]) Unset(owner Overridable) {
	if overrides := overridesOf(owner); overrides != nil {
		overrides.unset(d.name)
	}
}

func (d *Dependency[T]) registryOrDefault() *Registry {
	if d.registry != nil {
		return d.registry
	}
	return DefaultRegistry()
}

func (d *Dependency[T]) convert(value any) (T, error) {
	if typed, ok := value.(T); ok {
		return typed, nil
	}

	var zero T
	target := reflect.TypeOf((*T)(nil)).Elem()
	if payload, ok := value.(map[string]any); ok {
		decoded, err := d.decoder.Decode(hydrate.Context{Name: d.name}, payload)
		if err != nil {
			return zero, &TypeError{Name: d.name, Want: target.String(), Got: fmt.Sprintf("%T", value), Err: err}
		}
		return decoded, nil
	}

	rv := reflect.ValueOf(value)
	if numeric(rv.Kind()) && numeric(target.Kind()) {
		converted, err := convertNumber(rv, target)
		if err != nil {
			return zero, &TypeError{Name: d.name, Want: target.String(), Got: fmt.Sprintf("%T", value), Err: err}
		}
		return converted.Interface().(T), nil
	}
	return zero, &TypeError{Name: d.name, Want: target.String(), Got: fmt.Sprintf("%T", value)}
}

// convertNumber converts between numeric kinds only when the value survives
// the round trip unchanged and keeps its sign.
func convertNumber(rv reflect.Value, target reflect.Type) (reflect.Value, error) {
	converted := rv.Convert(target)
	if negative(rv) != negative(converted) || converted.Convert(rv.Type()).Interface() != rv.Interface() {
		return reflect.Value{}, fmt.Errorf("%v does not fit %s exactly", rv.Interface(), target)
	}
	return converted, nil
}

func negative(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() < 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() < 0
	default:
		return false
	}
}

func overridesOf(owner Overridable) *Overrides {
	if isNil(owner) {
		return nil
	}
	return owner.DependencyOverrides()
}

func numeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
