package crosswire

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// SymbolResolver turns a dotted path into the value it names.
type SymbolResolver interface {
	Lookup(path string) (any, error)
}

// SymbolResolverFunc adapts a function to SymbolResolver.
type SymbolResolverFunc func(path string) (any, error)

// Lookup implements SymbolResolver.
func (f SymbolResolverFunc) Lookup(path string) (any, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrSymbolNotFound, path)
	}
	return f(path)
}

// SymbolTable is an in-process SymbolResolver populated with Register.
// Typical entries are constructors ("app/store.NewClient"), types
// (reflect.TypeOf(Client{})) or plain values.
type SymbolTable struct {
	mu      sync.RWMutex
	symbols map[string]any
}

// DefaultSymbols backs stores and registries created without WithSymbols.
var DefaultSymbols = NewSymbolTable()

// RegisterSymbol stores value under path in DefaultSymbols.
func RegisterSymbol(path string, value any) error {
	return DefaultSymbols.Register(path, value)
}

// NewSymbolTable constructs an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]any)}
}

// Register stores value under path guarding against duplicates.
func (t *SymbolTable) Register(path string, value any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("crosswire: symbol path must not be empty")
	}
	if value == nil {
		return fmt.Errorf("crosswire: symbol %q is nil", path)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.symbols == nil {
		t.symbols = make(map[string]any)
	}
	if _, exists := t.symbols[path]; exists {
		return fmt.Errorf("crosswire: symbol %q already registered", path)
	}
	t.symbols[path] = value
	return nil
}

// MustRegister is Register for package init blocks.
func (t *SymbolTable) MustRegister(path string, value any) {
	if err := t.Register(path, value); err != nil {
		panic(err)
	}
}

// Lookup implements SymbolResolver.
func (t *SymbolTable) Lookup(path string) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %q", ErrSymbolNotFound, path)
	}
	t.mu.RLock()
	value, ok := t.symbols[path]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSymbolNotFound, path)
	}
	return value, nil
}

// Names returns registered paths sorted alphabetically.
func (t *SymbolTable) Names() []string {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// instantiate calls symbol with no arguments. Functions may return (T) or
// (T, error); a reflect.Type yields a pointer to a new zero value.
func instantiate(symbol any) (any, error) {
	if typ, ok := symbol.(reflect.Type); ok {
		return reflect.New(typ).Interface(), nil
	}

	fn := reflect.ValueOf(symbol)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("%w: %T", ErrNotConstructor, symbol)
	}
	typ := fn.Type()
	if typ.NumIn() != 0 && !(typ.NumIn() == 1 && typ.IsVariadic()) {
		return nil, fmt.Errorf("%w: %s takes arguments", ErrNotConstructor, typ)
	}
	switch typ.NumOut() {
	case 1:
	case 2:
		if !typ.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("%w: second return value of %s must implement error", ErrNotConstructor, typ)
		}
	default:
		return nil, fmt.Errorf("%w: %s must return (T) or (T, error)", ErrNotConstructor, typ)
	}

	out := fn.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}
