package crosswire

import (
	"fmt"
	"sync"
)

// Function is a helper callable from expr settings.
type Function func(args ...any) (any, error)

// FunctionRegistry collects helpers for expr settings. Evaluators take a copy
// when they are constructed, so later registrations only reach evaluators
// built afterwards.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions functionSet
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: functionSet{}}
}

// Register adds fn under name. Names are case-sensitive, like setting names,
// and may not shadow now, args, settings or call.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	switch {
	case fn == nil:
		return fmt.Errorf("crosswire: function %q is nil", name)
	case name == "":
		return fmt.Errorf("crosswire: function name must not be empty")
	case reservedName(name):
		return fmt.Errorf("crosswire: function name %q is reserved", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = functionSet{}
	}
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("crosswire: function %q already registered", name)
	}
	r.functions[name] = fn
	return nil
}

// Names returns the registered names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.functions)
}

func (r *FunctionRegistry) snapshot() functionSet {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(functionSet, len(r.functions))
	for name, fn := range r.functions {
		out[name] = fn
	}
	return out
}

// functionSet is the immutable copy an evaluator works with.
type functionSet map[string]Function

func (f functionSet) call(name string, args ...any) (any, error) {
	fn, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("crosswire: function %q not registered", name)
	}
	return fn(args...)
}

// dispatch backs the call(name, args...) helper.
func (f functionSet) dispatch(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("crosswire: call requires a function name")
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("crosswire: call name must be a string, got %T", args[0])
	}
	return f.call(name, args[1:]...)
}
