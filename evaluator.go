package crosswire

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoEvaluator is returned when the configured engine is not compiled in.
var ErrNoEvaluator = errors.New("crosswire: evaluator not configured")

// RuleContext carries the inputs of one expr setting evaluation.
type RuleContext struct {
	// Name is the setting being resolved.
	Name string
	// Settings holds the raw kind values of the same store.
	Settings map[string]any
	Now      *time.Time
	Args     map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Settings == nil {
		ctx.Settings = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaults()
	return *ctx.Now
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
}

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*crosswire.exprEvaluator":
		return "expr"
	case "*crosswire.celEvaluator":
		return "cel"
	case "*crosswire.jsEvaluator", "crosswire.unavailableJSEvaluator":
		return "js"
	default:
		return "custom"
	}
}

// reservedName reports names the evaluation environment defines itself.
func reservedName(name string) bool {
	switch name {
	case "now", "args", "settings", "call":
		return true
	default:
		return false
	}
}

// MemoryProgramCache is a ProgramCache backed by a guarded map.
type MemoryProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMemoryProgramCache constructs an empty cache.
func NewMemoryProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{programs: make(map[string]any)}
}

// Get implements ProgramCache.
func (c *MemoryProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	program, ok := c.programs[key]
	return program, ok
}

// Set implements ProgramCache.
func (c *MemoryProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = make(map[string]any)
	}
	c.programs[key] = value
}

// Len returns the number of cached programs.
func (c *MemoryProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}
