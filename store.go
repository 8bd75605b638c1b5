package crosswire

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-crosswire/layering"
)

// Store holds named settings and resolves them on demand. A Store is shared
// by every goroutine using the Registry that owns it.
type Store struct {
	mu       sync.RWMutex
	settings Settings

	symbols   SymbolResolver
	evaluator Evaluator
	logger    EvaluatorLogger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreSymbols sets the resolver used by import and import_instance
// settings. DefaultSymbols is used otherwise.
func WithStoreSymbols(symbols SymbolResolver) StoreOption {
	return func(s *Store) {
		s.symbols = symbols
	}
}

// WithStoreEvaluator sets the evaluator used by expr settings.
func WithStoreEvaluator(evaluator Evaluator) StoreOption {
	return func(s *Store) {
		s.evaluator = evaluator
	}
}

// WithStoreEvaluatorLogger reports every expr evaluation to logger.
func WithStoreEvaluatorLogger(logger EvaluatorLogger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore constructs an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{settings: Settings{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Configure replaces every entry with a copy of settings.
func (s *Store) Configure(settings Settings) {
	copied := settings.clone()
	s.mu.Lock()
	s.settings = copied
	s.mu.Unlock()
}

// Setting returns the raw entry stored under name.
func (s *Store) Setting(name string) (Setting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	setting, ok := s.settings[name]
	return setting, ok
}

// Settings returns a copy of the stored entries, so a Store is itself a
// Source.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.clone()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.settings)
}

// Resolve produces the dependency value for name. Unknown names, none kind
// settings and nil values resolve to nil without error.
func (s *Store) Resolve(name string) (any, error) {
	setting, ok := s.Setting(name)
	if !ok || setting.missing() {
		return nil, nil
	}

	switch setting.Kind {
	case KindRaw:
		return setting.Value, nil
	case KindImport:
		path, err := settingPath(setting)
		if err != nil {
			return nil, err
		}
		value, err := s.symbolResolver().Lookup(path)
		if err != nil {
			return nil, wrapImportError(setting.Kind, path, err)
		}
		return value, nil
	case KindImportInstance:
		path, err := settingPath(setting)
		if err != nil {
			return nil, err
		}
		symbol, err := s.symbolResolver().Lookup(path)
		if err != nil {
			return nil, wrapImportError(setting.Kind, path, err)
		}
		instance, err := instantiate(symbol)
		if err != nil {
			return nil, wrapImportError(setting.Kind, path, err)
		}
		return instance, nil
	case KindExpr:
		return s.evaluate(name, setting)
	default:
		return nil, fmt.Errorf("%w: %q for setting %q", ErrUnknownKind, setting.Kind, name)
	}
}

// MergeOverwrite inserts or replaces every entry of other into s.
func (s *Store) MergeOverwrite(other *Store) []string {
	if other == nil || other == s {
		return nil
	}
	incoming := other.Settings()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		s.settings = Settings{}
	}
	return layering.Overwrite(s.settings, incoming)
}

// MergeFillMissing inserts entries of other only where s has no entry or the
// existing entry is unset (none kind, nil or an empty raw value).
func (s *Store) MergeFillMissing(other *Store) []string {
	if other == nil || other == s {
		return nil
	}
	incoming := other.Settings()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		s.settings = Settings{}
	}
	return layering.FillMissing(s.settings, incoming, unsetSetting)
}

func unsetSetting(setting Setting) bool {
	return setting.missing() || layering.Empty(setting.Value)
}

// Entries lists the stored settings sorted by name.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	entries := make([]Entry, 0, len(s.settings))
	for name, setting := range s.settings {
		entries = append(entries, Entry{
			Name:    name,
			Kind:    setting.Kind.String(),
			Value:   setting.Value,
			Missing: setting.Value == nil,
		})
	}
	s.mu.RUnlock()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

func (s *Store) symbolResolver() SymbolResolver {
	if s.symbols != nil {
		return s.symbols
	}
	return DefaultSymbols
}

func (s *Store) evaluate(name string, setting Setting) (any, error) {
	expression, ok := setting.Value.(string)
	if !ok {
		return nil, fmt.Errorf("crosswire: expr setting %q must hold a string, got %T", name, setting.Value)
	}
	evaluator := s.evaluator
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}

	ctx := RuleContext{Name: name, Settings: s.rawValues()}.withDefaults()
	start := time.Now()
	value, err := evaluator.Evaluate(ctx, expression)
	err = wrapEvaluationError(evaluatorEngineName(evaluator), expression, name, err)
	if s.logger != nil {
		s.logger.LogEvaluation(EvaluatorLogEvent{
			Engine:   evaluatorEngineName(evaluator),
			Expr:     expression,
			Setting:  name,
			Duration: time.Since(start),
			Err:      err,
		})
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// rawValues exposes raw kind settings to expressions. Other kinds are left
// out so evaluating one setting never triggers imports or other expressions.
func (s *Store) rawValues() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make(map[string]any, len(s.settings))
	for name, setting := range s.settings {
		if setting.Kind == KindRaw && setting.Value != nil {
			values[name] = setting.Value
		}
	}
	return values
}

func settingPath(setting Setting) (string, error) {
	path, ok := setting.Value.(string)
	if !ok {
		return "", &ImportError{
			Kind: setting.Kind,
			Path: fmt.Sprint(setting.Value),
			Err:  fmt.Errorf("path must be a string, got %T", setting.Value),
		}
	}
	return path, nil
}
