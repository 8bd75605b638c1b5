package crosswire

import (
	"fmt"
	"strings"
)

// Kind selects how a setting's raw value becomes a dependency value.
type Kind string

const (
	// KindRaw returns the stored value unchanged.
	KindRaw Kind = "raw"
	// KindImport resolves a symbol path to the referenced value itself.
	KindImport Kind = "import"
	// KindImportInstance resolves a symbol path to a constructor and calls it.
	KindImportInstance Kind = "import_instance"
	// KindNone always resolves to absent.
	KindNone Kind = "none"
	// KindExpr evaluates an expression against the store's raw settings.
	KindExpr Kind = "expr"
)

func (k Kind) String() string {
	if k == "" {
		return string(KindNone)
	}
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRaw, KindImport, KindImportInstance, KindNone, KindExpr:
		return true
	default:
		return false
	}
}

// ParseKind converts a textual kind. "instance" is accepted as an alias of
// import_instance.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "raw":
		return KindRaw, nil
	case "import":
		return KindImport, nil
	case "import_instance", "instance":
		return KindImportInstance, nil
	case "none", "":
		return KindNone, nil
	case "expr":
		return KindExpr, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}

// Setting is a stored (kind, raw value) pair.
type Setting struct {
	Kind  Kind
	Value any
}

// Raw tags value to be returned as is.
func Raw(value any) Setting {
	return Setting{Kind: KindRaw, Value: value}
}

// Import tags path to be resolved to the referenced symbol.
func Import(path string) Setting {
	return Setting{Kind: KindImport, Value: path}
}

// Instance tags path to be resolved to a constructor that is invoked.
func Instance(path string) Setting {
	return Setting{Kind: KindImportInstance, Value: path}
}

// None declares a name without a value.
func None() Setting {
	return Setting{Kind: KindNone}
}

// Expr tags expression to be evaluated on resolution.
func Expr(expression string) Setting {
	return Setting{Kind: KindExpr, Value: expression}
}

func (s Setting) missing() bool {
	return s.Kind == KindNone || s.Value == nil
}

// Settings maps setting names to entries.
type Settings map[string]Setting

// Settings implements Source.
func (s Settings) Settings() Settings {
	return s.clone()
}

func (s Settings) clone() Settings {
	out := make(Settings, len(s))
	for name, setting := range s {
		out[name] = setting
	}
	return out
}

// Source is anything exposing a name to setting mapping.
type Source interface {
	Settings() Settings
}

// Config is an explicit, named list of settings built through method calls.
type Config struct {
	name     string
	settings Settings
}

// NewConfig starts an empty configuration.
func NewConfig(name string) *Config {
	return &Config{name: name, settings: Settings{}}
}

// Name returns the configuration label.
func (c *Config) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Set stores setting under name, replacing an earlier one.
func (c *Config) Set(name string, setting Setting) *Config {
	if c.settings == nil {
		c.settings = Settings{}
	}
	c.settings[name] = setting
	return c
}

func (c *Config) Raw(name string, value any) *Config {
	return c.Set(name, Raw(value))
}

func (c *Config) Import(name, path string) *Config {
	return c.Set(name, Import(path))
}

func (c *Config) Instance(name, path string) *Config {
	return c.Set(name, Instance(path))
}

func (c *Config) None(name string) *Config {
	return c.Set(name, None())
}

func (c *Config) Expr(name, expression string) *Config {
	return c.Set(name, Expr(expression))
}

// Settings returns a copy of the configured entries.
func (c *Config) Settings() Settings {
	if c == nil {
		return Settings{}
	}
	return c.settings.clone()
}
