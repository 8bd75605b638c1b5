package crosswire

import (
	"errors"
	"fmt"
)

var (
	// ErrDependencyNotFound matches every *DependencyNotFoundError via errors.Is.
	ErrDependencyNotFound = errors.New("crosswire: dependency not found")

	// ErrSymbolNotFound is returned by a SymbolResolver when a path is unknown.
	ErrSymbolNotFound = errors.New("crosswire: symbol not found")

	// ErrNotConstructor indicates an import_instance path that does not name
	// something that can be invoked without arguments.
	ErrNotConstructor = errors.New("crosswire: symbol is not a constructor")

	// ErrNotCached is returned by Registry.Delete when the bound cache has no
	// entry for the name.
	ErrNotCached = errors.New("crosswire: dependency not cached")

	// ErrUnbound is returned by cache mutations on a context without a Cache.
	ErrUnbound = errors.New("crosswire: context has no dependency cache")

	// ErrUnknownKind is returned by ParseKind.
	ErrUnknownKind = errors.New("crosswire: unknown setting kind")
)

// DependencyNotFoundError reports that no local override, registry value or
// default exists for Name.
type DependencyNotFoundError struct {
	Name string
}

func (e *DependencyNotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("crosswire: dependency named %q not found", e.Name)
}

// Is lets errors.Is(err, ErrDependencyNotFound) match.
func (e *DependencyNotFoundError) Is(target error) bool {
	return target == ErrDependencyNotFound
}

// ImportError wraps a failure to resolve an import or import_instance setting.
type ImportError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *ImportError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("crosswire: unable to locate %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *ImportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TypeError reports a resolved value that cannot be used as the accessor type.
type TypeError struct {
	Name string
	Want string
	Got  string
	Err  error
}

func (e *TypeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("crosswire: dependency %q: cannot convert %s to %s: %v", e.Name, e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("crosswire: dependency %q: cannot convert %s to %s", e.Name, e.Got, e.Want)
}

func (e *TypeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapImportError(kind Kind, path string, err error) error {
	if err == nil {
		return nil
	}
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return err
	}
	return &ImportError{Path: path, Kind: kind, Err: err}
}
