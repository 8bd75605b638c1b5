package crosswire

import (
	"errors"
	"reflect"
	"testing"
)

func TestSymbolTableRegisterGuards(t *testing.T) {
	table := NewSymbolTable()
	if err := table.Register("", 1); err == nil {
		t.Fatalf("expected empty path error")
	}
	if err := table.Register("pkg.Nil", nil); err == nil {
		t.Fatalf("expected nil value error")
	}
	if err := table.Register("pkg.Value", 1); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := table.Register("pkg.Value", 2); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if got := table.Names(); !reflect.DeepEqual(got, []string{"pkg.Value"}) {
		t.Fatalf("unexpected names %v", got)
	}
}

func TestSymbolTableLookupMissing(t *testing.T) {
	_, err := NewSymbolTable().Lookup("pkg.Missing")
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
	var nilTable *SymbolTable
	if _, err := nilTable.Lookup("x"); !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected nil table lookup to fail cleanly, got %v", err)
	}
}

func TestSymbolResolverFunc(t *testing.T) {
	resolver := SymbolResolverFunc(func(path string) (any, error) {
		return "resolved:" + path, nil
	})
	store := NewStore(WithStoreSymbols(resolver))
	store.Configure(Settings{"A": Import("x.Y")})
	value, err := store.Resolve("A")
	if err != nil || value != "resolved:x.Y" {
		t.Fatalf("unexpected %#v (%v)", value, err)
	}
}

func TestInstantiate(t *testing.T) {
	variadic := func(...string) string { return "variadic" }
	tooMany := func() (int, int) { return 1, 2 }

	if got, err := instantiate(newFakeClient); err != nil || !got.(*fakeClient).IAmFake {
		t.Fatalf("constructor: %#v %v", got, err)
	}
	if got, err := instantiate(variadic); err != nil || got != "variadic" {
		t.Fatalf("variadic: %#v %v", got, err)
	}
	if got, err := instantiate(fakeClientType); err != nil {
		t.Fatalf("type: %v", err)
	} else if _, ok := got.(*fakeClient); !ok {
		t.Fatalf("expected *fakeClient, got %T", got)
	}
	if _, err := instantiate(tooMany); !errors.Is(err, ErrNotConstructor) {
		t.Fatalf("expected ErrNotConstructor, got %v", err)
	}
	var nilFunc func() int
	if _, err := instantiate(nilFunc); !errors.Is(err, ErrNotConstructor) {
		t.Fatalf("expected ErrNotConstructor for nil func, got %v", err)
	}
}
