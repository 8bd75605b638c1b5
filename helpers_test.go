package crosswire

import (
	"context"
	"reflect"
	"testing"
)

type fakeClient struct {
	IAmFake bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{IAmFake: true}
}

type greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "Hello" }

var fakeClientType = reflect.TypeOf(fakeClient{})

func testSymbols(t *testing.T) *SymbolTable {
	t.Helper()
	symbols := NewSymbolTable()
	symbols.MustRegister("crosswire.FakeClient", fakeClientType)
	symbols.MustRegister("crosswire.NewFakeClient", newFakeClient)
	symbols.MustRegister("crosswire.NewGreeter", func() (greeter, error) { return englishGreeter{}, nil })
	symbols.MustRegister("crosswire.Answer", 42)
	return symbols
}

// newTestRegistry returns a registry with test symbols and a bound context.
func newTestRegistry(t *testing.T, opts ...Option) (*Registry, context.Context) {
	t.Helper()
	opts = append([]Option{WithSymbols(testSymbols(t)), WithName("test")}, opts...)
	reg := NewRegistry(opts...)
	return reg, reg.Bind(context.Background())
}

// useDefaultRegistry swaps the process registry for the duration of a test.
func useDefaultRegistry(t *testing.T, reg *Registry) {
	t.Helper()
	previous := SetDefaultRegistry(reg)
	t.Cleanup(func() {
		SetDefaultRegistry(previous)
	})
}

type sampleService struct {
	Overrides
	Name string
}
