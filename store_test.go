package crosswire

import (
	"errors"
	"reflect"
	"testing"
)

func TestStoreConfigureCopiesSettings(t *testing.T) {
	settings := Settings{"A": Raw("Hello")}
	store := NewStore()
	store.Configure(settings)

	settings["A"] = Raw("changed")
	settings["B"] = Raw("World")

	value, err := store.Resolve("A")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if value != "Hello" {
		t.Fatalf("expected stored copy to be isolated, got %v", value)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one entry, got %d", store.Len())
	}
}

func TestStoreResolveAbsentKinds(t *testing.T) {
	store := NewStore()
	store.Configure(Settings{
		"Declared": None(),
		"NilRaw":   Raw(nil),
		"Empty":    Raw(""),
	})

	for _, name := range []string{"Declared", "NilRaw", "Unknown"} {
		value, err := store.Resolve(name)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if value != nil {
			t.Fatalf("%s: expected absent, got %#v", name, value)
		}
	}

	value, err := store.Resolve("Empty")
	if err != nil || value != "" {
		t.Fatalf("expected raw empty string returned unchanged, got %#v (%v)", value, err)
	}
}

func TestStoreResolveImport(t *testing.T) {
	store := NewStore(WithStoreSymbols(testSymbols(t)))
	store.Configure(Settings{
		"Type":   Import("crosswire.FakeClient"),
		"Answer": Import("crosswire.Answer"),
	})

	value, err := store.Resolve("Type")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if value != fakeClientType {
		t.Fatalf("expected the referenced type itself, got %#v", value)
	}

	answer, err := store.Resolve("Answer")
	if err != nil || answer != 42 {
		t.Fatalf("expected 42, got %#v (%v)", answer, err)
	}
}

func TestStoreResolveImportInstance(t *testing.T) {
	store := NewStore(WithStoreSymbols(testSymbols(t)))
	store.Configure(Settings{
		"Client":  Instance("crosswire.NewFakeClient"),
		"Typed":   Instance("crosswire.FakeClient"),
		"Greeter": Instance("crosswire.NewGreeter"),
	})

	first, err := store.Resolve("Client")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	client, ok := first.(*fakeClient)
	if !ok || !client.IAmFake {
		t.Fatalf("expected constructed client, got %#v", first)
	}
	second, _ := store.Resolve("Client")
	if first == second {
		t.Fatalf("store resolution must construct a new instance each time")
	}

	typed, err := store.Resolve("Typed")
	if err != nil {
		t.Fatalf("resolve typed: %v", err)
	}
	if _, ok := typed.(*fakeClient); !ok {
		t.Fatalf("expected *fakeClient from reflect.Type symbol, got %T", typed)
	}

	g, err := store.Resolve("Greeter")
	if err != nil {
		t.Fatalf("resolve greeter: %v", err)
	}
	if g.(greeter).Greet() != "Hello" {
		t.Fatalf("unexpected greeter %#v", g)
	}
}

func TestStoreResolveImportErrors(t *testing.T) {
	failing := errors.New("dial failed")
	symbols := testSymbols(t)
	symbols.MustRegister("crosswire.Failing", func() (*fakeClient, error) { return nil, failing })
	symbols.MustRegister("crosswire.NeedsArgs", func(string) *fakeClient { return nil })

	store := NewStore(WithStoreSymbols(symbols))
	store.Configure(Settings{
		"Missing":   Import("crosswire.Nope"),
		"MissingI":  Instance("crosswire.Nope"),
		"NotCtor":   Instance("crosswire.Answer"),
		"NeedsArgs": Instance("crosswire.NeedsArgs"),
		"Failing":   Instance("crosswire.Failing"),
		"BadPath":   Setting{Kind: KindImport, Value: 12},
	})

	cases := []struct {
		name   string
		target error
	}{
		{"Missing", ErrSymbolNotFound},
		{"MissingI", ErrSymbolNotFound},
		{"NotCtor", ErrNotConstructor},
		{"NeedsArgs", ErrNotConstructor},
		{"Failing", failing},
		{"BadPath", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Resolve(tc.name)
			var importErr *ImportError
			if !errors.As(err, &importErr) {
				t.Fatalf("expected *ImportError, got %T (%v)", err, err)
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Fatalf("expected %v in chain, got %v", tc.target, err)
			}
		})
	}
}

func TestStoreUsesDefaultSymbols(t *testing.T) {
	path := "crosswire.test.DefaultSymbolsValue"
	if _, err := DefaultSymbols.Lookup(path); err != nil {
		if err := RegisterSymbol(path, "from-default"); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	store := NewStore()
	store.Configure(Settings{"V": Import(path)})
	value, err := store.Resolve("V")
	if err != nil || value != "from-default" {
		t.Fatalf("expected default symbol table lookup, got %#v (%v)", value, err)
	}
}

func TestStoreMergeOverwrite(t *testing.T) {
	store := NewStore()
	store.Configure(Settings{"Keep": Raw("x"), "Both": Raw("old")})
	other := NewStore()
	other.Configure(Settings{"Both": Raw("new"), "Added": Raw("y")})

	written := store.MergeOverwrite(other)

	want := Settings{"Keep": Raw("x"), "Both": Raw("new"), "Added": Raw("y")}
	if got := store.Settings(); !reflect.DeepEqual(got, want) {
		t.Fatalf("merge mismatch:\nwant: %#v\n got: %#v", want, got)
	}
	if len(written) != 2 {
		t.Fatalf("expected two names written, got %v", written)
	}
	if store.MergeOverwrite(nil) != nil || store.MergeOverwrite(store) != nil {
		t.Fatalf("expected nil and self merges to be no-ops")
	}
}

func TestStoreMergeFillMissing(t *testing.T) {
	store := NewStore()
	store.Configure(Settings{
		"Set":      Raw("value"),
		"Blank":    Raw(""),
		"False":    Raw(false),
		"Declared": None(),
		"Import":   Import("some.Path"),
	})
	other := NewStore()
	other.Configure(Settings{
		"Set":      Raw("other"),
		"Blank":    Raw("filled"),
		"False":    Raw(true),
		"Declared": Raw("now set"),
		"Import":   Raw("ignored"),
		"New":      Raw(1),
	})

	store.MergeFillMissing(other)

	want := Settings{
		"Set":      Raw("value"),
		"Blank":    Raw("filled"),
		"False":    Raw(true),
		"Declared": Raw("now set"),
		"Import":   Import("some.Path"),
		"New":      Raw(1),
	}
	if got := store.Settings(); !reflect.DeepEqual(got, want) {
		t.Fatalf("fill mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestStoreEntriesSortedAndFlagMissing(t *testing.T) {
	store := NewStore()
	store.Configure(Settings{"b": Raw(2), "a": None(), "c": Import("x.Y")})

	entries := store.Entries()
	want := []Entry{
		{Name: "a", Kind: "none", Missing: true},
		{Name: "b", Kind: "raw", Value: 2},
		{Name: "c", Kind: "import", Value: "x.Y"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries mismatch:\nwant: %#v\n got: %#v", want, entries)
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"raw":             KindRaw,
		" Import ":        KindImport,
		"import_instance": KindImportInstance,
		"instance":        KindImportInstance,
		"":                KindNone,
		"expr":            KindExpr,
	}
	for input, want := range cases {
		got, err := ParseKind(input)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := ParseKind("eval"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestConfigBuilder(t *testing.T) {
	cfg := NewConfig("base").
		Raw("A", "Hello").
		Import("B", "pkg.B").
		Instance("C", "pkg.NewC").
		None("D").
		Expr("E", "A + '!'")

	want := Settings{
		"A": Raw("Hello"),
		"B": Import("pkg.B"),
		"C": Instance("pkg.NewC"),
		"D": None(),
		"E": Expr("A + '!'"),
	}
	got := cfg.Settings()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("settings mismatch:\nwant: %#v\n got: %#v", want, got)
	}
	got["A"] = Raw("mutated")
	if cfg.Settings()["A"] != Raw("Hello") {
		t.Fatalf("Settings must return a copy")
	}
	if cfg.Name() != "base" {
		t.Fatalf("unexpected name %q", cfg.Name())
	}

	var nilCfg *Config
	if len(nilCfg.Settings()) != 0 || nilCfg.Name() != "" {
		t.Fatalf("nil config should behave as empty")
	}
}
