// Package crosswire resolves named dependencies lazily from a per-instance
// override, a layered settings store, or a static default.
//
// # Quick Start
//
//	crosswire.RegisterSymbol("app/mail.NewSMTP", mail.NewSMTP)
//
//	base := crosswire.NewConfig("base").
//		Raw("Greeting", "Hello").
//		Instance("Mailer", "app/mail.NewSMTP")
//	crosswire.ApplyConfiguration(ctx, base)
//
//	var mailer = crosswire.NewDependency[mail.Sender]("Mailer")
//
//	type Service struct {
//		crosswire.Overrides
//	}
//
//	ctx = crosswire.Bind(ctx) // one cache per goroutine or request
//	sender, err := mailer.Get(ctx, &Service{})
//
// # Settings
//
// Every setting carries a Kind: raw values are returned unchanged, import
// resolves a symbol path through a SymbolResolver, import_instance calls the
// constructor found at the path, none is always absent and expr evaluates an
// expression over the store's raw settings.
//
// # Layering
//
// Registry.Apply replaces the shared store, Registry.Append overwrites names
// present in the new sources and Registry.Default only fills names that are
// absent or unset. Zero values (false, 0, "", empty collections) count as
// unset for Default and are never memoized.
//
// # Caching
//
// Resolved values are memoized in the Cache bound to the context by
// Registry.Bind. A cached value keeps winning over later store changes
// until Registry.Delete or Registry.Clear drops it.
package crosswire
