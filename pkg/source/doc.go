// Package source loads crosswire settings from YAML or JSON documents and
// keeps a registry in step with files as they change.
//
// Document shape:
//
//	# every plain value is a raw setting
//	Greeting: Hello
//	Endpoint:
//	  host: localhost
//	  port: 8080
//	# a map holding exactly "kind" and "value" is a tagged setting
//	Client:
//	  kind: import_instance
//	  value: app.NewClient
//	Retries:
//	  kind: none
//
// Data flow:
//
//	Load/Parse -> *File (crosswire.Source) -> Registry.Apply/Append/Default
//
// Meta.Checksum identifies the bytes a File was parsed from; Watcher uses it
// to skip reloads that did not change content.
package source
