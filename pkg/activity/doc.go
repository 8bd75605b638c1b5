// Package activity fans configuration change events out to audit hooks.
//
// A crosswire.Registry built with WithActivityHooks emits one Event per
// Apply, Append, Default and Clear call. Hooks receive normalized events;
// events missing a verb, object type or object ID are dropped.
package activity
