// Package layering holds the map-level merge policies used to combine
// configuration layers, together with the emptiness rule shared by every
// fill-missing decision.
package layering

import "reflect"

// Flatten composes layers ordered from weakest to strongest into a new map.
// Later layers overwrite earlier ones key by key.
func Flatten[K comparable, V any](layers ...map[K]V) map[K]V {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	merged := make(map[K]V, size)
	for _, layer := range layers {
		for key, value := range layer {
			merged[key] = value
		}
	}
	return merged
}

// Overwrite copies every entry of src into dst, replacing existing keys.
// Keys only present in dst are preserved. It returns the keys written.
func Overwrite[K comparable, V any](dst, src map[K]V) []K {
	written := make([]K, 0, len(src))
	for key, value := range src {
		dst[key] = value
		written = append(written, key)
	}
	return written
}

// FillMissing copies entries of src into dst only where dst has no entry or
// missing reports the existing entry as unset. It returns the keys written.
func FillMissing[K comparable, V any](dst, src map[K]V, missing func(V) bool) []K {
	written := make([]K, 0, len(src))
	for key, value := range src {
		current, ok := dst[key]
		if ok && (missing == nil || !missing(current)) {
			continue
		}
		dst[key] = value
		written = append(written, key)
	}
	return written
}

// Empty reports whether value counts as unset: nil, false, numeric zero, the
// empty string, empty collections and nil references. Struct values are
// never empty.
func Empty(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() == 0
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
