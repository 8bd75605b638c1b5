package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-crosswire"
)

// Format names a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

type decodeFunc func([]byte) (map[string]any, error)

var decoders = map[Format]decodeFunc{
	FormatYAML: decodeYAML,
	FormatJSON: decodeJSON,
}

var extensions = map[string]Format{
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if format, ok := extensions[ext]; ok {
		return format, nil
	}
	return "", fmt.Errorf("source: unsupported extension %q", ext)
}

// Parse decodes data into settings.
func Parse(data []byte, format Format) (crosswire.Settings, error) {
	decode, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("source: unsupported format %q", format)
	}
	document, err := decode(data)
	if err != nil {
		return nil, err
	}

	settings := make(crosswire.Settings, len(document))
	for name, value := range document {
		setting, err := settingFrom(value)
		if err != nil {
			return nil, fmt.Errorf("source: setting %q: %w", name, err)
		}
		settings[name] = setting
	}
	return settings, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var document map[string]any
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("source: invalid yaml: %w", err)
	}
	return document, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var document map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("source: invalid json: %w", err)
	}
	return document, nil
}

// settingFrom treats a map with exactly the keys kind and value (or kind
// alone) as a tagged setting and everything else as raw.
func settingFrom(value any) (crosswire.Setting, error) {
	tagged, ok := value.(map[string]any)
	if !ok || !isTagged(tagged) {
		return crosswire.Raw(value), nil
	}
	name, ok := tagged["kind"].(string)
	if !ok {
		return crosswire.Setting{}, fmt.Errorf("kind must be a string, got %T", tagged["kind"])
	}
	kind, err := crosswire.ParseKind(name)
	if err != nil {
		return crosswire.Setting{}, err
	}
	if kind == crosswire.KindNone {
		return crosswire.None(), nil
	}
	return crosswire.Setting{Kind: kind, Value: tagged["value"]}, nil
}

func isTagged(value map[string]any) bool {
	keys := make([]string, 0, len(value))
	for key := range value {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	switch len(keys) {
	case 1:
		return keys[0] == "kind"
	case 2:
		return keys[0] == "kind" && keys[1] == "value"
	default:
		return false
	}
}
