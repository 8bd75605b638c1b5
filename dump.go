package crosswire

import (
	"encoding/json"
	"fmt"
	"io"
)

// Entry is a read-only view of one stored setting.
type Entry struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Value   any    `json:"value,omitempty"`
	Missing bool   `json:"missing"`
}

// DumpOptions controls Dump output.
type DumpOptions struct {
	// MissingOnly restricts output to entries without a value.
	MissingOnly bool
	// Color highlights missing entries with ANSI red.
	Color bool
}

// Dump writes one line per store entry in name order.
func Dump(w io.Writer, store *Store, opts DumpOptions) error {
	if store == nil {
		return nil
	}
	for _, entry := range store.Entries() {
		if opts.MissingOnly && !entry.Missing {
			continue
		}
		line := fmt.Sprintf("Name: %s - Type: %s - Value: %v", entry.Name, entry.Kind, entry.Value)
		if entry.Missing && opts.Color {
			line = "\033[1;31m" + line + "\033[m"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot captures the entries of a registry's store for logging or
// transport.
type Snapshot struct {
	Registry string  `json:"registry"`
	Entries  []Entry `json:"entries"`
}

// Snapshot captures the current shared store.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{Registry: r.name, Entries: r.Store().Entries()}
}

// Missing returns the entries without a value.
func (s Snapshot) Missing() []Entry {
	var missing []Entry
	for _, entry := range s.Entries {
		if entry.Missing {
			missing = append(missing, entry)
		}
	}
	return missing
}

// ToJSON serialises the snapshot.
func (s Snapshot) ToJSON() ([]byte, error) {
	type alias Snapshot
	return json.Marshal(alias(s))
}

// SnapshotFromJSON deserialises a payload produced by ToJSON.
func SnapshotFromJSON(payload []byte) (Snapshot, error) {
	type alias Snapshot
	var snapshot alias
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return Snapshot{}, err
	}
	return Snapshot(snapshot), nil
}
