package crosswire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func dumpStore() *Store {
	store := NewStore()
	store.Configure(Settings{
		"Alpha": Raw("a"),
		"Beta":  None(),
		"Gamma": Import("pkg.Gamma"),
		"Delta": Raw(nil),
	})
	return store
}

func TestDumpListsEntriesInOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(&buf, dumpStore(), DumpOptions{}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Name: Alpha - Type: raw - Value: a",
		"Name: Beta - Type: none - Value: <nil>",
		"Name: Delta - Type: raw - Value: <nil>",
		"Name: Gamma - Type: import - Value: pkg.Gamma",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestDumpMissingOnlyWithColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(&buf, dumpStore(), DumpOptions{MissingOnly: true, Color: true}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Alpha") || strings.Contains(out, "Gamma") {
		t.Fatalf("expected only missing entries, got %q", out)
	}
	if strings.Count(out, "\033[1;31m") != 2 {
		t.Fatalf("expected two highlighted lines, got %q", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestDumpPropagatesWriteErrors(t *testing.T) {
	if err := Dump(failingWriter{}, dumpStore(), DumpOptions{}); err == nil {
		t.Fatalf("expected write error")
	}
	if err := Dump(failingWriter{}, nil, DumpOptions{}); err != nil {
		t.Fatalf("nil store should write nothing, got %v", err)
	}
}

func TestSnapshotJSON(t *testing.T) {
	reg, ctx := newTestRegistry(t)
	if err := reg.Apply(ctx, NewConfig("c").Raw("A", "a").None("B")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	snapshot := reg.Snapshot()
	if snapshot.Registry != "test" || len(snapshot.Entries) != 2 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	if missing := snapshot.Missing(); len(missing) != 1 || missing[0].Name != "B" {
		t.Fatalf("unexpected missing %+v", missing)
	}

	payload, err := snapshot.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	decoded, err := SnapshotFromJSON(payload)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if decoded.Registry != "test" || len(decoded.Missing()) != 1 || decoded.Entries[0].Value != "a" {
		t.Fatalf("unexpected decoded snapshot %+v", decoded)
	}

	if _, err := SnapshotFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}
