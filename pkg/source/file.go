package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-crosswire"
)

// Meta describes where a File came from.
type Meta struct {
	Path     string    `json:"path"`
	Format   Format    `json:"format"`
	Checksum string    `json:"checksum"`
	LoadedAt time.Time `json:"loaded_at"`
}

// File is a parsed configuration document. It implements crosswire.Source.
type File struct {
	meta     Meta
	settings crosswire.Settings
}

// Load reads and parses the document at path.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %q: %w", path, err)
	}
	return newFile(path, format, data)
}

// LoadAll loads every path in order. The result can be passed straight to
// Registry.Apply so later files win.
func LoadAll(paths ...string) ([]crosswire.Source, error) {
	sources := make([]crosswire.Source, 0, len(paths))
	for _, path := range paths {
		file, err := Load(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, file)
	}
	return sources, nil
}

func newFile(path string, format Format, data []byte) (*File, error) {
	settings, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	sum := sha256.Sum256(data)
	return &File{
		meta: Meta{
			Path:     filepath.Clean(path),
			Format:   format,
			Checksum: hex.EncodeToString(sum[:]),
			LoadedAt: time.Now(),
		},
		settings: settings,
	}, nil
}

// Name returns the file path; activity events list it as the source.
func (f *File) Name() string {
	return f.meta.Path
}

// Meta returns load metadata.
func (f *File) Meta() Meta {
	return f.meta
}

// Settings implements crosswire.Source.
func (f *File) Settings() crosswire.Settings {
	if f == nil {
		return crosswire.Settings{}
	}
	return f.settings.Settings()
}
