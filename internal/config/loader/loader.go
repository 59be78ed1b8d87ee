// Package loader reads undoable configuration into plain maps.
//
// TOML and YAML files are parsed into map[string]any, environment variables
// are folded into the same shape, and DeepMerge layers the results so the
// config package can decode one map.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no loader handles.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader produces one configuration layer.
// A missing source yields nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is the read side of a file system.
// Tests use an in-memory implementation.
type FileSystem interface {
	fs.FS
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads the real file system.
type OSFS struct{}

func (OSFS) Open(name string) (fs.File, error)     { return os.Open(name) }
func (OSFS) ReadFile(path string) ([]byte, error)  { return os.ReadFile(path) }
func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format is a file syntax that decodes into a settings map.
type Format struct {
	Name       string
	Extensions []string

	// Decode parses data. source names the input in errors.
	Decode func(source string, data []byte) (map[string]any, error)
}

// Formats lists the supported file formats.
var Formats = []Format{TOML, YAML}

// FileLoader reads one file in a fixed Format.
type FileLoader struct {
	fs     FileSystem
	path   string
	format Format
}

// NewFileLoader returns a loader for path in the given format.
// A nil fsys means the OS file system.
func NewFileLoader(fsys FileSystem, path string, format Format) *FileLoader {
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &FileLoader{fs: fsys, path: path, format: format}
}

// Format returns the format the loader decodes.
func (l *FileLoader) Format() Format {
	return l.format
}

// Path returns the file the loader reads.
func (l *FileLoader) Path() string {
	return l.path
}

// Load reads the configured file. A missing file is not an error.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return l.format.Decode(l.path, data)
}

// LoadFromReader decodes everything r yields.
func (l *FileLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s config: %w", l.format.Name, err)
	}
	return l.format.Decode("<reader>", data)
}

// ForPath picks the format from the extension of path.
func ForPath(fsys FileSystem, path string) (*FileLoader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range Formats {
		if slices.Contains(f.Extensions, ext) {
			return NewFileLoader(fsys, path, f), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}
