package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOML is the default config syntax.
var TOML = Format{
	Name:       "toml",
	Extensions: []string{".toml"},
	Decode:     decodeTOML,
}

// NewTOMLLoader reads a TOML file from the OS file system.
func NewTOMLLoader(path string) *FileLoader {
	return NewFileLoader(nil, path, TOML)
}

// NewTOMLLoaderWithFS reads a TOML file from fsys.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *FileLoader {
	return NewFileLoader(fsys, path, TOML)
}

func decodeTOML(source string, data []byte) (map[string]any, error) {
	var m map[string]any
	err := toml.Unmarshal(data, &m)
	if err == nil {
		return m, nil
	}

	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	return nil, perr
}
