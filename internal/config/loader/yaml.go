package loader

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAML accepts .yaml and .yml files.
var YAML = Format{
	Name:       "yaml",
	Extensions: []string{".yaml", ".yml"},
	Decode:     decodeYAML,
}

// NewYAMLLoader reads a YAML file from the OS file system.
func NewYAMLLoader(path string) *FileLoader {
	return NewFileLoader(nil, path, YAML)
}

// NewYAMLLoaderWithFS reads a YAML file from fsys.
func NewYAMLLoaderWithFS(fsys FileSystem, path string) *FileLoader {
	return NewFileLoader(fsys, path, YAML)
}

func decodeYAML(source string, data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var terr *yaml.TypeError
		if errors.As(err, &terr) && len(terr.Errors) > 0 {
			perr.Message = terr.Errors[0]
		}
		return nil, perr
	}
	return normalizeYAML(m), nil
}

// normalizeYAML rewrites the map[any]any values yaml.v3 produces for
// non-string keys into map[string]any.
func normalizeYAML(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeYAMLValue(v)
	}
	return m
}

func normalizeYAMLValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeYAML(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAMLValue(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeYAMLValue(t[i])
		}
		return t
	default:
		return v
	}
}
