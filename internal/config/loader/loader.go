// Package loader reads rangebar configuration files into generic maps.
//
// TOML, YAML and JSON files are supported; the format is picked from the
// file extension. Environment overrides are loaded into the same map shape
// so every layer can be combined with DeepMerge before decoding.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	Load() (map[string]any, error)
}

// FileSystem is an abstraction for file system operations.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format is a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// FileLoader loads one configuration file.
type FileLoader struct {
	fs     FileSystem
	path   string
	format Format
}

// New creates a loader for path, picking the format from its extension.
func New(path string) (*FileLoader, error) {
	return NewWithFS(DefaultFS(), path)
}

// NewWithFS creates a loader reading through fsys.
func NewWithFS(fsys FileSystem, path string) (*FileLoader, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	return &FileLoader{fs: fsys, path: path, format: format}, nil
}

// Load reads configuration from the configured path.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s: %w", l.path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return Parse(l.format, l.path, data)
}

// Parse decodes data in the given format. source names the input in errors.
func Parse(format Format, source string, data []byte) (map[string]any, error) {
	var (
		config map[string]any
		err    error
	)
	switch format {
	case FormatTOML:
		config, err = parseTOML(source, data)
	case FormatYAML:
		config, err = parseYAML(source, data)
	case FormatJSON:
		config, err = parseJSON(source, data)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = make(map[string]any)
	}
	return config, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Format  Format
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("%s parse error in %s at line %d, column %d: %s", e.Format, e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s parse error in %s at line %d: %s", e.Format, e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}
