package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrIncludeDepth indicates @include directives nested deeper than allowed.
var ErrIncludeDepth = errors.New("include depth exceeded")

// DefaultIncludeDepth is the include nesting limit used by NewTOMLLoader.
const DefaultIncludeDepth = 8

// TOMLLoader loads TOML configuration files.
//
// A file may pull in other files with a top-level @include key holding a
// path or an array of paths, resolved relative to the including file.
// Values in the including file override included values.
type TOMLLoader struct {
	fs       FileSystem
	maxDepth int
}

// NewTOMLLoader creates a loader reading from fsys.
// A nil fsys uses the OS file system.
func NewTOMLLoader(fsys FileSystem) *TOMLLoader {
	if fsys == nil {
		fsys = OSFS{}
	}
	return &TOMLLoader{fs: fsys, maxDepth: DefaultIncludeDepth}
}

// Load reads path and its includes. A missing file yields nil, nil.
func (l *TOMLLoader) Load(path string) (map[string]any, error) {
	return l.load(path, l.maxDepth)
}

func (l *TOMLLoader) load(path string, depth int) (map[string]any, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepth, path)
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	includes, err := includePaths(path, cfg)
	if err != nil {
		return nil, err
	}
	delete(cfg, "@include")

	merged := make(map[string]any)
	for _, inc := range includes {
		incCfg, err := l.load(inc, depth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", inc, err)
		}
		merged = DeepMerge(merged, incCfg)
	}

	return DeepMerge(merged, cfg), nil
}

// includePaths extracts the @include list of cfg.
func includePaths(path string, cfg map[string]any) ([]string, error) {
	raw, ok := cfg["@include"]
	if !ok {
		return nil, nil
	}

	var names []string
	switch v := raw.(type) {
	case string:
		names = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: @include entries must be strings, got %T", path, item)
			}
			names = append(names, s)
		}
	default:
		return nil, fmt.Errorf("%s: @include must be a string or array of strings, got %T", path, raw)
	}

	base := filepath.Dir(path)
	for i, name := range names {
		if !filepath.IsAbs(name) {
			names[i] = filepath.Join(base, name)
		}
	}
	return names, nil
}

// Parse decodes TOML data. source names the data in errors.
func Parse(source string, data []byte) (map[string]any, error) {
	var cfg map[string]any
	if err := toml.Unmarshal(data, &cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return nil, pe
	}
	if cfg == nil {
		cfg = make(map[string]any)
	}
	return cfg, nil
}
