package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

// FileName is the project configuration file name.
const FileName = "runa.toml"

// File is a loaded configuration file.
type File struct {
	Path     string
	Settings Settings
	Unknown  []string // keys present in the file but not recognised
}

// Find walks up from startDir looking for runa.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads runa.toml above startDir; without one it returns defaults.
func Discover(startDir string) (*File, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &File{Settings: Defaults()}, nil
	}
	return Load(path)
}

// Load decodes a TOML file and flattens its tables into dotted keys.
func Load(path string) (*File, error) {
	raw := make(map[string]any)
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	flat := make(map[string]any)
	flatten("", raw, flat)

	f := &File{Path: path, Settings: FromMap(flat)}
	for key := range flat {
		if !IsKnown(key) {
			f.Unknown = append(f.Unknown, key)
		}
	}
	slices.Sort(f.Unknown)
	if err := f.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func flatten(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}

// WriteDefault encodes the default settings as a runa.toml document.
func WriteDefault(w io.Writer) error {
	doc := map[string]map[string]any{
		"format":      {"indentSize": defaults[KeyIndentSize]},
		"diagnostics": {"mathSymbolEnforcement": defaults[KeyMathSymbolEnforcement]},
		"completion": {
			"enabled":         defaults[KeyCompletionEnabled],
			"includeBuiltins": defaults[KeyCompletionBuiltins],
		},
	}
	return toml.NewEncoder(w).Encode(doc)
}
