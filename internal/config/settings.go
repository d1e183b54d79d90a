// Package config models runa.toml as a flat key→value map with fallback defaults.
// Settings are values: they are passed to every transformation explicitly.
package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Known setting keys.
const (
	KeyIndentSize            = "format.indentSize"
	KeyMathSymbolEnforcement = "diagnostics.mathSymbolEnforcement"
	KeyCompletionEnabled     = "completion.enabled"
	KeyCompletionBuiltins    = "completion.includeBuiltins"
)

// ErrInvalidSetting is returned when a value has the wrong type or range.
var ErrInvalidSetting = errors.New("invalid setting")

var defaults = map[string]any{
	KeyIndentSize:            4,
	KeyMathSymbolEnforcement: true,
	KeyCompletionEnabled:     true,
	KeyCompletionBuiltins:    true,
}

// Settings is an immutable set of configuration values.
type Settings struct {
	values map[string]any
}

// Defaults returns settings populated with built-in defaults.
func Defaults() Settings {
	return Settings{values: maps.Clone(defaults)}
}

// FromMap creates settings from flat dotted keys layered over the defaults.
func FromMap(values map[string]any) Settings {
	s := Defaults()
	maps.Copy(s.values, values)
	return s
}

// With returns a copy with key set to v.
func (s Settings) With(key string, v any) Settings {
	next := maps.Clone(s.values)
	if next == nil {
		next = make(map[string]any, 1)
	}
	next[key] = v
	return Settings{values: next}
}

// Lookup returns the raw value for key.
func (s Settings) Lookup(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Int returns the value for key as int, or def when missing or not numeric.
func (s Settings) Int(key string, def int) int {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	if n, ok := asInt(v); ok {
		return n
	}
	return def
}

// Bool returns the value for key as bool, or def.
func (s Settings) Bool(key string, def bool) bool {
	if b, ok := s.values[key].(bool); ok {
		return b
	}
	return def
}

// String returns the value for key as string, or def.
func (s Settings) String(key string, def string) string {
	if str, ok := s.values[key].(string); ok {
		return str
	}
	return def
}

// IndentSize is the configured indent width.
func (s Settings) IndentSize() int { return s.Int(KeyIndentSize, 4) }

// MathSymbolEnforcement gates the symbol-to-words converter and its diagnostics.
func (s Settings) MathSymbolEnforcement() bool { return s.Bool(KeyMathSymbolEnforcement, true) }

// CompletionEnabled gates completions.
func (s Settings) CompletionEnabled() bool { return s.Bool(KeyCompletionEnabled, true) }

// IncludeBuiltins controls built-in function completions.
func (s Settings) IncludeBuiltins() bool { return s.Bool(KeyCompletionBuiltins, true) }

// Keys returns all keys in sorted order.
func (s Settings) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Fingerprint is a stable textual digest of all values, used as a cache key part.
func (s Settings) Fingerprint() string {
	var sb strings.Builder
	for _, k := range s.Keys() {
		fmt.Fprintf(&sb, "%s=%v;", k, s.values[k])
	}
	return sb.String()
}

// Validate checks the types and ranges of known keys.
func (s Settings) Validate() error {
	for key, def := range defaults {
		v, ok := s.values[key]
		if !ok {
			continue
		}
		switch def.(type) {
		case int:
			if _, ok := asInt(v); !ok {
				return fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidSetting, key, v)
			}
		case bool:
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidSetting, key, v)
			}
		}
	}
	if n := s.IndentSize(); n < 1 || n > 16 {
		return fmt.Errorf("%w: %s must be between 1 and 16, got %d", ErrInvalidSetting, KeyIndentSize, n)
	}
	return nil
}

// IsKnown reports whether key is one of the recognised settings.
func IsKnown(key string) bool {
	_, ok := defaults[key]
	return ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
