package format

import (
	"errors"
	"fmt"
)

// DefaultIndentSize is the number of spaces per nesting level.
const DefaultIndentSize = 4

// MaxIndentSize bounds configured indent sizes.
const MaxIndentSize = 16

// ErrIndentSize is returned by Validate for sizes outside [1, MaxIndentSize].
var ErrIndentSize = errors.New("indent size out of range")

// Options configures the normalizer.
type Options struct {
	IndentSize int
}

// withDefaults keeps Indent total: non-positive sizes fall back to the default.
func (o Options) withDefaults() Options {
	if o.IndentSize <= 0 {
		o.IndentSize = DefaultIndentSize
	}
	return o
}

// Validate checks option ranges. Zero means default and is accepted.
func (o Options) Validate() error {
	if o.IndentSize < 0 || o.IndentSize > MaxIndentSize {
		return fmt.Errorf("%w: %d (expected 1..%d)", ErrIndentSize, o.IndentSize, MaxIndentSize)
	}
	return nil
}
