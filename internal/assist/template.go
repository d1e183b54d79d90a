package assist

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// FileExt is the Runa source extension.
const FileExt = ".runa"

// ErrBadFileName reports a new-file name without the .runa extension.
var ErrBadFileName = errors.New("file name must end with .runa")

// TemplateDateLayout formats the creation date in the header.
const TemplateDateLayout = "2006-01-02"

// ValidateFileName checks that name is a usable Runa file name.
func ValidateFileName(name string) error {
	base := filepath.Base(strings.TrimSpace(name))
	if !strings.HasSuffix(base, FileExt) || base == FileExt {
		return fmt.Errorf("%q: %w", name, ErrBadFileName)
	}
	return nil
}

// NewFileTemplate returns the starter content for a new file called name.
// The header carries the bare program name and the UTC creation date.
func NewFileTemplate(name string, created time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Note: %s - Runa program\n", strings.TrimSuffix(filepath.Base(name), FileExt))
	fmt.Fprintf(&sb, "Note: Created on %s\n", created.UTC().Format(TemplateDateLayout))
	sb.WriteString("\n")
	sb.WriteString("Display \"Hello from Runa!\"\n")
	sb.WriteString("\n")
	sb.WriteString("Note: Add your code below\n")
	return sb.String()
}
