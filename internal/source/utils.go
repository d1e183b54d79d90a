package source

import (
	"bytes"
	"path/filepath"
	"slices"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		out = append(out, content[i])
	}
	return out, len(out) != len(content)
}

// decodeBOM strips a UTF-8 BOM or transcodes UTF-16 input that starts with a BOM.
// Content without a BOM is returned untouched, invalid UTF-8 included.
func decodeBOM(content []byte) ([]byte, DocFlags, error) {
	switch {
	case bytes.HasPrefix(content, utf8BOM):
		return content[len(utf8BOM):], DocHadBOM, nil
	case bytes.HasPrefix(content, []byte{0xFE, 0xFF}), bytes.HasPrefix(content, []byte{0xFF, 0xFE}):
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(dec, content)
		if err != nil {
			return nil, 0, err
		}
		return out, DocTranscoded, nil
	default:
		return content, 0, nil
	}
}

func normalizePath(p string) string {
	if p == "" {
		return p
	}
	return filepath.ToSlash(filepath.Clean(p))
}
