package source

// DocFlags encodes metadata about how a document was read.
type DocFlags uint8

const (
	// DocVirtual marks a document that did not come from disk (test, stdin).
	DocVirtual DocFlags = 1 << iota
	// DocHadBOM is set when a UTF-8 byte order mark was stripped on load.
	DocHadBOM
	// DocNormalizedCRLF is set when CRLF line endings were folded into LF.
	DocNormalizedCRLF
	// DocTranscoded is set when the source was UTF-16 and was decoded to UTF-8.
	DocTranscoded
)

// Line is one newline-delimited unit of document text.
type Line struct {
	Index int    // 0-based, stable for one pass
	Text  string // без символа перевода строки
}
