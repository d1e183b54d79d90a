package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Стиль: математические символы вместо слов
	MathSymbol Code = 1001

	// Форматирование
	Indentation Code = 2001

	// IO
	IOLoadFileError Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:     "Unknown error",
	MathSymbol:      "Mathematical symbol instead of natural language",
	Indentation:     "Unexpected indentation",
	IOLoadFileError: "I/O error while loading file",
}

// ID returns the stable identifier, e.g. "W1001".
func (c Code) ID() string {
	switch {
	case c >= 9000:
		return fmt.Sprintf("E%04d", uint16(c))
	case c > 0:
		return fmt.Sprintf("W%04d", uint16(c))
	default:
		return "E0000"
	}
}

func (c Code) String() string {
	return c.ID()
}

// Title returns a human readable description of the code.
func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}
