// Package assist holds the editor conveniences that need no parsing: hover
// text for known words, completions and the new-file template.
package assist

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// HoverCategory names the table a hover entry came from.
type HoverCategory string

const (
	HoverKeyword  HoverCategory = "keyword"
	HoverOperator HoverCategory = "operator"
	HoverBuiltin  HoverCategory = "built-in function"
)

var keywordDocs = map[string]string{
	"Process":   "Define a function/process that can be called with parameters",
	"Let":       "Declare a variable and assign a value using natural syntax: `Let variable be value`",
	"Define":    "Define a constant value: `Define constant as value`",
	"Set":       "Assign a new value to an existing variable: `Set variable to new_value`",
	"If":        "Execute code conditionally: `If condition:`",
	"Otherwise": "Alternative branch in conditional statements",
	"Unless":    "Execute code unless condition is true: `Unless condition:`",
	"When":      "Pattern matching condition or event handler",
	"Match":     "Pattern matching statement for complex conditionals",
	"For":       "Loop through items: `For each item in collection:` or `For i from 1 to 10:`",
	"While":     "Loop while condition is true: `While condition:`",
	"Try":       "Handle potential errors in a code block",
	"Catch":     "Handle exceptions thrown in try block",
	"Finally":   "Code that always executes after try/catch",
	"Import":    "Import functionality from another module",
	"Export":    "Export functionality to other modules",
	"Display":   "Output text or values to the console",
	"Assert":    "Verify that a condition is true",
	"Return":    "Return a value from a function",
}

var operatorDocs = map[string]string{
	"plus":       "Addition operator (natural language): `a plus b`",
	"minus":      "Subtraction operator (natural language): `a minus b`",
	"multiplied": "Multiplication operator (natural language): `a multiplied by b`",
	"divided":    "Division operator (natural language): `a divided by b`",
	"modulo":     "Modulo operator (natural language): `a modulo b`",
	"equals":     "Equality comparison (natural language): `a equals b`",
	"greater":    "Comparison operator: `a is greater than b`",
	"less":       "Comparison operator: `a is less than b`",
	"contains":   "Membership test: `collection contains item`",
}

var builtinDocs = map[string]string{
	"Display": "Output values to console: `Display message`",
	"Input":   "Get input from user: `Input prompt`",
	"Length":  "Get length of collection or string: `Length of collection`",
	"Type":    "Get type of value: `Type of value`",
	"Convert": "Convert value to different type: `Convert value to Type`",
}

// HoverEntry is a resolved hover lookup.
type HoverEntry struct {
	Word     string        `json:"word" msgpack:"word"`
	Category HoverCategory `json:"category" msgpack:"category"`
	Text     string        `json:"text" msgpack:"text"`
}

// Markdown renders the entry the way editors display it.
func (h HoverEntry) Markdown() string {
	return fmt.Sprintf("**%s** _(%s)_\n\n%s", h.Word, h.Category, h.Text)
}

// Lookup finds word in the keyword, operator and built-in tables, in that
// order. Lookup is case-sensitive.
func Lookup(word string) (HoverEntry, bool) {
	if text, ok := keywordDocs[word]; ok {
		return HoverEntry{Word: word, Category: HoverKeyword, Text: text}, true
	}
	if text, ok := operatorDocs[word]; ok {
		return HoverEntry{Word: word, Category: HoverOperator, Text: text}, true
	}
	if text, ok := builtinDocs[word]; ok {
		return HoverEntry{Word: word, Category: HoverBuiltin, Text: text}, true
	}
	return HoverEntry{}, false
}

// Hover returns markdown for a known word.
func Hover(word string) (string, bool) {
	entry, ok := Lookup(word)
	if !ok {
		return "", false
	}
	return entry.Markdown(), true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// WordAt returns the word covering byte column col of text and its byte range.
// A column right after the last rune of a word still selects that word.
func WordAt(text string, col int) (word string, start, end int, ok bool) {
	if col < 0 || col > len(text) {
		return "", 0, 0, false
	}
	for col > 0 && col < len(text) && !utf8.RuneStart(text[col]) {
		col--
	}

	start = col
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	end = col
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	if start == end {
		return "", 0, 0, false
	}
	return text[start:end], start, end, true
}
