package assist

import (
	"regexp"

	"runakit/internal/config"
)

// ItemKind mirrors the LSP CompletionItemKind numbering.
type ItemKind int

const (
	ItemKindText     ItemKind = 1
	ItemKindFunction ItemKind = 3
	ItemKindClass    ItemKind = 7
	ItemKindKeyword  ItemKind = 14
	ItemKindSnippet  ItemKind = 15
	ItemKindOperator ItemKind = 24
)

func (k ItemKind) String() string {
	switch k {
	case ItemKindFunction:
		return "function"
	case ItemKindClass:
		return "class"
	case ItemKindKeyword:
		return "keyword"
	case ItemKindSnippet:
		return "snippet"
	case ItemKindOperator:
		return "operator"
	default:
		return "text"
	}
}

// Item is one completion proposal. InsertText uses the LSP snippet syntax when
// Snippet is set, otherwise it is plain text (empty means use Label).
type Item struct {
	Label         string   `json:"label" msgpack:"label"`
	Kind          ItemKind `json:"kind" msgpack:"kind"`
	InsertText    string   `json:"insertText,omitempty" msgpack:"insert_text,omitempty"`
	Snippet       bool     `json:"snippet,omitempty" msgpack:"snippet,omitempty"`
	Detail        string   `json:"detail,omitempty" msgpack:"detail,omitempty"`
	Documentation string   `json:"documentation,omitempty" msgpack:"documentation,omitempty"`
}

type prefixSnippet struct {
	pattern *regexp.Regexp
	item    Item
}

// Partial keyword prefixes, checked in order; the first hit wins and is the
// only proposal.
var prefixSnippets = []prefixSnippet{
	{
		pattern: regexp.MustCompile(`^\s*Typ?$`),
		item: Item{
			Label:         "Type called",
			Kind:          ItemKindSnippet,
			InsertText:    "Type called \"${1:TypeName}\":\n    ${2:field_name} as ${3:DataType}$0",
			Snippet:       true,
			Detail:        "Runa Type Declaration",
			Documentation: "Create a new Runa type definition",
		},
	},
	{
		pattern: regexp.MustCompile(`^\s*Pro?c?e?s?s?$`),
		item: Item{
			Label:         "Process called",
			Kind:          ItemKindSnippet,
			InsertText:    "Process called \"${1:process_name}\" that takes ${2:parameter} as ${3:Type} returns ${4:ReturnType}:\n    ${5:// Implementation}\n    Return ${6:value}$0",
			Snippet:       true,
			Detail:        "Runa Process Declaration",
			Documentation: "Create a new Runa process (function)",
		},
	},
	{
		pattern: regexp.MustCompile(`^\s*Imp?o?r?t?$`),
		item: Item{
			Label:         "Import",
			Kind:          ItemKindSnippet,
			InsertText:    "Import \"${1:module_name}\" as ${2:Alias}$0",
			Snippet:       true,
			Detail:        "Runa Import Statement",
			Documentation: "Import a Runa module",
		},
	},
	{
		pattern: regexp.MustCompile(`^\s*If?$`),
		item: Item{
			Label:         "If",
			Kind:          ItemKindSnippet,
			InsertText:    "If ${1:condition}:\n    ${2:// Then block}\nOtherwise:\n    ${3:// Else block}$0",
			Snippet:       true,
			Detail:        "Runa If-Otherwise Statement",
			Documentation: "Create a Runa conditional statement",
		},
	},
	{
		pattern: regexp.MustCompile(`^\s*Le?t?$`),
		item: Item{
			Label:         "Let",
			Kind:          ItemKindSnippet,
			InsertText:    "Let ${1:variable} be ${2:value}$0",
			Snippet:       true,
			Detail:        "Runa Variable Declaration",
			Documentation: "Declare a Runa variable",
		},
	},
}

var keywordItems = []Item{
	{Label: "Return", InsertText: "Return ${1:value}$0", Documentation: "Return a value from a process"},
	{Label: "Otherwise", InsertText: "Otherwise:\n    ${1:// Else block}$0", Documentation: "Else clause for If statement"},
	{Label: "Note", InsertText: "Note: ${1:comment}$0", Documentation: "Add a comment"},
	{Label: "External", InsertText: "External \"${1:function_name}\" that takes ${2:params} returns ${3:Type}$0", Documentation: "Declare external function"},
	{Label: "Throw", InsertText: "Throw ${1:Error} with \"${2:message}\"$0", Documentation: "Throw an error"},
	{Label: "While", InsertText: "While ${1:condition}:\n    ${2:// Loop body}$0", Documentation: "While loop"},
	{Label: "For", InsertText: "For ${1:item} in ${2:collection}:\n    ${3:// Loop body}$0", Documentation: "For loop"},
}

var naturalOperators = []string{
	"plus", "minus", "multiplied by", "divided by", "modulo",
	"equals", "does not equal", "is greater than", "is less than",
	"is greater than or equal to", "is less than or equal to",
	"contains", "is in", "followed by", "joined with",
}

var builtinNames = []string{
	"Display", "Input", "Length", "Type", "Convert", "Parse", "Format",
	"Range", "Enumerate", "Zip", "Map", "Filter", "Reduce", "Sort",
	"Reverse", "Split", "Join", "Replace", "Contains", "Starts_with",
	"Ends_with", "Uppercase", "Lowercase", "Trim",
}

var typeNames = []string{
	"Integer", "Float", "String", "Boolean", "List", "Dictionary",
	"Function", "Optional", "Any", "Void",
}

// Complete returns proposals for the text left of the cursor. The result is
// nil when completions are disabled.
func Complete(linePrefix string, settings config.Settings) []Item {
	if !settings.CompletionEnabled() {
		return nil
	}
	for _, ps := range prefixSnippets {
		if ps.pattern.MatchString(linePrefix) {
			return []Item{ps.item}
		}
	}
	return generalItems(settings.IncludeBuiltins())
}

func generalItems(includeBuiltins bool) []Item {
	size := len(keywordItems) + len(naturalOperators) + len(typeNames)
	if includeBuiltins {
		size += len(builtinNames)
	}
	items := make([]Item, 0, size)
	for _, kw := range keywordItems {
		kw.Kind = ItemKindKeyword
		kw.Snippet = true
		kw.Detail = "Runa Keyword"
		items = append(items, kw)
	}
	for _, op := range naturalOperators {
		items = append(items, Item{
			Label:         op,
			Kind:          ItemKindOperator,
			Documentation: "Natural language operator: **" + op + "**",
		})
	}
	if includeBuiltins {
		for _, name := range builtinNames {
			items = append(items, Item{
				Label:         name,
				Kind:          ItemKindFunction,
				Documentation: "Built-in function: **" + name + "**",
			})
		}
	}
	for _, name := range typeNames {
		items = append(items, Item{
			Label:         name,
			Kind:          ItemKindClass,
			Documentation: "Runa type: **" + name + "**",
		})
	}
	return items
}
