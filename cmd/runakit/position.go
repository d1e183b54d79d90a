package main

import (
	"fmt"
	"strconv"

	"runakit/internal/edit"
	"runakit/internal/source"
)

// cursor is a resolved command-line position inside a loaded document.
type cursor struct {
	doc    *source.Document
	line   source.Line
	offset int // byte offset into line.Text
}

// resolveCursor loads path and converts 1-based line and column arguments
// (columns count runes) into a line and byte offset. Columns past the end of
// the line clamp to its length.
func resolveCursor(path, lineArg, colArg string) (cursor, error) {
	lineNo, err := strconv.Atoi(lineArg)
	if err != nil || lineNo < 1 {
		return cursor{}, fmt.Errorf("invalid line %q: must be a positive integer", lineArg)
	}
	colNo, err := strconv.Atoi(colArg)
	if err != nil || colNo < 1 {
		return cursor{}, fmt.Errorf("invalid column %q: must be a positive integer", colArg)
	}
	doc, err := source.Load(path)
	if err != nil {
		return cursor{}, err
	}
	if lineNo > doc.LineCount() {
		return cursor{}, fmt.Errorf("%s: line %d out of range (file has %d lines)", path, lineNo, doc.LineCount())
	}
	line := doc.Line(lineNo - 1)
	return cursor{doc: doc, line: line, offset: edit.ByteOffset(line.Text, colNo-1)}, nil
}
