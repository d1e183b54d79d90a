// Package format contains the indentation normalizer: a single line-oriented
// pass that recomputes leading whitespace from keyword-driven nesting.
//
// Назначение: выравнивание отступов без построения AST.
// Не делает: IO, чтение настроек, применение правок.
// Зависимости: internal/source, internal/edit.
package format
