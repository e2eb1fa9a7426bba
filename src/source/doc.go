// Package source turns a TypeScript file into an immutable syntax tree that
// rules can inspect without depending on the underlying parser.
//
// Parsing is delegated to tree-sitter. The tree-sitter tree is converted into
// plain Node values and released before Parse returns, so a Unit owns no
// native resources and can be shared freely between goroutines once built.
// All matching done on top of it is syntactic: identifiers are compared as
// text and no type information is available.
package source
