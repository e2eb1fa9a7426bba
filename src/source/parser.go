package source

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var (
	languagesOnce sync.Once
	typescript    *tree_sitter.Language
	tsx           *tree_sitter.Language
)

func languageFor(filename string) *tree_sitter.Language {
	languagesOnce.Do(func() {
		typescript = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		tsx = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	})
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tsx", ".jsx":
		return tsx
	default:
		return typescript
	}
}

// Parse parses src as TypeScript (TSX for .tsx/.jsx files). Syntax errors do
// not fail the parse: the returned tree contains ERROR nodes instead, see
// Unit.SyntaxErrors. An error is returned only if the parser cannot run.
func Parse(filename, src string) (*Unit, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(languageFor(filename)); err != nil {
		return nil, fmt.Errorf("loading typescript grammar: %w", err)
	}

	tree := parser.Parse([]byte(src), nil)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s: parser produced no tree", filename)
	}
	defer tree.Close()

	cursor := tree.RootNode().Walk()
	defer cursor.Close()

	return newUnit(filename, src, build(cursor, nil, src)), nil
}

func build(c *tree_sitter.TreeCursor, parent *Node, src string) *Node {
	tn := c.Node()
	n := &Node{
		Kind:    tn.Kind(),
		Field:   c.FieldName(),
		Named:   tn.IsNamed(),
		IsError: tn.IsError(),
		Missing: tn.IsMissing(),
		Start:   int(tn.StartByte()),
		End:     int(tn.EndByte()),
		Parent:  parent,
		src:     src,
	}
	if c.GotoFirstChild() {
		for {
			n.Children = append(n.Children, build(c, n, src))
			if !c.GotoNextSibling() {
				break
			}
		}
		c.GotoParent()
	}
	return n
}
