package source

import (
	"sort"
	"strings"
	"unicode/utf8"

	"pattern-analyzer/src/model"
)

// Import is one module import, from either an import statement or a require call
type Import struct {
	Module string
	Names  []string // local names bound by the import
	Node   *Node
}

// Unit is a parsed file. It is immutable once constructed.
type Unit struct {
	Filename string
	Source   string
	Root     *Node

	lineStarts []int
	imports    []Import
	generators map[*Node]bool
	genOrder   []*Node
	usesEffect bool
}

func newUnit(filename, src string, root *Node) *Unit {
	u := &Unit{
		Filename:   filename,
		Source:     src,
		Root:       root,
		lineStarts: []int{0},
		generators: make(map[*Node]bool),
	}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			u.lineStarts = append(u.lineStarts, i+1)
		}
	}
	u.index()
	return u
}

func (u *Unit) index() {
	u.Root.Walk(func(n *Node) bool {
		switch n.Kind {
		case "import_statement":
			u.imports = append(u.imports, importFromStatement(n))
		case "call_expression":
			if IsCallTo(n, "require") {
				args := Arguments(n)
				if len(args) == 1 {
					if mod, ok := StringValue(args[0]); ok {
						u.imports = append(u.imports, Import{Module: mod, Node: n})
					}
				}
			}
			if isEffectGenCall(n) {
				for _, arg := range Arguments(n) {
					if arg.Kind == "generator_function" && !u.generators[arg] {
						u.generators[arg] = true
						u.genOrder = append(u.genOrder, arg)
					}
				}
			}
		case "member_expression":
			if obj := n.ChildByField("object"); obj != nil && obj.Kind == "identifier" && obj.Text() == "Effect" {
				u.usesEffect = true
			}
		}
		return true
	})
	for _, imp := range u.imports {
		if isEffectModule(imp.Module) {
			u.usesEffect = true
		}
	}
}

func importFromStatement(n *Node) Import {
	imp := Import{Node: n}
	src := n.ChildByField("source")
	if src == nil {
		if strs := n.FindAll("string"); len(strs) > 0 {
			src = strs[0]
		}
	}
	imp.Module, _ = StringValue(src)

	for _, clause := range n.FindAll("import_clause") {
		for _, c := range clause.Children {
			switch c.Kind {
			case "identifier":
				imp.Names = append(imp.Names, c.Text())
			case "namespace_import":
				if id := c.FirstNamedChild(); id != nil {
					imp.Names = append(imp.Names, id.Text())
				}
			case "named_imports":
				for _, spec := range c.FindAll("import_specifier") {
					local := spec.ChildByField("alias")
					if local == nil {
						local = spec.ChildByField("name")
					}
					if local != nil {
						imp.Names = append(imp.Names, local.Text())
					}
				}
			}
		}
	}
	return imp
}

func isEffectModule(module string) bool {
	return module == "effect" || strings.HasPrefix(module, "effect/") || strings.HasPrefix(module, "@effect/")
}

func isEffectGenCall(n *Node) bool {
	callee := Callee(n)
	if callee == nil {
		return false
	}
	switch Compact(callee) {
	case "Effect.gen", "Effect.fn", "Effect.fnUntraced":
		return true
	}
	// Effect.fn("name")(function* () {...})
	return IsCallTo(callee, "Effect.fn", "Effect.fnUntraced")
}

// Imports returns the imports of the file in source order
func (u *Unit) Imports() []Import {
	return u.imports
}

// ImportsModule returns the imports of any of the given modules
func (u *Unit) ImportsModule(modules ...string) []Import {
	var out []Import
	for _, imp := range u.imports {
		for _, m := range modules {
			if imp.Module == m {
				out = append(out, imp)
				break
			}
		}
	}
	return out
}

// UsesEffect reports whether the file imports an Effect module or refers to the Effect namespace
func (u *Unit) UsesEffect() bool {
	return u.usesEffect
}

// EffectGenerators returns the generator functions passed to Effect.gen / Effect.fn, in source order
func (u *Unit) EffectGenerators() []*Node {
	return u.genOrder
}

// IsEffectGenerator reports whether n is the generator of an Effect.gen / Effect.fn call
func (u *Unit) IsEffectGenerator(n *Node) bool {
	return u.generators[n]
}

// InEffectGen reports whether n lies anywhere inside an Effect generator body
func (u *Unit) InEffectGen(n *Node) bool {
	return u.EffectGeneratorOf(n) != nil
}

// EffectGeneratorOf returns the innermost Effect generator containing n
func (u *Unit) EffectGeneratorOf(n *Node) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if u.generators[p] {
			return p
		}
	}
	return nil
}

// DirectlyInEffectGen reports whether the nearest function around n is an
// Effect generator, i.e. `yield*` is valid at n.
func (u *Unit) DirectlyInEffectGen(n *Node) bool {
	return u.generators[EnclosingFunction(n)]
}

// SyntaxErrors returns ERROR and missing nodes, outermost first
func (u *Unit) SyntaxErrors() []*Node {
	var out []*Node
	u.Root.Walk(func(n *Node) bool {
		if n.IsError || n.Missing {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}

// Range converts the byte span of n into a 1-based line/column range
func (u *Unit) Range(n *Node) model.Range {
	startLine, startCol := u.Position(n.Start)
	endLine, endCol := u.Position(n.End)
	return model.Range{StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol}
}

// Position converts a byte offset into a 1-based line and character column
func (u *Unit) Position(offset int) (line, col int) {
	if offset > len(u.Source) {
		offset = len(u.Source)
	}
	idx := sort.Search(len(u.lineStarts), func(i int) bool { return u.lineStarts[i] > offset }) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, utf8.RuneCountInString(u.Source[u.lineStarts[idx]:offset]) + 1
}
