package fix

import (
	"strconv"
	"strings"

	"pattern-analyzer/src/model"
	"pattern-analyzer/src/service/rules"
	"pattern-analyzer/src/source"
)

// DefaultConcurrency replaces "unbounded" concurrency options
const DefaultConcurrency = 10

var consoleToEffect = map[string]string{
	"log":   "log",
	"info":  "logInfo",
	"warn":  "logWarning",
	"error": "logError",
	"debug": "logDebug",
	"trace": "logTrace",
}

func builtinFixes() []Fix {
	return []Fix{
		{
			FixInfo: model.FixInfo{
				ID:          "replace-node-fs",
				Title:       "Replace node:fs with @effect/platform FileSystem",
				Description: "Removes fs imports and imports FileSystem from @effect/platform.",
			},
			Rewrite: replaceImport(rules.NodeFsModules, "FileSystem"),
		},
		{
			FixInfo: model.FixInfo{
				ID:          "replace-node-path",
				Title:       "Replace node:path with @effect/platform Path",
				Description: "Removes path imports and imports Path from @effect/platform.",
			},
			Rewrite: replaceImport(rules.NodePathModules, "Path"),
		},
		{
			FixInfo: model.FixInfo{
				ID:          "replace-console-log",
				Title:       "Replace console.* with Effect logging",
				Description: "Rewrites console calls made directly in Effect.gen into yield* Effect.log and its level variants.",
			},
			Rewrite: replaceConsoleLog,
		},
		{
			FixInfo: model.FixInfo{
				ID:          "replace-effect-unit",
				Title:       "Replace Effect.unit with Effect.void",
				Description: "Renames the deprecated Effect.unit to Effect.void.",
			},
			Rewrite: func(u *source.Unit) []Edit {
				var edits []Edit
				for _, n := range u.Root.FindAll("member_expression") {
					if source.IsMember(n, "Effect", "unit") {
						prop := n.ChildByField("property")
						edits = append(edits, Edit{Start: prop.Start, End: prop.End, Text: "void"})
					}
				}
				return edits
			},
		},
		{
			FixInfo: model.FixInfo{
				ID:          "add-yield-star",
				Title:       "Add missing * to yield",
				Description: "Turns yield into yield* inside Effect.gen so the effect is executed.",
			},
			Rewrite: func(u *source.Unit) []Edit {
				var edits []Edit
				for _, n := range u.Root.FindAll("yield_expression") {
					tok := n.Token("yield")
					if tok == nil || n.HasToken("*") || n.FirstNamedChild() == nil || !u.DirectlyInEffectGen(n) {
						continue
					}
					edits = append(edits, Insert(tok.End, "*"))
				}
				return edits
			},
		},
		{
			FixInfo: model.FixInfo{
				ID:          "replace-throw-with-fail",
				Title:       "Replace throw with Effect.fail",
				Description: "Rewrites throw statements in Effect.gen into return yield* Effect.fail(...).",
			},
			Rewrite: func(u *source.Unit) []Edit {
				var edits []Edit
				for _, n := range u.Root.FindAll("throw_statement") {
					expr := n.FirstNamedChild()
					if expr == nil || !u.DirectlyInEffectGen(n) {
						continue
					}
					text := "return yield* Effect.fail(" + expr.Text() + ")"
					if strings.HasSuffix(n.Text(), ";") {
						text += ";"
					}
					edits = append(edits, Edit{Start: n.Start, End: n.End, Text: text})
				}
				return edits
			},
		},
		{
			FixInfo: model.FixInfo{
				ID:          "replace-promise-all",
				Title:       "Replace Promise.all with Effect.all",
				Description: "Rewrites Promise.all inside Effect.gen into Effect.all, unwrapping a surrounding Effect.promise.",
			},
			Rewrite: replacePromiseAll,
		},
		{
			FixInfo: model.FixInfo{
				ID:          "limit-concurrency",
				Title:       "Bound concurrency",
				Description: "Replaces concurrency: \"unbounded\" with a fixed limit of " + strconv.Itoa(DefaultConcurrency) + ".",
			},
			Rewrite: func(u *source.Unit) []Edit {
				var edits []Edit
				for _, pair := range rules.UnboundedConcurrency(u) {
					value := pair.ChildByField("value")
					edits = append(edits, Edit{Start: value.Start, End: value.End, Text: strconv.Itoa(DefaultConcurrency)})
				}
				return edits
			},
		},
	}
}

// replaceImport drops imports of modules and imports name from
// @effect/platform in place of the first one, unless already imported.
func replaceImport(modules []string, name string) RewriteFunc {
	return func(u *source.Unit) []Edit {
		var stmts []*source.Node
		for _, imp := range u.ImportsModule(modules...) {
			if stmt := importStatement(imp.Node); stmt != nil {
				stmts = append(stmts, stmt)
			}
		}
		if len(stmts) == 0 {
			return nil
		}

		replacement := `import { ` + name + ` } from "@effect/platform"`
		if hasPlatformImport(u, name) {
			replacement = ""
		}

		var edits []Edit
		for i, stmt := range stmts {
			if i == 0 && replacement != "" {
				text := replacement
				if strings.HasSuffix(stmt.Text(), ";") {
					text += ";"
				}
				edits = append(edits, Edit{Start: stmt.Start, End: stmt.End, Text: text})
				continue
			}
			edits = append(edits, Edit{Start: stmt.Start, End: lineEnd(u.Source, stmt.End)})
		}
		return edits
	}
}

// importStatement returns the statement that holds an import: the import
// statement itself, or a declaration whose only binding is a require call.
func importStatement(n *source.Node) *source.Node {
	if n.Kind == "import_statement" {
		return n
	}
	decl := n.Ancestor("lexical_declaration", "variable_declaration")
	if decl == nil || len(decl.FindAll("variable_declarator")) != 1 {
		return nil
	}
	declarator := decl.FindAll("variable_declarator")[0]
	if declarator.ChildByField("value") != n {
		return nil
	}
	return decl
}

func hasPlatformImport(u *source.Unit, name string) bool {
	for _, imp := range u.ImportsModule("@effect/platform", "@effect/platform/"+name) {
		for _, n := range imp.Names {
			if n == name {
				return true
			}
		}
	}
	return false
}

func replaceConsoleLog(u *source.Unit) []Edit {
	var edits []Edit
	for _, call := range u.Root.FindAll("call_expression") {
		object, method, ok := source.MemberName(source.Callee(call))
		if !ok || object != "console" {
			continue
		}
		target, known := consoleToEffect[method]
		if !known || call.Parent == nil || call.Parent.Kind != "expression_statement" || !u.DirectlyInEffectGen(call) {
			continue
		}
		args := call.ChildByField("arguments")
		if args == nil {
			continue
		}
		edits = append(edits, Edit{Start: call.Start, End: call.End, Text: "yield* Effect." + target + args.Text()})
	}
	return edits
}

func replacePromiseAll(u *source.Unit) []Edit {
	var edits []Edit
	for _, call := range u.Root.FindAll("call_expression") {
		if !source.IsCallTo(call, "Promise.all") || !u.InEffectGen(call) {
			continue
		}
		args := call.ChildByField("arguments")
		if args == nil {
			continue
		}
		if wrapper := promiseWrapper(call); wrapper != nil {
			// Two edits around the arguments keep nested wrappers rewritable in the same pass.
			edits = append(edits,
				Edit{Start: wrapper.Start, End: args.Start, Text: "Effect.all"},
				Edit{Start: args.End, End: wrapper.End, Text: ""},
			)
			continue
		}
		callee := source.Callee(call)
		edits = append(edits, Edit{Start: callee.Start, End: callee.End, Text: "Effect.all"})
	}
	return edits
}

// promiseWrapper returns the Effect.promise(() => call) around call, if any
func promiseWrapper(call *source.Node) *source.Node {
	arrow := call.Parent
	if arrow == nil || arrow.Kind != "arrow_function" || arrow.ChildByField("body") != call {
		return nil
	}
	args := arrow.Parent
	if args == nil || args.Kind != "arguments" || len(args.NamedChildren()) != 1 {
		return nil
	}
	wrapper := args.Parent
	if !source.IsCallTo(wrapper, "Effect.promise", "Effect.tryPromise") {
		return nil
	}
	return wrapper
}
