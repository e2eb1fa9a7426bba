package rules

import (
	"strings"

	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

func typeRules() []Rule {
	return []Rule{
		{
			RuleInfo: model.RuleInfo{
				ID:       "any-type",
				Title:    "Explicit any",
				Message:  "any switches off type checking for everything it touches. Use a precise type, or unknown with a Schema decode.",
				Severity: model.SeverityMedium,
				Category: model.CategoryTypes,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(nodesOf(u, "predefined_type"), func(n *source.Node) bool {
					return n.Text() == "any"
				})
			},
			Examples: Examples{
				Bad:  "const x: any = yield* f();\n",
				Good: "const x = yield* f();\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "non-null-assertion",
				Title:    "Non-null assertion",
				Message:  "The ! operator asserts a value is present without checking. Narrow it explicitly or model absence with Option.",
				Severity: model.SeverityLow,
				Category: model.CategoryTypes,
			},
			Check: func(u *source.Unit) []*source.Node {
				return nodesOf(u, "non_null_expression")
			},
			Examples: Examples{
				Bad:  "const name = user!.name\n",
				Good: "const name = user?.name\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "double-cast",
				Title:    "Double type assertion",
				Message:  "Casting through unknown or any forces an unrelated type onto a value. Decode it with a Schema instead.",
				Severity: model.SeverityMedium,
				Category: model.CategoryTypes,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(nodesOf(u, "as_expression"), func(n *source.Node) bool {
					inner := source.Unparen(n.FirstNamedChild())
					if inner == nil || inner.Kind != "as_expression" {
						return false
					}
					parts := inner.NamedChildren()
					if len(parts) < 2 {
						return false
					}
					target := parts[len(parts)-1].Text()
					return target == "unknown" || target == "any"
				})
			},
			Examples: Examples{
				Bad:  "const user = input as unknown as User\n",
				Good: "const user = Schema.decodeUnknownSync(User)(input)\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "ts-ignore",
				Title:    "@ts-ignore comment",
				Message:  "@ts-ignore hides every error on the next line, including future ones. Fix the type error or use @ts-expect-error with a reason.",
				Severity: model.SeverityLow,
				Category: model.CategoryTypes,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(nodesOf(u, "comment"), func(n *source.Node) bool {
					text := n.Text()
					return strings.Contains(text, "@ts-ignore") || strings.Contains(text, "@ts-nocheck")
				})
			},
			Examples: Examples{
				Bad:  "// @ts-ignore\nconst n: number = \"x\"\n",
				Good: "const n: number = 1\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "unknown-error-channel",
				Title:    "Effect with unknown error type",
				Message:  "An unknown error channel tells callers nothing about how the effect can fail. List the concrete error types.",
				Severity: model.SeverityLow,
				Category: model.CategoryTypes,
			},
			Check: checkUnknownErrorChannel,
			Examples: Examples{
				Bad:  "const load = (): Effect.Effect<User, unknown> => getUser\n",
				Good: "const load = (): Effect.Effect<User, NotFound> => getUser\n",
			},
		},
	}
}

func checkUnknownErrorChannel(u *source.Unit) []*source.Node {
	return filter(nodesOf(u, "generic_type"), func(n *source.Node) bool {
		name := n.ChildByField("name")
		if name == nil {
			name = n.FirstNamedChild()
		}
		if name == nil {
			return false
		}
		if typeName := source.Compact(name); typeName != "Effect.Effect" && typeName != "Effect" {
			return false
		}
		var args *source.Node
		for _, c := range n.NamedChildren() {
			if c.Kind == "type_arguments" {
				args = c
			}
		}
		params := args.NamedChildren()
		return len(params) >= 2 && params[1].Text() == "unknown"
	})
}
