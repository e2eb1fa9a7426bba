package rules

import (
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

// maxPipeArgs is the longest pipe chain accepted before long-pipe fires
const maxPipeArgs = 10

func styleRules() []Rule {
	return []Rule{
		{
			RuleInfo: model.RuleInfo{
				ID:       "console-log-in-effect",
				Title:    "console.* inside Effect.gen",
				Message:  "console output bypasses the Effect logger, so it ignores log levels, spans and annotations. Use Effect.log or one of its level variants.",
				Severity: model.SeverityMedium,
				Category: model.CategoryStyle,
				FixIDs:   []string{"replace-console-log"},
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(nodesOf(u, "call_expression"), func(n *source.Node) bool {
					object, _, ok := source.MemberName(source.Callee(n))
					return ok && object == "console" && u.InEffectGen(n)
				})
			},
			Examples: Examples{
				Bad:  "Effect.gen(function* () { console.log(\"x\"); yield* f(); })\n",
				Good: "Effect.gen(function* () { yield* Effect.log(\"x\"); yield* f(); })\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "deprecated-effect-unit",
				Title:    "Deprecated Effect.unit",
				Message:  "Effect.unit was renamed to Effect.void.",
				Severity: model.SeverityLow,
				Category: model.CategoryStyle,
				FixIDs:   []string{"replace-effect-unit"},
			},
			Check: func(u *source.Unit) []*source.Node {
				return members(u, "Effect", "unit")
			},
			Examples: Examples{
				Bad:  "const done = Effect.unit\n",
				Good: "const done = Effect.void\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "effect-gen-without-yield",
				Title:    "Effect.gen that never yields",
				Message:  "A generator with no yield* wraps plain synchronous code. Use Effect.succeed or Effect.sync instead.",
				Severity: model.SeverityLow,
				Category: model.CategoryStyle,
			},
			Check: checkGenWithoutYield,
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  return 42\n})\n",
				Good: "const program = Effect.succeed(42)\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "nested-pipe",
				Title:    "pipe nested inside pipe",
				Message:  "A pipe call passed straight into another pipe can be flattened into a single chain.",
				Severity: model.SeverityLow,
				Category: model.CategoryStyle,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(callsTo(u, "pipe"), func(n *source.Node) bool {
					for _, arg := range source.Arguments(n) {
						if source.IsCallTo(arg, "pipe") {
							return true
						}
					}
					return false
				})
			},
			Examples: Examples{
				Bad:  "const result = pipe(pipe(value, double), increment)\n",
				Good: "const result = pipe(value, double, increment)\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "long-pipe",
				Title:    "Very long pipe chain",
				Message:  "Pipe chains with more than ten steps are hard to follow. Split them into named intermediate effects or move them into Effect.gen.",
				Severity: model.SeverityLow,
				Category: model.CategoryStyle,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(nodesOf(u, "call_expression"), func(n *source.Node) bool {
					_, prop, _ := source.MemberName(source.Callee(n))
					if source.CallName(n) != "pipe" && prop != "pipe" {
						return false
					}
					return len(source.Arguments(n)) > maxPipeArgs
				})
			},
			Examples: Examples{
				Bad:  "const result = pipe(x, f1, f2, f3, f4, f5, f6, f7, f8, f9, f10, f11)\n",
				Good: "const result = pipe(x, f1, f2)\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "map-to-void",
				Title:    "Effect.map(() => undefined)",
				Message:  "Mapping to undefined discards the value in a roundabout way. Use Effect.asVoid.",
				Severity: model.SeverityLow,
				Category: model.CategoryStyle,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(callsTo(u, "Effect.map"), func(n *source.Node) bool {
					args := source.Arguments(n)
					return len(args) > 0 && isNothing(returnedExpression(args[len(args)-1]))
				})
			},
			Examples: Examples{
				Bad:  "const done = save.pipe(Effect.map(() => undefined))\n",
				Good: "const done = save.pipe(Effect.asVoid)\n",
			},
		},
	}
}

func checkGenWithoutYield(u *source.Unit) []*source.Node {
	var out []*source.Node
	for _, gen := range u.EffectGenerators() {
		yields := filter(gen.FindAll("yield_expression"), func(y *source.Node) bool {
			return source.EnclosingFunction(y) == gen
		})
		if len(yields) == 0 {
			out = append(out, gen)
		}
	}
	return out
}
