package rules

import (
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

var syncFsFunctions = map[string]bool{
	"readFileSync":   true,
	"writeFileSync":  true,
	"appendFileSync": true,
	"existsSync":     true,
	"mkdirSync":      true,
	"readdirSync":    true,
	"rmSync":         true,
	"unlinkSync":     true,
	"statSync":       true,
	"copyFileSync":   true,
	"renameSync":     true,
}

func resourceRules() []Rule {
	return []Rule{
		{
			RuleInfo: model.RuleInfo{
				ID:       "sync-fs-call",
				Title:    "Blocking filesystem call",
				Message:  "Synchronous filesystem calls block the event loop and every fiber on it. Use the FileSystem service from @effect/platform.",
				Severity: model.SeverityHigh,
				Category: model.CategoryResources,
			},
			Check: checkSyncFsCall,
			Examples: Examples{
				Bad:  "import { readFileSync } from \"node:fs\"\n\nconst text = readFileSync(\"a.txt\", \"utf8\")\n",
				Good: "const program = Effect.gen(function* () {\n  const fs = yield* FileSystem.FileSystem\n  return yield* fs.readFileString(\"a.txt\")\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "acquire-without-scope",
				Title:    "acquireRelease without a scope",
				Message:  "Resources from Effect.acquireRelease are only released when their Scope closes. Provide one with Effect.scoped or Layer.scoped.",
				Severity: model.SeverityMedium,
				Category: model.CategoryResources,
			},
			Check: func(u *source.Unit) []*source.Node {
				if len(members(u, "Effect", "scoped", "scopedWith")) > 0 || len(members(u, "Layer", "scoped", "scopedDiscard")) > 0 {
					return nil
				}
				return callsTo(u, "Effect.acquireRelease", "Effect.acquireUseRelease")
			},
			Examples: Examples{
				Bad:  "const conn = Effect.acquireRelease(open, (c) => close(c))\nconst program = Effect.gen(function* () {\n  const c = yield* conn\n  return c\n})\n",
				Good: "const conn = Effect.acquireRelease(open, (c) => close(c))\nconst program = Effect.gen(function* () {\n  const c = yield* conn\n  return c\n}).pipe(Effect.scoped)\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "manual-close-in-effect",
				Title:    "Manual close inside Effect.gen",
				Message:  "Closing a resource by hand is skipped when the fiber fails or is interrupted. Acquire it with Effect.acquireRelease so release always runs.",
				Severity: model.SeverityLow,
				Category: model.CategoryResources,
			},
			Check: func(u *source.Unit) []*source.Node {
				var out []*source.Node
				for _, method := range []string{"close", "end", "destroy"} {
					out = append(out, filter(methodCalls(u, method), u.DirectlyInEffectGen)...)
				}
				return out
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  const conn = yield* connect\n  conn.close()\n})\n",
				Good: "const program = Effect.gen(function* () {\n  const conn = yield* Effect.acquireRelease(connect, (c) => Effect.sync(() => c.close()))\n  return conn\n}).pipe(Effect.scoped)\n",
			},
		},
	}
}

func checkSyncFsCall(u *source.Unit) []*source.Node {
	return filter(nodesOf(u, "call_expression"), func(n *source.Node) bool {
		callee := source.Callee(n)
		if callee == nil {
			return false
		}
		switch callee.Kind {
		case "identifier":
			return syncFsFunctions[callee.Text()]
		case "member_expression":
			_, prop, _ := source.MemberName(callee)
			return syncFsFunctions[prop]
		}
		return false
	})
}
