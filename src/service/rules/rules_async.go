package rules

import (
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

func asyncRules() []Rule {
	return []Rule{
		{
			RuleInfo: model.RuleInfo{
				ID:       "async-await",
				Title:    "async/await in Effect code",
				Message:  "async functions escape the Effect runtime: errors become untyped rejections and interruption is lost. Use Effect.gen with yield* instead.",
				Severity: model.SeverityHigh,
				Category: model.CategoryAsync,
			},
			Check: checkAsyncAwait,
			Examples: Examples{
				Bad:  "import { Effect } from \"effect\"\n\nexport async function load() {\n  const res = await fetchData()\n  return res\n}\n",
				Good: "import { Effect } from \"effect\"\n\nexport const load = Effect.gen(function* () {\n  return yield* fetchData\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "effect-run-in-effect",
				Title:    "Effect.run* inside an Effect",
				Message:  "Running an effect from inside another effect detaches it from the current fiber, its context and its error channel. Compose it with yield* instead.",
				Severity: model.SeverityHigh,
				Category: model.CategoryAsync,
			},
			Check: func(u *source.Unit) []*source.Node {
				return effectCallsTo(u, "Effect.runPromise", "Effect.runSync", "Effect.runFork",
					"Effect.runPromiseExit", "Effect.runSyncExit", "Effect.runCallback")
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  const user = Effect.runSync(getUser)\n  return user\n})\n",
				Good: "const program = Effect.gen(function* () {\n  const user = yield* getUser\n  return user\n})\n\nEffect.runPromise(program)\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "missing-yield-star",
				Title:    "yield without * in Effect.gen",
				Message:  "A bare yield inside Effect.gen does not run the effect. Use yield* to execute it and get its result.",
				Severity: model.SeverityHigh,
				Category: model.CategoryAsync,
				FixIDs:   []string{"add-yield-star"},
			},
			Check: checkMissingYieldStar,
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  const user = yield getUser(1)\n  return user\n})\n",
				Good: "const program = Effect.gen(function* () {\n  const user = yield* getUser(1)\n  return user\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "then-in-effect",
				Title:    "Promise .then inside Effect.gen",
				Message:  "Chaining .then inside an Effect generator creates a promise the runtime never awaits. Wrap the promise with Effect.tryPromise and yield* it.",
				Severity: model.SeverityMedium,
				Category: model.CategoryAsync,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(methodCalls(u, "then"), u.InEffectGen)
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  fetchUser().then((u) => u.name)\n})\n",
				Good: "const program = Effect.gen(function* () {\n  const user = yield* Effect.tryPromise(() => fetchUser())\n  return user.name\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "new-promise-in-effect",
				Title:    "new Promise in Effect code",
				Message:  "Hand-built promises bypass interruption and typed errors. Use Effect.async or Effect.promise to bridge callback APIs.",
				Severity: model.SeverityMedium,
				Category: model.CategoryAsync,
			},
			Check: func(u *source.Unit) []*source.Node {
				if !u.UsesEffect() {
					return nil
				}
				return filter(nodesOf(u, "new_expression"), func(n *source.Node) bool {
					return source.CallName(n) == "Promise"
				})
			},
			Examples: Examples{
				Bad:  "import { Effect } from \"effect\"\n\nconst wait = new Promise((resolve) => resolve(1))\n",
				Good: "import { Effect } from \"effect\"\n\nconst wait = Effect.async<number>((resume) => resume(Effect.succeed(1)))\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "timer-in-effect",
				Title:    "setTimeout/setInterval inside Effect.gen",
				Message:  "Raw timers run outside the fiber and are never cleaned up on interruption. Use Effect.sleep or Effect.schedule.",
				Severity: model.SeverityLow,
				Category: model.CategoryAsync,
			},
			Check: func(u *source.Unit) []*source.Node {
				return effectCallsTo(u, "setTimeout", "setInterval", "globalThis.setTimeout", "globalThis.setInterval")
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  setTimeout(() => notify(), 1000)\n  yield* save\n})\n",
				Good: "const program = Effect.gen(function* () {\n  yield* Effect.sleep(\"1 second\")\n  yield* save\n})\n",
			},
		},
	}
}

func checkAsyncAwait(u *source.Unit) []*source.Node {
	if !u.UsesEffect() {
		return nil
	}
	var out []*source.Node
	u.Root.Walk(func(n *source.Node) bool {
		if source.IsAsync(n) && !isPromiseBridge(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// isPromiseBridge reports whether fn is the async thunk handed to
// Effect.promise or Effect.tryPromise, directly or as its try field.
func isPromiseBridge(fn *source.Node) bool {
	args := fn.Parent
	if args != nil && args.Kind == "pair" {
		key := args.ChildByField("key")
		if key == nil || key.Text() != "try" || args.Parent == nil || args.Parent.Kind != "object" {
			return false
		}
		args = args.Parent.Parent
	}
	if args == nil || args.Kind != "arguments" {
		return false
	}
	return source.IsCallTo(args.Parent, "Effect.promise", "Effect.tryPromise")
}

func checkMissingYieldStar(u *source.Unit) []*source.Node {
	return filter(nodesOf(u, "yield_expression"), func(n *source.Node) bool {
		return !n.HasToken("*") && n.FirstNamedChild() != nil && u.DirectlyInEffectGen(n)
	})
}
