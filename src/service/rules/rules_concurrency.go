package rules

import (
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

func concurrencyRules() []Rule {
	return []Rule{
		{
			RuleInfo: model.RuleInfo{
				ID:       "promise-all-in-effect",
				Title:    "Promise.all inside Effect.gen",
				Message:  "Promise.all cannot interrupt the remaining promises when one fails and has no concurrency limit. Use Effect.all or Effect.forEach.",
				Severity: model.SeverityHigh,
				Category: model.CategoryConcurrency,
				FixIDs:   []string{"replace-promise-all"},
			},
			Check: func(u *source.Unit) []*source.Node {
				return effectCallsTo(u, "Promise.all", "Promise.allSettled", "Promise.race", "Promise.any")
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  const users = yield* Effect.promise(() => Promise.all(ids.map(load)))\n  return users\n})\n",
				Good: "const program = Effect.gen(function* () {\n  const users = yield* Effect.all(ids.map(loadEffect), { concurrency: 5 })\n  return users\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "unbounded-parallelism",
				Title:    "Unbounded concurrency",
				Message:  "concurrency: \"unbounded\" starts one fiber per element with no limit. Pick a bound that the downstream system can handle.",
				Severity: model.SeverityHigh,
				Category: model.CategoryConcurrency,
				FixIDs:   []string{"limit-concurrency"},
			},
			Check: UnboundedConcurrency,
			Examples: Examples{
				Bad:  "const all = Effect.forEach(ids, load, { concurrency: \"unbounded\" })\n",
				Good: "const all = Effect.forEach(ids, load, { concurrency: 10 })\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "fork-without-join",
				Title:    "Forked fiber discarded",
				Message:  "The fiber returned by Effect.fork is thrown away, so its failures are never observed. Keep the fiber and join or interrupt it, or use Effect.forkScoped.",
				Severity: model.SeverityMedium,
				Category: model.CategoryConcurrency,
			},
			Check: checkForkWithoutJoin,
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  yield* Effect.fork(heartbeat)\n  yield* work\n})\n",
				Good: "const program = Effect.gen(function* () {\n  const fiber = yield* Effect.fork(heartbeat)\n  yield* work\n  yield* Fiber.join(fiber)\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "mutable-module-state",
				Title:    "Mutable module-level state",
				Message:  "Module-level let/var bindings are shared by every fiber without synchronization. Hold shared state in a Ref or a service.",
				Severity: model.SeverityMedium,
				Category: model.CategoryConcurrency,
			},
			Check: checkMutableModuleState,
			Examples: Examples{
				Bad:  "import { Effect } from \"effect\"\n\nlet counter = 0\n\nexport const increment = Effect.sync(() => counter++)\n",
				Good: "import { Effect, Ref } from \"effect\"\n\nexport const makeCounter = Ref.make(0)\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "ref-get-then-set",
				Title:    "Ref.get followed by Ref.set",
				Message:  "Reading a Ref and writing it back in two steps races with other fibers. Use Ref.update or Ref.modify.",
				Severity: model.SeverityMedium,
				Category: model.CategoryConcurrency,
			},
			Check: checkRefGetThenSet,
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  const n = yield* Ref.get(counter)\n  yield* Ref.set(counter, n + 1)\n})\n",
				Good: "const program = Effect.gen(function* () {\n  yield* Ref.update(counter, (n) => n + 1)\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "polling-loop",
				Title:    "Hand-written polling loop",
				Message:  "An infinite loop around Effect.sleep reimplements scheduling. Use Effect.repeat with a Schedule.",
				Severity: model.SeverityLow,
				Category: model.CategoryConcurrency,
			},
			Check: checkPollingLoop,
			Examples: Examples{
				Bad:  "const poll = Effect.gen(function* () {\n  while (true) {\n    yield* check\n    yield* Effect.sleep(\"5 seconds\")\n  }\n})\n",
				Good: "const poll = check.pipe(Effect.repeat(Schedule.spaced(\"5 seconds\")))\n",
			},
		},
	}
}

// UnboundedConcurrency returns object properties `concurrency: "unbounded"`
func UnboundedConcurrency(u *source.Unit) []*source.Node {
	return filter(nodesOf(u, "pair"), func(n *source.Node) bool {
		key := n.ChildByField("key")
		if key == nil {
			return false
		}
		name := key.Text()
		if s, ok := source.StringValue(key); ok {
			name = s
		}
		value, ok := source.StringValue(n.ChildByField("value"))
		return name == "concurrency" && ok && value == "unbounded"
	})
}

func isForkCall(n *source.Node) bool {
	if source.IsCallTo(n, "Effect.fork", "Effect.forkDaemon") {
		return true
	}
	_, prop, ok := source.MemberName(source.Callee(n))
	if !ok || prop != "pipe" {
		return false
	}
	args := source.Arguments(n)
	if len(args) == 0 {
		return false
	}
	last := args[len(args)-1]
	return source.IsMember(last, "Effect", "fork") || source.IsMember(last, "Effect", "forkDaemon")
}

func checkForkWithoutJoin(u *source.Unit) []*source.Node {
	return filter(nodesOf(u, "expression_statement"), func(n *source.Node) bool {
		expr := source.Unparen(n.FirstNamedChild())
		if expr != nil && expr.Kind == "yield_expression" {
			expr = source.Unparen(expr.FirstNamedChild())
		}
		return expr != nil && isForkCall(expr)
	})
}

func checkMutableModuleState(u *source.Unit) []*source.Node {
	if !u.UsesEffect() {
		return nil
	}
	var out []*source.Node
	for _, stmt := range u.Root.NamedChildren() {
		decl := stmt
		if stmt.Kind == "export_statement" {
			decl = stmt.ChildByField("declaration")
		}
		if decl == nil {
			continue
		}
		switch {
		case decl.Kind == "variable_declaration":
			out = append(out, decl)
		case decl.Kind == "lexical_declaration" && decl.HasToken("let"):
			out = append(out, decl)
		}
	}
	return out
}

func checkRefGetThenSet(u *source.Unit) []*source.Node {
	type key struct {
		gen *source.Node
		ref string
	}
	firstGet := make(map[key]int)
	for _, get := range effectCallsTo(u, "Ref.get") {
		args := source.Arguments(get)
		if len(args) == 0 {
			continue
		}
		k := key{u.EffectGeneratorOf(get), source.Compact(args[0])}
		if _, seen := firstGet[k]; !seen {
			firstGet[k] = get.Start
		}
	}
	return filter(effectCallsTo(u, "Ref.set"), func(set *source.Node) bool {
		args := source.Arguments(set)
		if len(args) == 0 {
			return false
		}
		start, ok := firstGet[key{u.EffectGeneratorOf(set), source.Compact(args[0])}]
		return ok && start < set.Start
	})
}

func checkPollingLoop(u *source.Unit) []*source.Node {
	return filter(nodesOf(u, "while_statement", "for_statement"), func(n *source.Node) bool {
		cond := n.ChildByField("condition")
		infinite := false
		switch n.Kind {
		case "while_statement":
			cond = source.Unparen(cond)
			infinite = cond != nil && cond.Kind == "true"
		case "for_statement":
			infinite = cond == nil || cond.Kind == "empty_statement" || cond.Text() == ";"
		}
		if !infinite {
			return false
		}
		for _, call := range n.FindAll("call_expression") {
			if source.IsCallTo(call, "Effect.sleep") {
				return true
			}
		}
		return false
	})
}
