package rules

import (
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

var builtinErrorClasses = map[string]bool{
	"Error":      true,
	"TypeError":  true,
	"RangeError": true,
}

func errorRules() []Rule {
	return []Rule{
		{
			RuleInfo: model.RuleInfo{
				ID:       "throw-in-effect",
				Title:    "throw inside Effect.gen",
				Message:  "Throwing inside an Effect generator turns an expected failure into a defect. Return yield* Effect.fail(error) so the error is tracked in the type.",
				Severity: model.SeverityHigh,
				Category: model.CategoryErrors,
				FixIDs:   []string{"replace-throw-with-fail"},
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(nodesOf(u, "throw_statement"), u.DirectlyInEffectGen)
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  const user = yield* getUser\n  if (!user) throw new Error(\"missing\")\n  return user\n})\n",
				Good: "const program = Effect.gen(function* () {\n  const user = yield* getUser\n  if (!user) return yield* Effect.fail(new UserNotFound())\n  return user\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "try-catch-in-effect",
				Title:    "try/catch inside Effect.gen",
				Message:  "try/catch does not see failures from yielded effects. Handle them with Effect.catchAll, Effect.catchTag or Effect.either.",
				Severity: model.SeverityMedium,
				Category: model.CategoryErrors,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(nodesOf(u, "try_statement"), u.DirectlyInEffectGen)
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  try {\n    yield* save\n  } catch (e) {\n    yield* Effect.logError(e)\n  }\n})\n",
				Good: "const program = save.pipe(\n  Effect.catchAll((e) => Effect.logError(e))\n)\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "generic-error-in-fail",
				Title:    "Effect.fail with a plain Error",
				Message:  "Failing with a plain Error loses the ability to discriminate failures. Define a tagged error with Data.TaggedError or Schema.TaggedError.",
				Severity: model.SeverityMedium,
				Category: model.CategoryErrors,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(callsTo(u, "Effect.fail"), func(n *source.Node) bool {
					args := source.Arguments(n)
					return len(args) > 0 && args[0].Kind == "new_expression" && builtinErrorClasses[source.CallName(args[0])]
				})
			},
			Examples: Examples{
				Bad:  "const fail = Effect.fail(new Error(\"boom\"))\n",
				Good: "const fail = Effect.fail(new UserNotFound({ id }))\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "string-error-in-fail",
				Title:    "Effect.fail with a string",
				Message:  "String errors cannot be matched by tag and carry no structure. Fail with a tagged error class instead.",
				Severity: model.SeverityMedium,
				Category: model.CategoryErrors,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(callsTo(u, "Effect.fail"), func(n *source.Node) bool {
					args := source.Arguments(n)
					if len(args) == 0 {
						return false
					}
					return args[0].Kind == "string" || args[0].Kind == "template_string"
				})
			},
			Examples: Examples{
				Bad:  "const fail = Effect.fail(\"user not found\")\n",
				Good: "const fail = Effect.fail(new UserNotFound({ id }))\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "catch-all-swallow",
				Title:    "Errors silently swallowed",
				Message:  "This handler discards every failure without logging or recovering a value. Log the error or handle specific tags with Effect.catchTag.",
				Severity: model.SeverityHigh,
				Category: model.CategoryErrors,
			},
			Check: checkCatchAllSwallow,
			Examples: Examples{
				Bad:  "const safe = load.pipe(Effect.catchAll(() => Effect.void))\n",
				Good: "const safe = load.pipe(Effect.catchAll((e) => Effect.logError(e)))\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "empty-catch-block",
				Title:    "Empty catch block",
				Message:  "An empty catch block hides failures. Handle the error, rethrow it, or leave a comment explaining why it is ignored.",
				Severity: model.SeverityMedium,
				Category: model.CategoryErrors,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(nodesOf(u, "catch_clause"), func(n *source.Node) bool {
					body := n.ChildByField("body")
					if body == nil {
						return false
					}
					for _, c := range body.Children {
						if c.Named {
							return false
						}
					}
					return true
				})
			},
			Examples: Examples{
				Bad:  "try {\n  run()\n} catch (e) {}\n",
				Good: "try {\n  run()\n} catch (e) {\n  report(e)\n}\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "or-die-usage",
				Title:    "Effect.orDie converts failures to defects",
				Message:  "orDie removes the error from the type and crashes the fiber instead. Prefer handling the error or mapping it to a domain error.",
				Severity: model.SeverityLow,
				Category: model.CategoryErrors,
			},
			Check: func(u *source.Unit) []*source.Node {
				return members(u, "Effect", "orDie", "orDieWith")
			},
			Examples: Examples{
				Bad:  "const user = getUser.pipe(Effect.orDie)\n",
				Good: "const user = getUser.pipe(Effect.catchTag(\"NotFound\", () => Effect.succeed(guest)))\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "error-class-without-tag",
				Title:    "Error subclass without a tag",
				Message:  "Subclasses of Error have no _tag, so Effect.catchTag cannot discriminate them. Extend Data.TaggedError instead.",
				Severity: model.SeverityMedium,
				Category: model.CategoryErrors,
			},
			Check: checkErrorClassWithoutTag,
			Examples: Examples{
				Bad:  "import { Effect } from \"effect\"\n\nexport class NotFound extends Error {}\n",
				Good: "import { Data } from \"effect\"\n\nexport class NotFound extends Data.TaggedError(\"NotFound\") {}\n",
			},
		},
	}
}

func checkCatchAllSwallow(u *source.Unit) []*source.Node {
	calls := callsTo(u, "Effect.catchAll", "Effect.catchAllCause", "Effect.orElse")
	return filter(calls, func(n *source.Node) bool {
		args := source.Arguments(n)
		if len(args) == 0 {
			return false
		}
		result := returnedExpression(args[len(args)-1])
		switch {
		case result == nil:
			return false
		case source.IsMember(result, "Effect", "void"), source.IsMember(result, "Effect", "unit"):
			return true
		case source.IsCallTo(result, "Effect.succeed"):
			inner := source.Arguments(result)
			return len(inner) == 0 || isNothing(inner[0])
		}
		return false
	})
}

func checkErrorClassWithoutTag(u *source.Unit) []*source.Node {
	if !u.UsesEffect() {
		return nil
	}
	var out []*source.Node
	for _, ext := range nodesOf(u, "extends_clause") {
		value := ext.ChildByField("value")
		if value == nil {
			value = ext.FirstNamedChild()
		}
		if value == nil || !builtinErrorClasses[source.Compact(value)] {
			continue
		}
		if class := ext.Ancestor("class_declaration", "class", "abstract_class_declaration"); class != nil {
			out = append(out, class)
		}
	}
	return out
}
