package rules

import (
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

func dependencyRules() []Rule {
	return []Rule{
		{
			RuleInfo: model.RuleInfo{
				ID:       "context-tag-anti-pattern",
				Title:    "Context.Tag / GenericTag service definition",
				Message:  "Services declared with Context.Tag or Context.GenericTag need a hand-written layer. Effect.Service derives the tag and a default layer in one place.",
				Severity: model.SeverityMedium,
				Category: model.CategoryDependencyInjection,
			},
			Check: func(u *source.Unit) []*source.Node {
				return callsTo(u, "Context.GenericTag", "Context.Tag")
			},
			Examples: Examples{
				Bad:  "const UserRepo = Context.GenericTag<UserRepo>(\"UserRepo\")\n",
				Good: "class UserRepo extends Effect.Service<UserRepo>()(\"UserRepo\", {\n  effect: makeUserRepo\n}) {}\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "service-constructed-directly",
				Title:    "Service instantiated with new inside Effect.gen",
				Message:  "Constructing services inline hard-wires their dependencies and defeats testing with alternate layers. Access the service through its tag with yield*.",
				Severity: model.SeverityMedium,
				Category: model.CategoryDependencyInjection,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(nodesOf(u, "new_expression"), func(n *source.Node) bool {
					return u.InEffectGen(n) && hasSuffixAny(source.CallName(n), "Service", "Repository", "Repo", "Client")
				})
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  const repo = new UserRepository(db)\n  return yield* repo.findAll\n})\n",
				Good: "const program = Effect.gen(function* () {\n  const repo = yield* UserRepository\n  return yield* repo.findAll\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "provide-inside-generator",
				Title:    "Layer provided inside Effect.gen",
				Message:  "Providing layers deep inside program logic rebuilds them on every run and hides the dependency graph. Provide layers once at the edge of the program.",
				Severity: model.SeverityLow,
				Category: model.CategoryDependencyInjection,
			},
			Check: func(u *source.Unit) []*source.Node {
				return effectCallsTo(u, "Effect.provide", "Effect.provideService", "Effect.provideServiceEffect")
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  return yield* getUser.pipe(Effect.provide(UserRepo.Default))\n})\n",
				Good: "const program = Effect.gen(function* () {\n  return yield* getUser\n}).pipe(Effect.provide(UserRepo.Default))\n",
			},
		},
	}
}
