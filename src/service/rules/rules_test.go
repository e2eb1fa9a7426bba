package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pattern-analyzer/src/config"
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

func parse(t *testing.T, filename, src string) *source.Unit {
	t.Helper()
	u, err := source.Parse(filename, src)
	require.NoError(t, err)
	return u
}

func findingsFor(t *testing.T, r Rule, filename, src string) []model.Finding {
	t.Helper()
	u := parse(t, filename, src)
	if !r.Applies(u.Filename) {
		return nil
	}
	findings, err := r.Evaluate(u)
	require.NoError(t, err)
	return findings
}

func TestCatalogExamples(t *testing.T) {
	for _, r := range Default().All() {
		t.Run(r.ID, func(t *testing.T) {
			require.NotEmpty(t, r.Examples.Bad, "rule needs a violating example")
			require.NotEmpty(t, r.Examples.Good, "rule needs a safe example")

			bad := findingsFor(t, r, r.Examples.ExampleFilename(), r.Examples.Bad)
			assert.NotEmpty(t, bad, "violating example should trigger")
			for _, f := range bad {
				assert.Equal(t, r.ID, f.RuleID)
				assert.Equal(t, r.Severity, f.Severity)
				assert.GreaterOrEqual(t, f.Range.StartLine, 1)
				assert.GreaterOrEqual(t, f.Range.StartCol, 1)
			}

			good := findingsFor(t, r, r.Examples.ExampleFilename(), r.Examples.Good)
			assert.Empty(t, good, "safe example should not trigger")
		})
	}
}

func TestCatalogShape(t *testing.T) {
	all := Default().All()
	assert.GreaterOrEqual(t, len(all), 40)
	assert.LessOrEqual(t, len(all), 60)

	seen := map[model.Category]bool{}
	for _, r := range all {
		seen[r.Category] = true
		assert.NotEmpty(t, r.Title, r.ID)
		assert.NotEmpty(t, r.Message, r.ID)
		assert.NotNil(t, r.Info().FixIDs, r.ID)
	}
	for _, cat := range []model.Category{
		model.CategoryAsync, model.CategoryErrors, model.CategoryConcurrency,
		model.CategoryPlatform, model.CategoryTypes, model.CategoryStyle,
	} {
		assert.True(t, seen[cat], "missing category %s", cat)
	}

	r, ok := Default().Get("node-fs")
	require.True(t, ok)
	assert.Equal(t, []string{"replace-node-fs"}, r.FixIDs)
}

func TestSpecificScenarios(t *testing.T) {
	console, _ := Default().Get("console-log-in-effect")
	assert.Len(t, findingsFor(t, console, "a.ts", `Effect.gen(function* () { console.log("x"); yield* f(); })`), 1)
	assert.Empty(t, findingsFor(t, console, "a.ts", `Effect.gen(function* () { yield* Effect.log("x"); yield* f(); })`))

	anyType, _ := Default().Get("any-type")
	findings := findingsFor(t, anyType, "a.ts", "const x: any = yield* f();")
	require.Len(t, findings, 1)
	assert.Equal(t, model.Range{StartLine: 1, StartCol: 10, EndLine: 1, EndCol: 13}, findings[0].Range)
	assert.Empty(t, findingsFor(t, anyType, "a.ts", "const x = yield* f();"))
}

func TestConsoleOutsideEffectIsIgnored(t *testing.T) {
	console, _ := Default().Get("console-log-in-effect")
	assert.Empty(t, findingsFor(t, console, "a.ts", "function main() {\n  console.log(\"hi\")\n}\n"))
}

func TestPathConditionedRule(t *testing.T) {
	r, ok := Default().Get("unvalidated-request-body")
	require.True(t, ok)

	assert.True(t, r.Applies("app/api/users/route.ts"))
	assert.True(t, r.Applies("src/pages/api/login.ts"))
	assert.False(t, r.Applies("src/lib/users.ts"))
	assert.Empty(t, findingsFor(t, r, "src/lib/users.ts", r.Examples.Bad))
}

func TestListAppliesConfig(t *testing.T) {
	c := Default()

	all := c.List(nil)
	assert.Len(t, all, c.Len())

	off := c.List(config.RuleConfig{"async-await": {Level: config.LevelOff}})
	assert.Len(t, off, c.Len()-1)
	for _, r := range off {
		assert.NotEqual(t, "async-await", r.ID)
	}

	overridden := c.List(config.RuleConfig{"node-fs": {Level: config.LevelError, Severity: model.SeverityHigh}})
	require.Len(t, overridden, c.Len())
	for _, r := range overridden {
		if r.ID == "node-fs" {
			assert.Equal(t, model.SeverityHigh, r.Severity)
		}
	}

	// the catalog itself is untouched
	original, _ := c.Get("node-fs")
	assert.Equal(t, model.SeverityMedium, original.Severity)

	unknown := c.List(config.RuleConfig{"no-such-rule": {Level: config.LevelOff}})
	assert.Len(t, unknown, c.Len())
}

func TestListPreservesOrder(t *testing.T) {
	c := Default()
	ids := func(rs []Rule) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}
	assert.Equal(t, ids(c.All()), ids(c.List(config.RuleConfig{})))
	assert.Equal(t, "async-await", c.All()[0].ID)
}

func TestByCategory(t *testing.T) {
	types := ByCategory(Default().All(), model.CategoryTypes)
	require.NotEmpty(t, types)
	for _, r := range types {
		assert.Equal(t, model.CategoryTypes, r.Category)
	}
}

func TestNewCatalogValidates(t *testing.T) {
	check := func(*source.Unit) []*source.Node { return nil }
	info := model.RuleInfo{ID: "x", Title: "x", Severity: model.SeverityLow, Category: model.CategoryStyle}

	_, err := NewCatalog([]Rule{{RuleInfo: info, Check: check}, {RuleInfo: info, Check: check}})
	assert.ErrorContains(t, err, "duplicate")

	bad := info
	bad.Category = "misc"
	_, err = NewCatalog([]Rule{{RuleInfo: bad, Check: check}})
	assert.ErrorContains(t, err, "category")

	_, err = NewCatalog([]Rule{{RuleInfo: info}})
	assert.ErrorContains(t, err, "check")
}

func TestEvaluateRecoversPanics(t *testing.T) {
	r := Rule{
		RuleInfo: model.RuleInfo{ID: "boom", Severity: model.SeverityLow, Category: model.CategoryStyle},
		Check: func(*source.Unit) []*source.Node {
			panic(errors.New("kaboom"))
		},
	}
	findings, err := r.Evaluate(parse(t, "a.ts", "const a = 1"))
	assert.Nil(t, findings)
	assert.ErrorContains(t, err, "boom")
	assert.ErrorContains(t, err, "kaboom")
}

func TestEvaluateOrdersAndDedupes(t *testing.T) {
	u := parse(t, "a.ts", "const a: any = 1\nconst b: any = 2\n")
	anys := u.Root.FindAll("predefined_type")
	require.Len(t, anys, 2)

	r := Rule{
		RuleInfo: model.RuleInfo{ID: "dup", Severity: model.SeverityLow, Category: model.CategoryTypes},
		Check: func(*source.Unit) []*source.Node {
			return []*source.Node{anys[1], anys[0], anys[1]}
		},
	}
	findings, err := r.Evaluate(u)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, 1, findings[0].Range.StartLine)
	assert.Equal(t, 2, findings[1].Range.StartLine)
}

func TestRuleSpecifics(t *testing.T) {
	tests := []struct {
		rule    string
		src     string
		matches int
	}{
		{"async-await", "import { Effect } from \"effect\"\nconst a = Effect.tryPromise(async () => load())\nconst b = Effect.promise(async () => load())\nconst c = Effect.tryPromise({ try: async () => load(), catch: (e) => new LoadError(e) })\n", 0},
		{"async-await", "import { Effect } from \"effect\"\nconst a = Effect.tryPromise(() => run(async () => load()))\nconst b = Effect.tryPromise({ catch: async () => load(), try: () => load() })\n", 2},
		{"throw-in-effect", "const p = Effect.gen(function* () {\n  yield* Effect.try(() => { throw new Error(\"x\") })\n})\n", 0},
		{"missing-yield-star", "function* plain() {\n  yield 1\n}\n", 0},
		{"catch-all-swallow", "const s = load.pipe(Effect.catchAll(() => { return Effect.succeed(undefined) }))\n", 1},
		{"empty-catch-block", "try {\n  run()\n} catch (e) {\n  // ignored on purpose\n}\n", 0},
		{"mutable-module-state", "import { Effect } from \"effect\"\nexport let cache = new Map()\nvar hits = 0\n", 2},
		{"mutable-module-state", "let counter = 0\n", 0},
		{"ref-get-then-set", "const p = Effect.gen(function* () {\n  yield* Ref.set(a, 1)\n  const n = yield* Ref.get(a)\n})\n", 0},
		{"fork-without-join", "const p = Effect.gen(function* () {\n  yield* heartbeat.pipe(Effect.fork)\n})\n", 1},
		{"unbounded-parallelism", "Effect.all(xs, { \"concurrency\": `unbounded` })\n", 1},
		{"node-fs", "const fs = require(\"fs\")\n", 1},
		{"process-env-in-effect", "const port = process.env.PORT\n", 0},
		{"ts-ignore", "/* @ts-nocheck */\n", 1},
		{"double-cast", "const a = b as User\n", 0},
		{"effect-gen-without-yield", "const p = Effect.gen(function* () {\n  const f = function* () { yield* x }\n  return f\n})\n", 1},
		{"polling-loop", "const p = Effect.gen(function* () {\n  for (;;) {\n    yield* Effect.sleep(\"1 second\")\n  }\n})\n", 1},
		{"json-parse-unvalidated", "const v = Schema.decodeUnknownSync(Schema.parseJson(User))(raw)\nconst w = JSON.parse(raw)\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			r, ok := Default().Get(tt.rule)
			require.True(t, ok)
			assert.Len(t, findingsFor(t, r, "example.ts", tt.src), tt.matches)
		})
	}
}
