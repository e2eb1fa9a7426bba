package fix

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pattern-analyzer/src/model"
	"pattern-analyzer/src/service/rules"
	"pattern-analyzer/src/source"
)

func apply(t *testing.T, id, src string) string {
	t.Helper()
	f, ok := Default().Get(id)
	require.True(t, ok, "unknown fix %s", id)
	out, err := f.Apply("example.ts", src)
	require.NoError(t, err)
	return out
}

func TestRuleFixesExist(t *testing.T) {
	for _, r := range rules.Default().All() {
		for _, id := range r.FixIDs {
			_, ok := Default().Get(id)
			assert.True(t, ok, "rule %s references unknown fix %s", r.ID, id)
		}
	}
}

// nest wraps inner depth times using the format layout
func nest(layout, inner string, depth int) string {
	for i := 0; i < depth; i++ {
		inner = fmt.Sprintf(layout, inner)
	}
	return inner
}

func TestFixes(t *testing.T) {
	deepGen := "const p = Effect.gen(function* () {\n  const r = yield* %s\n  return r\n})\n"
	tests := []struct {
		fix    string
		before string
		after  string
	}{
		{
			fix:    "replace-node-fs",
			before: "import { readFile } from \"node:fs/promises\"\nimport { Effect } from \"effect\"\n\nexport const load = () => readFile(\"a.txt\")\n",
			after:  "import { FileSystem } from \"@effect/platform\"\nimport { Effect } from \"effect\"\n\nexport const load = () => readFile(\"a.txt\")\n",
		},
		{
			fix:    "replace-node-fs",
			before: "import * as fs from \"fs\"\nimport { FileSystem } from \"@effect/platform\"\nconst fsp = require(\"node:fs/promises\")\n",
			after:  "import { FileSystem } from \"@effect/platform\"\n",
		},
		{
			fix:    "replace-node-path",
			before: "import path from \"node:path\";\nimport { join } from \"path\";\nconst p = path.join(a, b)\n",
			after:  "import { Path } from \"@effect/platform\";\nconst p = path.join(a, b)\n",
		},
		{
			fix:    "replace-console-log",
			before: "Effect.gen(function* () { console.log(\"x\"); yield* f(); })",
			after:  "Effect.gen(function* () { yield* Effect.log(\"x\"); yield* f(); })",
		},
		{
			fix:    "replace-console-log",
			before: "const p = Effect.gen(function* () {\n  console.warn(\"a\", 1)\n  console.error(err)\n  console.table(rows)\n  const f = () => console.log(\"nested\")\n})\n",
			after:  "const p = Effect.gen(function* () {\n  yield* Effect.logWarning(\"a\", 1)\n  yield* Effect.logError(err)\n  console.table(rows)\n  const f = () => console.log(\"nested\")\n})\n",
		},
		{
			fix:    "replace-effect-unit",
			before: "const a = Effect.unit\nconst b = x.pipe(Effect.zipRight(Effect.unit))\n",
			after:  "const a = Effect.void\nconst b = x.pipe(Effect.zipRight(Effect.void))\n",
		},
		{
			fix:    "add-yield-star",
			before: "const p = Effect.gen(function* () {\n  const user = yield getUser(1)\n  return user\n})\n",
			after:  "const p = Effect.gen(function* () {\n  const user = yield* getUser(1)\n  return user\n})\n",
		},
		{
			fix:    "replace-throw-with-fail",
			before: "const p = Effect.gen(function* () {\n  if (!user) throw new NotFound();\n  return user\n})\n",
			after:  "const p = Effect.gen(function* () {\n  if (!user) return yield* Effect.fail(new NotFound());\n  return user\n})\n",
		},
		{
			fix:    "replace-promise-all",
			before: "const p = Effect.gen(function* () {\n  const users = yield* Effect.promise(() => Promise.all(ids.map(load)))\n  return users\n})\n",
			after:  "const p = Effect.gen(function* () {\n  const users = yield* Effect.all(ids.map(load))\n  return users\n})\n",
		},
		{
			fix:    "replace-promise-all",
			before: fmt.Sprintf(deepGen, nest("Effect.promise(() => Promise.all([%s]))", "a", 6)),
			after:  fmt.Sprintf(deepGen, nest("Effect.all([%s])", "a", 6)),
		},
		{
			fix:    "replace-promise-all",
			before: "const p = Effect.gen(function* () {\n  const r = yield* Effect.tryPromise(() => Promise.all([Promise.all(xs), b]))\n})\n",
			after:  "const p = Effect.gen(function* () {\n  const r = yield* Effect.all([Effect.all(xs), b])\n})\n",
		},
		{
			fix:    "limit-concurrency",
			before: "const all = Effect.forEach(ids, load, { concurrency: \"unbounded\" })\n",
			after:  "const all = Effect.forEach(ids, load, { concurrency: 10 })\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.fix, func(t *testing.T) {
			got := apply(t, tt.fix, tt.before)
			assert.Equal(t, tt.after, got)
			assert.Equal(t, got, apply(t, tt.fix, got), "fix should be idempotent")
		})
	}
}

func TestFixesLeaveUnrelatedCodeAlone(t *testing.T) {
	src := "export const add = (a: number, b: number) => a + b\n"
	for _, f := range Default().All() {
		t.Run(f.ID, func(t *testing.T) {
			assert.Equal(t, src, apply(t, f.ID, src))
		})
	}
}

func TestFixedExamplesNoLongerTrigger(t *testing.T) {
	for _, r := range rules.Default().All() {
		for _, id := range r.FixIDs {
			t.Run(r.ID+"/"+id, func(t *testing.T) {
				after := apply(t, id, r.Examples.Bad)
				assert.NotEqual(t, r.Examples.Bad, after)

				u, err := source.Parse(r.Examples.ExampleFilename(), after)
				require.NoError(t, err)
				findings, err := r.Evaluate(u)
				require.NoError(t, err)
				assert.Empty(t, findings)
			})
		}
	}
}

func TestApplyRecoversPanics(t *testing.T) {
	f := Fix{
		FixInfo: model.FixInfo{ID: "boom"},
		Rewrite: func(*source.Unit) []Edit { panic(errors.New("kaboom")) },
	}
	out, err := f.Apply("a.ts", "const a = 1")
	assert.Equal(t, "const a = 1", out)
	assert.ErrorContains(t, err, "kaboom")
}

func TestApplyStopsRewriteThatNeverSettles(t *testing.T) {
	f := Fix{
		FixInfo: model.FixInfo{ID: "grow"},
		Rewrite: func(*source.Unit) []Edit { return []Edit{Insert(0, ";")} },
	}
	out, err := f.Apply("a.ts", "const a = 1")
	assert.Equal(t, "const a = 1", out)
	assert.ErrorContains(t, err, "still changing")
}

func TestApplyEdits(t *testing.T) {
	src := "abcdef"
	assert.Equal(t, "aXcdef", ApplyEdits(src, []Edit{{Start: 1, End: 2, Text: "X"}}))
	assert.Equal(t, "Zab-cdef", ApplyEdits(src, []Edit{Insert(2, "-"), Insert(0, "Z")}))
	assert.Equal(t, "aXdef", ApplyEdits(src, []Edit{{Start: 1, End: 3, Text: "X"}, {Start: 2, End: 4, Text: "Y"}}), "overlap is skipped")
	assert.Equal(t, src, ApplyEdits(src, []Edit{{Start: 4, End: 10, Text: "oops"}}))
}

func TestDiff(t *testing.T) {
	d, err := Diff("a.ts", "one\ntwo\n", "one\nthree\n")
	require.NoError(t, err)
	assert.Contains(t, d, "--- a/a.ts")
	assert.Contains(t, d, "+++ b/a.ts")
	assert.Contains(t, d, "-two")
	assert.Contains(t, d, "+three")

	d, err = Diff("a.ts", "same", "same")
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestNewCatalogValidates(t *testing.T) {
	noop := func(*source.Unit) []Edit { return nil }
	_, err := NewCatalog([]Fix{{FixInfo: model.FixInfo{ID: "a"}, Rewrite: noop}, {FixInfo: model.FixInfo{ID: "a"}, Rewrite: noop}})
	assert.ErrorContains(t, err, "duplicate")
	_, err = NewCatalog([]Fix{{FixInfo: model.FixInfo{ID: "a"}}})
	assert.ErrorContains(t, err, "rewrite")
	assert.Len(t, Default().Infos(), len(Default().All()))
}
