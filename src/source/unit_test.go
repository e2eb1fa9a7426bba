package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pattern-analyzer/src/model"
)

func mustParse(t *testing.T, src string) *Unit {
	t.Helper()
	u, err := Parse("test.ts", src)
	require.NoError(t, err)
	return u
}

func TestParseBuildsTree(t *testing.T) {
	u := mustParse(t, "const x = 1;\n")

	assert.Equal(t, "program", u.Root.Kind)
	assert.Equal(t, "test.ts", u.Filename)
	decls := u.Root.FindAll("lexical_declaration")
	require.Len(t, decls, 1)
	assert.Equal(t, "const x = 1;", decls[0].Text())
	assert.True(t, decls[0].HasToken("const"))
	assert.Empty(t, u.SyntaxErrors())
}

func TestRangeIsOneBased(t *testing.T) {
	u := mustParse(t, "const a = 1;\nconsole.log(\"é\");\n")

	calls := u.Root.FindAll("call_expression")
	require.Len(t, calls, 1)
	assert.Equal(t, model.Range{StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 17}, u.Range(calls[0]))
}

func TestCallHelpers(t *testing.T) {
	u := mustParse(t, "Effect\n  .runPromise(program, 1);\n")

	calls := u.Root.FindAll("call_expression")
	require.Len(t, calls, 1)
	assert.Equal(t, "Effect.runPromise", CallName(calls[0]))
	assert.True(t, IsCallTo(calls[0], "Effect.runSync", "Effect.runPromise"))
	assert.Len(t, Arguments(calls[0]), 2)

	member := Callee(calls[0])
	obj, prop, ok := MemberName(member)
	require.True(t, ok)
	assert.Equal(t, "Effect", obj)
	assert.Equal(t, "runPromise", prop)
	assert.True(t, IsMember(member, "Effect", "runPromise"))
}

func TestImports(t *testing.T) {
	u := mustParse(t, `import { Effect, Layer as L } from "effect"
import * as fs from "node:fs/promises"
import path from "path"
const cp = require("child_process")
`)

	imports := u.Imports()
	require.Len(t, imports, 4)
	assert.Equal(t, "effect", imports[0].Module)
	assert.Equal(t, []string{"Effect", "L"}, imports[0].Names)
	assert.Equal(t, "node:fs/promises", imports[1].Module)
	assert.Equal(t, []string{"fs"}, imports[1].Names)
	assert.Equal(t, []string{"path"}, imports[2].Names)
	assert.Equal(t, "child_process", imports[3].Module)

	assert.Len(t, u.ImportsModule("fs", "node:fs/promises"), 1)
	assert.True(t, u.UsesEffect())
}

func TestUsesEffectWithoutImport(t *testing.T) {
	assert.True(t, mustParse(t, "const p = Effect.succeed(1)\n").UsesEffect())
	assert.False(t, mustParse(t, "const p = Promise.resolve(1)\n").UsesEffect())
}

func TestEffectGenerators(t *testing.T) {
	u := mustParse(t, `const a = Effect.gen(function* () {
  yield* f();
  const inner = () => console.log("nested");
});
const b = Effect.fn("b")(function* (n: number) {
  return n;
});
function* plain() { yield 1; }
`)

	gens := u.EffectGenerators()
	require.Len(t, gens, 2)

	yields := u.Root.FindAll("yield_expression")
	require.Len(t, yields, 2)
	assert.True(t, u.InEffectGen(yields[0]))
	assert.True(t, u.DirectlyInEffectGen(yields[0]))
	assert.False(t, u.InEffectGen(yields[1]))

	var logCall *Node
	for _, c := range u.Root.FindAll("call_expression") {
		if CallName(c) == "console.log" {
			logCall = c
		}
	}
	require.NotNil(t, logCall)
	assert.True(t, u.InEffectGen(logCall))
	assert.False(t, u.DirectlyInEffectGen(logCall))
	assert.Equal(t, gens[0], u.EffectGeneratorOf(logCall))
}

func TestSyntaxErrors(t *testing.T) {
	u := mustParse(t, "const = ;\nfunction (\n")
	assert.NotEmpty(t, u.SyntaxErrors())
}

func TestStringValue(t *testing.T) {
	u := mustParse(t, "f(\"a\", 'b', `c`, `d${e}`)\n")
	args := Arguments(u.Root.FindAll("call_expression")[0])
	require.Len(t, args, 4)

	for i, want := range []string{"a", "b", "c"} {
		got, ok := StringValue(args[i])
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := StringValue(args[3])
	assert.False(t, ok)
}

func TestIsAsync(t *testing.T) {
	u := mustParse(t, "async function a() {}\nconst b = async () => 1;\nfunction c() {}\n")

	var asyncCount int
	u.Root.Walk(func(n *Node) bool {
		if IsAsync(n) {
			asyncCount++
		}
		return true
	})
	assert.Equal(t, 2, asyncCount)
}
