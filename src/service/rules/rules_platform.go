package rules

import (
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

// Node built-in modules with @effect/platform replacements
var (
	NodeFsModules           = []string{"fs", "node:fs", "fs/promises", "node:fs/promises"}
	NodePathModules         = []string{"path", "node:path", "path/posix", "node:path/posix"}
	NodeChildProcessModules = []string{"child_process", "node:child_process"}
)

func platformRules() []Rule {
	return []Rule{
		{
			RuleInfo: model.RuleInfo{
				ID:       "node-fs",
				Title:    "Node fs module import",
				Message:  "Direct fs imports tie the code to Node and cannot be swapped in tests. Use the FileSystem service from @effect/platform.",
				Severity: model.SeverityMedium,
				Category: model.CategoryPlatform,
				FixIDs:   []string{"replace-node-fs"},
			},
			Check: func(u *source.Unit) []*source.Node {
				return importsOf(u, NodeFsModules...)
			},
			Examples: Examples{
				Bad:  "import { readFile } from \"node:fs/promises\"\n\nexport const load = () => readFile(\"a.txt\")\n",
				Good: "import { FileSystem } from \"@effect/platform\"\n\nexport const load = Effect.gen(function* () {\n  const fs = yield* FileSystem.FileSystem\n  return yield* fs.readFileString(\"a.txt\")\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "node-path",
				Title:    "Node path module import",
				Message:  "Use the Path service from @effect/platform so path handling follows the platform layer in use.",
				Severity: model.SeverityLow,
				Category: model.CategoryPlatform,
				FixIDs:   []string{"replace-node-path"},
			},
			Check: func(u *source.Unit) []*source.Node {
				return importsOf(u, NodePathModules...)
			},
			Examples: Examples{
				Bad:  "import path from \"node:path\"\n\nexport const full = path.join(root, name)\n",
				Good: "import { Path } from \"@effect/platform\"\n\nexport const full = Effect.gen(function* () {\n  const path = yield* Path.Path\n  return path.join(root, name)\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "node-child-process",
				Title:    "Node child_process import",
				Message:  "Spawning processes through child_process is untyped and not interruptible. Use Command from @effect/platform.",
				Severity: model.SeverityMedium,
				Category: model.CategoryPlatform,
			},
			Check: func(u *source.Unit) []*source.Node {
				return importsOf(u, NodeChildProcessModules...)
			},
			Examples: Examples{
				Bad:  "import { exec } from \"node:child_process\"\n\nexec(\"ls\")\n",
				Good: "import { Command } from \"@effect/platform\"\n\nconst ls = Command.make(\"ls\")\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "fetch-in-effect",
				Title:    "fetch in Effect code",
				Message:  "Raw fetch returns untyped errors and ignores interruption. Use HttpClient from @effect/platform.",
				Severity: model.SeverityMedium,
				Category: model.CategoryPlatform,
			},
			Check: func(u *source.Unit) []*source.Node {
				if !u.UsesEffect() {
					return nil
				}
				return callsTo(u, "fetch", "globalThis.fetch", "window.fetch")
			},
			Examples: Examples{
				Bad:  "const program = Effect.tryPromise(() => fetch(\"/api/users\"))\n",
				Good: "const program = Effect.gen(function* () {\n  const client = yield* HttpClient.HttpClient\n  return yield* client.get(\"/api/users\")\n})\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "process-env-in-effect",
				Title:    "process.env in Effect code",
				Message:  "Reading process.env directly skips validation and cannot be overridden in tests. Use Config from effect.",
				Severity: model.SeverityMedium,
				Category: model.CategoryPlatform,
			},
			Check: func(u *source.Unit) []*source.Node {
				if !u.UsesEffect() {
					return nil
				}
				return members(u, "process", "env")
			},
			Examples: Examples{
				Bad:  "const port = Effect.sync(() => process.env.PORT)\n",
				Good: "const port = Effect.gen(function* () {\n  return yield* Config.integer(\"PORT\")\n})\n",
			},
		},
	}
}
