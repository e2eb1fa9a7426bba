package consistency

import (
	"strings"

	"pattern-analyzer/src/service/rules"
	"pattern-analyzer/src/source"
)

// Signal is one concern that files should handle the same way
type Signal struct {
	Key       string
	Title     string
	Preferred string
	Extract   func(u *source.Unit) []string
}

// Signals are checked in this order
var Signals = []Signal{
	{
		Key:       "filesystem",
		Title:     "Mixed filesystem access",
		Preferred: "effect-platform",
		Extract: func(u *source.Unit) []string {
			return present(
				flag{"node-fs", len(u.ImportsModule(rules.NodeFsModules...)) > 0},
				flag{"effect-platform", importsName(u, "@effect/platform", "FileSystem") || hasMember(u, "FileSystem", "FileSystem")},
			)
		},
	},
	{
		Key:       "http-client",
		Title:     "Mixed HTTP clients",
		Preferred: "effect-platform",
		Extract: func(u *source.Unit) []string {
			return present(
				flag{"fetch", hasCall(u, "fetch", "globalThis.fetch", "window.fetch")},
				flag{"axios", len(u.ImportsModule("axios")) > 0},
				flag{"effect-platform", importsName(u, "@effect/platform", "HttpClient") || hasMember(u, "HttpClient", "HttpClient")},
			)
		},
	},
	{
		Key:       "logging",
		Title:     "Mixed logging styles",
		Preferred: "effect-log",
		Extract: func(u *source.Unit) []string {
			var console, effectLog bool
			for _, call := range u.Root.FindAll("call_expression") {
				object, method, ok := source.MemberName(source.Callee(call))
				if !ok {
					continue
				}
				switch {
				case object == "console":
					console = true
				case object == "Effect" && strings.HasPrefix(method, "log"):
					effectLog = true
				}
			}
			return present(flag{"console", console}, flag{"effect-log", effectLog})
		},
	},
	{
		Key:       "error-modeling",
		Title:     "Mixed error modeling",
		Preferred: "tagged-error",
		Extract: func(u *source.Unit) []string {
			var subclass, tagged bool
			for _, ext := range u.Root.FindAll("extends_clause") {
				value := ext.ChildByField("value")
				if value == nil {
					value = ext.FirstNamedChild()
				}
				if value == nil {
					continue
				}
				switch name := source.Compact(value); {
				case name == "Error":
					subclass = true
				case strings.Contains(name, "TaggedError("):
					tagged = true
				}
			}
			return present(flag{"error-subclass", subclass}, flag{"tagged-error", tagged})
		},
	},
	{
		Key:       "configuration",
		Title:     "Mixed configuration access",
		Preferred: "effect-config",
		Extract: func(u *source.Unit) []string {
			var env, cfg bool
			for _, m := range u.Root.FindAll("member_expression") {
				object, _, _ := source.MemberName(m)
				switch {
				case source.IsMember(m, "process", "env"):
					env = true
				case object == "Config":
					cfg = true
				}
			}
			return present(flag{"process-env", env}, flag{"effect-config", cfg})
		},
	},
	{
		Key:       "async-style",
		Title:     "Mixed async styles",
		Preferred: "effect-gen",
		Extract: func(u *source.Unit) []string {
			async := false
			u.Root.Walk(func(n *source.Node) bool {
				if source.IsAsync(n) {
					async = true
				}
				return !async
			})
			return present(flag{"async-await", async}, flag{"effect-gen", len(u.EffectGenerators()) > 0})
		},
	},
}

type flag struct {
	value string
	set   bool
}

// present returns the values whose flag is set
func present(flags ...flag) []string {
	var out []string
	for _, f := range flags {
		if f.set {
			out = append(out, f.value)
		}
	}
	return out
}

func importsName(u *source.Unit, module, name string) bool {
	for _, imp := range u.ImportsModule(module, module+"/"+name) {
		for _, n := range imp.Names {
			if n == name {
				return true
			}
		}
	}
	return false
}

func hasMember(u *source.Unit, object, property string) bool {
	for _, m := range u.Root.FindAll("member_expression") {
		if source.IsMember(m, object, property) {
			return true
		}
	}
	return false
}

func hasCall(u *source.Unit, names ...string) bool {
	for _, c := range u.Root.FindAll("call_expression") {
		if source.IsCallTo(c, names...) {
			return true
		}
	}
	return false
}
