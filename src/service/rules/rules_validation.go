package rules

import (
	"strings"

	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

var syncDecoders = []string{
	"Schema.decodeSync", "Schema.decodeUnknownSync",
	"Schema.encodeSync", "Schema.encodeUnknownSync",
	"Schema.validateSync",
}

func validationRules() []Rule {
	return []Rule{
		{
			RuleInfo: model.RuleInfo{
				ID:       "unvalidated-request-body",
				Title:    "Request body used without validation",
				Message:  "The request body is parsed but never decoded against a schema. Decode it with Schema.decodeUnknown before use.",
				Severity: model.SeverityHigh,
				Category: model.CategoryValidation,
			},
			Paths: []string{"app/api/", "pages/api/"},
			Check: checkUnvalidatedRequestBody,
			Examples: Examples{
				Filename: "app/api/users/route.ts",
				Bad:      "export async function POST(request: Request) {\n  const body = await request.json()\n  return Response.json(body)\n}\n",
				Good:     "import { Schema } from \"effect\"\n\nexport async function POST(request: Request) {\n  const body = await Schema.decodeUnknownPromise(CreateUser)(await request.json())\n  return Response.json(body)\n}\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "json-parse-unvalidated",
				Title:    "JSON.parse result not validated",
				Message:  "JSON.parse returns an untyped value. Decode it with a Schema, for example Schema.parseJson, before trusting its shape.",
				Severity: model.SeverityMedium,
				Category: model.CategoryValidation,
			},
			Check: func(u *source.Unit) []*source.Node {
				return filter(callsTo(u, "JSON.parse"), func(n *source.Node) bool {
					return !isDecoderArgument(n)
				})
			},
			Examples: Examples{
				Bad:  "const user = JSON.parse(raw)\n",
				Good: "const user = Schema.decodeUnknownSync(User)(JSON.parse(raw))\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "schema-any",
				Title:    "Schema.Any used",
				Message:  "Schema.Any accepts every value and validates nothing. Describe the expected shape, or use Schema.Unknown to force callers to narrow it.",
				Severity: model.SeverityLow,
				Category: model.CategoryValidation,
			},
			Check: func(u *source.Unit) []*source.Node {
				return members(u, "Schema", "Any")
			},
			Examples: Examples{
				Bad:  "const Payload = Schema.Struct({ data: Schema.Any })\n",
				Good: "const Payload = Schema.Struct({ data: Schema.String })\n",
			},
		},
		{
			RuleInfo: model.RuleInfo{
				ID:       "sync-decode-in-effect",
				Title:    "Synchronous schema decode inside Effect.gen",
				Message:  "The *Sync decoders throw on invalid input, which becomes a defect inside an effect. Use Schema.decodeUnknown and yield* the result.",
				Severity: model.SeverityMedium,
				Category: model.CategoryValidation,
			},
			Check: func(u *source.Unit) []*source.Node {
				return effectCallsTo(u, syncDecoders...)
			},
			Examples: Examples{
				Bad:  "const program = Effect.gen(function* () {\n  const user = Schema.decodeUnknownSync(User)(input)\n  return user\n})\n",
				Good: "const program = Effect.gen(function* () {\n  const user = yield* Schema.decodeUnknown(User)(input)\n  return user\n})\n",
			},
		},
	}
}

func isDecoderCall(n *source.Node) bool {
	if n == nil || n.Kind != "call_expression" {
		return false
	}
	name := source.CallName(n)
	return strings.Contains(name, "Schema.decode") || strings.Contains(name, "Schema.validate") ||
		strings.HasSuffix(name, ".parse") && !strings.HasPrefix(name, "JSON.") ||
		strings.HasSuffix(name, ".safeParse")
}

// isDecoderArgument reports whether call n is passed straight to a decoder
func isDecoderArgument(n *source.Node) bool {
	args := n.Parent
	if args == nil || args.Kind != "arguments" {
		return false
	}
	return isDecoderCall(args.Parent)
}

func checkUnvalidatedRequestBody(u *source.Unit) []*source.Node {
	for _, call := range nodesOf(u, "call_expression") {
		if isDecoderCall(call) {
			return nil
		}
	}
	return filter(methodCalls(u, "json"), func(n *source.Node) bool {
		object, _, _ := source.MemberName(source.Callee(n))
		switch object {
		case "request", "req", "ctx.request", "c.req":
			return len(source.Arguments(n)) == 0
		}
		return false
	})
}
