package rules

import (
	"strings"

	"pattern-analyzer/src/source"
)

func nodesOf(u *source.Unit, kinds ...string) []*source.Node {
	return u.Root.FindAll(kinds...)
}

func filter(nodes []*source.Node, keep func(*source.Node) bool) []*source.Node {
	var out []*source.Node
	for _, n := range nodes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// callsTo returns the call expressions whose callee is one of names
func callsTo(u *source.Unit, names ...string) []*source.Node {
	return filter(nodesOf(u, "call_expression"), func(n *source.Node) bool {
		return source.IsCallTo(n, names...)
	})
}

// effectCallsTo is callsTo restricted to calls inside an Effect generator
func effectCallsTo(u *source.Unit, names ...string) []*source.Node {
	return filter(callsTo(u, names...), u.InEffectGen)
}

// members returns member expressions object.property for any of the properties
func members(u *source.Unit, object string, properties ...string) []*source.Node {
	return filter(nodesOf(u, "member_expression"), func(n *source.Node) bool {
		for _, p := range properties {
			if source.IsMember(n, object, p) {
				return true
			}
		}
		return false
	})
}

// methodCalls returns calls of the form x.method(...) for any x
func methodCalls(u *source.Unit, method string) []*source.Node {
	return filter(nodesOf(u, "call_expression"), func(n *source.Node) bool {
		_, prop, ok := source.MemberName(source.Callee(n))
		return ok && prop == method
	})
}

func importsOf(u *source.Unit, modules ...string) []*source.Node {
	var out []*source.Node
	for _, imp := range u.ImportsModule(modules...) {
		out = append(out, imp.Node)
	}
	return out
}

// returnedExpression returns the expression an arrow function evaluates to:
// its expression body, or the argument of a block body's single return.
func returnedExpression(fn *source.Node) *source.Node {
	if fn == nil || fn.Kind != "arrow_function" {
		return nil
	}
	body := fn.ChildByField("body")
	if body == nil {
		return nil
	}
	if body.Kind != "statement_block" {
		return source.Unparen(body)
	}
	stmts := body.NamedChildren()
	if len(stmts) != 1 || stmts[0].Kind != "return_statement" {
		return nil
	}
	return source.Unparen(stmts[0].FirstNamedChild())
}

// isNothing reports whether n is undefined, null or void 0
func isNothing(n *source.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case "undefined", "null":
		return true
	case "identifier":
		return n.Text() == "undefined"
	case "unary_expression":
		return strings.HasPrefix(n.Text(), "void")
	}
	return false
}

func hasSuffixAny(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			return true
		}
	}
	return false
}
