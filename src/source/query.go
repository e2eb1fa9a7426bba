package source

import (
	"strings"
	"unicode"
)

var functionKinds = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"function":                       true,
	"arrow_function":                 true,
	"method_definition":              true,
	"generator_function":             true,
	"generator_function_declaration": true,
}

// IsFunction reports whether n is any kind of function or method
func IsFunction(n *Node) bool {
	return n != nil && functionKinds[n.Kind]
}

// IsAsync reports whether the function n carries the async modifier
func IsAsync(n *Node) bool {
	return IsFunction(n) && n.HasToken("async")
}

// EnclosingFunction returns the nearest function that contains n
func EnclosingFunction(n *Node) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if functionKinds[p.Kind] {
			return p
		}
	}
	return nil
}

// Compact returns the text of n with all whitespace removed, so that
// `Effect\n  .gen` and `Effect.gen` compare equal.
func Compact(n *Node) string {
	text := n.Text()
	if !strings.ContainsFunc(text, unicode.IsSpace) {
		return text
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// Callee returns the called expression of a call or new expression
func Callee(n *Node) *Node {
	switch n.Kind {
	case "call_expression":
		return n.ChildByField("function")
	case "new_expression":
		return n.ChildByField("constructor")
	}
	return nil
}

// CallName returns the compacted callee text of a call or new expression
func CallName(n *Node) string {
	callee := Callee(n)
	if callee == nil {
		return ""
	}
	return Compact(callee)
}

// IsCallTo reports whether n is a call expression whose callee is one of names
func IsCallTo(n *Node, names ...string) bool {
	if n == nil || n.Kind != "call_expression" {
		return false
	}
	name := CallName(n)
	for _, candidate := range names {
		if name == candidate {
			return true
		}
	}
	return false
}

// Arguments returns the argument expressions of a call or new expression
func Arguments(n *Node) []*Node {
	args := n.ChildByField("arguments")
	if args == nil || args.Kind != "arguments" {
		return nil
	}
	return args.NamedChildren()
}

// MemberName splits a member expression into its object text and property name
func MemberName(n *Node) (object, property string, ok bool) {
	if n == nil || n.Kind != "member_expression" {
		return "", "", false
	}
	obj := n.ChildByField("object")
	prop := n.ChildByField("property")
	if obj == nil || prop == nil {
		return "", "", false
	}
	return Compact(obj), prop.Text(), true
}

// IsMember reports whether n is the member expression object.property
func IsMember(n *Node, object, property string) bool {
	o, p, ok := MemberName(n)
	return ok && o == object && p == property
}

// StringValue returns the value of a string literal, or of a template
// literal without substitutions.
func StringValue(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case "string":
		text := n.Text()
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
	case "template_string":
		if len(n.FindAll("template_substitution")) > 0 {
			return "", false
		}
		text := n.Text()
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
	}
	return "", false
}

// Unparen strips any parentheses around an expression
func Unparen(n *Node) *Node {
	for n != nil && n.Kind == "parenthesized_expression" {
		n = n.FirstNamedChild()
	}
	return n
}
