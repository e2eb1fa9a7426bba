package rules

import (
	"fmt"
	"sort"

	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
	"pattern-analyzer/src/util"
)

// CheckFunc inspects one parsed file and returns the offending nodes
type CheckFunc func(u *source.Unit) []*source.Node

// Examples documents a violating and a safe code shape for a rule
type Examples struct {
	Filename string // defaults to example.ts
	Bad      string
	Good     string
}

// ExampleFilename returns the filename the examples should be analyzed under
func (e Examples) ExampleFilename() string {
	if e.Filename == "" {
		return "example.ts"
	}
	return e.Filename
}

// Rule is a named, stateless detector over one file's syntax tree
type Rule struct {
	model.RuleInfo

	// Paths restricts the rule to files matching these gitignore-style
	// patterns. Empty means the rule applies to every file.
	Paths    []string
	Examples Examples
	Check    CheckFunc

	paths *util.PathMatcher
}

// Info returns a copy of the rule's public metadata
func (r Rule) Info() model.RuleInfo {
	info := r.RuleInfo
	info.FixIDs = append([]string{}, r.FixIDs...)
	return info
}

// Applies reports whether the rule should run on the given file
func (r Rule) Applies(filename string) bool {
	if len(r.Paths) == 0 {
		return true
	}
	matcher := r.paths
	if matcher == nil {
		matcher = util.NewPathMatcher(r.Paths...)
	}
	return matcher.Matches(filename)
}

// Evaluate runs the rule over u. Findings are ordered by position. A panic
// inside the check is recovered and returned as an error with no findings.
func (r Rule) Evaluate(u *source.Unit) (findings []model.Finding, err error) {
	defer func() {
		if p := recover(); p != nil {
			findings = nil
			err = fmt.Errorf("rule %s: %v", r.ID, p)
		}
	}()

	if r.Check == nil {
		return nil, nil
	}
	nodes := r.Check(u)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Start != nodes[j].Start {
			return nodes[i].Start < nodes[j].Start
		}
		return nodes[i].End < nodes[j].End
	})

	seen := make(map[*source.Node]bool, len(nodes))
	for _, n := range nodes {
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		findings = append(findings, model.Finding{
			RuleID:   r.ID,
			Severity: r.Severity,
			Title:    r.Title,
			Message:  r.Message,
			Range:    u.Range(n),
		})
	}
	return findings, nil
}

// Infos converts rules into their public metadata
func Infos(rules []Rule) []model.RuleInfo {
	out := make([]model.RuleInfo, len(rules))
	for i, r := range rules {
		out[i] = r.Info()
	}
	return out
}
