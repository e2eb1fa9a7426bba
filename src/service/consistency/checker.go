package consistency

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
	"pattern-analyzer/src/util"
)

// Checker compares per-file signals across a set of files
type Checker struct {
	signals     []Signal
	maxParallel int
}

// NewChecker creates a checker over the built-in signals
func NewChecker(maxParallel int) *Checker {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &Checker{signals: Signals, maxParallel: maxParallel}
}

// fileSignals maps a signal key to the values one file exhibits
type fileSignals map[string][]string

// Check extracts signals from every file and reports each signal that has
// more than one distinct value across the set. Results follow the signal
// order; values and files follow input order.
func (c *Checker) Check(ctx context.Context, files []model.SourceFile) ([]model.ConsistencyIssue, error) {
	perFile := make([]fileSignals, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxParallel)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u, err := source.Parse(f.Filename, f.Source)
			if err != nil {
				return fmt.Errorf("parse %s: %w", f.Filename, err)
			}
			signals := make(fileSignals, len(c.signals))
			for _, s := range c.signals {
				signals[s.Key] = s.Extract(u)
			}
			perFile[i] = signals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	issues := []model.ConsistencyIssue{}
	for _, s := range c.signals {
		if issue, ok := c.compare(s, files, perFile); ok {
			issues = append(issues, issue)
		}
	}
	util.Debug("Consistency check over %d files found %d issues", len(files), len(issues))
	return issues, nil
}

func (c *Checker) compare(s Signal, files []model.SourceFile, perFile []fileSignals) (model.ConsistencyIssue, bool) {
	var values []model.ConsistencyValue
	index := map[string]int{}
	involved := map[string]bool{}

	for i, f := range files {
		for _, v := range perFile[i][s.Key] {
			idx, ok := index[v]
			if !ok {
				idx = len(values)
				index[v] = idx
				values = append(values, model.ConsistencyValue{Value: v})
			}
			if !slices.Contains(values[idx].Files, f.Filename) {
				values[idx].Files = append(values[idx].Files, f.Filename)
			}
			involved[f.Filename] = true
		}
	}
	if len(values) < 2 {
		return model.ConsistencyIssue{}, false
	}

	filenames := make([]string, 0, len(involved))
	for _, f := range files {
		if involved[f.Filename] && !slices.Contains(filenames, f.Filename) {
			filenames = append(filenames, f.Filename)
		}
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%s (%d %s)", v.Value, len(v.Files), plural(len(v.Files), "file", "files"))
	}
	message := fmt.Sprintf("Files handle %s in %d different ways: %s.", s.Key, len(values), strings.Join(parts, ", "))
	if _, ok := index[s.Preferred]; ok {
		message += fmt.Sprintf(" Standardize on %s.", s.Preferred)
	}

	return model.ConsistencyIssue{
		IssueID:  "inconsistent-" + s.Key,
		Title:    s.Title,
		Message:  message,
		Severity: model.SeverityMedium,
		Files:    filenames,
		Values:   values,
	}, true
}

// Keys returns the signal keys in check order
func (c *Checker) Keys() []string {
	keys := make([]string, len(c.signals))
	for i, s := range c.signals {
		keys[i] = s.Key
	}
	return keys
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
