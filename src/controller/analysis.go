package controller

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pattern-analyzer/src/config"
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/service/consistency"
	"pattern-analyzer/src/service/fix"
	"pattern-analyzer/src/service/rules"
	"pattern-analyzer/src/source"
	"pattern-analyzer/src/util"
)

// Analysis types accepted by Analyze
const (
	AnalysisAll        = "all"
	AnalysisValidation = "validation"
	AnalysisPatterns   = "patterns"
	AnalysisErrors     = "errors"
)

// ParseErrorRuleID identifies the synthetic finding for unparsable source
const ParseErrorRuleID = "parse-error"

// AnalysisController runs rules, fixes and consistency checks over caller-supplied sources
type AnalysisController struct {
	cfg     *config.Config
	rules   *rules.Catalog
	fixes   *fix.Catalog
	checker *consistency.Checker
	now     func() time.Time
}

// Option customizes an AnalysisController
type Option func(*AnalysisController)

// WithRules replaces the built-in rule catalog
func WithRules(c *rules.Catalog) Option {
	return func(a *AnalysisController) { a.rules = c }
}

// WithFixes replaces the built-in fix catalog
func WithFixes(c *fix.Catalog) Option {
	return func(a *AnalysisController) { a.fixes = c }
}

// WithClock sets the clock used for report timestamps
func WithClock(now func() time.Time) Option {
	return func(a *AnalysisController) { a.now = now }
}

// NewAnalysisController creates a new analysis controller. A nil cfg uses the
// defaults. The clock defaults to time.Now, so analyzedAt differs between
// calls; pass WithClock for byte-identical reports.
func NewAnalysisController(cfg *config.Config, opts ...Option) *AnalysisController {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &AnalysisController{
		cfg:   cfg,
		rules: rules.Default(),
		fixes: fix.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.checker = consistency.NewChecker(c.parallelism())
	return c
}

// AnalyzeRequest represents a request to analyze one file
type AnalyzeRequest struct {
	Source       string
	Filename     string
	AnalysisType string            // all, validation, patterns or errors
	Rules        config.RuleConfig // Optional: overrides the configured rule settings
}

// ListRules returns the active rule set for ruleCfg, or for the configured
// rule settings when ruleCfg is nil.
func (c *AnalysisController) ListRules(ruleCfg config.RuleConfig) []model.RuleInfo {
	return rules.Infos(c.activeRules(ruleCfg, AnalysisAll))
}

// ListFixes returns the complete fix catalog
func (c *AnalysisController) ListFixes() []model.FixInfo {
	return c.fixes.Infos()
}

// AnalyzeFile runs the active rule set over one file. Findings and
// suggestions depend only on the input; analyzedAt comes from the clock.
func (c *AnalysisController) AnalyzeFile(filename, src string, ruleCfg config.RuleConfig) model.Report {
	return c.analyze(filename, src, "", c.activeRules(ruleCfg, AnalysisAll))
}

// Analyze runs the rule set selected by the request's analysis type over one
// file. Unless analysis.filter_by_type is set every type runs all rules.
func (c *AnalysisController) Analyze(req AnalyzeRequest) model.Report {
	analysisType := req.AnalysisType
	if analysisType == "" {
		analysisType = AnalysisAll
	}
	return c.analyze(req.Filename, req.Source, analysisType, c.activeRules(req.Rules, analysisType))
}

// AnalyzeFiles analyzes files concurrently. Reports are returned in input
// order; the context is checked before each file.
func (c *AnalysisController) AnalyzeFiles(ctx context.Context, files []model.SourceFile, analysisType string) ([]model.Report, error) {
	startTime := time.Now()
	util.Info("Starting analysis of %d files", len(files))

	if analysisType == "" {
		analysisType = AnalysisAll
	}
	active := c.activeRules(nil, analysisType)
	reports := make([]model.Report, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism())
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = c.analyze(f.Filename, f.Source, analysisType, active)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		util.Error("Analysis aborted: %v", err)
		return nil, err
	}

	total := 0
	for _, r := range reports {
		total += len(r.Findings)
	}
	util.Info("Analysis complete: %d findings in %d files (took %v)", total, len(files), time.Since(startTime))
	return reports, nil
}

// AnalyzeConsistency compares per-file signals across files
func (c *AnalysisController) AnalyzeConsistency(ctx context.Context, files []model.SourceFile) ([]model.ConsistencyIssue, error) {
	issues, err := c.checker.Check(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("consistency check: %w", err)
	}
	return issues, nil
}

// GenerateFix previews the first fix registered for ruleID that changes src.
// Unknown rules and inapplicable fixes yield no changes. Nothing is written.
func (c *AnalysisController) GenerateFix(ruleID, filename, src string) model.FixPreview {
	preview := model.FixPreview{Changes: []model.FileChange{}, Applied: false}

	rule, ok := c.rules.Get(ruleID)
	if !ok {
		util.Debug("No rule %q, returning empty fix preview", ruleID)
		return preview
	}
	for _, id := range rule.FixIDs {
		after, changed := c.applyFix(id, filename, src)
		if changed {
			preview.Changes = append(preview.Changes, model.FileChange{Filename: filename, Before: src, After: after})
			break
		}
	}
	return preview
}

// ApplyRefactorings applies the fixes in order to every file, feeding each
// fix the previous one's output. Files that end up unchanged are omitted.
func (c *AnalysisController) ApplyRefactorings(fixIDs []string, files []model.SourceFile) model.RefactoringResult {
	result := model.RefactoringResult{Changes: []model.FileChange{}}
	for _, f := range files {
		current := f.Source
		for _, id := range fixIDs {
			if after, changed := c.applyFix(id, f.Filename, current); changed {
				current = after
			}
		}
		if current != f.Source {
			result.Changes = append(result.Changes, model.FileChange{Filename: f.Filename, Before: f.Source, After: current})
		}
	}
	util.Debug("Refactorings %v changed %d of %d files", fixIDs, len(result.Changes), len(files))
	return result
}

// BuildRun assembles reports and consistency issues into a summarized run
func (c *AnalysisController) BuildRun(name string, reports []model.Report, issues []model.ConsistencyIssue) *model.AnalysisRun {
	return &model.AnalysisRun{
		Name:              name,
		GeneratedAt:       c.now().UTC(),
		Summary:           Summarize(reports, issues, c.cfg.Output.HotspotsTopN),
		Reports:           reports,
		ConsistencyIssues: issues,
	}
}

func (c *AnalysisController) applyFix(id, filename, src string) (string, bool) {
	f, ok := c.fixes.Get(id)
	if !ok {
		util.Debug("Skipping unknown fix %q", id)
		return src, false
	}
	after, err := f.Apply(filename, src)
	if err != nil {
		util.Warn("Fix %s failed on %s: %v", id, filename, err)
		return src, false
	}
	return after, after != src
}

func (c *AnalysisController) parallelism() int {
	if n := c.cfg.Analysis.MaxParallelFiles; n > 0 {
		return n
	}
	return 1
}

func (c *AnalysisController) activeRules(ruleCfg config.RuleConfig, analysisType string) []rules.Rule {
	if ruleCfg == nil {
		ruleCfg = c.cfg.Rules
	}
	active := c.rules.List(ruleCfg)
	if !c.cfg.Analysis.FilterByType {
		return active
	}
	if categories := categoriesFor(analysisType); categories != nil {
		active = rules.ByCategory(active, categories...)
	}
	return active
}

// categoriesFor maps an analysis type to rule categories; nil means all
func categoriesFor(analysisType string) []model.Category {
	switch analysisType {
	case AnalysisValidation:
		return []model.Category{model.CategoryValidation, model.CategoryTypes}
	case AnalysisErrors:
		return []model.Category{model.CategoryErrors}
	case AnalysisPatterns:
		var out []model.Category
		for _, cat := range model.Categories {
			switch cat {
			case model.CategoryValidation, model.CategoryTypes, model.CategoryErrors:
			default:
				out = append(out, cat)
			}
		}
		return out
	}
	return nil
}

func (c *AnalysisController) analyze(filename, src, analysisType string, active []rules.Rule) model.Report {
	startTime := time.Now()
	report := model.Report{
		Filename:     filename,
		AnalysisType: analysisType,
		Findings:     []model.Finding{},
		Suggestions:  []model.Suggestion{},
		AnalyzedAt:   c.now().UTC().Format(time.RFC3339),
	}

	u, err := source.Parse(filename, src)
	if err != nil {
		util.Warn("Could not parse %s: %v", filename, err)
		report.Findings = append(report.Findings, parseErrorFinding(model.Range{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1},
			fmt.Sprintf("The file could not be parsed: %v", err)))
		return report
	}
	if syntaxErrors := u.SyntaxErrors(); len(syntaxErrors) > 0 {
		report.Findings = append(report.Findings, parseErrorFinding(u.Range(syntaxErrors[0]),
			fmt.Sprintf("The file contains %d syntax %s; findings cover the recoverable parts only.",
				len(syntaxErrors), plural(len(syntaxErrors), "error", "errors"))))
	}

	var failures error
	for _, r := range active {
		if !r.Applies(filename) {
			continue
		}
		findings, err := r.Evaluate(u)
		if err != nil {
			failures = multierr.Append(failures, err)
			report.Diagnostics = append(report.Diagnostics, model.Diagnostic{RuleID: r.ID, Message: err.Error()})
			continue
		}
		if len(findings) == 0 {
			continue
		}
		report.Findings = append(report.Findings, findings...)
		report.Suggestions = append(report.Suggestions, suggestionFor(r, len(findings), c.applicableFix(r, filename, src)))
	}
	if failures != nil {
		util.L().Warn("rule evaluation failed",
			zap.String("file", filename),
			zap.Int("failed_rules", len(multierr.Errors(failures))),
			zap.Error(failures))
	}

	util.Debug("Analyzed %s: %d findings from %d rules (took %v)", filename, len(report.Findings), len(active), time.Since(startTime))
	return report
}

func parseErrorFinding(r model.Range, message string) model.Finding {
	return model.Finding{
		RuleID:   ParseErrorRuleID,
		Severity: model.SeverityHigh,
		Title:    "Source could not be parsed",
		Message:  message,
		Range:    r,
	}
}

// applicableFix returns the first of the rule's fixes that changes src, or ""
func (c *AnalysisController) applicableFix(r rules.Rule, filename, src string) string {
	for _, id := range r.FixIDs {
		if _, changed := c.applyFix(id, filename, src); changed {
			return id
		}
	}
	return ""
}

func suggestionFor(r rules.Rule, count int, fixID string) model.Suggestion {
	s := model.Suggestion{RuleID: r.ID, FixID: fixID}
	occurrences := fmt.Sprintf("%d %s", count, plural(count, "occurrence", "occurrences"))
	if fixID != "" {
		s.Message = fmt.Sprintf("%s: %s can be rewritten with the %s fix.", r.Title, occurrences, fixID)
	} else {
		s.Message = fmt.Sprintf("%s: %s need manual review.", r.Title, occurrences)
	}
	return s
}

// Summarize computes totals by severity and rule plus the topN files with
// the most findings.
func Summarize(reports []model.Report, issues []model.ConsistencyIssue, topN int) model.RunSummary {
	bySeverity := make(map[model.Severity]int)
	byRule := make(map[string]int)
	byFile := make(map[string]int)
	total := 0

	for _, r := range reports {
		for _, f := range r.Findings {
			bySeverity[f.Severity]++
			byRule[f.RuleID]++
			byFile[r.Filename]++
			total++
		}
	}

	hotspots := make([]model.FileHotspot, 0, len(byFile))
	for path, count := range byFile {
		hotspots = append(hotspots, model.FileHotspot{FilePath: path, FindingCount: count})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].FindingCount != hotspots[j].FindingCount {
			return hotspots[i].FindingCount > hotspots[j].FindingCount
		}
		return hotspots[i].FilePath < hotspots[j].FilePath
	})
	if topN >= 0 && topN < len(hotspots) {
		hotspots = hotspots[:topN]
	}

	return model.RunSummary{
		FilesAnalyzed:     len(reports),
		TotalFindings:     total,
		BySeverity:        bySeverity,
		ByRule:            byRule,
		HotspotFiles:      hotspots,
		ConsistencyIssues: len(issues),
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
