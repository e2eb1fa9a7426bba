package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pattern-analyzer/src/config"
	"pattern-analyzer/src/model"
)

func sampleRun() *model.AnalysisRun {
	finding := model.Finding{
		RuleID:   "node-fs",
		Severity: model.SeverityMedium,
		Title:    "Node fs module import",
		Message:  "Use the FileSystem service.",
		Range:    model.Range{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 44},
	}
	return &model.AnalysisRun{
		Name:        "sample",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Summary: model.RunSummary{
			FilesAnalyzed: 2,
			TotalFindings: 1,
			BySeverity:    map[model.Severity]int{model.SeverityMedium: 1},
			ByRule:        map[string]int{"node-fs": 1},
			HotspotFiles:  []model.FileHotspot{{FilePath: "a.ts", FindingCount: 1}},
		},
		Reports: []model.Report{
			{
				Filename:    "a.ts",
				Findings:    []model.Finding{finding},
				Suggestions: []model.Suggestion{{RuleID: "node-fs", FixID: "replace-node-fs", Message: "rewrite with replace-node-fs"}},
			},
			{Filename: "b.ts", Findings: []model.Finding{}},
		},
		ConsistencyIssues: []model.ConsistencyIssue{{
			IssueID:  "inconsistent-filesystem",
			Title:    "Mixed filesystem access",
			Message:  "Files handle filesystem in 2 different ways.",
			Severity: model.SeverityMedium,
			Files:    []string{"a.ts", "b.ts"},
			Values: []model.ConsistencyValue{
				{Value: "node-fs", Files: []string{"a.ts"}},
				{Value: "effect-platform", Files: []string{"b.ts"}},
			},
		}},
	}
}

func newGenerator() *Generator {
	cfg := config.DefaultConfig()
	return NewGenerator(cfg.Output, cfg.Agent)
}

func TestGenerateJSON(t *testing.T) {
	out, err := newGenerator().Generate(sampleRun(), "json")
	require.NoError(t, err)

	var decoded model.AnalysisRun
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "sample", decoded.Name)
	assert.Equal(t, "node-fs", decoded.Reports[0].Findings[0].RuleID)
	assert.Contains(t, out, `"startLine": 1`)
	assert.Contains(t, out, `"ruleId": "node-fs"`)
}

func TestGenerateMarkdown(t *testing.T) {
	out, err := newGenerator().Generate(sampleRun(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Pattern Analysis Report")
	assert.Contains(t, out, "**Generated:** 2026-01-02 03:04:05 UTC")
	assert.Contains(t, out, "| medium | 1 |")
	assert.Contains(t, out, "### `a.ts` (1 findings)")
	assert.Contains(t, out, "[MEDIUM] **Node fs module import** `node-fs` at 1:1")
	assert.Contains(t, out, "rewrite with replace-node-fs")
	assert.Contains(t, out, "- **effect-platform:** b.ts")
	assert.NotContains(t, out, "`b.ts` (0 findings)")
}

func TestGenerateMarkdownWithoutSuggestions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.IncludeSuggestions = false
	out, err := NewGenerator(cfg.Output, cfg.Agent).Generate(sampleRun(), "md")
	require.NoError(t, err)
	assert.NotContains(t, out, "Suggestions")
}

func TestGenerateSARIF(t *testing.T) {
	out, err := newGenerator().Generate(sampleRun(), "sarif")
	require.NoError(t, err)

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string           `json:"name"`
					Rules []map[string]any `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string           `json:"ruleId"`
				Level     string           `json:"level"`
				Fixes     []map[string]any `json:"fixes"`
				Locations []struct {
					PhysicalLocation struct {
						Region map[string]int `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	assert.Equal(t, "pattern-analyzer", doc.Runs[0].Tool.Driver.Name)
	assert.Len(t, doc.Runs[0].Tool.Driver.Rules, 1)
	require.Len(t, doc.Runs[0].Results, 1)

	result := doc.Runs[0].Results[0]
	assert.Equal(t, "node-fs", result.RuleID)
	assert.Equal(t, "warning", result.Level)
	assert.Len(t, result.Fixes, 1)
	assert.Equal(t, map[string]int{"startLine": 1, "startColumn": 1, "endLine": 1, "endColumn": 44}, result.Locations[0].PhysicalLocation.Region)
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	_, err := newGenerator().Generate(sampleRun(), "pdf")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "md", Extension("markdown"))
	assert.Equal(t, "sarif", Extension("sarif"))
	assert.Equal(t, "json", Extension("json"))
}
