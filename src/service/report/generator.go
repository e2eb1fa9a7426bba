package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"pattern-analyzer/src/config"
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/util"
)

// Generator generates reports in various formats
type Generator struct {
	cfg   config.OutputConfig
	agent config.AgentConfig
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig, agent config.AgentConfig) *Generator {
	return &Generator{cfg: cfg, agent: agent}
}

// Generate generates a report in the specified format
func (g *Generator) Generate(run *model.AnalysisRun, format string) (string, error) {
	util.Debug("Generating report in %s format (%d findings)", format, run.Summary.TotalFindings)
	switch format {
	case "json":
		return g.generateJSON(run)
	case "markdown", "md":
		return g.generateMarkdown(run)
	case "sarif":
		return g.generateSARIF(run)
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Extension returns the file extension used for a format
func Extension(format string) string {
	switch format {
	case "markdown", "md":
		return "md"
	case "sarif":
		return "sarif"
	default:
		return "json"
	}
}

func (g *Generator) generateJSON(run *model.AnalysisRun) (string, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) generateMarkdown(run *model.AnalysisRun) (string, error) {
	var sb strings.Builder

	// Header
	sb.WriteString("# Pattern Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("**Run:** %s\n", run.Name))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", run.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Files Analyzed:** %d\n", run.Summary.FilesAnalyzed))
	sb.WriteString(fmt.Sprintf("- **Total Findings:** %d\n", run.Summary.TotalFindings))
	sb.WriteString(fmt.Sprintf("- **Consistency Issues:** %d\n\n", run.Summary.ConsistencyIssues))

	// By Severity
	sb.WriteString("### Findings by Severity\n\n")
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, sev := range []model.Severity{model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", sev, run.Summary.BySeverity[sev]))
	}
	sb.WriteString("\n")

	// Hotspots
	if len(run.Summary.HotspotFiles) > 0 {
		sb.WriteString("### Hotspot Files\n\n")
		sb.WriteString("| File | Findings |\n")
		sb.WriteString("|------|----------|\n")
		for _, hs := range run.Summary.HotspotFiles {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", hs.FilePath, hs.FindingCount))
		}
		sb.WriteString("\n")
	}

	// Findings by file
	sb.WriteString("## Findings\n\n")
	for _, r := range run.Reports {
		if len(r.Findings) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("### `%s` (%d findings)\n\n", r.Filename, len(r.Findings)))
		for _, f := range r.Findings {
			sb.WriteString(fmt.Sprintf("- %s **%s** `%s` at %d:%d\n", severityLabel(f.Severity), f.Title, f.RuleID, f.Range.StartLine, f.Range.StartCol))
			sb.WriteString(fmt.Sprintf("  %s\n", f.Message))
		}
		sb.WriteString("\n")

		if g.cfg.IncludeSuggestions && len(r.Suggestions) > 0 {
			sb.WriteString("**Suggestions:**\n\n")
			for _, s := range r.Suggestions {
				sb.WriteString(fmt.Sprintf("- %s\n", s.Message))
			}
			sb.WriteString("\n")
		}

		for _, d := range r.Diagnostics {
			sb.WriteString(fmt.Sprintf("> analyzer diagnostic (%s): %s\n\n", d.RuleID, d.Message))
		}
	}

	// Consistency
	if len(run.ConsistencyIssues) > 0 {
		sb.WriteString("## Consistency\n\n")
		for _, issue := range run.ConsistencyIssues {
			sb.WriteString(fmt.Sprintf("### %s %s\n\n", severityLabel(issue.Severity), issue.Title))
			sb.WriteString(fmt.Sprintf("%s\n\n", issue.Message))
			for _, v := range issue.Values {
				sb.WriteString(fmt.Sprintf("- **%s:** %s\n", v.Value, strings.Join(v.Files, ", ")))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

func (g *Generator) generateSARIF(run *model.AnalysisRun) (string, error) {
	sarif := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":    g.agent.Name,
						"version": g.agent.Version,
						"rules":   g.buildSARIFRules(run.Reports),
					},
				},
				"results": g.buildSARIFResults(run.Reports),
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) buildSARIFRules(reports []model.Report) []map[string]any {
	seen := make(map[string]bool)
	rules := []map[string]any{}

	for _, r := range reports {
		for _, f := range r.Findings {
			if seen[f.RuleID] {
				continue
			}
			seen[f.RuleID] = true

			rules = append(rules, map[string]any{
				"id":               f.RuleID,
				"name":             f.Title,
				"shortDescription": map[string]any{"text": f.Title},
				"fullDescription":  map[string]any{"text": f.Message},
				"defaultConfiguration": map[string]any{
					"level": sarifLevel(f.Severity),
				},
			})
		}
	}

	return rules
}

func (g *Generator) buildSARIFResults(reports []model.Report) []map[string]any {
	results := []map[string]any{}

	for _, r := range reports {
		fixes := make(map[string]string)
		for _, s := range r.Suggestions {
			if s.FixID != "" {
				fixes[s.RuleID] = s.Message
			}
		}

		for _, f := range r.Findings {
			result := map[string]any{
				"ruleId":  f.RuleID,
				"level":   sarifLevel(f.Severity),
				"message": map[string]any{"text": f.Message},
				"locations": []map[string]any{
					{
						"physicalLocation": map[string]any{
							"artifactLocation": map[string]any{
								"uri": r.Filename,
							},
							"region": map[string]any{
								"startLine":   f.Range.StartLine,
								"startColumn": f.Range.StartCol,
								"endLine":     f.Range.EndLine,
								"endColumn":   f.Range.EndCol,
							},
						},
					},
				},
			}

			if text, ok := fixes[f.RuleID]; ok && g.cfg.IncludeSuggestions {
				result["fixes"] = []map[string]any{
					{
						"description": map[string]any{"text": text},
					},
				}
			}

			results = append(results, result)
		}
	}

	return results
}

func severityLabel(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return "[HIGH]"
	case model.SeverityMedium:
		return "[MEDIUM]"
	default:
		return "[LOW]"
	}
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
