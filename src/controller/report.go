package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"pattern-analyzer/src/config"
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/service/report"
	"pattern-analyzer/src/util"
)

// ReportController renders analysis runs and writes them to the output directory
type ReportController struct {
	cfg       *config.Config
	generator *report.Generator
}

// NewReportController creates a new report controller
func NewReportController(cfg *config.Config) *ReportController {
	return &ReportController{
		cfg:       cfg,
		generator: report.NewGenerator(cfg.Output, cfg.Agent),
	}
}

type renderedReport struct {
	path    string
	content string
}

// GenerateReports writes the run in every configured format and returns the
// written paths. All formats are rendered before anything is written, so an
// unsupported format leaves the output directory untouched. Formats that map
// to the same file (md and markdown) are written once.
func (c *ReportController) GenerateReports(run *model.AnalysisRun) ([]string, error) {
	util.Debug("Generating reports for %d formats: %v", len(c.cfg.Output.Formats), c.cfg.Output.Formats)

	var rendered []renderedReport
	seen := make(map[string]bool)
	for _, format := range c.cfg.Output.Formats {
		output, err := c.generator.Generate(run, format)
		if err != nil {
			util.Error("Failed to generate %s report: %v", format, err)
			return nil, err
		}

		path := c.getOutputPath(run.Name, format)
		if seen[path] {
			continue
		}
		seen[path] = true
		rendered = append(rendered, renderedReport{path: path, content: output})
	}

	if err := os.MkdirAll(c.cfg.Output.OutputDir, 0755); err != nil {
		util.Error("Failed to create output directory: %v", err)
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	outputPaths := make([]string, 0, len(rendered))
	for _, r := range rendered {
		if err := writeFileAtomic(r.path, r.content); err != nil {
			util.Error("Failed to write report to %s: %v", r.path, err)
			return outputPaths, err
		}
		util.Info("Report written: %s", r.path)
		outputPaths = append(outputPaths, r.path)
	}
	return outputPaths, nil
}

// GenerateToString renders the run in one format
func (c *ReportController) GenerateToString(run *model.AnalysisRun, format string) (string, error) {
	return c.generator.Generate(run, format)
}

func (c *ReportController) getOutputPath(name, format string) string {
	filename := name + "-pattern-report." + report.Extension(format)
	return filepath.Join(c.cfg.Output.OutputDir, filename)
}

// writeFileAtomic writes through a temp file in the same directory so readers
// never see a partial report.
func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting mode of %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
