package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pattern-analyzer/src/controller"
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/util"
)

func (h *Handler) analyzeCmd() *cobra.Command {
	var (
		name         string
		outputDir    string
		format       string
		analysisType string
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Analyze source files for anti-patterns",
		Long:  "Runs the enabled rules against each file and generates a report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			util.Info("Analyzing %d files (type: %s, timeout: %v)", len(args), analysisType, timeout)

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			files, err := h.readSources(args)
			if err != nil {
				return err
			}

			analysisCtrl := h.analysis()
			reports, err := analysisCtrl.AnalyzeFiles(ctx, files, analysisType)
			if err != nil {
				util.Error("Analysis failed: %v", err)
				return fmt.Errorf("analysis failed: %w", err)
			}
			if name == "" {
				name = runName(args)
			}
			run := analysisCtrl.BuildRun(name, reports, nil)
			if err := h.writeRun(run, outputDir, format); err != nil {
				return err
			}

			// Print summary to stderr
			fmt.Fprintf(os.Stderr, "\nAnalysis complete:\n")
			fmt.Fprintf(os.Stderr, "  Files analyzed: %d\n", run.Summary.FilesAnalyzed)
			fmt.Fprintf(os.Stderr, "  Total findings: %d\n", run.Summary.TotalFindings)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Run name used in report titles and file names")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory path")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, markdown, sarif)")
	cmd.Flags().StringVar(&analysisType, "type", controller.AnalysisAll, "Analysis type (all, validation, patterns, errors)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Analysis timeout")

	return cmd
}

func (h *Handler) consistencyCmd() *cobra.Command {
	var (
		name      string
		outputDir string
		format    string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "consistency FILE...",
		Short: "Check a set of files for inconsistent conventions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			files, err := h.readSources(args)
			if err != nil {
				return err
			}

			analysisCtrl := h.analysis()
			issues, err := analysisCtrl.AnalyzeConsistency(ctx, files)
			if err != nil {
				return fmt.Errorf("consistency check failed: %w", err)
			}
			if name == "" {
				name = runName(args)
			}
			run := analysisCtrl.BuildRun(name, nil, issues)
			run.Summary.FilesAnalyzed = len(files)
			if err := h.writeRun(run, outputDir, format); err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "\nConsistency check complete: %d issues\n", len(issues))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Run name used in report titles and file names")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory path")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, markdown, sarif)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Check timeout")

	return cmd
}

// writeRun writes report files when an output directory is given, otherwise
// prints a single report to stdout.
func (h *Handler) writeRun(run *model.AnalysisRun, outputDir, format string) error {
	if outputDir != "" {
		h.cfg.Output.OutputDir = outputDir
		if format != "" {
			h.cfg.Output.Formats = []string{format}
		}

		reportCtrl := controller.NewReportController(h.cfg)
		paths, err := reportCtrl.GenerateReports(run)
		if err != nil {
			return fmt.Errorf("generating reports: %w", err)
		}
		for _, path := range paths {
			fmt.Fprintf(h.out, "Report written to %s\n", path)
		}
		return nil
	}

	if format == "" {
		format = defaultFormat()
	}
	reportCtrl := controller.NewReportController(h.cfg)
	output, err := reportCtrl.GenerateToString(run, format)
	if err != nil {
		return fmt.Errorf("generating %s report: %w", format, err)
	}
	_, err = fmt.Fprintln(h.out, output)
	return err
}

// defaultFormat is markdown for an interactive terminal and json otherwise
func defaultFormat() string {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "markdown"
	}
	return "json"
}

func runName(paths []string) string {
	if len(paths) == 1 {
		return strings.TrimSuffix(filepath.Base(paths[0]), filepath.Ext(paths[0]))
	}
	return "analysis"
}
