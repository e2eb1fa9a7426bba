package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pattern-analyzer/src/model"
	"pattern-analyzer/src/service/fix"
)

// fixCmd previews the fix for one rule as a unified diff. Files are never written.
func (h *Handler) fixCmd() *cobra.Command {
	var (
		ruleID string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "fix --rule ID FILE",
		Short: "Preview the fix for a rule on one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := h.readSources(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("%s is excluded by configuration", args[0])
			}

			preview := h.analysis().GenerateFix(ruleID, files[0].Filename, files[0].Source)
			if asJSON {
				return h.printJSON(preview)
			}
			return h.printChanges(preview.Changes)
		},
	}

	cmd.Flags().StringVarP(&ruleID, "rule", "r", "", "Rule id to fix (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the preview as JSON")
	cmd.MarkFlagRequired("rule")

	return cmd
}

func (h *Handler) refactorCmd() *cobra.Command {
	var (
		fixIDs []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "refactor --fix ID[,ID...] FILE...",
		Short: "Preview a batch of fixes over several files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := h.readSources(args)
			if err != nil {
				return err
			}

			result := h.analysis().ApplyRefactorings(fixIDs, files)
			if asJSON {
				return h.printJSON(result)
			}
			return h.printChanges(result.Changes)
		},
	}

	cmd.Flags().StringSliceVar(&fixIDs, "fix", nil, "Fix ids to apply, in order (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.MarkFlagRequired("fix")

	return cmd
}

func (h *Handler) printChanges(changes []model.FileChange) error {
	if len(changes) == 0 {
		fmt.Fprintln(h.out, "No changes.")
		return nil
	}
	for _, change := range changes {
		diff, err := fix.Diff(change.Filename, change.Before, change.After)
		if err != nil {
			return fmt.Errorf("diffing %s: %w", change.Filename, err)
		}
		fmt.Fprint(h.out, diff)
	}
	return nil
}
