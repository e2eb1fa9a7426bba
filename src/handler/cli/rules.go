package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pattern-analyzer/src/model"
)

func (h *Handler) rulesCmd() *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := h.analysis().ListRules(nil)
			if category != "" {
				if !model.Category(category).Valid() {
					return fmt.Errorf("unknown category %q", category)
				}
				filtered := infos[:0]
				for _, info := range infos {
					if string(info.Category) == category {
						filtered = append(filtered, info)
					}
				}
				infos = filtered
			}

			if asJSON {
				return h.printJSON(infos)
			}
			fmt.Fprintf(h.out, "Active rules (%d):\n", len(infos))
			for _, info := range infos {
				fmt.Fprintf(h.out, "  - %-32s [%s, %s] %s\n", info.ID, info.Category, info.Severity, info.Title)
				if len(info.FixIDs) > 0 {
					fmt.Fprintf(h.out, "      fixes: %s\n", strings.Join(info.FixIDs, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list rules of this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rule metadata as JSON")

	return cmd
}

func (h *Handler) fixesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fixes",
		Short: "List the available fixes",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := h.analysis().ListFixes()
			if asJSON {
				return h.printJSON(infos)
			}
			fmt.Fprintf(h.out, "Available fixes (%d):\n", len(infos))
			for _, info := range infos {
				fmt.Fprintf(h.out, "  - %-28s %s\n", info.ID, info.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print fix metadata as JSON")

	return cmd
}
