package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pattern-analyzer/src/handler/mcp"
	"pattern-analyzer/src/util"
)

func (h *Handler) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analyzer as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			util.Info("Starting MCP server on stdio")
			return mcp.NewServer(h.cfg, h.analysis()).Run(ctx)
		},
	}
}
