package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pattern-analyzer/src/config"
	"pattern-analyzer/src/controller"
	"pattern-analyzer/src/util"
)

// Handler handles CLI commands
type Handler struct {
	cfg        *config.Config
	configPath string
	rootCmd    *cobra.Command
	out        io.Writer
}

// New creates a new CLI handler
func New() *Handler {
	h := &Handler{out: os.Stdout}
	h.setupCommands()
	return h
}

func (h *Handler) setupCommands() {
	h.rootCmd = &cobra.Command{
		Use:           "pattern-analyzer",
		Short:         "Rule-based pattern analyzer for Effect-TS code",
		Long:          "Detects anti-patterns in TypeScript/Effect-TS sources and previews fixes for them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return h.loadConfig()
		},
	}

	// Global flags
	h.rootCmd.PersistentFlags().StringVarP(&h.configPath, "config", "c", "",
		"Path to configuration file")

	// Add subcommands
	h.rootCmd.AddCommand(h.analyzeCmd())
	h.rootCmd.AddCommand(h.consistencyCmd())
	h.rootCmd.AddCommand(h.rulesCmd())
	h.rootCmd.AddCommand(h.fixesCmd())
	h.rootCmd.AddCommand(h.fixCmd())
	h.rootCmd.AddCommand(h.refactorCmd())
	h.rootCmd.AddCommand(h.mcpCmd())
	h.rootCmd.AddCommand(h.versionCmd())
}

func (h *Handler) loadConfig() error {
	loader := config.NewLoader()
	cfg, err := loader.Load(h.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	h.cfg = cfg

	// Initialize logger from config
	util.SetDefaultLogger(cfg.Logging)
	util.Debug("Configuration loaded successfully")
	util.Debug("Log level set to: %s", cfg.Logging.Level)

	return nil
}

func (h *Handler) analysis() *controller.AnalysisController {
	return controller.NewAnalysisController(h.cfg)
}

// SetArgs overrides the command line arguments, mainly for tests
func (h *Handler) SetArgs(args []string) {
	h.rootCmd.SetArgs(args)
}

// SetOutput redirects command output
func (h *Handler) SetOutput(w io.Writer) {
	h.out = w
	h.rootCmd.SetOut(w)
}

// Execute runs the CLI
func (h *Handler) Execute() error {
	return h.rootCmd.Execute()
}

// Run is the main entry point
func Run() {
	handler := New()
	if err := handler.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
