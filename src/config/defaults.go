package config

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "pattern-analyzer",
			Version:     "1.0.0",
			Description: "Rule-based static analysis for Effect TypeScript code",
		},
		Rules: RuleConfig{},
		Analysis: AnalysisConfig{
			FilterByType:     false,
			MaxParallelFiles: 8,
		},
		Exclusions: ExclusionsConfig{
			FilePatterns: []string{
				"node_modules/", "dist/", "build/", "*.d.ts",
			},
		},
		Output: OutputConfig{
			Formats:            []string{"json"},
			OutputDir:          ".",
			IncludeSuggestions: true,
			HotspotsTopN:       10,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			IncludeTimestamp: true,
			IncludeCaller:    false,
		},
	}
}
