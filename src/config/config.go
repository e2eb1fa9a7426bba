package config

// Config is the root configuration structure
type Config struct {
	Agent      AgentConfig      `yaml:"agent"`
	Rules      RuleConfig       `yaml:"rules"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Exclusions ExclusionsConfig `yaml:"exclusions"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AgentConfig contains tool metadata
type AgentConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// AnalysisConfig contains analyzer settings
type AnalysisConfig struct {
	// FilterByType restricts the rule set to the categories implied by the
	// requested analysis type. Off by default: every type runs all rules.
	FilterByType     bool `yaml:"filter_by_type"`
	MaxParallelFiles int  `yaml:"max_parallel_files"`
}

// ExclusionsConfig contains gitignore-style patterns of files the CLI skips
type ExclusionsConfig struct {
	FilePatterns []string `yaml:"file_patterns"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Formats            []string `yaml:"formats"`
	OutputDir          string   `yaml:"output_dir"`
	IncludeSuggestions bool     `yaml:"include_suggestions"`
	HotspotsTopN       int      `yaml:"hotspots_top_n"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"` // text, json
	File             string `yaml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp"`
	IncludeCaller    bool   `yaml:"include_caller"`
}
