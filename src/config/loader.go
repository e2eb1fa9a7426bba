package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// ConfigPathEnv names a config file to use when no path is given explicitly
const ConfigPathEnv = "PATTERN_ANALYZER_CONFIG"

var (
	reportFormats = []string{"json", "markdown", "md", "sarif"}
	logLevels     = []string{"", "debug", "info", "warn", "warning", "error"}
	logFormats    = []string{"", "text", "json"}
)

// Loader handles configuration loading from YAML files
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load loads configuration from a YAML file with environment variable substitution.
// Environment variables can be referenced in the YAML using:
//   - ${VAR_NAME} - substitutes the value of VAR_NAME, empty string if not set
//   - ${VAR_NAME:-default} - substitutes VAR_NAME or "default" if not set
func (l *Loader) Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	filePath := l.resolveConfigPath(configPath)
	if filePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := l.Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return cfg, nil
}

// Validate reports every setting that the analyzer cannot honour. Rule
// settings are never invalid: unusable shapes already decoded to defaults.
func (c *Config) Validate() error {
	var errs error
	for _, format := range c.Output.Formats {
		if !slices.Contains(reportFormats, format) {
			errs = multierr.Append(errs, fmt.Errorf("output.formats: unsupported format %q", format))
		}
	}
	if c.Output.HotspotsTopN < 0 {
		errs = multierr.Append(errs, fmt.Errorf("output.hotspots_top_n: must not be negative, got %d", c.Output.HotspotsTopN))
	}
	if c.Analysis.MaxParallelFiles < 0 {
		errs = multierr.Append(errs, fmt.Errorf("analysis.max_parallel_files: must not be negative, got %d", c.Analysis.MaxParallelFiles))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		errs = multierr.Append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Logging.Format)) {
		errs = multierr.Append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	return errs
}

// Parse decodes YAML data over cfg after expanding environment variables.
func (l *Loader) Parse(data []byte, cfg *Config) error {
	expanded := l.expandEnvVars(string(data))
	return yaml.Unmarshal([]byte(expanded), cfg)
}

func (l *Loader) resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		return envPath
	}

	defaults := []string{
		"pattern-analyzer.yaml",
		"config/pattern-analyzer.yaml",
		filepath.Join(os.Getenv("HOME"), ".pattern-analyzer", "config.yaml"),
	}

	for _, path := range defaults {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// expandEnvVars expands ${VAR} and ${VAR:-default} references in the input string.
func (l *Loader) expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultVal := ""
		if len(submatches) >= 3 {
			defaultVal = submatches[2]
		}

		if val, exists := os.LookupEnv(varName); exists {
			return val
		}
		return defaultVal
	})
}
