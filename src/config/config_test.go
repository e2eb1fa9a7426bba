package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"pattern-analyzer/src/model"
)

func TestRuleSettingYAML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RuleSetting
	}{
		{"literal off", `off`, RuleSetting{Level: LevelOff}},
		{"literal warn", `warn`, RuleSetting{Level: LevelWarn}},
		{"numeric off", `0`, RuleSetting{Level: LevelOff}},
		{"tuple with severity", `["error", {severity: high}]`, RuleSetting{Level: LevelError, Severity: model.SeverityHigh}},
		{"tuple with bad severity", `["error", {severity: extreme}]`, RuleSetting{Level: LevelError}},
		{"tuple without options", `["off"]`, RuleSetting{Level: LevelOff}},
		{"mapping is ignored", `{enabled: false}`, RuleSetting{}},
		{"boolean is ignored", `false`, RuleSetting{}},
		{"unknown literal", `sometimes`, RuleSetting{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got RuleSetting
			require.NoError(t, yaml.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRuleSettingJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RuleSetting
	}{
		{"literal off", `"off"`, RuleSetting{Level: LevelOff}},
		{"numeric error", `2`, RuleSetting{Level: LevelError}},
		{"tuple with severity", `["error", {"severity": "high"}]`, RuleSetting{Level: LevelError, Severity: model.SeverityHigh}},
		{"tuple with numeric severity", `["warn", {"severity": 3}]`, RuleSetting{Level: LevelWarn}},
		{"boolean", `true`, RuleSetting{}},
		{"object", `{"level": "off"}`, RuleSetting{}},
		{"empty tuple", `[]`, RuleSetting{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got RuleSetting
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRuleConfigFromAny(t *testing.T) {
	cfg := RuleConfigFromAny(map[string]any{
		"async-await": "off",
		"node-fs":     []any{"error", map[string]any{"severity": "high"}},
		"any-type":    42.5,
	})

	assert.True(t, cfg.Setting("async-await").Disabled())
	assert.Equal(t, model.SeverityHigh, cfg.Setting("node-fs").Severity)
	assert.False(t, cfg.Setting("node-fs").Disabled())
	assert.Equal(t, RuleSetting{}, cfg.Setting("any-type"))
	assert.Equal(t, RuleSetting{}, cfg.Setting("missing"))
}

func TestRuleSettingMarshalJSON(t *testing.T) {
	data, err := json.Marshal(RuleSetting{Level: LevelError, Severity: model.SeverityHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `["error", {"severity": "high"}]`, string(data))

	data, err = json.Marshal(RuleSetting{})
	require.NoError(t, err)
	assert.JSONEq(t, `"on"`, string(data))
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern-analyzer.yaml")
	content := `
rules:
  async-await: off
  node-fs: ["error", { severity: high }]
analysis:
  max_parallel_files: ${PA_TEST_PARALLEL:-3}
logging:
  level: ${PA_TEST_LEVEL}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("PA_TEST_LEVEL", "debug")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Rules.Setting("async-await").Disabled())
	assert.Equal(t, model.SeverityHigh, cfg.Rules.Setting("node-fs").Severity)
	assert.Equal(t, 3, cfg.Analysis.MaxParallelFiles)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "pattern-analyzer", cfg.Agent.Name)
}

func TestLoaderLoadErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rules: [unclosed"), 0644))
		_, err := NewLoader().Load(path)
		assert.Error(t, err)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Analysis.FilterByType)
	assert.Equal(t, []string{"json"}, cfg.Output.Formats)
	assert.NotNil(t, cfg.Rules)
}

func TestLoaderUsesEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  filter_by_type: true\n"), 0644))
	t.Setenv(ConfigPathEnv, path)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Analysis.FilterByType)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Output.Formats = []string{"json", "html"}
	cfg.Analysis.MaxParallelFiles = -1
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "html"`)
	assert.Contains(t, err.Error(), "max_parallel_files")
	assert.Contains(t, err.Error(), `unknown level "loud"`)
}

func TestLoaderRejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  formats: [pdf]\n"), 0644))

	_, err := NewLoader().Load(path)
	assert.ErrorContains(t, err, "pdf")
}
