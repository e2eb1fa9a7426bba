package config

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"pattern-analyzer/src/model"
)

// RuleLevel is the enablement level of a rule in the ESLint-like convention
type RuleLevel string

const (
	LevelDefault RuleLevel = ""
	LevelOff     RuleLevel = "off"
	LevelOn      RuleLevel = "on"
	LevelWarn    RuleLevel = "warn"
	LevelError   RuleLevel = "error"
)

// RuleSetting is the per-rule override. It decodes from either a literal
// level ("off", "warn", ...) or a [level, {severity: ...}] tuple. Values of
// any other shape decode to the zero RuleSetting, which means "use defaults".
type RuleSetting struct {
	Level    RuleLevel
	Severity model.Severity
}

// Disabled reports whether the setting turns the rule off
func (s RuleSetting) Disabled() bool {
	return s.Level == LevelOff
}

// RuleConfig maps rule ids to overrides. Unknown ids are ignored by consumers.
type RuleConfig map[string]RuleSetting

// Setting returns the override for id, or the zero value if none is set
func (c RuleConfig) Setting(id string) RuleSetting {
	if c == nil {
		return RuleSetting{}
	}
	return c[id]
}

// RuleConfigFromAny converts a loosely typed map (e.g. decoded JSON) into a
// RuleConfig. Entries that cannot be interpreted fall back to defaults.
func RuleConfigFromAny(raw map[string]any) RuleConfig {
	out := make(RuleConfig, len(raw))
	for id, v := range raw {
		data, err := json.Marshal(v)
		if err != nil {
			continue
		}
		var s RuleSetting
		_ = s.UnmarshalJSON(data)
		out[id] = s
	}
	return out
}

func parseLevel(v string) RuleLevel {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "off", "0":
		return LevelOff
	case "on":
		return LevelOn
	case "warn", "warning", "1":
		return LevelWarn
	case "error", "2":
		return LevelError
	default:
		return LevelDefault
	}
}

func parseSeverity(v string) model.Severity {
	sev := model.Severity(strings.ToLower(strings.TrimSpace(v)))
	if !sev.Valid() {
		return ""
	}
	return sev
}

// UnmarshalYAML implements yaml.Unmarshaler. It never fails.
func (s *RuleSetting) UnmarshalYAML(node *yaml.Node) error {
	*s = RuleSetting{}
	switch node.Kind {
	case yaml.ScalarNode:
		s.Level = parseLevel(node.Value)
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return nil
		}
		if first := node.Content[0]; first.Kind == yaml.ScalarNode {
			s.Level = parseLevel(first.Value)
		}
		if len(node.Content) > 1 && node.Content[1].Kind == yaml.MappingNode {
			opts := node.Content[1].Content
			for i := 0; i+1 < len(opts); i += 2 {
				if opts[i].Value == "severity" && opts[i+1].Kind == yaml.ScalarNode {
					s.Severity = parseSeverity(opts[i+1].Value)
				}
			}
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (s *RuleSetting) UnmarshalJSON(data []byte) error {
	*s = RuleSetting{}

	var level string
	if err := json.Unmarshal(data, &level); err == nil {
		s.Level = parseLevel(level)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		s.Level = parseLevel(number.String())
		return nil
	}

	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil || len(tuple) == 0 {
		return nil
	}
	var first RuleSetting
	_ = first.UnmarshalJSON(tuple[0])
	s.Level = first.Level
	if len(tuple) > 1 {
		var opts map[string]any
		if err := json.Unmarshal(tuple[1], &opts); err == nil {
			if sev, ok := opts["severity"].(string); ok {
				s.Severity = parseSeverity(sev)
			}
		}
	}
	return nil
}

// MarshalJSON renders the setting back in its compact form
func (s RuleSetting) MarshalJSON() ([]byte, error) {
	level := s.Level
	if level == LevelDefault {
		level = LevelOn
	}
	if s.Severity == "" {
		return json.Marshal(string(level))
	}
	return json.Marshal([]any{string(level), map[string]string{"severity": string(s.Severity)}})
}
