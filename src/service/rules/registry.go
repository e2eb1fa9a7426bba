package rules

import (
	"fmt"

	"pattern-analyzer/src/config"
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/util"
)

// Catalog is an immutable, ordered set of rules keyed by id
type Catalog struct {
	rules []Rule
	index map[string]int
}

var defaultCatalog = mustCatalog(builtinRules())

// Default returns the built-in rule catalog
func Default() *Catalog {
	return defaultCatalog
}

func builtinRules() []Rule {
	var all []Rule
	all = append(all, asyncRules()...)
	all = append(all, errorRules()...)
	all = append(all, validationRules()...)
	all = append(all, resourceRules()...)
	all = append(all, dependencyRules()...)
	all = append(all, styleRules()...)
	all = append(all, concurrencyRules()...)
	all = append(all, platformRules()...)
	all = append(all, typeRules()...)
	return all
}

func mustCatalog(rules []Rule) *Catalog {
	c, err := NewCatalog(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog validates rules and builds a catalog preserving their order
func NewCatalog(rules []Rule) (*Catalog, error) {
	c := &Catalog{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule with title %q has no id", r.Title)
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, fmt.Errorf("duplicate rule id %q", r.ID)
		}
		if !r.Category.Valid() {
			return nil, fmt.Errorf("rule %s: unknown category %q", r.ID, r.Category)
		}
		if !r.Severity.Valid() {
			return nil, fmt.Errorf("rule %s: unknown severity %q", r.ID, r.Severity)
		}
		if r.Check == nil {
			return nil, fmt.Errorf("rule %s: missing check", r.ID)
		}
		if len(r.Paths) > 0 {
			r.paths = util.NewPathMatcher(r.Paths...)
		}
		if r.FixIDs == nil {
			r.FixIDs = []string{}
		}
		c.index[r.ID] = len(c.rules)
		c.rules = append(c.rules, r)
	}
	return c, nil
}

// All returns every rule in catalog order
func (c *Catalog) All() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Get returns the rule with the given id
func (c *Catalog) Get(id string) (Rule, bool) {
	idx, ok := c.index[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[idx], true
}

// Len returns the number of rules in the catalog
func (c *Catalog) Len() int {
	return len(c.rules)
}

// List resolves cfg into the active rule set: rules switched "off" are
// dropped and severity overrides are applied. Catalog order is preserved and
// settings for unknown ids are ignored.
func (c *Catalog) List(cfg config.RuleConfig) []Rule {
	active := make([]Rule, 0, len(c.rules))
	for _, r := range c.rules {
		setting := cfg.Setting(r.ID)
		if setting.Disabled() {
			continue
		}
		if setting.Severity != "" {
			r.Severity = setting.Severity
		}
		active = append(active, r)
	}
	return active
}

// ByCategory filters rules down to the given categories, keeping order
func ByCategory(rules []Rule, categories ...model.Category) []Rule {
	want := make(map[model.Category]bool, len(categories))
	for _, cat := range categories {
		want[cat] = true
	}
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if want[r.Category] {
			out = append(out, r)
		}
	}
	return out
}
