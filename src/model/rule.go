package model

// Severity represents the severity level of a rule or finding
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is one of the known severity levels
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Rank orders severities so that higher is more severe. Unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category groups rules by the kind of anti-pattern they detect
type Category string

const (
	CategoryAsync               Category = "async"
	CategoryErrors              Category = "errors"
	CategoryValidation          Category = "validation"
	CategoryResources           Category = "resources"
	CategoryDependencyInjection Category = "dependency-injection"
	CategoryStyle               Category = "style"
	CategoryConcurrency         Category = "concurrency"
	CategoryPlatform            Category = "platform"
	CategoryTypes               Category = "types"
)

// Categories lists every category in its canonical order.
var Categories = []Category{
	CategoryAsync,
	CategoryErrors,
	CategoryValidation,
	CategoryResources,
	CategoryDependencyInjection,
	CategoryStyle,
	CategoryConcurrency,
	CategoryPlatform,
	CategoryTypes,
}

// Valid reports whether c is part of the fixed category set
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// RuleInfo is the public metadata of a rule
type RuleInfo struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	FixIDs   []string `json:"fixIds"`
}

// FixInfo is the public metadata of a fix
type FixInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
