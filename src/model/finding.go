package model

// Range is a source span. Lines and columns are 1-based; the start is
// inclusive and EndCol points one past the last character.
type Range struct {
	StartLine int `json:"startLine"`
	StartCol  int `json:"startCol"`
	EndLine   int `json:"endLine"`
	EndCol    int `json:"endCol"`
}

// Finding represents a single rule violation in one file
type Finding struct {
	RuleID   string   `json:"ruleId"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Range    Range    `json:"range"`
}

// Suggestion is a summary-level hint derived from the findings of one rule
type Suggestion struct {
	RuleID  string `json:"ruleId"`
	Message string `json:"message"`
	FixID   string `json:"fixId,omitempty"`
}

// Diagnostic reports a failure inside the analyzer that did not abort the analysis
type Diagnostic struct {
	RuleID  string `json:"ruleId,omitempty"`
	Message string `json:"message"`
}

// Report is the analysis output for one file
type Report struct {
	Filename     string       `json:"filename"`
	AnalysisType string       `json:"analysisType,omitempty"`
	Findings     []Finding    `json:"findings"`
	Suggestions  []Suggestion `json:"suggestions"`
	Diagnostics  []Diagnostic `json:"diagnostics,omitempty"`
	AnalyzedAt   string       `json:"analyzedAt"`
}

// ConsistencyValue lists the files that exhibit one value of a signal
type ConsistencyValue struct {
	Value string   `json:"value"`
	Files []string `json:"files"`
}

// ConsistencyIssue is a finding spanning several files
type ConsistencyIssue struct {
	IssueID  string             `json:"issueId"`
	Title    string             `json:"title"`
	Message  string             `json:"message"`
	Severity Severity           `json:"severity"`
	Files    []string           `json:"files"`
	Values   []ConsistencyValue `json:"values"`
}

// SourceFile is a caller-supplied (filename, source) pair
type SourceFile struct {
	Filename string `json:"filename"`
	Source   string `json:"source"`
}
