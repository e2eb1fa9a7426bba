package model

import "time"

// AnalysisRun is the aggregated output of analyzing a set of files
type AnalysisRun struct {
	Name              string             `json:"name"`
	GeneratedAt       time.Time          `json:"generated_at"`
	Summary           RunSummary         `json:"summary"`
	Reports           []Report           `json:"reports"`
	ConsistencyIssues []ConsistencyIssue `json:"consistency_issues,omitempty"`
}

// RunSummary contains aggregated statistics
type RunSummary struct {
	FilesAnalyzed     int              `json:"files_analyzed"`
	TotalFindings     int              `json:"total_findings"`
	BySeverity        map[Severity]int `json:"by_severity"`
	ByRule            map[string]int   `json:"by_rule"`
	HotspotFiles      []FileHotspot    `json:"hotspot_files"`
	ConsistencyIssues int              `json:"consistency_issues"`
}

// FileHotspot represents a file with many findings
type FileHotspot struct {
	FilePath     string `json:"file_path"`
	FindingCount int    `json:"finding_count"`
}
