package model

// FileChange is the before/after preview of a rewrite of one file
type FileChange struct {
	Filename string `json:"filename"`
	Before   string `json:"before"`
	After    string `json:"after"`
}

// FixPreview is the result of generating a fix. Applied is always false:
// previews are never written anywhere by the analyzer.
type FixPreview struct {
	Changes []FileChange `json:"changes"`
	Applied bool         `json:"applied"`
}

// RefactoringResult is the result of applying a batch of fixes to several files
type RefactoringResult struct {
	Changes []FileChange `json:"changes"`
}
