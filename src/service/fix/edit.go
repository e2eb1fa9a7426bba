package fix

import (
	"sort"
	"strings"
)

// Edit replaces the byte range [Start, End) of a source with Text
type Edit struct {
	Start int
	End   int
	Text  string
}

// Insert returns an edit that inserts text at offset
func Insert(offset int, text string) Edit {
	return Edit{Start: offset, End: offset, Text: text}
}

// ApplyEdits applies edits to src in position order. An edit that overlaps
// an earlier one is skipped.
func ApplyEdits(src string, edits []Edit) string {
	if len(edits) == 0 {
		return src
	}
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var b strings.Builder
	b.Grow(len(src))
	pos := 0
	for _, e := range sorted {
		if e.Start < pos || e.End < e.Start || e.End > len(src) {
			continue
		}
		b.WriteString(src[pos:e.Start])
		b.WriteString(e.Text)
		pos = e.End
	}
	b.WriteString(src[pos:])
	return b.String()
}

// lineEnd extends end past a directly following newline
func lineEnd(src string, end int) int {
	if end < len(src) && src[end] == '\n' {
		return end + 1
	}
	if end+1 < len(src) && src[end] == '\r' && src[end+1] == '\n' {
		return end + 2
	}
	return end
}
