package fix

import (
	"fmt"

	"pattern-analyzer/src/model"
	"pattern-analyzer/src/source"
)

// RewriteFunc computes the edits a fix makes to one parsed file
type RewriteFunc func(u *source.Unit) []Edit

// Fix is a named, preview-only source transformation
type Fix struct {
	model.FixInfo
	Rewrite RewriteFunc
}

// Apply runs the fix over src until the output stops changing and returns
// the result, so applying the fix to its own output changes nothing. Every
// changing pass resolves at least one of the matches found in the first pass,
// which bounds the number of passes. A panic in the rewrite is returned as an
// error.
func (f Fix) Apply(filename, src string) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = src
			err = fmt.Errorf("fix %s: %v", f.ID, p)
		}
	}()

	out = src
	maxPasses := -1
	for pass := 0; maxPasses < 0 || pass <= maxPasses; pass++ {
		u, err := source.Parse(filename, out)
		if err != nil {
			return src, fmt.Errorf("fix %s: %w", f.ID, err)
		}
		edits := f.Rewrite(u)
		if maxPasses < 0 {
			maxPasses = len(edits)
		}
		next := ApplyEdits(out, edits)
		if next == out {
			return out, nil
		}
		out = next
	}
	return src, fmt.Errorf("fix %s: output still changing after %d passes", f.ID, maxPasses+1)
}

// Catalog is an immutable, ordered set of fixes keyed by id
type Catalog struct {
	fixes []Fix
	index map[string]int
}

var defaultCatalog = mustCatalog(builtinFixes())

// Default returns the built-in fix catalog
func Default() *Catalog {
	return defaultCatalog
}

func mustCatalog(fixes []Fix) *Catalog {
	c, err := NewCatalog(fixes)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog validates fixes and builds a catalog preserving their order
func NewCatalog(fixes []Fix) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(fixes))}
	for _, f := range fixes {
		if f.ID == "" {
			return nil, fmt.Errorf("fix with title %q has no id", f.Title)
		}
		if _, dup := c.index[f.ID]; dup {
			return nil, fmt.Errorf("duplicate fix id %q", f.ID)
		}
		if f.Rewrite == nil {
			return nil, fmt.Errorf("fix %s: missing rewrite", f.ID)
		}
		c.index[f.ID] = len(c.fixes)
		c.fixes = append(c.fixes, f)
	}
	return c, nil
}

// All returns every fix in catalog order
func (c *Catalog) All() []Fix {
	return append([]Fix(nil), c.fixes...)
}

// Get returns the fix with the given id
func (c *Catalog) Get(id string) (Fix, bool) {
	idx, ok := c.index[id]
	if !ok {
		return Fix{}, false
	}
	return c.fixes[idx], true
}

// Infos returns the public metadata of every fix
func (c *Catalog) Infos() []model.FixInfo {
	out := make([]model.FixInfo, len(c.fixes))
	for i, f := range c.fixes {
		out[i] = f.FixInfo
	}
	return out
}
