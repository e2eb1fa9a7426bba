package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"pattern-analyzer/src/model"
	"pattern-analyzer/src/util"
)

// readSources loads the named files, skipping paths matched by the configured
// exclusions. Read failures are collected and returned together.
func (h *Handler) readSources(paths []string) ([]model.SourceFile, error) {
	excluded := util.NewPathMatcher(h.cfg.Exclusions.FilePatterns...)

	var (
		files []model.SourceFile
		errs  error
	)
	for _, path := range paths {
		if excluded.Matches(path) {
			util.Debug("Skipping excluded file: %s", path)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reading %s: %w", path, err))
			continue
		}
		files = append(files, model.SourceFile{Filename: filepath.ToSlash(path), Source: string(data)})
	}
	return files, errs
}

func (h *Handler) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(h.out, string(data))
	return err
}
