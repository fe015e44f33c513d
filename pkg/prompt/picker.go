// Package prompt lets the CLI pick benchmark templates interactively.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtension is the template extension PickTemplates lists when none is
// given.
const DefaultExtension = ".tpl"

// ListTemplates walks dir and returns the files ending in ext, relative to
// dir and sorted.
func ListTemplates(dir, ext string) ([]string, error) {
	ext = normaliseExt(ext)

	var out []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("prompt: list %s: %w", dir, err)
	}
	sort.Strings(out)
	return out, nil
}

// PickTemplates lists the templates under dir, asks the user to choose and
// confirm, and returns the chosen paths (joined with dir) in listing order.
func PickTemplates(ctx context.Context, driver Driver, dir, ext string) ([]string, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}

	options, err := ListTemplates(dir, ext)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTemplates, dir)
	}

	all := make([]int, len(options))
	for i := range options {
		all[i] = i
	}
	picked, err := driver.MultiSelect(ctx, SelectConfig{
		Message:  "Templates to benchmark",
		Options:  options,
		Defaults: all,
		Help:     "Each selected template is rendered in the order listed.",
		PageSize: 15,
	})
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, ErrNothingSelected
	}
	sort.Ints(picked)

	ok, err := driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Benchmark %d template(s)?", len(picked)),
		Default: true,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAborted
	}

	out := make([]string, 0, len(picked))
	for _, idx := range picked {
		if idx < 0 || idx >= len(options) {
			continue
		}
		out = append(out, filepath.Join(dir, options[idx]))
	}
	return out, nil
}

func normaliseExt(ext string) string {
	trimmed := strings.TrimSpace(ext)
	if trimmed == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return trimmed
}
