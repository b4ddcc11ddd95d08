package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindScenarios returns the .yaml and .yml files under dir, sorted. When
// filter is set, only files whose base name (without extension) matches the
// glob are returned.
func FindScenarios(dir, filter string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scenarios directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// FileResult is the outcome of one scenario file.
type FileResult struct {
	Path     string
	Scenario *Scenario // nil when the file failed to load
	Result   *Result   // nil when the file failed to load
	LoadErr  error
}

// Pass reports whether the file loaded and its scenario passed.
func (f FileResult) Pass() bool {
	return f.LoadErr == nil && f.Result != nil && f.Result.Pass
}

// RunFiles loads every file and runs the loadable scenarios concurrently.
// A file that fails to load is reported in its FileResult and does not stop
// the others.
func RunFiles(ctx context.Context, files []string, limit int) ([]FileResult, error) {
	out := make([]FileResult, len(files))
	var (
		scenarios []*Scenario
		index     []int
	)
	for i, path := range files {
		out[i].Path = path
		s, err := LoadScenario(path)
		if err != nil {
			out[i].LoadErr = err
			continue
		}
		out[i].Scenario = s
		scenarios = append(scenarios, s)
		index = append(index, i)
	}

	results, err := RunAll(ctx, scenarios, limit)
	if err != nil {
		return nil, err
	}
	for j, r := range results {
		out[index[j]].Result = r
	}
	return out, nil
}
