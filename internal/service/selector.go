package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrDirectoryNotFound is fatal for the whole batch: the target path is
// missing or is not a directory.
var ErrDirectoryNotFound = errors.New("directory not found")

// Candidate is a file selected for processing.
type Candidate struct {
	Path string // absolute (or caller-relative) path
	Name string // base name
}

// CollectCandidates lists dir non-recursively and returns the files whose
// extension matches ext (case-insensitive, without the dot) and whose name
// contains marker (case-insensitive). An empty marker matches everything.
//
// The result is in os.ReadDir order, which is sorted by filename; collision
// suffix assignment therefore stays deterministic for sequential runs.
func CollectCandidates(dir, marker, ext string) ([]Candidate, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	marker = strings.ToLower(marker)
	wantExt := "." + strings.ToLower(strings.TrimPrefix(ext, "."))

	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		lower := strings.ToLower(name)
		if filepath.Ext(lower) != wantExt {
			continue
		}
		if marker != "" && !strings.Contains(lower, marker) {
			continue
		}
		candidates = append(candidates, Candidate{
			Path: filepath.Join(dir, name),
			Name: name,
		})
	}
	return candidates, nil
}

// ExistingNames returns every name currently present in dir, used to seed
// collision detection before any rename happens.
func ExistingNames(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name()] = struct{}{}
	}
	return names, nil
}
