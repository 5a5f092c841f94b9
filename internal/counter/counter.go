// Package counter provides a recursive census of screenshot images, useful
// for sizing a run before spending service quota on it.
package counter

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultMarkers matches the filename spellings screenshots commonly carry.
var DefaultMarkers = []string{"screenshot", "screen shot"}

type ScreenshotCounter struct {
	Total   int      // files with the wanted extension
	Matched int      // of those, files carrying a marker
	Paths   []string // matched paths, walk order
}

// Scan walks root recursively and counts files whose extension matches ext
// and whose base name contains any of the markers (all case-insensitive).
// Unreadable subtrees are skipped, not fatal.
func (c *ScreenshotCounter) Scan(root, ext string, markers []string) error {
	wantExt := "." + strings.ToLower(strings.TrimPrefix(ext, "."))

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		name := strings.ToLower(d.Name())
		if filepath.Ext(name) != wantExt {
			return nil
		}
		c.Total++

		base := strings.TrimSuffix(name, wantExt)
		for _, m := range markers {
			if strings.Contains(base, strings.ToLower(m)) {
				c.Matched++
				c.Paths = append(c.Paths, path)
				break
			}
		}
		return nil
	})
}
