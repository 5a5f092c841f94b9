// Package testutils provides helpers for building image fixtures in tests.
package testutils

import (
	"image/color"
	"os"
	"testing"

	"github.com/disintegration/imaging"
)

// CreateTestPNG writes a small valid PNG to path.
func CreateTestPNG(t *testing.T, path string) {
	t.Helper()
	img := imaging.New(16, 16, color.White)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("creating test PNG %s: %v", path, err)
	}
}

// CreateBogusPNG writes a file that is not a valid PNG container.
func CreateBogusPNG(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("creating bogus file %s: %v", path, err)
	}
}
