package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCollectCandidates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"Screenshot 2024-09-10 at 7.16.29 PM.png",
		"screenshot-two.PNG",
		"photo.png",
		"notes.txt",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Subdirectories are never entered, even when they match the marker.
	sub := filepath.Join(dir, "screenshots")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "screenshot nested.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := CollectCandidates(dir, "screenshot", "png")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}
	// os.ReadDir order is lexical, so the result is deterministic.
	if got[0].Name != "Screenshot 2024-09-10 at 7.16.29 PM.png" || got[1].Name != "screenshot-two.PNG" {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestCollectCandidatesEmptyMarker(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "photo.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := CollectCandidates(dir, "", "png")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
}

func TestCollectCandidatesDirectoryNotFound(t *testing.T) {
	_, err := CollectCandidates(filepath.Join(t.TempDir(), "missing"), "screenshot", "png")
	if !errors.Is(err, ErrDirectoryNotFound) {
		t.Fatalf("err = %v, want ErrDirectoryNotFound", err)
	}

	// A plain file is not a directory either.
	dir := t.TempDir()
	file := filepath.Join(dir, "file.png")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = CollectCandidates(file, "screenshot", "png")
	if !errors.Is(err, ErrDirectoryNotFound) {
		t.Fatalf("err = %v, want ErrDirectoryNotFound", err)
	}
}

func TestExistingNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := ExistingNames(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := names["a.png"]; !ok {
		t.Error("a.png missing from existing names")
	}
	if _, ok := names["sub"]; !ok {
		t.Error("sub missing from existing names")
	}
}
