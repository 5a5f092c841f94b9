package pngmeta

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/topherjaynes/Screenshot-Holmes/internal/testutils"
)

func TestEmbedAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	testutils.CreateTestPNG(t, path)

	desc := "A movie showtimes screen for Beetlejuice, rated PG-13."
	if err := Embed(path, DescriptionKeyword, desc); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Read(path, DescriptionKeyword)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || got != desc {
		t.Fatalf("Read = %q (ok=%v), want %q", got, ok, desc)
	}

	// The image must still decode: the chunk surgery may not corrupt it.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("rewritten PNG no longer decodes: %v", err)
	}
}

func TestEmbedReplacesExistingKeyword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	testutils.CreateTestPNG(t, path)

	if err := Embed(path, DescriptionKeyword, "first"); err != nil {
		t.Fatal(err)
	}
	if err := Embed(path, DescriptionKeyword, "second"); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Read(path, DescriptionKeyword)
	if err != nil || !ok {
		t.Fatalf("Read failed: ok=%v err=%v", ok, err)
	}
	if got != "second" {
		t.Fatalf("Read = %q, want second", got)
	}
}

func TestEmbedKeepsOtherKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	testutils.CreateTestPNG(t, path)

	if err := Embed(path, "Software", "holmes"); err != nil {
		t.Fatal(err)
	}
	if err := Embed(path, DescriptionKeyword, "a description"); err != nil {
		t.Fatal(err)
	}

	if got, ok, _ := Read(path, "Software"); !ok || got != "holmes" {
		t.Fatalf("Software = %q (ok=%v), want holmes", got, ok)
	}
	if got, ok, _ := Read(path, DescriptionKeyword); !ok || got != "a description" {
		t.Fatalf("Description = %q (ok=%v)", got, ok)
	}
}

func TestReadMissingKeyword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	testutils.CreateTestPNG(t, path)

	if _, ok, err := Read(path, DescriptionKeyword); err != nil || ok {
		t.Fatalf("expected no chunk, got ok=%v err=%v", ok, err)
	}
}

func TestEmbedInvalidContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.png")
	testutils.CreateBogusPNG(t, path)
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := Embed(path, DescriptionKeyword, "nope"); err == nil {
		t.Fatal("expected error for invalid container")
	}

	// Failure must leave the original bytes untouched.
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("file modified despite embed failure")
	}
}
