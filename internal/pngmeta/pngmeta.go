// Package pngmeta embeds and reads textual metadata in PNG files via tEXt
// chunks, without touching the image data.
package pngmeta

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
)

// DescriptionKeyword is the tEXt keyword used for the embedded summary.
const DescriptionKeyword = "Description"

const textChunkType = "tEXt"

// Embed writes a tEXt chunk with the given keyword into the PNG at path,
// replacing any existing chunk with the same keyword. The file is rewritten
// atomically (same-directory temp file + rename), so a failure leaves the
// original bytes untouched.
func Embed(path, keyword, text string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	out, err := upsertText(data, keyword, text)
	if err != nil {
		return fmt.Errorf("embedding metadata in %s: %w", filepath.Base(path), err)
	}

	return writeFileAtomic(path, out)
}

// Read returns the text stored under keyword in the PNG at path, and whether
// such a chunk exists.
func Read(path, keyword string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}

	cs, err := parse(data)
	if err != nil {
		return "", false, err
	}

	for _, c := range cs.Chunks() {
		if c.Type != textChunkType {
			continue
		}
		k, v, ok := splitText(c.Data)
		if ok && k == keyword {
			return v, true, nil
		}
	}
	return "", false, nil
}

func parse(data []byte) (*pngstructure.ChunkSlice, error) {
	pmp := pngstructure.NewPngMediaParser()
	intfc, err := pmp.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return intfc.(*pngstructure.ChunkSlice), nil
}

// upsertText serializes the PNG with the keyword's tEXt chunk replaced (or
// inserted before IEND when absent).
func upsertText(data []byte, keyword, text string) ([]byte, error) {
	cs, err := parse(data)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, len(keyword)+1+len(text))
	payload = append(payload, keyword...)
	payload = append(payload, 0)
	payload = append(payload, text...)

	textChunk := &pngstructure.Chunk{
		Type:   textChunkType,
		Data:   payload,
		Length: uint32(len(payload)),
	}
	textChunk.UpdateCrc32()

	chunks := cs.Chunks()
	out := make([]*pngstructure.Chunk, 0, len(chunks)+1)
	for _, c := range chunks {
		if c.Type == textChunkType {
			if k, _, ok := splitText(c.Data); ok && k == keyword {
				continue
			}
		}
		if c.Type == "IEND" {
			out = append(out, textChunk)
		}
		out = append(out, c)
	}

	b := new(bytes.Buffer)
	if err := pngstructure.NewChunkSlice(out).WriteTo(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// splitText decodes a tEXt payload into keyword and value.
func splitText(data []byte) (string, string, bool) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", "", false
	}
	return string(data[:i]), string(data[i+1:]), true
}

// writeFileAtomic replaces path via a temp file in the same directory, so the
// rename cannot cross filesystems and readers never see a partial image.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".holmes-*"+strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
