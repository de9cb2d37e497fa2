package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/pkg/font"
)

// MarshalDocument renders the fonts.json document: metadata plus fonts.
func MarshalDocument(cat *font.Catalog) ([]byte, error) {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return append(data, '\n'), nil
}

// MarshalInline renders the inline script: a bare assignment of the fonts
// array to global. Metadata is not included.
func MarshalInline(cat *font.Catalog, global string) ([]byte, error) {
	fonts := cat.Fonts
	if fonts == nil {
		fonts = []font.Family{}
	}
	data, err := json.Marshal(fonts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inline fonts: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(global) + 8)
	buf.WriteString("let ")
	buf.WriteString(global)
	buf.WriteString(" = ")
	buf.Write(data)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// WriteArtifacts writes the document and inline artifacts for one catalog.
func WriteArtifacts(cat *font.Catalog, documentPath, inlinePath, global string) error {
	doc, err := MarshalDocument(cat)
	if err != nil {
		return err
	}
	inline, err := MarshalInline(cat, global)
	if err != nil {
		return err
	}

	if err := writeFile(documentPath, doc); err != nil {
		return err
	}
	return writeFile(inlinePath, inline)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errorx.Wrap(errorx.ErrWriteOutput, "%s: %v", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "%s: %v", path, err)
	}
	return nil
}
