package font

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joeblew999/plat-fonts/pkg/log"
)

// ScanOptions controls how a family directory is turned into variants.
type ScanOptions struct {
	// RootName is the font root's base name, used as the first element of
	// every relative path.
	RootName string
	// Embed inlines font bytes as data URIs and license files as text.
	Embed bool
}

// FamilyScan is the raw result of scanning one family directory.
type FamilyScan struct {
	Variants    []Variant
	LicenseFile string
	LicenseText *string
}

// Formats returns the distinct formats present, in SupportedFormats order.
func (s *FamilyScan) Formats() []Format {
	out := []Format{}
	for _, f := range SupportedFormats {
		if slices.ContainsFunc(s.Variants, func(v Variant) bool { return v.Format == f }) {
			out = append(out, f)
		}
	}
	return out
}

// Totals accumulates sizes across a scan for end-of-run reporting.
type Totals struct {
	OriginalBytes int64
	EncodedBytes  int64
	Formats       map[Format]struct{}
}

// Add folds other into t.
func (t *Totals) Add(other Totals) {
	t.OriginalBytes += other.OriginalBytes
	t.EncodedBytes += other.EncodedBytes
	for f := range other.Formats {
		t.addFormat(f)
	}
}

// FormatList returns the formats seen, in SupportedFormats order.
func (t Totals) FormatList() []Format {
	out := make([]Format, 0, len(t.Formats))
	for _, f := range SupportedFormats {
		if _, ok := t.Formats[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

func (t *Totals) addFormat(f Format) {
	if t.Formats == nil {
		t.Formats = make(map[Format]struct{})
	}
	t.Formats[f] = struct{}{}
}

// ScanFamily lists one family directory (non-recursively) and extracts its
// font variants and license file. Only a failure to list the directory is
// returned as an error; individual unreadable files are logged and skipped.
func ScanFamily(dir string, opts ScanOptions) (*FamilyScan, Totals, error) {
	var totals Totals

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, totals, fmt.Errorf("read family directory: %w", err)
	}

	folder := filepath.Base(dir)
	scan := &FamilyScan{}
	licensePath := ""

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)

		format, ok := FormatFromExt(ext)
		if !ok {
			if licensePath == "" && isLicenseFile(name) {
				licensePath = filepath.Join(dir, name)
				scan.LicenseFile = relativePath(opts.RootName, folder, name)
			}
			continue
		}

		full := filepath.Join(dir, name)
		info, err := os.Stat(full)
		if err != nil {
			log.Warn("Skipping unreadable font file", "file", name, "family", folder, "error", err)
			continue
		}

		rel := relativePath(opts.RootName, folder, name)
		v := Variant{
			Name:     strings.TrimSuffix(name, ext),
			Weight:   InferWeight(name),
			Style:    InferStyle(name),
			Format:   format,
			FileSize: info.Size(),
			URL:      rel,
			File:     rel,
		}

		if opts.Embed {
			data, err := os.ReadFile(full)
			if err != nil {
				log.Warn("Skipping font file that could not be embedded", "file", name, "family", folder, "error", err)
				continue
			}
			v.File = EncodeDataURI(format.MimeType(), data)
			totals.EncodedBytes += int64(len(v.File))
		}

		totals.OriginalBytes += v.FileSize
		totals.addFormat(format)
		scan.Variants = append(scan.Variants, v)
	}

	if opts.Embed && licensePath != "" {
		text := readLicenseText(licensePath)
		scan.LicenseText = &text
		totals.EncodedBytes += int64(len(text))
	}

	return scan, totals, nil
}

// isLicenseFile reports whether a non-font entry is a license or readme.
func isLicenseFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "license") || lower == ReadmeFilename
}

// readLicenseText never fails: a read error becomes the returned text.
func readLicenseText(p string) string {
	data, err := os.ReadFile(p)
	if err != nil {
		log.Warn("Failed to read license file", "file", p, "error", err)
		return LicenseReadErrorPrefix + err.Error()
	}
	return string(data)
}

// relativePath builds the POSIX path clients use to fetch a file.
func relativePath(rootName, folder, name string) string {
	return path.Join(rootName, folder, name)
}
