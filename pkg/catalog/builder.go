// Package catalog scans a font root into a sorted, summarised catalog and
// serialises it to the document and inline artifacts.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/pkg/font"
	"github.com/joeblew999/plat-fonts/pkg/log"
	"github.com/zeromicro/go-zero/core/mr"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultWorkers bounds parallel family scans when Options.Workers is unset.
const DefaultWorkers = 4

// Options controls a catalog build.
type Options struct {
	Root    string
	Embed   bool
	Workers int
	// Ignore holds doublestar patterns matched against family folder names.
	Ignore []string
	// Now stamps metadata.generated; defaults to time.Now.
	Now func() time.Time
}

// Result is a built catalog with the scan totals gathered along the way.
type Result struct {
	Catalog *font.Catalog
	Totals  font.Totals
	// Skipped lists family folders that could not be listed.
	Skipped []string
}

type scanned struct {
	family font.Family
	totals font.Totals
	err    error
}

// Build scans every immediate subdirectory of opts.Root as one family.
// A missing or non-directory root is fatal.
func Build(ctx context.Context, opts Options) (*Result, error) {
	info, err := os.Stat(opts.Root)
	if err != nil || !info.IsDir() {
		return nil, errorx.Wrap(errorx.ErrFontRootMissing, "%s", opts.Root)
	}

	folders, err := familyFolders(opts.Root, opts.Ignore)
	if err != nil {
		return nil, fmt.Errorf("list font root: %w", err)
	}

	abs, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve font root: %w", err)
	}
	scanOpts := font.ScanOptions{RootName: filepath.Base(abs), Embed: opts.Embed}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	log.Info("Scanning font families", "root", opts.Root, "families", len(folders), "base64", opts.Embed, "workers", workers)

	results, err := mr.MapReduce(func(source chan<- string) {
		for _, folder := range folders {
			source <- folder
		}
	}, func(folder string, writer mr.Writer[scanned], cancel func(error)) {
		scan, totals, err := font.ScanFamily(filepath.Join(opts.Root, folder), scanOpts)
		if err != nil {
			writer.Write(scanned{family: font.Family{Folder: folder}, err: err})
			return
		}
		writer.Write(scanned{family: font.NewFamily(folder, scan), totals: totals})
	}, func(pipe <-chan scanned, writer mr.Writer[[]scanned], cancel func(error)) {
		all := make([]scanned, 0, len(folders))
		for s := range pipe {
			all = append(all, s)
		}
		writer.Write(all)
	}, mr.WithWorkers(workers), mr.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("scan families: %w", err)
	}

	res := &Result{}
	families := make([]font.Family, 0, len(results))
	for _, s := range results {
		if s.err != nil {
			log.Warn("Skipping unreadable family directory", "family", s.family.Folder, "error", s.err)
			res.Skipped = append(res.Skipped, s.family.Folder)
			continue
		}
		families = append(families, s.family)
		res.Totals.Add(s.totals)
	}
	slices.Sort(res.Skipped)

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	res.Catalog = Assemble(families, opts.Embed, now())
	return res, nil
}

// familyFolders returns the names of the immediate subdirectories of root,
// following symlinks and dropping names that match an ignore pattern.
func familyFolders(root string, ignore []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var folders []string
	for _, entry := range entries {
		name := entry.Name()
		if !isDir(root, entry) {
			continue
		}
		if Ignored(name, ignore) {
			log.Debug("Ignoring family directory", "family", name)
			continue
		}
		folders = append(folders, name)
	}
	return folders, nil
}

func isDir(root string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, entry.Name()))
	return err == nil && info.IsDir()
}

// Ignored reports whether a family folder name matches one of the doublestar
// patterns.
func Ignored(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Assemble sorts families and computes collection metadata. It is the single
// place both output artifacts are derived from.
func Assemble(families []font.Family, embed bool, generated time.Time) *font.Catalog {
	fonts := slices.Clone(families)
	if fonts == nil {
		fonts = []font.Family{}
	}
	SortFamilies(fonts)

	meta := font.Metadata{
		Generated:     generated.UTC(),
		FamilyCount:   len(fonts),
		Base64Encoded: embed,
		FormatSummary: make(map[font.Format]int),
		WeightSummary: make(font.WeightSummary),
	}
	for _, f := range fonts {
		meta.TotalFonts += f.FontCount
		meta.TotalFileSize += f.TotalSize
		for _, format := range f.Formats {
			meta.FormatSummary[format]++
		}
		for _, v := range f.Variants {
			meta.WeightSummary[v.Weight]++
		}
	}

	return &font.Catalog{Metadata: meta, Fonts: fonts}
}

// SortFamilies orders families by display name using locale-aware collation.
// Ties fall back to familyName and then folder name so the order never depends
// on scan scheduling.
func SortFamilies(fonts []font.Family) {
	c := collate.New(language.English)
	slices.SortStableFunc(fonts, func(a, b font.Family) int {
		if n := c.CompareString(a.DisplayName, b.DisplayName); n != 0 {
			return n
		}
		if n := strings.Compare(a.FamilyName, b.FamilyName); n != 0 {
			return n
		}
		return strings.Compare(a.Folder, b.Folder)
	})
}
