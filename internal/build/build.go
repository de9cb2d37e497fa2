// Package build runs the generate and split steps and assembles the deploy and
// portable output trees.
package build

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeblew999/plat-fonts/internal/config"
	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/internal/ui"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/chunk"
	"github.com/joeblew999/plat-fonts/pkg/db"
	"github.com/joeblew999/plat-fonts/pkg/log"
)

// Build targets.
const (
	TargetDeploy   = "deploy"
	TargetPortable = "portable"
)

// Targets lists the supported build targets.
var Targets = []string{TargetDeploy, TargetPortable}

// Builder runs pipeline steps for one configuration.
type Builder struct {
	c   config.Config
	now func() time.Time
}

// New returns a Builder for c.
func New(c config.Config) *Builder {
	return &Builder{c: c, now: time.Now}
}

// Generate scans the font root and writes the document and inline artifacts.
// When a database path is configured the catalog is also stored there.
func (b *Builder) Generate(ctx context.Context, embed bool) (*catalog.Result, error) {
	log.Info("Generating font catalog", "root", b.c.Fonts.Root, "base64", embed)

	res, err := catalog.Build(ctx, catalog.Options{
		Root:    b.c.Fonts.Root,
		Embed:   embed,
		Workers: b.c.Fonts.Workers,
		Ignore:  b.c.Fonts.Ignore,
		Now:     b.now,
	})
	if err != nil {
		return nil, err
	}

	out := b.c.Output
	if err := catalog.WriteArtifacts(res.Catalog, out.Document, out.Inline, out.InlineGlobal); err != nil {
		return nil, err
	}

	meta := res.Catalog.Metadata
	log.Info("Catalog written",
		"families", meta.FamilyCount,
		"fonts", meta.TotalFonts,
		"formats", strings.Join(catalog.FormatCounts(res.Catalog), " "),
		"document", out.Document,
		"inline", out.Inline,
	)

	if b.c.Database.Path != "" {
		if err := b.export(ctx, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (b *Builder) export(ctx context.Context, res *catalog.Result) error {
	store, err := db.Open(b.c.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	buildID, err := store.SaveCatalog(ctx, res.Catalog)
	if err != nil {
		return err
	}
	log.Info("Catalog exported", "db", store.Path(), "build", buildID)
	return nil
}

// Split partitions the inline artifact into the chunk directory.
func (b *Builder) Split(ctx context.Context) (*chunk.Result, error) {
	return chunk.Split(ctx, chunk.Options{
		Input:       b.c.Output.Inline,
		OutDir:      b.c.Output.ChunkDir,
		Precompress: b.c.Output.Precompress,
	})
}

// Run builds a single target.
func (b *Builder) Run(ctx context.Context, target string) (string, error) {
	var run func(context.Context) (string, error)
	switch target {
	case TargetDeploy:
		run = b.Deploy
	case TargetPortable:
		run = b.Portable
	default:
		return "", errorx.Wrap(errorx.ErrUnknownTarget, "%q (want %s)", target, strings.Join(Targets, " or "))
	}

	start := time.Now()
	dir, err := run(ctx)
	buildDuration.Observe(time.Since(start).Milliseconds(), target)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	buildsTotal.Inc(target, outcome)
	return dir, err
}

// TargetDir returns the output directory of a target.
func (b *Builder) TargetDir(target string) string {
	return filepath.Join(b.c.Build.DistDir, target)
}

// Deploy builds the URL-mode catalog and its chunks and copies them with
// the static assets and the font root into <dist>/deploy.
func (b *Builder) Deploy(ctx context.Context) (string, error) {
	start := b.now()
	dir := b.TargetDir(TargetDeploy)
	if err := cleanDir(dir); err != nil {
		return "", err
	}

	if _, err := b.Generate(ctx, false); err != nil {
		return "", err
	}
	if _, err := b.Split(ctx); err != nil {
		return "", err
	}

	if err := b.copyStatic(dir); err != nil {
		return "", err
	}
	root, err := filepath.Abs(b.c.Fonts.Root)
	if err != nil {
		return "", err
	}
	if err := copyFontRoot(root, filepath.Join(dir, filepath.Base(root)), b.c.Fonts.Ignore); err != nil {
		return "", err
	}

	for _, artifact := range []string{b.c.Output.Document, b.c.Output.Inline} {
		if err := copyArtifact(artifact, filepath.Join(dir, filepath.Base(artifact))); err != nil {
			return "", err
		}
	}
	if err := requireArtifact(b.c.Output.ChunkDir); err != nil {
		return "", err
	}
	if err := copyTree(b.c.Output.ChunkDir, filepath.Join(dir, filepath.Base(b.c.Output.ChunkDir))); err != nil {
		return "", err
	}

	log.Info("Deploy build complete", "dir", dir, "took", b.now().Sub(start).String())
	return dir, nil
}

// Portable builds the embedded catalog and writes a self-contained
// specimen page next to the static assets and the inline data script.
func (b *Builder) Portable(ctx context.Context) (string, error) {
	start := b.now()
	dir := b.TargetDir(TargetPortable)
	if err := cleanDir(dir); err != nil {
		return "", err
	}

	res, err := b.Generate(ctx, true)
	if err != nil {
		return "", err
	}

	if err := b.copyStatic(dir); err != nil {
		return "", err
	}
	inline := b.c.Output.Inline
	if err := copyArtifact(inline, filepath.Join(dir, filepath.Base(inline))); err != nil {
		return "", err
	}

	script, err := os.ReadFile(inline)
	if err != nil {
		return "", errorx.Wrap(errorx.ErrArtifactMissing, "%s", inline)
	}
	var page bytes.Buffer
	if err := ui.Render(&page, res.Catalog, script); err != nil {
		return "", err
	}
	specimen := filepath.Join(dir, ui.SpecimenFilename)
	if err := os.WriteFile(specimen, page.Bytes(), 0644); err != nil {
		return "", errorx.Wrap(errorx.ErrWriteOutput, "%s: %v", specimen, err)
	}

	log.Info("Portable build complete", "dir", dir, "took", b.now().Sub(start).String())
	return dir, nil
}

// copyStatic copies the static asset directory into dir. A missing static
// directory is not an error.
func (b *Builder) copyStatic(dir string) error {
	static := b.c.Build.StaticDir
	info, err := os.Stat(static)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("No static assets", "dir", static)
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errorx.Wrap(errorx.ErrWriteOutput, "static path %s is not a directory", static)
	}
	return copyTree(static, dir)
}

func cleanDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "clean %s: %v", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "create %s: %v", dir, err)
	}
	return nil
}
