package build

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeblew999/plat-fonts/internal/config"
	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/internal/ui"
	"github.com/joeblew999/plat-fonts/pkg/chunk"
	"github.com/joeblew999/plat-fonts/pkg/db"
	"github.com/joeblew999/plat-fonts/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

// testConfig lays out a workspace with a font root and static assets and
// points every configured path into it.
func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, filepath.Join(dir, "fonts"), map[string]string{
		"open-sans/OpenSans-Regular.ttf": "regular",
		"open-sans/OpenSans-Bold.ttf":    "bold",
		"open-sans/LICENSE.txt":          "OFL",
		"Zebra/Zebra-Black.otf":          "zebra",
		"123font/123font-Regular.woff2":  "123",
	})
	writeFiles(t, filepath.Join(dir, "static"), map[string]string{
		"index.html":   "<html></html>",
		"css/site.css": "body{}",
		"js/loader.js": "// loader",
	})

	c, err := config.Load("")
	require.NoError(t, err)
	c.Fonts.Root = filepath.Join(dir, "fonts")
	c.Build.StaticDir = filepath.Join(dir, "static")
	c.Build.DistDir = filepath.Join(dir, "dist")
	c.Build.Debounce = "50ms"
	c.Output.Document = filepath.Join(dir, "fonts.json")
	c.Output.Inline = filepath.Join(dir, "inline-fonts-data.js")
	c.Output.ChunkDir = filepath.Join(dir, "font-chunks")
	return c
}

func TestDeploy(t *testing.T) {
	c := testConfig(t)
	stale := filepath.Join(c.Build.DistDir, TargetDeploy, "stale.txt")
	writeFiles(t, filepath.Dir(stale), map[string]string{"stale.txt": "old"})

	dir, err := New(c).Deploy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.Build.DistDir, TargetDeploy), dir)

	assert.NoFileExists(t, stale)
	for _, name := range []string{
		"index.html",
		"css/site.css",
		"js/loader.js",
		"fonts.json",
		"inline-fonts-data.js",
		"font-chunks/index.json",
		"font-chunks/a-f.json",
		"font-chunks/symbols.json",
		"fonts/open-sans/LICENSE.txt",
	} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(name)))
	}

	reg, err := font.LoadRegistry(filepath.Join(dir, "font-chunks", "n-z.json"))
	require.NoError(t, err)
	zebra, ok := reg.Get("zebra")
	require.True(t, ok)
	require.Len(t, zebra.Variants, 1)
	assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(zebra.Variants[0].URL)))
	assert.Equal(t, zebra.Variants[0].URL, zebra.Variants[0].File)
}

func TestPortable(t *testing.T) {
	c := testConfig(t)

	dir, err := New(c).Portable(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "index.html"))
	assert.FileExists(t, filepath.Join(dir, "inline-fonts-data.js"))
	assert.NoDirExists(t, filepath.Join(dir, "fonts"))
	assert.NoDirExists(t, filepath.Join(dir, "font-chunks"))

	page, err := os.ReadFile(filepath.Join(dir, ui.SpecimenFilename))
	require.NoError(t, err)
	assert.Contains(t, string(page), "let fontData = [")
	assert.Contains(t, string(page), "url('data:font/ttf;base64,")
	assert.Contains(t, string(page), "Open Sans")

	inline, err := os.ReadFile(filepath.Join(dir, "inline-fonts-data.js"))
	require.NoError(t, err)
	assert.Contains(t, string(inline), "data:font/woff2;base64,")
}

func TestPortableOutputCannotBeSplit(t *testing.T) {
	c := testConfig(t)
	b := New(c)
	_, err := b.Generate(context.Background(), true)
	require.NoError(t, err)

	_, err = b.Split(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorx.ErrEmbeddedInput))
}

func TestGenerateExportsToDatabase(t *testing.T) {
	c := testConfig(t)
	c.Database.Path = filepath.Join(t.TempDir(), "catalog.db")

	res, err := New(c).Generate(context.Background(), false)
	require.NoError(t, err)

	store, err := db.Open(c.Database.Path)
	require.NoError(t, err)
	defer store.Close()

	buildID, err := store.LatestBuild(context.Background())
	require.NoError(t, err)
	rows, err := store.Families(context.Background(), buildID)
	require.NoError(t, err)
	require.Len(t, rows, len(res.Catalog.Fonts))
	assert.Equal(t, res.Catalog.Fonts[0].FamilyName, rows[0].FamilyName)
}

func TestRunUnknownTarget(t *testing.T) {
	_, err := New(testConfig(t)).Run(context.Background(), "cdn")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorx.ErrUnknownTarget))
	assert.Equal(t, 2, errorx.ExitCode(err))
}

func TestDeployMissingRoot(t *testing.T) {
	c := testConfig(t)
	c.Fonts.Root = filepath.Join(t.TempDir(), "missing")

	_, err := New(c).Deploy(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorx.ErrFontRootMissing))
}

func TestDeploySkipsIgnoredFolders(t *testing.T) {
	c := testConfig(t)
	c.Fonts.Ignore = []string{".*", "_*"}
	writeFiles(t, c.Fonts.Root, map[string]string{
		".git/HEAD":              "ref",
		"_drafts/Draft-Bold.ttf": "draft",
		"README.md":              "fonts",
	})

	dir, err := New(c).Deploy(context.Background())
	require.NoError(t, err)

	fonts := filepath.Join(dir, "fonts")
	assert.NoDirExists(t, filepath.Join(fonts, ".git"))
	assert.NoDirExists(t, filepath.Join(fonts, "_drafts"))
	assert.FileExists(t, filepath.Join(fonts, "README.md"))
	assert.FileExists(t, filepath.Join(fonts, "Zebra", "Zebra-Black.otf"))
}

func TestDeployWithoutStaticAssets(t *testing.T) {
	c := testConfig(t)
	c.Build.StaticDir = filepath.Join(t.TempDir(), "none")

	dir, err := New(c).Deploy(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "fonts.json"))
	assert.NoFileExists(t, filepath.Join(dir, "index.html"))
}

func TestCopyArtifactMissing(t *testing.T) {
	dir := t.TempDir()
	err := copyArtifact(filepath.Join(dir, "fonts.json"), filepath.Join(dir, "out", "fonts.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorx.ErrArtifactMissing))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestCopyTreeFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, filepath.Join(dir, "real"), map[string]string{"a/b.txt": "b"})
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real", "a"), filepath.Join(src, "linked")))

	require.NoError(t, copyTree(src, filepath.Join(dir, "dst")))
	data, err := os.ReadFile(filepath.Join(dir, "dst", "linked", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestBuildMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr, err := StartMetrics(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	_, err = New(testConfig(t)).Run(ctx, TargetDeploy)
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + MetricsPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fontcat_build_total{outcome="ok",target="deploy"}`)
	assert.Contains(t, string(body), `fontcat_build_duration_ms_count{target="deploy"}`)
}

func TestWatchMetricsAddrInUse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr, err := StartMetrics(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	c := testConfig(t)
	c.Metrics.Addr = addr
	assert.Error(t, New(c).Watch(ctx, TargetDeploy))
}

func TestDebounce(t *testing.T) {
	c := testConfig(t)
	assert.Equal(t, 50*time.Millisecond, New(c).debounce())
	c.Build.Debounce = "soon"
	assert.Equal(t, DefaultDebounce, New(c).debounce())
}

func TestWatchRebuildsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := testConfig(t)
	b := New(c)
	document := filepath.Join(c.Build.DistDir, TargetDeploy, "fonts.json")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Watch(ctx, TargetDeploy) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(document)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	// Let the watcher register before changing the root.
	time.Sleep(200 * time.Millisecond)
	writeFiles(t, c.Fonts.Root, map[string]string{"Mono/Mono-Regular.ttf": "mono"})

	shard := filepath.Join(c.Build.DistDir, TargetDeploy, "font-chunks", chunk.ShardGM+".json")
	require.Eventually(t, func() bool {
		reg, err := font.LoadRegistry(shard)
		return err == nil && reg.Has("mono")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchUnknownTarget(t *testing.T) {
	err := New(testConfig(t)).Watch(context.Background(), "cdn")
	assert.True(t, errors.Is(err, errorx.ErrUnknownTarget))
}
