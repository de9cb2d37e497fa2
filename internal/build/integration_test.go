//go:build integration

package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeblew999/plat-fonts/pkg/chunk"
	"github.com/joeblew999/plat-fonts/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEndToEnd builds both targets from one workspace and checks that every
// family in the document can be found through the chunk files.
func TestEndToEnd(t *testing.T) {
	c := testConfig(t)
	writeFiles(t, c.Fonts.Root, map[string]string{
		"日本語Font/jp-Light.otf":           "jp",
		"fira_code/FiraCode-Medium.woff": "fira",
		"fira_code/FiraCode-500.woff2":   "fira5",
		"NoFonts/readme.md":              "nothing",
	})
	ctx := context.Background()
	b := New(c)

	dir, err := b.Run(ctx, TargetDeploy)
	require.NoError(t, err)

	doc, err := font.LoadRegistry(filepath.Join(dir, "fonts.json"))
	require.NoError(t, err)
	require.Equal(t, 6, doc.Len())

	found := map[string]bool{}
	for _, shard := range chunk.Shards {
		reg, err := font.LoadRegistry(filepath.Join(dir, "font-chunks", shard+".json"))
		require.NoError(t, err)
		for _, f := range reg.List() {
			assert.Equal(t, shard, chunk.ShardOf(f.FamilyName))
			assert.False(t, found[f.FamilyName], f.FamilyName)
			found[f.FamilyName] = true
		}
	}

	for _, f := range doc.List() {
		if f.FontCount == 0 {
			assert.False(t, found[f.FamilyName], f.FamilyName)
			continue
		}
		assert.True(t, found[f.FamilyName], f.FamilyName)
		for _, v := range f.Variants {
			assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(v.URL)))
		}
	}

	jp, ok := doc.Get("日本語font")
	require.True(t, ok)
	assert.Equal(t, 300, jp.Variants[0].Weight)

	fira, ok := doc.Get("FIRA_CODE")
	require.True(t, ok)
	assert.Equal(t, "Fira Code", fira.DisplayName)
	assert.Equal(t, []int{500, 500}, []int{fira.Variants[0].Weight, fira.Variants[1].Weight})

	dir, err = b.Run(ctx, TargetPortable)
	require.NoError(t, err)
	page, err := os.ReadFile(filepath.Join(dir, "specimen.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Fira Code")
}
