package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeblew999/plat-fonts/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

func testCatalog() *font.Catalog {
	return &font.Catalog{
		Metadata: font.Metadata{
			Generated:     time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
			FamilyCount:   2,
			TotalFonts:    3,
			TotalFileSize: 60,
		},
		Fonts: []font.Family{
			{
				DisplayName:    "Arial",
				FamilyName:     "Arial",
				Formats:        []font.Format{font.FormatTTF},
				HasDefaultFont: true,
				FontCount:      2,
				TotalSize:      40,
				LicenseFile:    "fonts/Arial/LICENSE",
				Variants: []font.Variant{
					{Name: "Arial-Regular", Weight: 400, Style: font.StyleNormal, Format: font.FormatTTF, FileSize: 20, URL: "fonts/Arial/Arial-Regular.ttf"},
					{Name: "Arial-Bold", Weight: 700, Style: font.StyleNormal, Format: font.FormatTTF, FileSize: 20, URL: "fonts/Arial/Arial-Bold.ttf"},
				},
			},
			{
				DisplayName: "Zebra",
				FamilyName:  "Zebra",
				Formats:     []font.Format{font.FormatOTF, font.FormatWOFF2},
				FontCount:   1,
				TotalSize:   20,
				Variants: []font.Variant{
					{Name: "Zebra-Black", Weight: 900, Style: font.StyleNormal, Format: font.FormatOTF, FileSize: 20, URL: "fonts/Zebra/Zebra-Black.otf"},
				},
			},
		},
	}
}

func TestSaveCatalog(t *testing.T) {
	ctx := context.Background()
	d, err := Open(filepath.Join(t.TempDir(), "nested", "fonts.db"))
	require.NoError(t, err)
	defer d.Close()

	buildID, err := d.SaveCatalog(ctx, testCatalog())
	require.NoError(t, err)
	require.NotEmpty(t, buildID)

	latest, err := d.LatestBuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, buildID, latest)

	rows, err := d.Families(ctx, buildID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Arial", rows[0].FamilyName)
	assert.Equal(t, "ttf", rows[0].Formats)
	assert.True(t, rows[0].HasDefaultFont)
	assert.Equal(t, int64(40), rows[0].TotalSize)
	assert.Equal(t, "otf,woff2", rows[1].Formats)

	n, err := d.VariantCount(ctx, buildID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSaveCatalogKeepsBuildsApart(t *testing.T) {
	ctx := context.Background()
	d, err := Open(filepath.Join(t.TempDir(), "fonts.db"))
	require.NoError(t, err)
	defer d.Close()

	first, err := d.SaveCatalog(ctx, testCatalog())
	require.NoError(t, err)

	cat := testCatalog()
	cat.Metadata.Generated = cat.Metadata.Generated.Add(time.Hour)
	cat.Fonts = cat.Fonts[:1]
	second, err := d.SaveCatalog(ctx, cat)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	rows, err := d.Families(ctx, first)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = d.Families(ctx, second)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	latest, err := d.LatestBuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest)
}

func TestLatestBuildEmpty(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "fonts.db"))
	require.NoError(t, err)
	defer d.Close()

	_, err = d.LatestBuild(context.Background())
	assert.ErrorIs(t, err, sqlx.ErrNotFound)
}

func TestSqliteAcceptable(t *testing.T) {
	assert.True(t, sqliteAcceptable(nil))
	assert.True(t, sqliteAcceptable(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.False(t, sqliteAcceptable(assert.AnError))
}
