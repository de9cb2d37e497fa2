package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joeblew999/plat-fonts/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	license := "SIL Open Font License <1.1>"
	cat := &font.Catalog{
		Metadata: font.Metadata{FamilyCount: 2, TotalFonts: 1, TotalFileSize: 2048},
		Fonts: []font.Family{
			{
				DisplayName: "Open Sans",
				FamilyName:  "open-sans",
				Formats:     []font.Format{font.FormatTTF},
				FontCount:   1,
				TotalSize:   2048,
				LicenseText: &license,
				Variants: []font.Variant{{
					Name:   "OpenSans-Bold",
					Weight: 700,
					Style:  font.StyleNormal,
					Format: font.FormatTTF,
					URL:    "fonts/open-sans/OpenSans-Bold.ttf",
					File:   "data:font/ttf;base64,AAAA",
				}},
			},
			{DisplayName: "Empty", FamilyName: "Empty", Variants: []font.Variant{}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, cat, []byte("let fontData = [];\n")))
	page := buf.String()

	assert.True(t, strings.HasPrefix(page, "<!doctype html>"))
	assert.Contains(t, page, "<script>let fontData = [];\n</script>")
	assert.Contains(t, page, "font-family: 'open-sans';")
	assert.Contains(t, page, "src: url('data:font/ttf;base64,AAAA') format('truetype');")
	assert.Contains(t, page, "<h2>Open Sans</h2>")
	assert.Contains(t, page, "700 normal")
	assert.Contains(t, page, "SIL Open Font License &lt;1.1&gt;")
	assert.Contains(t, page, "No font files")
	assert.Contains(t, page, "2.0 kB")
	assert.Equal(t, 1, strings.Count(page, "@font-face"))
}

func TestRenderEscapesFamilyNames(t *testing.T) {
	cat := &font.Catalog{Fonts: []font.Family{{
		DisplayName: "Jane's </style>",
		FamilyName:  "Jane's </style>",
		Variants: []font.Variant{{
			Name:   "Jane-Regular",
			Weight: 400,
			Style:  font.StyleNormal,
			Format: font.FormatTTF,
			URL:    "fonts/Jane's/Jane-Regular.ttf",
		}},
	}}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, cat, nil))
	page := buf.String()

	assert.Contains(t, page, `font-family: 'Jane\'s \3c /style\3e ';`)
	assert.Equal(t, 2, strings.Count(page, "</style>"))
}

func TestRenderWithoutScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &font.Catalog{}, nil))
	assert.NotContains(t, buf.String(), "<script>")
}
