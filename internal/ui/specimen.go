// Package ui renders the static specimen page shipped with the portable build.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joeblew999/plat-fonts/pkg/font"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// SpecimenFilename is the page written into the portable output.
const SpecimenFilename = "specimen.html"

// SampleText is shown for every variant.
const SampleText = "The quick brown fox jumps over the lazy dog 0123456789"

// Layout wraps content in the base HTML layout. css and script are inlined
// so the page works when opened from disk.
func Layout(title, css string, script []byte, content ...g.Node) g.Node {
	return h.Doctype(h.HTML(
		h.Lang("en"),
		h.Head(
			h.Meta(h.Charset("utf-8")),
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.TitleEl(g.Text(title)),
			h.StyleEl(h.Type("text/css"), g.Raw(styles)),
			h.StyleEl(h.Type("text/css"), g.Raw(css)),
			g.If(len(script) > 0, h.Script(g.Raw(string(script)))),
		),
		h.Body(
			h.Nav(h.Class("navbar"),
				h.Div(h.Class("nav-brand"), g.Text("Font Specimen")),
			),
			h.Main(h.Class("container"), g.Group(content)),
			h.Footer(h.Class("footer"),
				g.Text("Generated by fontcat"),
			),
		),
	))
}

// Specimen renders the page for a catalog.
func Specimen(cat *font.Catalog, script []byte) g.Node {
	var css []string
	var families []g.Node
	for _, f := range cat.Fonts {
		if len(f.Variants) > 0 {
			css = append(css, font.FontFaceCSS(f))
		}
		families = append(families, FamilyCard(f))
	}

	meta := cat.Metadata
	return Layout("Font Specimen", strings.Join(css, "\n"), script,
		h.H1(g.Text("Font Specimen")),
		h.Div(h.Class("stats-grid"),
			StatCard(humanize.Comma(int64(meta.FamilyCount)), "Families"),
			StatCard(humanize.Comma(int64(meta.TotalFonts)), "Font files"),
			StatCard(humanize.Bytes(uint64(meta.TotalFileSize)), "Total size"),
		),
		g.Group(families),
	)
}

// StatCard renders a statistics card.
func StatCard(value, label string) g.Node {
	return h.Div(h.Class("stat-card"),
		h.Div(h.Class("stat-value"), g.Text(value)),
		h.Div(h.Class("stat-label"), g.Text(label)),
	)
}

// FamilyCard renders one family with a sample line per variant.
func FamilyCard(f font.Family) g.Node {
	var rows []g.Node
	for _, v := range f.Variants {
		rows = append(rows, h.Tr(
			h.Td(g.Text(v.Name)),
			h.Td(g.Textf("%d %s", v.Weight, v.Style)),
			h.Td(g.Text(string(v.Format))),
			h.Td(h.Class("sample"),
				h.StyleAttr(sampleStyle(f.FamilyName, v)),
				g.Text(SampleText),
			),
		))
	}

	formats := make([]string, len(f.Formats))
	for i, format := range f.Formats {
		formats[i] = string(format)
	}

	return h.Section(h.Class("family"), h.ID("family-"+f.FamilyName),
		h.H2(g.Text(f.DisplayName)),
		h.P(h.Class("family-meta"),
			g.Textf("%s · %d fonts · %s", strings.Join(formats, ", "), f.FontCount, humanize.Bytes(uint64(f.TotalSize))),
		),
		g.If(len(rows) == 0, h.P(h.Class("empty"), g.Text("No font files"))),
		g.If(len(rows) > 0, h.Table(
			h.THead(h.Tr(h.Th(g.Text("Variant")), h.Th(g.Text("Weight")), h.Th(g.Text("Format")), h.Th(g.Text("Sample")))),
			h.TBody(g.Group(rows)),
		)),
		g.If(f.LicenseText != nil, h.Div(h.Class("license"),
			h.H3(g.Text("License")),
			h.Pre(g.Text(deref(f.LicenseText))),
		)),
	)
}

// Render writes the specimen page to w.
func Render(w io.Writer, cat *font.Catalog, script []byte) error {
	return Specimen(cat, script).Render(w)
}

func sampleStyle(familyName string, v font.Variant) string {
	return fmt.Sprintf("font-family: '%s'; font-weight: %d; font-style: %s;", font.QuoteCSS(familyName), v.Weight, v.Style)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const styles = `
:root {
	--primary: #6366f1;
	--bg: #f8fafc;
	--card-bg: #ffffff;
	--text: #1e293b;
	--text-muted: #64748b;
	--border: #e2e8f0;
}

* {
	box-sizing: border-box;
	margin: 0;
	padding: 0;
}

body {
	font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
	background: var(--bg);
	color: var(--text);
	line-height: 1.6;
}

.navbar {
	background: var(--primary);
	color: white;
	padding: 1rem 2rem;
	box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}

.nav-brand {
	font-size: 1.5rem;
	font-weight: bold;
}

.container {
	max-width: 1200px;
	margin: 0 auto;
	padding: 2rem;
}

.footer {
	text-align: center;
	padding: 2rem;
	color: var(--text-muted);
	border-top: 1px solid var(--border);
	margin-top: 2rem;
}

h1 {
	margin-bottom: 1.5rem;
}

h2 {
	margin-bottom: 0.25rem;
	font-size: 1.25rem;
}

.stats-grid {
	display: grid;
	grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
	gap: 1rem;
	margin-bottom: 2rem;
}

.stat-card, .family {
	background: var(--card-bg);
	border: 1px solid var(--border);
	border-radius: 8px;
	padding: 1.5rem;
}

.family {
	margin-bottom: 1.5rem;
}

.stat-value {
	font-size: 2rem;
	font-weight: bold;
	color: var(--primary);
}

.stat-label, .family-meta, .empty {
	color: var(--text-muted);
	font-size: 0.875rem;
}

table {
	width: 100%;
	border-collapse: collapse;
	margin-top: 1rem;
}

th, td {
	text-align: left;
	padding: 0.5rem;
	border-bottom: 1px solid var(--border);
}

.sample {
	font-size: 1.5rem;
}

.license h3 {
	font-size: 0.875rem;
	margin-top: 1rem;
}

pre {
	white-space: pre-wrap;
	font-size: 0.75rem;
	margin-top: 0.5rem;
}
`
