package catalog

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joeblew999/plat-fonts/pkg/font"
)

// Report renders the human-readable end-of-run summary. It is observational
// only and not part of the artifact contract.
func Report(res *Result) string {
	cat := res.Catalog
	var sb strings.Builder

	fmt.Fprintf(&sb, "Families:       %s\n", humanize.Comma(int64(cat.Metadata.FamilyCount)))
	fmt.Fprintf(&sb, "Font files:     %s\n", humanize.Comma(int64(cat.Metadata.TotalFonts)))
	fmt.Fprintf(&sb, "Original size:  %s\n", humanize.Bytes(uint64(res.Totals.OriginalBytes)))
	if cat.Metadata.Base64Encoded {
		fmt.Fprintf(&sb, "Encoded size:   %s", humanize.Bytes(uint64(res.Totals.EncodedBytes)))
		if res.Totals.OriginalBytes > 0 {
			growth := float64(res.Totals.EncodedBytes)/float64(res.Totals.OriginalBytes)*100 - 100
			fmt.Fprintf(&sb, " (+%.1f%%)", growth)
		}
		sb.WriteByte('\n')
	}

	formats := res.Totals.FormatList()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = fmt.Sprintf("%s (%d families)", f, cat.Metadata.FormatSummary[f])
	}
	if len(names) == 0 {
		names = []string{"none"}
	}
	fmt.Fprintf(&sb, "Formats:        %s\n", strings.Join(names, ", "))

	if len(res.Skipped) > 0 {
		fmt.Fprintf(&sb, "Skipped:        %s\n", strings.Join(res.Skipped, ", "))
	}
	return sb.String()
}

// FormatCounts returns the format summary in SupportedFormats order.
func FormatCounts(cat *font.Catalog) []string {
	out := make([]string, 0, len(cat.Metadata.FormatSummary))
	for _, f := range font.SupportedFormats {
		if n, ok := cat.Metadata.FormatSummary[f]; ok {
			out = append(out, fmt.Sprintf("%s=%d", f, n))
		}
	}
	return out
}
