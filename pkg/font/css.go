package font

import (
	"fmt"
	"strings"
)

// FontFaceCSS generates one @font-face rule per variant of a family. The src
// is the variant's file reference, which is a data URI in inline mode.
func FontFaceCSS(f Family) string {
	rules := make([]string, 0, len(f.Variants))
	for _, v := range f.Variants {
		rules = append(rules, VariantCSS(f.FamilyName, v))
	}
	return strings.Join(rules, "\n")
}

var cssQuoter = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"<", `\3c `,
	">", `\3e `,
	"\n", `\a `,
	"\r", `\d `,
)

// QuoteCSS escapes s for use inside a single-quoted CSS string. Angle
// brackets are escaped too, so the result cannot close a style element.
func QuoteCSS(s string) string {
	return cssQuoter.Replace(s)
}

// VariantCSS generates the @font-face rule for a single variant.
func VariantCSS(familyName string, v Variant) string {
	src := v.File
	if src == "" {
		src = v.URL
	}
	return fmt.Sprintf(`@font-face {
  font-family: '%s';
  font-style: %s;
  font-weight: %d;
  font-display: swap;
  src: url('%s') format('%s');
}`, QuoteCSS(familyName), v.Style, v.Weight, QuoteCSS(src), cssFormats[v.Format])
}
