package font

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var digitRun = regexp.MustCompile(`\d+`)

type weightRule struct {
	matches func(lower string) bool
	weight  int
}

func named(token string) func(string) bool {
	return func(lower string) bool {
		return strings.Contains(lower, "-"+token) ||
			strings.Contains(lower, "_"+token) ||
			strings.Contains(lower, " "+token+" ")
	}
}

// weightRules is evaluated top to bottom and the first match wins. A token
// must directly follow a separator, so "-extrabold" never matches "bold".
var weightRules = []weightRule{
	{named("thin"), 100},
	{named("hairline"), 100},
	{named("extralight"), 200},
	{named("ultralight"), 200},
	{named("light"), 300},
	{named("regular"), 400},
	{named("normal"), 400},
	{named("book"), 400},
	{named("medium"), 500},
	{named("semibold"), 600},
	{named("demibold"), 600},
	{named("bold"), 700},
	{named("extrabold"), 800},
	{named("ultrabold"), 800},
	{named("black"), 900},
	{named("heavy"), 900},
	{named("extrablack"), 950},
	{named("ultrablack"), 950},
}

// InferWeight guesses the CSS weight of a font from its filename.
func InferWeight(filename string) int {
	for _, loc := range digitRun.FindAllStringIndex(filename, -1) {
		if loc[1]-loc[0] != 3 || !isWeightDelim(filename, loc[0]-1) || !isWeightDelim(filename, loc[1]) {
			continue
		}
		if w, err := strconv.Atoi(filename[loc[0]:loc[1]]); err == nil && w >= 100 && w <= 950 {
			return w
		}
	}

	lower := strings.ToLower(filename)
	for _, rule := range weightRules {
		if rule.matches(lower) {
			return rule.weight
		}
	}
	return DefaultFontWeight
}

// isWeightDelim reports whether position i is outside the name or holds -, _ or '.'.
func isWeightDelim(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	return s[i] == '-' || s[i] == '_' || s[i] == '.'
}

// InferStyle guesses the CSS style of a font from its filename.
func InferStyle(filename string) Style {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "italic"):
		return StyleItalic
	case strings.Contains(lower, "oblique"):
		return StyleOblique
	default:
		return StyleNormal
	}
}

// FormatDisplayName turns a folder name such as "open-sans_extra" into "Open Sans Extra".
// Only the first rune of each word is changed.
func FormatDisplayName(folder string) string {
	var sb strings.Builder
	sb.Grow(len(folder))
	atStart := true
	for _, r := range folder {
		if r == '-' || r == '_' {
			r = ' '
		}
		if unicode.IsSpace(r) {
			atStart = true
			sb.WriteRune(r)
			continue
		}
		if atStart {
			r = unicode.ToUpper(r)
			atStart = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// FamilyName is the folder name with all whitespace removed. It is the stable
// identifier clients use for lookups, sharding and CSS font-family values.
func FamilyName(folder string) string {
	return strings.Join(strings.Fields(folder), "")
}
