package font

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"
	"strconv"
	"time"
)

// Variant is one physical font file of a family.
type Variant struct {
	Name     string `json:"name"`
	Weight   int    `json:"weight"`
	Style    Style  `json:"style"`
	Format   Format `json:"format"`
	FileSize int64  `json:"fileSize"`
	URL      string `json:"url"`
	File     string `json:"file"`
}

// IsDefault reports whether the variant is the regular upright face.
func (v Variant) IsDefault() bool {
	return v.Weight == DefaultFontWeight && v.Style == StyleNormal
}

// Family is one font directory with its variants and derived statistics.
type Family struct {
	DisplayName    string    `json:"displayName"`
	FamilyName     string    `json:"familyName"`
	Variants       []Variant `json:"variants"`
	Formats        []Format  `json:"formats"`
	HasDefaultFont bool      `json:"hasDefaultFont"`
	FontCount      int       `json:"fontCount"`
	TotalSize      int64     `json:"totalSize"`
	LicenseFile    string    `json:"licenseFile,omitempty"`
	LicenseText    *string   `json:"licenseText,omitempty"`

	// Folder is the source directory name, kept for tie-breaking only.
	Folder string `json:"-"`
}

// NewFamily assembles a family from a folder name and its scan result.
// Variants are sorted and all derived fields are computed here.
func NewFamily(folder string, scan *FamilyScan) Family {
	variants := slices.Clone(scan.Variants)
	SortVariants(variants)

	f := Family{
		DisplayName: FormatDisplayName(folder),
		FamilyName:  FamilyName(folder),
		Variants:    variants,
		Formats:     scan.Formats(),
		FontCount:   len(variants),
		LicenseFile: scan.LicenseFile,
		LicenseText: scan.LicenseText,
		Folder:      folder,
	}
	if f.Variants == nil {
		f.Variants = []Variant{}
	}
	for _, v := range variants {
		f.TotalSize += v.FileSize
		if v.IsDefault() {
			f.HasDefaultFont = true
		}
	}
	return f
}

// HasFormat reports whether any variant of the family uses format.
func (f Family) HasFormat(format Format) bool {
	return slices.Contains(f.Formats, format)
}

// SortVariants orders variants by weight, then normal style before any other.
// Variants that compare equal keep their relative order.
func SortVariants(variants []Variant) {
	slices.SortStableFunc(variants, func(a, b Variant) int {
		if a.Weight != b.Weight {
			return a.Weight - b.Weight
		}
		an, bn := a.Style == StyleNormal, b.Style == StyleNormal
		switch {
		case an && !bn:
			return -1
		case !an && bn:
			return 1
		}
		return 0
	})
}

// Metadata summarises a whole catalog.
type Metadata struct {
	Generated     time.Time      `json:"generated"`
	FamilyCount   int            `json:"familyCount"`
	TotalFonts    int            `json:"totalFonts"`
	TotalFileSize int64          `json:"totalFileSize"`
	Base64Encoded bool           `json:"base64Encoded"`
	FormatSummary map[Format]int `json:"formatSummary"`
	WeightSummary WeightSummary  `json:"weightSummary"`
}

// Catalog is the complete sorted collection of families.
type Catalog struct {
	Metadata Metadata `json:"metadata"`
	Fonts    []Family `json:"fonts"`
}

// WeightSummary counts variants per weight. It serialises with keys in
// ascending numeric order.
type WeightSummary map[int]int

// MarshalJSON implements json.Marshaler.
func (w WeightSummary) MarshalJSON() ([]byte, error) {
	keys := make([]int, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(k)))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(w[k]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *WeightSummary) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(WeightSummary, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return err
		}
		out[n] = v
	}
	*w = out
	return nil
}
