// Package chunk partitions an inline font catalog into alphabetic shard files
// for incremental loading, then verifies the files it wrote.
package chunk

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/pkg/font"
)

// Record is one family from the source. Raw holds the original JSON and is
// written to shard files unchanged; the other fields are decoded for routing.
type Record struct {
	Raw            json.RawMessage
	FamilyName     string
	DisplayName    string
	Formats        []string
	HasDefaultFont bool
	FontCount      int
	Variants       []variantRef
}

type variantRef struct {
	URL  string `json:"url"`
	File string `json:"file"`
}

// Source is a parsed inline artifact.
type Source struct {
	// Base64Encoded is true when a metadata object says so or when any
	// variant's file is a data URI.
	Base64Encoded bool
	HasMetadata   bool
	Records       []Record
}

// ParseInline parses the text of an inline artifact such as
// `let fontData = [...];`. The assigned value may be a bare fonts array or an
// object with a "fonts" array and optional "metadata".
func ParseInline(src []byte) (*Source, error) {
	literal := assignedLiteral(src)
	if len(literal) == 0 {
		return nil, errorx.Wrap(errorx.ErrParse, "no assigned value found")
	}

	var fontsRaw json.RawMessage
	out := &Source{}

	switch literal[0] {
	case '[':
		fontsRaw = literal
	case '{':
		var doc struct {
			Metadata *struct {
				Base64Encoded bool `json:"base64Encoded"`
			} `json:"metadata"`
			Fonts json.RawMessage `json:"fonts"`
		}
		if err := json.Unmarshal(literal, &doc); err != nil {
			return nil, errorx.Wrap(errorx.ErrParse, "%v", err)
		}
		if doc.Metadata != nil {
			out.HasMetadata = true
			out.Base64Encoded = doc.Metadata.Base64Encoded
		}
		fontsRaw = doc.Fonts
	default:
		return nil, errorx.Wrap(errorx.ErrParse, "assigned value is neither an array nor an object")
	}

	fontsRaw = bytes.TrimSpace(fontsRaw)
	if len(fontsRaw) == 0 || fontsRaw[0] != '[' {
		return nil, errorx.Wrap(errorx.ErrParse, "no fonts array found")
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(fontsRaw, &raws); err != nil {
		return nil, errorx.Wrap(errorx.ErrParse, "%v", err)
	}

	out.Records = make([]Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, errorx.Wrap(errorx.ErrParse, "family %d: %v", i, err)
		}
		if rec.Embedded() {
			out.Base64Encoded = true
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

func decodeRecord(raw json.RawMessage) (Record, error) {
	var head struct {
		FamilyName     string       `json:"familyName"`
		DisplayName    string       `json:"displayName"`
		Formats        []string     `json:"formats"`
		HasDefaultFont bool         `json:"hasDefaultFont"`
		FontCount      int          `json:"fontCount"`
		Variants       []variantRef `json:"variants"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Record{}, err
	}
	return Record{
		Raw:            raw,
		FamilyName:     head.FamilyName,
		DisplayName:    head.DisplayName,
		Formats:        head.Formats,
		HasDefaultFont: head.HasDefaultFont,
		FontCount:      head.FontCount,
		Variants:       head.Variants,
	}, nil
}

// assignedLiteral returns the text after the first '=' with surrounding space
// and a trailing ';' removed. Text without an assignment is returned trimmed,
// so plain JSON is accepted too.
func assignedLiteral(src []byte) []byte {
	s := bytes.TrimSpace(src)
	if len(s) > 0 && s[0] != '[' && s[0] != '{' {
		i := bytes.IndexByte(s, '=')
		if i < 0 {
			return nil
		}
		s = s[i+1:]
	}
	s = bytes.TrimSpace(s)
	s = bytes.TrimSuffix(s, []byte(";"))
	return bytes.TrimSpace(s)
}

// Usable reports whether the record passes the validity gate: at least one
// variant, and at least one variant with a URL.
func (r Record) Usable() bool {
	for _, v := range r.Variants {
		if v.URL != "" {
			return true
		}
	}
	return false
}

// Embedded reports whether any variant carries its font data inline.
func (r Record) Embedded() bool {
	for _, v := range r.Variants {
		if font.IsDataURI(v.File) {
			return true
		}
	}
	return false
}

func (r Record) String() string {
	return fmt.Sprintf("%s (%d variants)", r.FamilyName, len(r.Variants))
}
