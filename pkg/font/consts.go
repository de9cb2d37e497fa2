package font

const (
	// DefaultFontWeight is the weight used when a filename carries no weight token
	DefaultFontWeight = 400

	// DefaultFontStyle is the style used when a filename carries no style token
	DefaultFontStyle = StyleNormal

	// LicenseReadErrorPrefix prefixes the text substituted for an unreadable license file
	LicenseReadErrorPrefix = "Error reading license file: "

	// ReadmeFilename is matched case-insensitively as a license file
	ReadmeFilename = "readme.md"
)

// Style is the inferred style of a font variant.
type Style string

const (
	StyleNormal  Style = "normal"
	StyleItalic  Style = "italic"
	StyleOblique Style = "oblique"
)

// Format is a supported font file format, named after its extension.
type Format string

const (
	FormatOTF   Format = "otf"
	FormatTTF   Format = "ttf"
	FormatWOFF  Format = "woff"
	FormatWOFF2 Format = "woff2"
	FormatEOT   Format = "eot"
)

// mimeTypes maps each supported format to the MIME type used in data URIs.
var mimeTypes = map[Format]string{
	FormatOTF:   "font/otf",
	FormatTTF:   "font/ttf",
	FormatWOFF:  "font/woff",
	FormatWOFF2: "font/woff2",
	FormatEOT:   "application/vnd.ms-fontobject",
}

// cssFormats maps each format to its @font-face format() hint.
var cssFormats = map[Format]string{
	FormatOTF:   "opentype",
	FormatTTF:   "truetype",
	FormatWOFF:  "woff",
	FormatWOFF2: "woff2",
	FormatEOT:   "embedded-opentype",
}

// SupportedFormats lists every recognised format in a fixed order.
var SupportedFormats = []Format{FormatOTF, FormatTTF, FormatWOFF, FormatWOFF2, FormatEOT}

// MimeType returns the MIME type for a format, falling back to application/octet-stream.
func (f Format) MimeType() string {
	if m, ok := mimeTypes[f]; ok {
		return m
	}
	return "application/octet-stream"
}

// FormatFromExt maps a file extension (with or without the leading dot, any case)
// to a supported format.
func FormatFromExt(ext string) (Format, bool) {
	f := Format(toLowerASCII(trimDot(ext)))
	_, ok := mimeTypes[f]
	return f, ok
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
