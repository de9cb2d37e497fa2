package font

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emmansun/base64"
)

var errNotDataURI = errors.New("not a base64 data URI")

// EncodeDataURI builds a data:<mime>;base64,<payload> URI.
func EncodeDataURI(mime string, data []byte) string {
	prefix := "data:" + mime + ";base64,"
	var sb strings.Builder
	sb.Grow(len(prefix) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString(prefix)
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}

// DecodeDataURI reverses EncodeDataURI.
func DecodeDataURI(uri string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errNotDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errNotDataURI
	}
	mime, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, errNotDataURI
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}
	return mime, data, nil
}

// IsDataURI reports whether s is an inline data URI rather than a path.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}
