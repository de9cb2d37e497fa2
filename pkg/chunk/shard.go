package chunk

import (
	"unicode"
	"unicode/utf8"
)

// Shard names, also used as file base names.
const (
	ShardAF      = "a-f"
	ShardGM      = "g-m"
	ShardNZ      = "n-z"
	ShardDigits  = "0-9"
	ShardSymbols = "symbols"
)

// Shards lists every shard in output order. All of them are always written.
var Shards = []string{ShardAF, ShardGM, ShardNZ, ShardDigits, ShardSymbols}

// ShardOf maps a familyName to its shard by its lowercased first character.
// Anything outside ASCII letters and digits, including an empty name, goes to
// the symbols shard.
func ShardOf(familyName string) string {
	r, _ := utf8.DecodeRuneInString(familyName)
	if r == utf8.RuneError {
		return ShardSymbols
	}
	r = unicode.ToLower(r)
	switch {
	case r >= 'a' && r <= 'f':
		return ShardAF
	case r >= 'g' && r <= 'm':
		return ShardGM
	case r >= 'n' && r <= 'z':
		return ShardNZ
	case r >= '0' && r <= '9':
		return ShardDigits
	default:
		return ShardSymbols
	}
}
