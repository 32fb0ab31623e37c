package resolvecache

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Key derives a stable cache key from the imagery layer and image name.
// Name matching upstream is exact and case-sensitive, so the raw name is
// hashed untouched; the readable prefix is sanitized for log friendliness.
func Key(layerURL, name string) string {
	const maxNameLen = 96

	safe := sanitizeForKey(name)
	if len(safe) > maxNameLen {
		safe = safe[:maxNameLen]
	}

	sum := xxhash.Sum64String(layerURL + "\x00" + name)
	return fmt.Sprintf("%s:n=%016x", safe, sum)
}

func sanitizeForKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case isAlphaNum(r) || r == ':' || r == '_' || r == '-' || r == '.':
			out = r
		default:
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		unicode.IsDigit(r)
}
