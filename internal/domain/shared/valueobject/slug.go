package valueobject

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a human-readable title into a URL-safe identifier:
// lowercase ASCII, diacritics removed, every run of non-word characters
// collapsed to a single hyphen, no leading or trailing hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}
	// đ has no decomposition.
	stripped = strings.NewReplacer("đ", "d", "Đ", "d").Replace(stripped)

	var b strings.Builder
	b.Grow(len(stripped))
	pendingHyphen := false
	for _, r := range stripped {
		if isWordRune(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// isWordRune matches the ASCII word class [A-Za-z0-9_].
func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
