package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// letters that do not decompose into an ASCII base plus a combining mark.
var special = strings.NewReplacer("ı", "i", "ß", "ss", "æ", "ae", "ø", "o", "œ", "oe", "đ", "d", "ł", "l")

// Generate creates a URL-friendly slug from a product name, folding accented
// letters to ASCII.
//
//   - "Engagement Ring 1" → "engagement-ring-1"
//   - "Bague Fiançailles" → "bague-fiancailles"
//   - "Şeker Bayramı" → "seker-bayrami"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = special.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
