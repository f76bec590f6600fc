// internal/utils/slug.go
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// IsSlug reports whether s is lowercase ASCII words joined by single hyphens.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify builds a URL slug from a display name. Cyrillic is transliterated,
// accents are dropped and everything else becomes a separator.
func Slugify(name string) string {
	var translit strings.Builder
	for _, r := range strings.ToLower(name) {
		if t, ok := cyrillic[r]; ok {
			translit.WriteString(t)
			continue
		}
		translit.WriteRune(r)
	}

	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripAccents, translit.String())
	if err != nil {
		plain = translit.String()
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range plain {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			pendingDash = true
			continue
		}
		if pendingDash && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingDash = false
		b.WriteRune(r)
	}
	return b.String()
}
