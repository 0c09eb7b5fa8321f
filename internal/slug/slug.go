package slug

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxLength = 80

// Make turns a title into a URL slug: accents are stripped, letters lower-cased
// and every run of other characters collapsed into a single dash.
func Make(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case r == 'ß':
			b.WriteString("ss")
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	s := strings.TrimSuffix(b.String(), "-")
	if len(s) > maxLength {
		s = strings.TrimRight(s[:maxLength], "-")
	}
	return s
}

// Stable is Make with a deterministic fallback for text that has no ASCII
// letters or digits (for example "東京"): a short hash of the normalized text.
// The same input always yields the same non-empty slug.
func Stable(s string) string {
	if made := Make(s); made != "" {
		return made
	}
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return "a-" + hex.EncodeToString(sum[:])[:10]
}

// Unique returns base, or base-2, base-3, ... until exists reports false.
func Unique(base string, exists func(string) (bool, error)) (string, error) {
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// Title capitalises imported headings that were written in lower case.
func Title(s string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.TrimSpace(s))
}
