package ops

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// textOptions selects the steps applied by cleanText. Trimming always runs.
type textOptions struct {
	lowercase     bool
	removeAccents bool
	snakecase     bool
}

// nonWord matches runs of anything that is not a letter or digit,
// underscores included, so repeated separators collapse to one.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// cleanText applies trim, lowercase, accent removal and snake_case, in that order.
func cleanText(s string, o textOptions) string {
	s = strings.TrimSpace(s)
	if o.lowercase {
		s = strings.ToLower(s)
	}
	if o.removeAccents {
		s = stripAccents(s)
	}
	if o.snakecase {
		s = snakeCase(s)
	}
	return s
}

// stripAccents decomposes s and drops combining marks ("José" -> "Jose").
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func snakeCase(s string) string {
	return strings.Trim(nonWord.ReplaceAllString(s, "_"), "_")
}
