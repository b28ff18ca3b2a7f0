package ledger

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Canonicalize upper-cases text and strips diacritical marks so that
// user-facing names compare as plain ASCII tokens ("Sálario" -> "SALARIO").
// Pure and total: on a transform failure the upper-cased input is returned.
func Canonicalize(text string) string {
	upper := strings.ToUpper(text)
	out, _, err := transform.String(stripMarks, upper)
	if err != nil {
		return upper
	}
	return out
}
