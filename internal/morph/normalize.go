package morph

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stressMarks covers combining grave and acute accents, used in
// dictionary-style text to mark word stress ("вку́сно"). Other
// combining marks stay untouched so that й and ё survive NFD.
var stressMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x0301, Stride: 1}},
}

// Fold lowercases s, strips stress marks and folds ё to е. Lexicon
// keys and lemma lookups both go through Fold so the two spellings of
// words like "чёткий" land on one entry.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(stressMarks)), norm.NFC, runes.Map(foldYo))
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// FoldOffset maps a byte offset in s to the corresponding offset in
// Fold(s). pos must lie on a rune boundary. Matchers that run against
// the raw text re-anchor through this instead of searching the folded
// text, which could land on an earlier occurrence of the same folded
// substring.
func FoldOffset(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(s) {
		pos = len(s)
	}
	// The sentinel keeps Fold from trimming the prefix's trailing
	// whitespace; it survives the transform chain untouched.
	return len(Fold(s[:pos]+"\x01")) - 1
}

func foldYo(r rune) rune {
	if r == 'ё' {
		return 'е'
	}
	return r
}
