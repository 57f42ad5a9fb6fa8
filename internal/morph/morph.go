// Package morph normalizes Russian review text into tokens and lemmas.
//
// The package provides two operations:
//
//   - Tokens extracts lowercase Cyrillic word runs from free text,
//     dropping digits, punctuation and Latin fragments.
//
//   - Lemma reduces an inflected word to its dictionary form using
//     suffix rewrite rules validated against an embedded lemma list.
//     Candidates that do not resolve to a known lemma are discarded,
//     so unknown words pass through unchanged.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - The lemma dictionary covers hospitality review vocabulary, not
//     general Russian. Out-of-domain words are returned as-is.
//   - Homographs resolve to the first dictionary hit in rule order,
//     without context disambiguation.
//   - Adverbs in -о ("вкусно", "ужасно") are lemmas in their own
//     right and are never reduced to the source adjective.
//   - Input is folded with ё -> е before lookup. Returned lemmas use
//     the folded spelling.
package morph

// Tokens splits text into lowercase Cyrillic word runs, in order of
// appearance. Everything outside а-я and ё terminates a run. Returns
// nil when the text holds no Cyrillic letters.
func Tokens(text string) []string {
	if text == "" {
		return nil
	}

	var (
		words []string
		run   []rune
	)
	for _, r := range text {
		r = toLowerCyrillic(r)
		if isCyrillicLetter(r) {
			run = append(run, r)
			continue
		}
		if len(run) > 0 {
			words = append(words, string(run))
			run = run[:0]
		}
	}
	if len(run) > 0 {
		words = append(words, string(run))
	}
	return words
}

// Lemma returns the dictionary form of a Russian word. The word is
// folded to lowercase with ё -> е and combining marks removed, then
// resolved in three steps: exact lemma hit, suffix rewrite candidates
// validated against the dictionary, unchanged fallback.
func Lemma(word string) string {
	w := Fold(word)
	if w == "" {
		return w
	}

	if isKnownLemma(w, posAny) {
		return w
	}
	if lemma, ok := rewrite(w); ok {
		return lemma
	}
	return w
}

// Lemmas maps Lemma over a token slice. Returns nil for nil input.
func Lemmas(words []string) []string {
	if words == nil {
		return nil
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = Lemma(w)
	}
	return out
}

func isCyrillicLetter(r rune) bool {
	return (r >= 'а' && r <= 'я') || r == 'ё'
}

func toLowerCyrillic(r rune) rune {
	if r >= 'А' && r <= 'Я' {
		return r + ('а' - 'А')
	}
	if r == 'Ё' {
		return 'ё'
	}
	return r
}
