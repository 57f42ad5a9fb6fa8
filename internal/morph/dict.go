package morph

import (
	_ "embed"
	"strings"
)

// partOfSpeech narrows which rewrite rules may produce a candidate and
// which dictionary entries validate it.
type partOfSpeech uint8

const (
	posAny partOfSpeech = iota
	posAdj
	posVerb
	posNoun
	posAdv
)

//go:embed lemmas.txt
var lemmasData string

//go:embed exceptions.txt
var exceptionsData string

// lemmas maps a dictionary form to its part of speech.
// exceptions maps an irregular inflected form straight to its lemma.
var (
	lemmas     map[string]partOfSpeech
	exceptions map[string]string
)

func init() {
	lemmas = parseLemmas(lemmasData)
	exceptions = parseExceptions(exceptionsData)
}

func parseLemmas(data string) map[string]partOfSpeech {
	out := make(map[string]partOfSpeech, 512)
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, tag, _ := strings.Cut(line, " ")
		out[Fold(word)] = parsePOS(tag)
	}
	return out
}

func parseExceptions(data string) map[string]string {
	out := make(map[string]string, 64)
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		form, lemma, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		out[Fold(form)] = Fold(lemma)
	}
	return out
}

func parsePOS(tag string) partOfSpeech {
	switch strings.TrimSpace(tag) {
	case "adj":
		return posAdj
	case "verb":
		return posVerb
	case "noun":
		return posNoun
	case "adv":
		return posAdv
	default:
		return posAny
	}
}

// isKnownLemma reports whether w is a dictionary form, optionally
// restricted to one part of speech.
func isKnownLemma(w string, pos partOfSpeech) bool {
	got, ok := lemmas[w]
	if !ok {
		return false
	}
	return pos == posAny || got == posAny || got == pos
}
