package morph

import "strings"

// rewriteRule rewrites an inflectional suffix into candidate lemma
// endings. A candidate counts only when the dictionary confirms it with
// a matching part of speech, so rule order decides homographs.
type rewriteRule struct {
	suffix  string
	endings []string
	pos     partOfSpeech
}

// minStemLen guards against rewriting short function words.
const minStemLen = 2

// rewriteRules are tried in order. Longer and more specific suffixes
// come first so that e.g. "-лись" wins over "-ли".
var rewriteRules = []rewriteRule{
	// Reflexive verbs, past tense.
	{suffix: "лся", endings: []string{"ться"}, pos: posVerb},
	{suffix: "лась", endings: []string{"ться"}, pos: posVerb},
	{suffix: "лось", endings: []string{"ться"}, pos: posVerb},
	{suffix: "лись", endings: []string{"ться"}, pos: posVerb},

	// Adjectives, long forms.
	{suffix: "ыми", endings: []string{"ый", "ой"}, pos: posAdj},
	{suffix: "ими", endings: []string{"ий", "ый"}, pos: posAdj},
	{suffix: "ого", endings: []string{"ый", "ой"}, pos: posAdj},
	{suffix: "его", endings: []string{"ий", "ый"}, pos: posAdj},
	{suffix: "ому", endings: []string{"ый", "ой"}, pos: posAdj},
	{suffix: "ему", endings: []string{"ий", "ый"}, pos: posAdj},
	{suffix: "ая", endings: []string{"ый", "ий", "ой"}, pos: posAdj},
	{suffix: "яя", endings: []string{"ий"}, pos: posAdj},
	{suffix: "ую", endings: []string{"ый", "ий", "ой"}, pos: posAdj},
	{suffix: "юю", endings: []string{"ий"}, pos: posAdj},
	{suffix: "ое", endings: []string{"ый", "ой"}, pos: posAdj},
	{suffix: "ее", endings: []string{"ий", "ый"}, pos: posAdj},
	{suffix: "ые", endings: []string{"ый", "ой"}, pos: posAdj},
	{suffix: "ие", endings: []string{"ий", "ый"}, pos: posAdj},
	{suffix: "ых", endings: []string{"ый", "ой"}, pos: posAdj},
	{suffix: "их", endings: []string{"ий", "ый"}, pos: posAdj},
	{suffix: "ым", endings: []string{"ый", "ой"}, pos: posAdj},
	{suffix: "им", endings: []string{"ий", "ый"}, pos: posAdj},
	{suffix: "ом", endings: []string{"ый", "ой", ""}, pos: posAny},
	{suffix: "ем", endings: []string{"ий", ""}, pos: posAny},
	{suffix: "ой", endings: []string{"ый", "а", ""}, pos: posAny},
	{suffix: "ей", endings: []string{"ий", "я", ""}, pos: posAny},

	// Verbs, past tense and common present forms.
	{suffix: "ли", endings: []string{"ть", "ти"}, pos: posVerb},
	{suffix: "ла", endings: []string{"ть"}, pos: posVerb},
	{suffix: "ло", endings: []string{"ть"}, pos: posVerb},
	{suffix: "л", endings: []string{"ть"}, pos: posVerb},
	{suffix: "ют", endings: []string{"ть"}, pos: posVerb},
	{suffix: "ет", endings: []string{"ть", "ать"}, pos: posVerb},
	{suffix: "ит", endings: []string{"ить"}, pos: posVerb},
	{suffix: "ят", endings: []string{"ить"}, pos: posVerb},
	{suffix: "ат", endings: []string{"ать", "ить"}, pos: posVerb},

	// Nouns, plural and oblique cases.
	{suffix: "ами", endings: []string{"а", ""}, pos: posNoun},
	{suffix: "ями", endings: []string{"я", ""}, pos: posNoun},
	{suffix: "ах", endings: []string{"а", ""}, pos: posNoun},
	{suffix: "ях", endings: []string{"я", ""}, pos: posNoun},
	{suffix: "ам", endings: []string{"а", ""}, pos: posNoun},
	{suffix: "ям", endings: []string{"я", ""}, pos: posNoun},
	{suffix: "ов", endings: []string{""}, pos: posNoun},
	{suffix: "ев", endings: []string{""}, pos: posNoun},
	{suffix: "ы", endings: []string{"", "а"}, pos: posNoun},
	{suffix: "и", endings: []string{"", "а", "я", "ь"}, pos: posNoun},
	{suffix: "у", endings: []string{"", "а"}, pos: posNoun},
	{suffix: "ю", endings: []string{"", "я"}, pos: posNoun},
	{suffix: "е", endings: []string{"", "а", "я"}, pos: posNoun},
	{suffix: "а", endings: []string{"", "о"}, pos: posNoun},
	{suffix: "я", endings: []string{"", "ь"}, pos: posNoun},
}

// rewrite derives a lemma candidate for w through the suffix rules.
// Irregular forms are resolved through the exceptions table first.
func rewrite(w string) (string, bool) {
	if lemma, ok := exceptions[w]; ok {
		return lemma, true
	}

	for _, rule := range rewriteRules {
		stem, ok := strings.CutSuffix(w, rule.suffix)
		if !ok || len([]rune(stem)) < minStemLen {
			continue
		}
		for _, ending := range rule.endings {
			candidate := stem + ending
			if candidate != w && isKnownLemma(candidate, rule.pos) {
				return candidate, true
			}
		}
	}
	return "", false
}
