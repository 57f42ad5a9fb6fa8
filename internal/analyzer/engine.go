// Package analyzer implements the local review-understanding pipeline:
// the rule-based aspect/sentiment engine and the orchestrating service
// that merges it with the holistic classifier behind the result cache.
package analyzer

import (
	"sort"
	"strings"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/lexicon"
	"github.com/guestpulse/insights/internal/morph"
	"github.com/guestpulse/insights/internal/taxonomy"
)

// Engine defaults. The window constants are tuned against the worked
// examples in the test suite, not architectural constraints.
const (
	DefaultEvidenceLimit  = 3
	DefaultNegationWindow = 1

	clauseDelims   = ",;.!?"
	sentenceDelims = ".!?"
)

// Engine extracts aspect tags from review text. Safe for concurrent
// use: all state is read-only after construction.
type Engine struct {
	evidenceLimit  int
	negationWindow int

	phraseMatcher *ahocorasick.Matcher
	phrases       []phraseEntry
	markerMatcher *ahocorasick.Matcher
	markers       []markerEntry
	composites    []lexicon.CompositePattern
}

type phraseEntry struct {
	text      string
	sentiment string
}

type markerEntry struct {
	text     string
	category string
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvidenceLimit caps the evidence tokens collected per tag.
func WithEvidenceLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.evidenceLimit = n
		}
	}
}

// WithNegationWindow sets how many tokens back a negation marker is
// searched for.
func WithNegationWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.negationWindow = n
		}
	}
}

// NewEngine builds the aspect engine: the phrase and category-marker
// automatons are compiled once here.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		evidenceLimit:  DefaultEvidenceLimit,
		negationWindow: DefaultNegationWindow,
		composites:     lexicon.CompositePatterns(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, p := range lexicon.NegativePhrases {
		e.phrases = append(e.phrases, phraseEntry{text: p, sentiment: domain.SentimentNegative})
	}
	for _, p := range lexicon.PositivePhrases {
		e.phrases = append(e.phrases, phraseEntry{text: p, sentiment: domain.SentimentPositive})
	}
	phraseTexts := make([]string, len(e.phrases))
	for i, p := range e.phrases {
		phraseTexts[i] = p.text
	}
	e.phraseMatcher = ahocorasick.NewStringMatcher(phraseTexts)

	for category, markers := range taxonomy.CategoryMarkers {
		for _, m := range markers {
			e.markers = append(e.markers, markerEntry{text: m, category: category})
		}
	}
	sort.Slice(e.markers, func(i, j int) bool { return e.markers[i].text < e.markers[j].text })
	markerTexts := make([]string, len(e.markers))
	for i, m := range e.markers {
		markerTexts[i] = m.text
	}
	e.markerMatcher = ahocorasick.NewStringMatcher(markerTexts)

	return e
}

// hit is a sentiment occurrence: a matched word, phrase or pattern
// with its polarity and byte position in the folded text.
type hit struct {
	text      string
	sentiment string
	pos       int
}

// candidate is a category occurrence awaiting sentiment assignment.
// Composite-pattern candidates arrive with their sentiment decided.
type candidate struct {
	category  string
	marker    string
	pos       int
	sentiment string // "" means undecided: resolve by scope escalation
	evidence  []string
}

type span struct{ start, end int }

type token struct {
	word  string
	lemma string
	pos   int
}

// AspectTags analyzes review text and returns aspect-level sentiment
// tags. An empty result means no aspect and no sentiment was found;
// the orchestrator substitutes the rating fallback in that case.
func (e *Engine) AspectTags(text string) []domain.AspectTag {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	folded := morph.Fold(text)
	tokens := tokenize(folded)

	hits, candidates := e.scanComposites(text, folded)
	hits = append(hits, e.scanPhrases(folded)...)
	hits = append(hits, e.scanNegations(folded, tokens, hits)...)
	hits = append(hits, e.scanWords(tokens, hits)...)

	candidates = append(candidates, e.findCategories(folded, tokens)...)

	if len(candidates) == 0 {
		if tag, ok := e.overallTag(hits); ok {
			return []domain.AspectTag{tag}
		}
		return nil
	}

	clauses := splitRanges(folded, clauseDelims)
	sentences := splitRanges(folded, sentenceDelims)

	tags := make([]domain.AspectTag, 0, len(candidates))
	for _, c := range candidates {
		if c.sentiment == "" {
			c.sentiment, c.evidence = e.resolveSentiment(c.pos, hits, clauses, sentences)
		}
		tags = append(tags, domain.AspectTag{
			Category:    c.category,
			Subcategory: taxonomy.DefaultSubcategory(c.category),
			Sentiment:   c.sentiment,
			Marker:      c.marker,
			Evidence:    c.evidence,
		})
	}
	return dedupe(tags)
}

// scanComposites runs the built-in complaint patterns. Each match is
// both a negative sentiment hit and a decided category candidate.
func (e *Engine) scanComposites(raw, folded string) ([]hit, []candidate) {
	var hits []hit
	var candidates []candidate
	for _, cp := range e.composites {
		searchText := folded
		if cp.MatchRaw {
			searchText = raw
		}
		loc := cp.Pattern.FindStringIndex(searchText)
		if loc == nil {
			continue
		}
		matched := searchText[loc[0]:loc[1]]
		pos := loc[0]
		if cp.MatchRaw {
			// Raw positions drift once stress marks are folded away.
			// Map the raw offset through the fold rather than searching,
			// so an earlier occurrence of the folded substring ("час"
			// inside "часто") cannot capture the anchor.
			pos = morph.FoldOffset(raw, loc[0])
		}
		hits = append(hits, hit{text: morph.Fold(matched), sentiment: cp.Sentiment, pos: pos})
		candidates = append(candidates, candidate{
			category:  cp.Category,
			marker:    morph.Fold(matched),
			pos:       pos,
			sentiment: cp.Sentiment,
			evidence:  []string{cp.Label},
		})
	}
	return hits, candidates
}

// scanPhrases finds sentiment phrases as substrings of the folded
// text. The automaton reports which phrases occur; positions come from
// an index scan of the few that did.
func (e *Engine) scanPhrases(folded string) []hit {
	var hits []hit
	for _, idx := range e.phraseMatcher.Match([]byte(folded)) {
		p := e.phrases[idx]
		hits = append(hits, hit{text: p.text, sentiment: p.sentiment, pos: strings.Index(folded, p.text)})
	}
	return hits
}

// scanNegations flips negation-sensitive words preceded by a negation
// marker and catches "без X" complaints.
func (e *Engine) scanNegations(folded string, tokens []token, prior []hit) []hit {
	var hits []hit
	for i, tok := range tokens {
		negated := false
		for back := 1; back <= e.negationWindow && i-back >= 0; back++ {
			if lexicon.IsNegationMarker(tokens[i-back].word) {
				negated = true
				break
			}
		}
		if negated && (lexicon.PositiveLemmas.Has(tok.lemma) || lexicon.NegatableWords.Has(tok.lemma)) {
			phrase := "не " + tok.word
			pos := strings.Index(folded, phrase)
			if pos < 0 {
				pos = tok.pos
			}
			if !covered(phrase, append(prior, hits...)) {
				hits = append(hits, hit{text: phrase, sentiment: domain.SentimentNegative, pos: pos})
			}
			continue
		}
		if i > 0 && tokens[i-1].word == "без" && lexicon.WithoutNegative.Has(tok.lemma) {
			phrase := "без " + tok.word
			hits = append(hits, hit{text: phrase, sentiment: domain.SentimentNegative, pos: tokens[i-1].pos})
		}
	}
	return hits
}

// scanWords looks up each remaining token: HoReCa lemma sets first,
// then the general lexicon through the adverb map. Tokens already
// covered by a matched phrase or pattern are skipped.
func (e *Engine) scanWords(tokens []token, prior []hit) []hit {
	var hits []hit
	for _, tok := range tokens {
		if covered(tok.word, append(prior, hits...)) {
			continue
		}
		sentiment := ""
		switch {
		case lexicon.NegativeLemmas.Has(tok.lemma):
			sentiment = domain.SentimentNegative
		case lexicon.PositiveLemmas.Has(tok.lemma):
			sentiment = domain.SentimentPositive
		default:
			sentiment = lexicon.GeneralSentiment(tok.lemma)
		}
		if sentiment != "" {
			hits = append(hits, hit{text: tok.word, sentiment: sentiment, pos: tok.pos})
		}
	}
	return hits
}

// findCategories detects category candidates from trigger lemmas (one
// marker per category) and trigger substrings.
func (e *Engine) findCategories(folded string, tokens []token) []candidate {
	var candidates []candidate
	seen := make(map[string]bool)

	for category, triggers := range taxonomy.CategoryLemmas {
		triggerSet := make(map[string]bool, len(triggers))
		for _, t := range triggers {
			triggerSet[t] = true
		}
		for _, tok := range tokens {
			if triggerSet[tok.lemma] {
				candidates = append(candidates, candidate{category: category, marker: tok.word, pos: tok.pos})
				seen[category] = true
				break
			}
		}
	}

	for _, idx := range e.markerMatcher.Match([]byte(folded)) {
		m := e.markers[idx]
		if seen[m.category] {
			continue
		}
		seen[m.category] = true
		candidates = append(candidates, candidate{category: m.category, marker: m.text, pos: strings.Index(folded, m.text)})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].pos < candidates[j].pos })
	return candidates
}

// resolveSentiment assigns a sentiment to a category marker by
// majority vote over progressively widening windows: same clause,
// same sentence, full text. The first window holding at least one
// sentiment hit decides; an empty vote or a tie is neutral.
func (e *Engine) resolveSentiment(markerPos int, hits []hit, clauses, sentences []span) (string, []string) {
	windows := []span{
		spanOf(markerPos, clauses),
		spanOf(markerPos, sentences),
		fullSpan(sentences),
	}

	for _, w := range windows {
		var positive, negative int
		var windowHits []hit
		for _, h := range hits {
			if h.pos < w.start || h.pos >= w.end {
				continue
			}
			windowHits = append(windowHits, h)
			if h.sentiment == domain.SentimentPositive {
				positive++
			} else if h.sentiment == domain.SentimentNegative {
				negative++
			}
		}
		if len(windowHits) == 0 {
			continue
		}

		sentiment := domain.SentimentNeutral
		if negative > positive {
			sentiment = domain.SentimentNegative
		} else if positive > negative {
			sentiment = domain.SentimentPositive
		}
		return sentiment, e.collectEvidence(markerPos, windowHits)
	}
	return domain.SentimentNeutral, nil
}

// collectEvidence keeps the closest hits to the marker, by byte
// distance, up to the evidence limit.
func (e *Engine) collectEvidence(markerPos int, hits []hit) []string {
	sorted := make([]hit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return abs(sorted[i].pos-markerPos) < abs(sorted[j].pos-markerPos)
	})

	limit := e.evidenceLimit
	if limit > len(sorted) {
		limit = len(sorted)
	}
	evidence := make([]string, 0, limit)
	for _, h := range sorted[:limit] {
		evidence = append(evidence, h.text)
	}
	return evidence
}

// overallTag builds the sentiment-only fallback: sentiment words were
// found but no category marker, so the whole review votes on the
// general impression.
func (e *Engine) overallTag(hits []hit) (domain.AspectTag, bool) {
	if len(hits) == 0 {
		return domain.AspectTag{}, false
	}

	var positive, negative []string
	for _, h := range hits {
		if h.sentiment == domain.SentimentPositive {
			positive = append(positive, h.text)
		} else if h.sentiment == domain.SentimentNegative {
			negative = append(negative, h.text)
		}
	}

	sentiment := domain.SentimentNeutral
	evidence := append(append([]string{}, negative...), positive...)
	if len(negative) > len(positive) {
		sentiment = domain.SentimentNegative
		evidence = negative
	} else if len(positive) > len(negative) {
		sentiment = domain.SentimentPositive
		evidence = positive
	}
	if len(evidence) > e.evidenceLimit {
		evidence = evidence[:e.evidenceLimit]
	}

	return domain.AspectTag{
		Category:    domain.CategoryGeneral,
		Subcategory: domain.SubcategoryGeneralOverall,
		Sentiment:   sentiment,
		Marker:      "-",
		Evidence:    evidence,
	}, true
}

// dedupe collapses tags sharing (category, subcategory), preferring
// non-neutral sentiment and keeping the first occurrence on ties.
func dedupe(tags []domain.AspectTag) []domain.AspectTag {
	index := make(map[string]int, len(tags))
	out := make([]domain.AspectTag, 0, len(tags))
	for _, tag := range tags {
		key := tag.Category + "\x00" + tag.Subcategory
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, tag)
			continue
		}
		if out[i].Sentiment == domain.SentimentNeutral && tag.Sentiment != domain.SentimentNeutral {
			out[i] = tag
		}
	}
	return out
}

// covered reports whether word occurs inside any already-matched text.
func covered(word string, hits []hit) bool {
	for _, h := range hits {
		if strings.Contains(h.text, word) {
			return true
		}
	}
	return false
}

func tokenize(folded string) []token {
	var tokens []token
	start := -1
	for i, r := range folded {
		if (r >= 'а' && r <= 'я') || r == 'ё' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			w := folded[start:i]
			tokens = append(tokens, token{word: w, lemma: morph.Lemma(w), pos: start})
			start = -1
		}
	}
	if start >= 0 {
		w := folded[start:]
		tokens = append(tokens, token{word: w, lemma: morph.Lemma(w), pos: start})
	}
	return tokens
}

func splitRanges(s, delims string) []span {
	var spans []span
	start := 0
	for i, r := range s {
		if strings.ContainsRune(delims, r) {
			spans = append(spans, span{start: start, end: i})
			start = i + utf8.RuneLen(r)
		}
	}
	spans = append(spans, span{start: start, end: len(s)})
	return spans
}

func spanOf(pos int, spans []span) span {
	for _, sp := range spans {
		if sp.start <= pos && pos < sp.end {
			return sp
		}
	}
	return fullSpan(spans)
}

func fullSpan(spans []span) span {
	if len(spans) == 0 {
		return span{}
	}
	return span{start: 0, end: spans[len(spans)-1].end}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
