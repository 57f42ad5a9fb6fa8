package lexicon

import (
	"strings"
	"testing"

	"github.com/guestpulse/insights/internal/morph"
)

func TestLemmaSetsAreDisjoint(t *testing.T) {
	for lemma := range PositiveLemmas {
		if NegativeLemmas.Has(lemma) {
			t.Errorf("%q is in both positive and negative sets", lemma)
		}
	}
}

func TestSetsHoldValidLemmas(t *testing.T) {
	// Words deliberately stored in a non-dictionary or colloquial form
	// still count; most entries should round-trip through the
	// normalizer unchanged.
	for name, s := range map[string]set{
		"positive":  PositiveLemmas,
		"negative":  NegativeLemmas,
		"negatable": NegatableWords,
	} {
		valid := 0
		for lemma := range s {
			if morph.Lemma(lemma) == lemma {
				valid++
			}
		}
		coverage := float64(valid) / float64(len(s))
		if coverage < 0.8 {
			t.Errorf("%s set lemma coverage %.0f%%, want >= 80%%", name, coverage*100)
		}
	}
}

func TestAdverbToAdj(t *testing.T) {
	for adverb, adj := range adverbToAdj {
		if got := AdverbToAdj(adverb); got != adj {
			t.Errorf("AdverbToAdj(%q) = %q, want %q", adverb, got, adj)
		}
		if !strings.HasSuffix(adj, "ый") && !strings.HasSuffix(adj, "ий") && !strings.HasSuffix(adj, "ой") {
			t.Errorf("%q does not look like an adjective", adj)
		}
	}

	// Non-adverbs pass through.
	if got := AdverbToAdj("еда"); got != "еда" {
		t.Errorf("AdverbToAdj(еда) = %q, want еда", got)
	}
}

func TestGeneralSentiment(t *testing.T) {
	tests := []struct {
		lemma string
		want  string
	}{
		{"хороший", "positive"},
		{"неприятный", "negative"},
		// adverb routed through the map
		{"хорошо", "positive"},
		{"неприятно", "negative"},
		{"стол", ""},
	}

	for _, tt := range tests {
		if got := GeneralSentiment(tt.lemma); got != tt.want {
			t.Errorf("GeneralSentiment(%q) = %q, want %q", tt.lemma, got, tt.want)
		}
	}

	if GeneralSize() < 100 {
		t.Errorf("general lexicon suspiciously small: %d entries", GeneralSize())
	}
}

func TestPhrasesAreFolded(t *testing.T) {
	for _, phrase := range append(append([]string{}, NegativePhrases...), PositivePhrases...) {
		if phrase != morph.Fold(phrase) {
			t.Errorf("phrase %q is not stored in folded form", phrase)
		}
	}
}

func TestCompositePatterns(t *testing.T) {
	tests := []struct {
		text     string
		category string
	}{
		{"ждали час пока принесут меню", "Скорость"},
		{"2 часа ждали", "Скорость"},
		{"официант нахамил", "Сервис"},
		{"официант забыл про нас", "Сервис"},
		{"принесли не то", "Сервис"},
		{"бронь не подтвердили", "Процесс"},
	}

	for _, tt := range tests {
		matched := ""
		for _, cp := range CompositePatterns() {
			if cp.MatchRaw {
				continue
			}
			if cp.Pattern.MatchString(tt.text) {
				matched = cp.Category
				break
			}
		}
		if matched != tt.category {
			t.Errorf("text %q matched category %q, want %q", tt.text, matched, tt.category)
		}
	}

	// The caps pattern fires on the raw text only.
	raw := "Ждали ЧАС"
	found := false
	for _, cp := range CompositePatterns() {
		if cp.MatchRaw && cp.Pattern.MatchString(raw) {
			found = true
		}
	}
	if !found {
		t.Error("uppercase ЧАС pattern did not match raw text")
	}
}
