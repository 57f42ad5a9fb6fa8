package lexicon

import (
	_ "embed"
	"strings"
)

// The general-purpose sentiment lexicon supplements the HoReCa sets
// with everyday evaluative vocabulary. Entries are adjective or verb
// lemmas; adverbs are routed through AdverbToAdj before lookup.

//go:embed sentiment.txt
var generalData string

var general map[string]string

func init() {
	general = make(map[string]string, 256)
	for _, line := range strings.Split(generalData, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lemma, polarity, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		lemma = strings.TrimSpace(lemma)
		polarity = strings.TrimSpace(polarity)
		if polarity == "positive" || polarity == "negative" {
			general[lemma] = polarity
		}
	}
}

// GeneralSentiment returns "positive" or "negative" for lemmas known
// to the general lexicon, or "" for everything else. The caller is
// expected to consult the HoReCa sets first.
func GeneralSentiment(lemma string) string {
	return general[AdverbToAdj(lemma)]
}

// GeneralSize reports the number of loaded general lexicon entries.
func GeneralSize() int { return len(general) }
