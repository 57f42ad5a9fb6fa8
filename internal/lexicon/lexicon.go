// Package lexicon holds the static sentiment knowledge base for
// restaurant reviews: positive/negative lemma sets tuned for HoReCa
// vocabulary, sentiment phrase sets, negation-sensitive words, an
// adverb-to-adjective map for the general lexicon, and composite
// complaint patterns. All data is loaded once and read-only after init.
package lexicon

// PositiveLemmas are HoReCa-specific positive sentiment lemmas. They
// take priority over the general lexicon.
var PositiveLemmas = newSet(
	"вкусный", "вкусно", "вкуснотища",
	"отличный", "отлично",
	"прекрасный", "прекрасно",
	"замечательный", "замечательно",
	"великолепный", "великолепно",
	"шикарный", "шикарно",
	"классный", "классно",
	"уютный", "уютно",
	"чистый", "чисто",
	"быстрый", "быстро",
	"приветливый", "вежливый", "внимательный", "дружелюбный", "любезный",
	"профессиональный", "компетентный", "душевный",
	"свежий", "ароматный", "аппетитный", "сочный", "нежный",
	"щедрый", "достойный", "приятный",
	"понравиться", "нравиться",
	"восторг", "кайф", "огонь", "удовольствие",
	"супер", "суппер", "топ", "топчик", "бомба",
)

// NegativeLemmas are HoReCa-specific negative sentiment lemmas.
var NegativeLemmas = newSet(
	"ужасный", "ужасно",
	"плохой", "плохо",
	"отвратительный", "отвратительно",
	"кошмарный", "кошмар", "ужас",
	"грубый", "грубо", "грубость",
	"хамить", "нахамить", "хамство", "грубить", "нагрубить",
	"грязный", "грязно",
	"невкусный", "невкусно",
	"холодный", "сырой", "горелый", "подгоревший", "пересоленный",
	"несвежий", "испорченный",
	"медленный", "медленно", "долгий", "долго",
	"дорогой", "дорого",
	"крошечный", "тесный", "шумный", "скучный", "мерзкий", "неприятный",
	"забыть", "забывать", "перепутать",
	"испортить", "обмануть", "обман", "обманывать",
	"игнорировать", "навязывать",
	"разочаровать", "разочарование",
	"виноватый",
)

// NegatableWords flip to negative when preceded by a negation marker,
// even when the bare lemma carries no polarity of its own
// ("не подтвердил", "не принесли"). Positive lemmas are always
// negatable and need not be repeated here.
var NegatableWords = newSet(
	"рекомендовать", "советовать",
	"извиниться", "извиняться",
	"подтвердить", "подтверждать",
	"принести", "приносить",
	"прийти", "приходить",
	"вернуться", "возвращаться",
	"помочь", "помогать",
	"убрать", "убирать",
	"работать", "успеть", "перезвонить",
)

// negationMarkers precede a negatable word to flip its polarity.
var negationMarkers = newSet("не", "нет", "ни")

// IsNegationMarker reports whether the token negates the word after it.
func IsNegationMarker(token string) bool { return negationMarkers.Has(token) }

// WithoutNegative are lemmas that signal a complaint when they follow
// "без" ("без сдачи", "без извинений"), independent of any negation
// marker.
var WithoutNegative = newSet(
	"сдача", "извинение", "чек", "вилка", "соус", "внимание",
)

// NegativePhrases are matched as substrings of the folded text.
// Stored lowercase with е in place of ё.
var NegativePhrases = []string{
	"не рекомендую",
	"не советую",
	"больше не приду",
	"больше не придем",
	"больше не пойду",
	"вряд ли вернусь",
	"вряд ли вернемся",
	"ноги моей больше не будет",
	"оставляет желать лучшего",
	"так себе",
	"не стоит своих денег",
	"зря потратили",
	"испортили вечер",
	"принесли не то",
	"обходите стороной",
}

// PositivePhrases are matched as substrings of the folded text.
var PositivePhrases = []string{
	"в восторге",
	"всем советую",
	"всем рекомендую",
	"очень понравилось",
	"все понравилось",
	"придем еще",
	"приду еще",
	"обязательно вернусь",
	"обязательно вернемся",
	"выше всяких похвал",
	"пальчики оближешь",
	"от души",
	"лучшее место",
	"как дома",
}

// adverbToAdj maps adverbs to the adjective the general lexicon keys
// on. The general lexicon stores adjectives; review authors mostly
// write adverbs ("было вкусно").
var adverbToAdj = map[string]string{
	"неприятно": "неприятный",
	"хорошо":    "хороший",
	"плохо":     "плохой",
	"отлично":   "отличный",
	"ужасно":    "ужасный",
	"прекрасно": "прекрасный",
	"вкусно":    "вкусный",
	"невкусно":  "невкусный",
	"быстро":    "быстрый",
	"медленно":  "медленный",
	"грубо":     "грубый",
	"долго":     "долгий",
}

// AdverbToAdj returns the general-lexicon lookup key for a lemma: the
// mapped adjective for known adverbs, the lemma itself otherwise.
func AdverbToAdj(lemma string) string {
	if adj, ok := adverbToAdj[lemma]; ok {
		return adj
	}
	return lemma
}

type set map[string]struct{}

func newSet(words ...string) set {
	s := make(set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Has reports set membership.
func (s set) Has(w string) bool {
	_, ok := s[w]
	return ok
}
