package lexicon

import "regexp"

// CompositePattern is a textual pattern that yields a category and
// sentiment directly, without a separate sentiment hit. MatchRaw
// patterns run against the original (unlowered) text so that emphasis
// by capitalization survives.
type CompositePattern struct {
	Pattern   *regexp.Regexp
	Label     string
	Category  string
	Sentiment string
	MatchRaw  bool
}

// WaitTimePatterns catch wait-time complaints. An explicit duration
// next to a waiting verb, or the word ЧАС shouted in caps, reads as a
// complaint regardless of surrounding vocabulary.
var WaitTimePatterns = []CompositePattern{
	{
		Pattern:   regexp.MustCompile(`ждал[иа]?\s+час`),
		Label:     "долгое ожидание",
		Category:  "Скорость",
		Sentiment: "negative",
	},
	{
		Pattern:   regexp.MustCompile(`час\s+ждал`),
		Label:     "долгое ожидание",
		Category:  "Скорость",
		Sentiment: "negative",
	},
	{
		Pattern:   regexp.MustCompile(`\d+\s*час`),
		Label:     "долгое ожидание",
		Category:  "Скорость",
		Sentiment: "negative",
	},
	{
		Pattern:   regexp.MustCompile(`ЧАС`),
		Label:     "эмоциональный акцент",
		Category:  "Скорость",
		Sentiment: "negative",
		MatchRaw:  true,
	},
}

// StaffMisconductPatterns catch staff complaints where the misconduct
// verb alone decides the sentiment.
var StaffMisconductPatterns = []CompositePattern{
	{
		Pattern:   regexp.MustCompile(`официант[а-яе]*\s+(на)?хамил`),
		Label:     "хамство персонала",
		Category:  "Сервис",
		Sentiment: "negative",
	},
	{
		Pattern:   regexp.MustCompile(`официант[а-яе]*\s+забы(л|вал)`),
		Label:     "забытый заказ",
		Category:  "Сервис",
		Sentiment: "negative",
	},
	{
		Pattern:   regexp.MustCompile(`принесли\s+не\s+то`),
		Label:     "ошибка заказа",
		Category:  "Сервис",
		Sentiment: "negative",
	},
}

// BookingPatterns catch booking-flow complaints.
var BookingPatterns = []CompositePattern{
	{
		Pattern:   regexp.MustCompile(`не подтвердил`),
		Label:     "отказ",
		Category:  "Процесс",
		Sentiment: "negative",
	},
}

// CompositePatterns is the full pattern list in evaluation order.
func CompositePatterns() []CompositePattern {
	out := make([]CompositePattern, 0, len(WaitTimePatterns)+len(StaffMisconductPatterns)+len(BookingPatterns))
	out = append(out, WaitTimePatterns...)
	out = append(out, StaffMisconductPatterns...)
	out = append(out, BookingPatterns...)
	return out
}
