package morph

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "whitespace only", text: "   \t\n", want: nil},
		{name: "plain words", text: "еда вкусная", want: []string{"еда", "вкусная"}},
		{name: "punctuation dropped", text: "Вкусно! 5/5 stars :)", want: []string{"вкусно"}},
		{name: "case folded", text: "ОФИЦИАНТ Хамил", want: []string{"официант", "хамил"}},
		{name: "yo preserved in tokens", text: "всё ещё", want: []string{"всё", "ещё"}},
		{name: "digits split words", text: "цена1000руб", want: []string{"цена", "руб"}},
		{name: "latin only", text: "hello world", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokens(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLemma(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		// adjectives
		{"вкусная", "вкусный"},
		{"вкусное", "вкусный"},
		{"вкусную", "вкусный"},
		{"ужасная", "ужасный"},
		{"грубые", "грубый"},
		{"шикарные", "шикарный"},
		{"крошечные", "крошечный"},
		{"холодная", "холодный"},
		{"плохая", "плохой"},
		// verbs
		{"хамил", "хамить"},
		{"нахамил", "нахамить"},
		{"забывал", "забывать"},
		{"забыл", "забыть"},
		{"понравилось", "понравиться"},
		{"принесли", "принести"},
		{"ждали", "ждать"},
		// nouns
		{"официанты", "официант"},
		{"порции", "порция"},
		{"еды", "еда"},
		{"блюда", "блюдо"},
		{"цены", "цена"},
		// irregular forms
		{"вернусь", "вернуться"},
		{"приду", "прийти"},
		// lemmas pass through
		{"вкусно", "вкусно"},
		{"официант", "официант"},
		{"топчик", "топчик"},
		{"суппер", "суппер"},
		// unknown words pass through unchanged
		{"азбукаквук", "азбукаквук"},
		// yo folding
		{"тёплый", "теплый"},
		{"дешёвый", "дешевый"},
	}

	for _, tt := range tests {
		if got := Lemma(tt.word); got != tt.want {
			t.Errorf("Lemma(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestLemmaDeterministic(t *testing.T) {
	for _, w := range []string{"вкусная", "официанты", "хамил", "неизвестноеслово"} {
		first := Lemma(w)
		for range 10 {
			if got := Lemma(w); got != first {
				t.Fatalf("Lemma(%q) unstable: %q then %q", w, first, got)
			}
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Чёткий", "четкий"},
		{"ВКУСНО", "вкусно"},
		{"вку́сно", "вкусно"},
		{"  обед  ", "обед"},
	}

	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldOffset(t *testing.T) {
	tests := []struct {
		name string
		text string
		sub  string
	}{
		{name: "plain", text: "ждали целый ЧАС", sub: "ЧАС"},
		{name: "stress mark shifts bytes", text: "вку́сно, но ждали ЧАС", sub: "ЧАС"},
		{name: "yo before the match", text: "счёт несли ЧАС", sub: "ЧАС"},
		{name: "leading whitespace trimmed", text: "  ЧАС ждали счет", sub: "ЧАС"},
		{name: "earlier folded twin", text: "Мы часто тут бываем, но ждали ЧАС", sub: "ЧАС"},
		{name: "offset zero", text: "ЧАС ждали", sub: "ЧАС"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rawPos := strings.Index(tt.text, tt.sub)
			if rawPos < 0 {
				t.Fatalf("substring %q not in %q", tt.sub, tt.text)
			}
			folded := Fold(tt.text)
			foldedSub := Fold(tt.sub)
			got := FoldOffset(tt.text, rawPos)
			if got+len(foldedSub) > len(folded) || folded[got:got+len(foldedSub)] != foldedSub {
				t.Errorf("FoldOffset(%q, %d) = %d, folded text %q does not carry %q there",
					tt.text, rawPos, got, folded, foldedSub)
			}
		})
	}
}

func TestLemmas(t *testing.T) {
	got := Lemmas([]string{"еда", "вкусная"})
	want := []string{"еда", "вкусный"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lemmas = %v, want %v", got, want)
	}
	if Lemmas(nil) != nil {
		t.Error("Lemmas(nil) should be nil")
	}
}
