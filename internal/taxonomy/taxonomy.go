// Package taxonomy defines the two-level impression map for the
// HoReCa niche: top-level categories with their subcategories, plus
// the trigger lemmas and trigger substrings that mark a category in
// review text. The data is read-only shared state.
package taxonomy

import (
	"fmt"

	"github.com/guestpulse/insights/internal/domain"
)

// Categories maps each top-level category to its subcategories. The
// first subcategory is the default one assigned by the local analyzer;
// the remote annotator may pick any of them.
var Categories = map[string][]string{
	"Сервис": {
		"Сервис/персонал",
		"Вежливость/уважение",
		"Хамство/грубость/конфликт",
		"Внимание/вовлечённость",
		"Компетентность/знание меню",
		"Решение проблем/гарантия",
		"Коммуникация/тон",
		"Навязывание/апселл",
	},
	"Скорость": {
		"Скорость/ожидание",
		"Скорость обслуживания",
	},
	"Продукт": {
		"Еда/кухня",
		"Напитки/бар",
		"Качество/свежесть",
		"Порции/сытость",
	},
	"Цена": {
		"Цена/ценность",
	},
	"Комфорт": {
		"Интерьер/атмосфера",
		"Чистота/санитария",
	},
	"Процесс": {
		"Бронирование/стол",
		"Управление/организация зала",
		"Заказ/ошибки",
		"Оплата/касса",
		"Доставка/вынос",
		"Локация/парковка",
	},
	domain.CategoryGeneral: {
		domain.SubcategoryGeneralOverall,
	},
}

// CategoryLemmas are the trigger lemmas per category. A single word
// whose lemma lands in a set marks the category as present.
var CategoryLemmas = map[string][]string{
	"Сервис": {
		"официант", "официантка", "персонал", "обслуживание", "сервис",
		"администратор", "админ", "бармен", "хостес", "менеджер", "повар",
		"кассир", "обслужить", "обслуживать",
	},
	"Скорость": {
		"ждать", "подождать", "ожидать", "ожидание", "очередь", "скорость",
	},
	"Продукт": {
		"еда", "кухня", "блюдо", "вкус", "меню", "порция",
		"пицца", "суп", "салат", "десерт", "напиток", "кофе", "чай",
		"коктейль", "бар", "мясо", "рыба", "паста", "пельмень",
		"завтрак", "обед", "ужин", "соус", "гарнир",
		// adverb marker: "вкусно" alone implies the kitchen
		"вкусно",
	},
	"Цена": {
		"цена", "ценник", "стоимость", "счет", "скидка", "дорого", "дешево",
	},
	"Комфорт": {
		"интерьер", "атмосфера", "музыка", "чистота", "санитария", "туалет",
		"зал", "кондиционер", "кондей", "дым", "курить", "шум",
		"температура", "освещение", "капать",
	},
	"Процесс": {
		"бронь", "бронирование", "резерв", "заказ", "доставка",
		"оплата", "касса", "терминал", "парковка", "локация", "стол", "столик",
	},
}

// CategoryMarkers are trigger substrings per category, matched against
// the folded text. They catch word family members the lemma sets miss
// (compounds, typos that keep the stem).
var CategoryMarkers = map[string][]string{
	"Сервис":   {"официант", "персонал", "обслуж", "бармен", "хостес"},
	"Скорость": {"ожидани", "очеред"},
	"Продукт":  {"кухн", "блюд", "порци", "десерт", "коктейл"},
	"Цена":     {"ценник", "стоимост", "прайс"},
	"Комфорт":  {"интерьер", "атмосфер", "кондиционер", "чистот"},
	"Процесс":  {"бронирован", "доставк", "парковк", "оплат"},
}

// DefaultSubcategory returns the subcategory the local analyzer
// assigns for a category. Unknown categories map to the general one.
func DefaultSubcategory(category string) string {
	if subs, ok := Categories[category]; ok && len(subs) > 0 {
		return subs[0]
	}
	return domain.SubcategoryGeneralOverall
}

// CategoryOf returns the category a subcategory belongs to, or ""
// when the subcategory is unknown.
func CategoryOf(subcategory string) string {
	for category, subs := range Categories {
		for _, s := range subs {
			if s == subcategory {
				return category
			}
		}
	}
	return ""
}

// Validate checks that a tag's category, subcategory and sentiment all
// exist in the taxonomy. Used to reject malformed annotator output.
func Validate(tag domain.AspectTag) error {
	subs, ok := Categories[tag.Category]
	if !ok {
		return fmt.Errorf("unknown category %q", tag.Category)
	}
	found := false
	for _, s := range subs {
		if s == tag.Subcategory {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("subcategory %q does not belong to %q", tag.Subcategory, tag.Category)
	}
	if !domain.ValidSentiment(tag.Sentiment) {
		return fmt.Errorf("unknown sentiment %q", tag.Sentiment)
	}
	return nil
}
