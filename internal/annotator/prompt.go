package annotator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guestpulse/insights/internal/taxonomy"
)

// systemPrompt instructs the model to answer with a bare JSON array of
// taxonomy-conforming tags. Built once: the taxonomy is static.
var systemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	categories := make([]string, 0, len(taxonomy.Categories))
	for c := range taxonomy.Categories {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("Ты анализируешь отзывы гостей ресторанов. ")
	b.WriteString("Выдели аспекты отзыва и тональность каждого аспекта.\n\n")
	b.WriteString("Допустимые категории и подкатегории:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s: %s\n", c, strings.Join(taxonomy.Categories[c], "; "))
	}
	b.WriteString("\nТональность: positive, negative или neutral.\n")
	b.WriteString("Ответь строго JSON-массивом объектов вида ")
	b.WriteString(`{"category": "...", "subcategory": "...", "sentiment": "...", "evidence": ["..."]}`)
	b.WriteString(" без пояснений и без markdown. ")
	b.WriteString("evidence — дословные фрагменты отзыва, подтверждающие аспект. ")
	b.WriteString("Если аспектов нет, верни один объект с категорией \"Общее\".")
	return b.String()
}

func userPrompt(text string, rating int) string {
	return fmt.Sprintf("Оценка: %d из 5.\nОтзыв:\n%s", rating, text)
}
