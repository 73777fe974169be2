package layout

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/workcard/pkg/record"
)

// TimestampLayout is how creation times are shown on the card.
const TimestampLayout = "2006-01-02 15:04:05"

// CategorySeparator joins category labels on one line.
const CategorySeparator = " · "

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// ContentFor formats the displayable fields of w.
func ContentFor(w *record.Work) Content {
	c := Content{
		Title:         strings.TrimSpace(w.Title),
		Author:        strings.TrimSpace(w.Author),
		MediaCategory: strings.TrimSpace(w.MediaCategory),
		Categories:    strings.Join(w.CategoryLabels(), CategorySeparator),
		Views:         "Views: " + FormatCount(w.Views),
		Popularity:    "Popularity: " + FormatCount(w.Popularity),
	}
	if !w.CreatedAt.IsZero() {
		c.Timestamp = "Created: " + w.CreatedAt.Format(TimestampLayout)
	}
	return c
}
