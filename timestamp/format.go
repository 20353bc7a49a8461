// Package timestamp renders Discord timestamp markup (<t:EPOCH:CODE>).
// Discord clients display the markup as a live timestamp localized to each
// viewer, so the bot only needs the instant and a style code.
package timestamp

import (
	"fmt"
	"time"
)

// Style is one of the seven single-character codes Discord accepts in
// timestamp markup.
type Style rune

const (
	ShortTime     Style = 't' // 9:41 PM
	LongTime      Style = 'T' // 9:41:30 PM
	ShortDate     Style = 'd' // 30/06/2021
	LongDate      Style = 'D' // 30 June 2021
	ShortDateTime Style = 'f' // 30 June 2021 9:41 PM
	LongDateTime  Style = 'F' // Wednesday, 30 June 2021 9:41 PM
	Relative      Style = 'R' // 2 months ago
)

// DefaultStyle is the style used when the caller doesn't pick one.
const DefaultStyle = LongDateTime

var styleNames = map[Style]string{
	ShortTime:     "Short Time",
	LongTime:      "Long Time",
	ShortDate:     "Short Date",
	LongDate:      "Long Date",
	ShortDateTime: "Short Date/Time",
	LongDateTime:  "Long Date/Time",
	Relative:      "Relative",
}

// Valid reports whether s is in the closed style set.
func (s Style) Valid() bool {
	_, ok := styleNames[s]
	return ok
}

// Name returns the documented human-readable name of the style, or "" when
// the style is not in the set.
func (s Style) Name() string {
	return styleNames[s]
}

// Format renders the markup for t with the given style. Sub-second precision
// is truncated. Passing a style outside the closed set is a caller bug;
// Format does not validate it.
func Format(t time.Time, s Style) string {
	return fmt.Sprintf("<t:%d:%c>", t.Unix(), s)
}

// FormatExample pairs a style with its rendered markup for a given instant.
type FormatExample struct {
	Name   string
	Style  Style
	Markup string
}

// AllFormatExamples renders t in every style, in the documented order.
func AllFormatExamples(t time.Time) []FormatExample {
	styles := []Style{ShortTime, LongTime, ShortDate, LongDate, ShortDateTime, LongDateTime, Relative}
	out := make([]FormatExample, 0, len(styles))
	for _, s := range styles {
		out = append(out, FormatExample{Name: s.Name(), Style: s, Markup: Format(t, s)})
	}
	return out
}
