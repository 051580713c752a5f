// Package format renders timestamps and ages for audit listings.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Layout holds the resolved date and clock formats.
type Layout struct {
	date      string
	dateShort string
	clock     string
	clockFull string
}

// DefaultLayout is "Jan 02" dates on a 24 hour clock.
func DefaultLayout() Layout {
	return NewLayout("", "")
}

// FromConfig resolves the display_date and display_time keys through get.
func FromConfig(get func(string) (string, bool)) Layout {
	date, _ := get("display_date")
	clock, _ := get("display_time")
	return NewLayout(date, clock)
}

// NewLayout accepts the presets dd/mm/yyyy, mm/dd/yyyy and yyyy-mm-dd or
// any Go layout for date, and 12h or 24h for clock. Empty values use the
// defaults.
func NewLayout(date, clock string) Layout {
	var l Layout
	switch date {
	case "mm/dd/yyyy":
		l.date, l.dateShort = "01/02/2006", "01/02"
	case "yyyy-mm-dd":
		l.date, l.dateShort = "2006-01-02", "01-02"
	case "dd/mm/yyyy":
		l.date, l.dateShort = "02/01/2006", "02/01"
	case "":
		l.date, l.dateShort = "Jan 02", "Jan 02"
	default:
		l.date, l.dateShort = date, withoutYear(date)
	}

	if clock == "12h" {
		l.clock, l.clockFull = "3:04 PM", "3:04:05 PM"
	} else {
		l.clock, l.clockFull = "15:04", "15:04:05"
	}
	return l
}

// withoutYear drops year patterns from a custom layout.
func withoutYear(layout string) string {
	short := layout
	for _, year := range []string{"2006", "/06", "-06", " 06"} {
		short = strings.ReplaceAll(short, year, "")
	}
	short = strings.Trim(strings.TrimSpace(short), "/-")
	if short == "" {
		return "Jan 02"
	}
	return short
}

// Example output: "23/01/2024 15:04" or "01/23/2024 3:04 PM".
func (l Layout) DateTime(t time.Time) string {
	return t.Format(l.date) + " " + t.Format(l.clock)
}

// DateTimeShort drops the year: "23/01 15:04".
func (l Layout) DateTimeShort(t time.Time) string {
	return t.Format(l.dateShort) + " " + t.Format(l.clock)
}

// Full includes seconds: "23/01/2024 15:04:05".
func (l Layout) Full(t time.Time) string {
	return t.Format(l.date) + " " + t.Format(l.clockFull)
}

// Ago renders how long before now t was, in the largest whole unit:
// "just now", "5s ago", "3m ago", "2h ago", "4d ago".
func Ago(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
