// Package format renders catalog values for display.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	NotAvailable     = "N/A"
	DefaultTruncate  = 150
	truncationSuffix = "..."
)

// Rating colours by tier.
const (
	ColorRatingHigh = "#46d369"
	ColorRatingMid  = "#ffa500"
	ColorRatingLow  = "#ff4545"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Runtime renders minutes as "2h 15m" or "45m".
func Runtime(minutes int) string {
	if minutes <= 0 {
		return NotAvailable
	}
	hours, mins := minutes/60, minutes%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// Currency renders whole US dollars with thousands separators.
func Currency(amount int64) string {
	if amount == 0 {
		return NotAvailable
	}
	if amount < 0 {
		return printer.Sprintf("-$%d", -amount)
	}
	return printer.Sprintf("$%d", amount)
}

// Truncate cuts text to at most max runes and appends "...".
func Truncate(text string, max int) string {
	if max <= 0 {
		max = DefaultTruncate
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + truncationSuffix
}

// Year extracts the year from a "YYYY-MM-DD" release date.
func Year(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return NotAvailable
	}
	if t, err := time.Parse(time.DateOnly, date); err == nil {
		return fmt.Sprintf("%d", t.Year())
	}
	if len(date) >= 4 {
		if t, err := time.Parse("2006", date[:4]); err == nil {
			return fmt.Sprintf("%d", t.Year())
		}
	}
	return NotAvailable
}

// Vote renders an average with one decimal.
func Vote(v float64) string {
	if v == 0 || math.IsNaN(v) {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", v)
}

// RatingColor maps a 0-10 score onto the high, mid and low tiers.
func RatingColor(v float64) string {
	switch {
	case v >= 7:
		return ColorRatingHigh
	case v >= 5:
		return ColorRatingMid
	default:
		return ColorRatingLow
	}
}

// CompactNumber renders counts as 1.2K or 3.4M.
func CompactNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return printer.Sprintf("%d", n)
	}
}

// Progress renders a 0-100 percentage as a fixed-width bar.
func Progress(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(percent) || percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(math.Round(percent / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
