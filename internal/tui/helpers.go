package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/naveenspark/tally/pkg/domain"
)

// formatTime renders a relative timestamp.
func formatTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatDate renders a transaction date as "15 Mar 2024".
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.UTC().Format("02 Jan 2006")
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// bar renders part/total as a horizontal bar at most width cells wide.
func bar(part, total domain.Money, width int) string {
	if total.IsZero() || width <= 0 || !part.IsPositive() {
		return ""
	}
	cells := part.Div(total.Decimal).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart()
	if cells < 1 {
		cells = 1
	}
	if cells > int64(width) {
		cells = int64(width)
	}
	return strings.Repeat("█", int(cells))
}

// percent renders part/total as "42.0%".
func percent(part, total domain.Money) string {
	if total.IsZero() {
		return "0.0%"
	}
	return part.Div(total.Decimal).Shift(2).StringFixed(1) + "%"
}
