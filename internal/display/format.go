package display

import (
	"fmt"
	"time"
)

// FormatMinutes renders d as fractional minutes with two decimals
// (e.g. "1.50 minutes").
func FormatMinutes(d time.Duration) string {
	return fmt.Sprintf("%.2f minutes", d.Minutes())
}

// FormatDuration returns a compact clock-style duration: "45s", "3m07s" or
// "1h02m03s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Plural returns "1 video" or "3 videos".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
