package render

import (
	"fmt"
	"time"
)

// FormatDuration renders a second count the way the session list shows
// it: largest unit first, at most two units.
func FormatDuration(seconds int64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	case seconds < 86400:
		h, m := seconds/3600, seconds%3600/60
		if m > 0 {
			return fmt.Sprintf("%dh %dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	default:
		d, h := seconds/86400, seconds%86400/3600
		if h > 0 {
			return fmt.Sprintf("%dd %dh", d, h)
		}
		return fmt.Sprintf("%dd", d)
	}
}

// FormatRelative renders how long ago t was. Zero times render as "-".
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
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

// FormatClock renders the wall-clock part of a timestamp, with the
// zero time as the conventional 00:00:00 placeholder.
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return "00:00:00"
	}
	return t.Format("15:04:05")
}

// FormatStamp renders a full timestamp for the info block.
func FormatStamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
