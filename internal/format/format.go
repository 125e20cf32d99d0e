// ABOUTME: Display formatting for prices and timestamps
// ABOUTME: Currency with thousands separators, long dates, and relative times

package format

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// DateLayout is the long date form used in product views
const DateLayout = "January 2, 2006"

// Currency formats v as US dollars with two decimals, e.g. $1,234.50
func Currency(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", math.Abs(v))
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Date formats t as a long date in its own location
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// RelativeTime describes t relative to now ("just now", "3 hours ago").
// Anything 30 days or older falls back to Date.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	secs := int(diff / time.Second)
	mins := secs / 60
	hours := mins / 60
	days := hours / 24

	switch {
	case secs < 60:
		return "just now"
	case mins < 60:
		return plural(mins, "minute")
	case hours < 24:
		return plural(hours, "hour")
	case days < 30:
		return plural(days, "day")
	default:
		return Date(t)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
