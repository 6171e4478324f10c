// Package pubdate turns Indonesian date phrases such as "Rabu, 25 Februari 2026"
// into publication times in Western Indonesia Time (WIB, UTC+7).
package pubdate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the RFC-822 style layout used by feed date fields.
const Layout = "Mon, 02 Jan 2006 15:04:05 -0700"

// WIB is the fixed UTC+7 zone the site publishes in.
var WIB = time.FixedZone("WIB", 7*60*60)

// Now returns the current time in WIB. Tests may replace it.
var Now = func() time.Time {
	return time.Now().In(WIB)
}

var datePhraseRegex = regexp.MustCompile(`(\d{1,2})\s+(\w+)\s+(\d{4})`)

var months = map[string]time.Month{
	"januari":   time.January,
	"februari":  time.February,
	"maret":     time.March,
	"april":     time.April,
	"mei":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"agustus":   time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"desember":  time.December,
}

// Lookup finds the first "<day> <month> <year>" group in the phrase and returns
// that date at 12:00 WIB. The second value is false when the phrase holds no
// recognisable date.
func Lookup(phrase string) (time.Time, bool) {
	m := datePhraseRegex.FindStringSubmatch(phrase)

	if m == nil {
		return time.Time{}, false
	}

	month, ok := months[strings.ToLower(m[2])]

	if !ok {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])

	if year < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, month, day, 12, 0, 0, 0, WIB)

	// time.Date normalizes overflowing days, e.g. 32 Februari becomes 4 March.
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}

	return t, true
}

// Parse returns the date found in the phrase, or the current time when there is none.
func Parse(phrase string) time.Time {
	if t, ok := Lookup(phrase); ok {
		return t
	}

	return Now()
}

// Format renders t in WIB using Layout.
func Format(t time.Time) string {
	return t.In(WIB).Format(Layout)
}

// RFC822 parses the phrase and formats the result in one step.
func RFC822(phrase string) string {
	return Format(Parse(phrase))
}
