// Package dateutils provides the date handling used by the SMS parser.
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layouts used when dates leave the parser.
const (
	DateLayoutISO  = "2006-01-02"
	DateLayoutFull = "2006-01-02 15:04:05"
)

// CenturyPivot is the two-digit year below which a year is placed in the
// 2000s; years at or above it land in the 1900s. Two-digit years from 2050 on
// will therefore be read as 19xx.
const CenturyPivot = 50

var (
	smsDateRe = regexp.MustCompile(`^(\d{1,2})-(\d{1,2}|[A-Za-z]{3})-(\d{2}|\d{4})$`)

	monthAbbrev = map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	}
)

// InferCentury expands a two-digit year. Years of 100 and above are returned unchanged.
func InferCentury(year int) int {
	if year >= 100 {
		return year
	}
	if year < CenturyPivot {
		return 2000 + year
	}
	return 1900 + year
}

// ParseSMSDate parses a day-month-year token as found in bank SMS
// ("09-08-25", "9-8-2025", "09-Aug-25"). The result is midnight in loc.
// ok is false when the token is not a date or names an impossible day.
func ParseSMSDate(token string, loc *time.Location) (t time.Time, ok bool) {
	m := smsDateRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	year = InferCentury(year)

	var month time.Month
	if n, err := strconv.Atoi(m[2]); err == nil {
		month = time.Month(n)
	} else {
		month, ok = monthAbbrev[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, false
		}
	}

	if month < time.January || month > time.December || day < 1 || day > DaysIn(month, year) {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc), true
}

// DaysIn returns the number of days in the given month of year.
func DaysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
