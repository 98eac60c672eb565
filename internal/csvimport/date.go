package csvimport

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dashDate  = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
)

// genericLayouts are tried in order once the day-first forms fail.
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	time.RFC1123Z,
}

// NormalizeDate parses a spreadsheet date cell.
//
// D/M/YYYY and D-M-YYYY are read day-first and return UTC midnight. Anything
// else goes through a generic parse that keeps whatever precision it yields.
// ok is false for blank input or text no rule recognises.
func NormalizeDate(raw string) (t time.Time, ok bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	for _, re := range []*regexp.Regexp{slashDate, dashDate} {
		if m := re.FindStringSubmatch(value); m != nil {
			return dayFirst(m[1], m[2], m[3])
		}
	}

	for _, layout := range genericLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func dayFirst(d, m, y string) (time.Time, bool) {
	day, _ := strconv.Atoi(d)
	month, _ := strconv.Atoi(m)
	year, _ := strconv.Atoi(y)
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date rolls 31/02 over into March; treat that as unrecognized.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
