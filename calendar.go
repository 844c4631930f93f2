package openhours

import "time"

// minutesPerDay is the length of the per-day working partition.
const minutesPerDay = 24 * 60

// dateOnly returns the date of t with the time set to midnight UTC. All
// day-granular matching works on these normalized dates.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// civilDate builds a normalized date, reporting false for invalid
// combinations such as Feb 30.
func civilDate(year int, month Month, day int) (time.Time, bool) {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// osmWeekday converts a Go weekday to the OSM ordering (Mo=0 .. Su=6).
func osmWeekday(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// isoWeek returns the ISO 8601 week number of a date.
func isoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// wrappingContains reports whether val lies in the inclusive range
// start..end, wrapping around when start > end (e.g. Nov-Feb, Sa-Tu).
func wrappingContains(start, end, val int) bool {
	if start <= end {
		return val >= start && val <= end
	}
	return val >= start || val <= end
}

// nthInMonth returns the occurrence index of the date's weekday counted
// from the start of its month (first occurrence = 1).
func nthInMonth(d time.Time) int {
	return (d.Day()-1)/7 + 1
}

// nthInMonthFromEnd returns the occurrence index counted from the end of
// the month (last occurrence = 1).
func nthInMonthFromEnd(d time.Time) int {
	last := lastDayOfMonth(d.Year(), d.Month())
	return (last.Day()-d.Day())/7 + 1
}

// lastDayOfMonth returns the last day of the given month.
func lastDayOfMonth(year int, month time.Month) time.Time {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1)
}

// easterDate returns the Gregorian Easter Sunday of a year (anonymous
// Gregorian computus).
func easterDate(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// applyDateOffset shifts a resolved date by the weekday snap and day offset
// of a monthday bound. The snap runs first: in "Jan 01 +Su +2 days" the day
// shift applies to the snapped date.
func applyDateOffset(d time.Time, o DateOffset) time.Time {
	res := d
	switch o.Snap {
	case SnapNext:
		diff := (7 + int(o.Weekday) - int(osmWeekday(d))) % 7
		res = res.AddDate(0, 0, diff)
	case SnapPrev:
		diff := (7 + int(osmWeekday(d)) - int(o.Weekday)) % 7
		res = res.AddDate(0, 0, -diff)
	}
	return res.AddDate(0, 0, o.Days)
}

// resolvePartialDate resolves a partial date against a concrete year.
// Reports false when the date does not exist in that year (e.g. Feb 30),
// in which case the entry never matches.
func resolvePartialDate(pd PartialDate, year int) (time.Time, bool) {
	if pd.Year != 0 {
		year = pd.Year
	}
	if pd.Kind == DateEaster {
		return easterDate(year), true
	}
	return civilDate(year, pd.Month, pd.Day)
}
