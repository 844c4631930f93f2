package openhours

import (
	"time"

	"github.com/teambition/rrule-go"
)

// StaticHolidays is a HolidayProvider backed by explicit date lists, for
// callers that already know their holiday dates.
type StaticHolidays struct {
	Public []time.Time
	School []time.Time
}

// Holidays implements HolidayProvider.
func (s StaticHolidays) Holidays(kind HolidayKind, year int) []time.Time {
	src := s.Public
	if kind == SchoolHoliday {
		src = s.School
	}
	var res []time.Time
	for _, d := range src {
		if d.Year() == year {
			res = append(res, dateOnly(d))
		}
	}
	return res
}

// HolidayRule describes one recurring holiday as an RFC 5545 recurrence
// rule, e.g. "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25" for Christmas or
// "FREQ=YEARLY;BYMONTH=5;BYDAY=-1MO" for a last-Monday-of-May holiday.
type HolidayRule struct {
	Kind  HolidayKind
	Name  string
	RRule string
}

type compiledHolidayRule struct {
	kind HolidayKind
	rule *rrule.RRule
}

// RecurringHolidays is a HolidayProvider that expands recurrence rules on
// demand.
type RecurringHolidays struct {
	rules []compiledHolidayRule
}

// NewRecurringHolidays compiles a set of holiday recurrence rules. Invalid
// rule strings fail up front.
func NewRecurringHolidays(rules ...HolidayRule) (*RecurringHolidays, error) {
	p := &RecurringHolidays{}
	for _, hr := range rules {
		r, err := rrule.StrToRRule(hr.RRule)
		if err != nil {
			return nil, err
		}
		r.DTStart(time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC))
		p.rules = append(p.rules, compiledHolidayRule{kind: hr.Kind, rule: r})
	}
	return p, nil
}

// Holidays implements HolidayProvider by expanding every matching rule over
// the requested year.
func (p *RecurringHolidays) Holidays(kind HolidayKind, year int) []time.Time {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	var res []time.Time
	seen := make(map[time.Time]bool)
	for _, cr := range p.rules {
		if cr.kind != kind {
			continue
		}
		for _, d := range cr.rule.Between(from, to, true) {
			day := dateOnly(d)
			if !seen[day] {
				seen[day] = true
				res = append(res, day)
			}
		}
	}
	return res
}
