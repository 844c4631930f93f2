package openhours

import (
	"slices"
	"time"
)

// Interval is one stretch of the evaluated timeline. Start is inclusive,
// End exclusive. Consecutive intervals returned by evaluation never share
// state and comments, so the sequence is canonical.
type Interval struct {
	Start    time.Time
	End      time.Time
	State    State
	Comments []string
}

// minuteSpan is a resolved time span of a single day, in minutes from that
// day's midnight. end may exceed minutesPerDay for spans that spill past
// midnight.
type minuteSpan struct {
	start int
	end   int
}

// --- Day-granular selector matching ---

// dayMatches reports whether every constrained day axis of the rule admits
// the given date. Dates are normalized midnight-UTC day keys.
func dayMatches(r *Rule, ctx *Context, d time.Time) bool {
	if len(r.Years) > 0 {
		ok := false
		for _, yr := range r.Years {
			if yr.Matches(d.Year()) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if len(r.Weeks) > 0 {
		week := isoWeek(d)
		ok := false
		for _, wr := range r.Weeks {
			if wr.Matches(week) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if len(r.Monthdays) > 0 {
		ok := false
		for _, md := range r.Monthdays {
			if monthdayMatches(md, d) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if len(r.Weekdays) > 0 {
		ok := false
		for _, wd := range r.Weekdays {
			if weekdayEntryMatches(wd, ctx, d) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	return true
}

func monthdayMatches(md MonthdayRange, d time.Time) bool {
	if md.Kind == MonthdayMonths {
		return monthRangeMatches(md, d)
	}
	return dateRangeMatches(md, d)
}

func monthRangeMatches(md MonthdayRange, d time.Time) bool {
	month := Month(d.Month())
	year := d.Year()

	if md.YearHint == 0 {
		return wrappingContains(int(md.StartMonth), int(md.EndMonth), int(month))
	}
	if md.StartMonth <= md.EndMonth {
		return year == md.YearHint && month >= md.StartMonth && month <= md.EndMonth
	}
	// Wrapped range with a year hint covers the turn of that year:
	// "2024 Nov-Feb" is Nov 2024 through Feb 2025.
	return (year == md.YearHint && month >= md.StartMonth) ||
		(year == md.YearHint+1 && month <= md.EndMonth)
}

// dateRangeMatches resolves the date bounds against candidate start years.
// Two candidates suffice: a range started in the previous year can still
// cover today after wrapping.
func dateRangeMatches(md MonthdayRange, d time.Time) bool {
	for sy := d.Year() - 1; sy <= d.Year(); sy++ {
		start, ok := resolvePartialDate(md.Start, sy)
		if !ok {
			continue
		}

		var end time.Time
		switch {
		case md.OpenEnd:
			if md.Start.Year != 0 {
				// A year-qualified open range never closes.
				end = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
			} else {
				end = time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
			}
		default:
			end, ok = resolvePartialDate(md.End, sy)
			if ok && end.Before(start) {
				// "Dec 20-Jan 10" wraps into the following year.
				end, ok = resolvePartialDate(md.End, sy+1)
			}
			if !ok {
				continue
			}
		}

		start = applyDateOffset(start, md.StartOffset)
		if !md.OpenEnd {
			end = applyDateOffset(end, md.EndOffset)
		}

		if !d.Before(start) && !d.After(end) {
			return true
		}
	}
	return false
}

func weekdayEntryMatches(e WeekdayEntry, ctx *Context, d time.Time) bool {
	// A day offset shifts the match forward: "Su +1 day" matches Mondays,
	// so test the day the offset points back to.
	ref := d.AddDate(0, 0, -e.Offset)

	if e.Kind == WeekdayEntryHoliday {
		return ctx.isHoliday(e.Holiday, ref)
	}

	wd := osmWeekday(ref)
	if !wrappingContains(int(e.Start), int(e.End), int(wd)) {
		return false
	}
	return e.NthFromStart.Has(nthInMonth(ref)) || e.NthFromEnd.Has(nthInMonthFromEnd(ref))
}

// --- Time span resolution ---

// resolveTimeSpans turns the rule's time selector into concrete minute
// spans for a date. An empty selector covers the whole day. Variable
// events that do not occur on the date drop their span; resolution itself
// never fails.
func resolveTimeSpans(r *Rule, ctx *Context, d time.Time) []minuteSpan {
	if len(r.Times) == 0 {
		return []minuteSpan{{0, minutesPerDay}}
	}

	var res []minuteSpan
	for _, ts := range r.Times {
		start, ok := resolveTimePoint(ts.Start, ctx, d)
		if !ok {
			continue
		}
		end, ok := resolveTimePoint(ts.End, ctx, d)
		if !ok {
			continue
		}

		if start < 0 {
			start = 0
		}
		if end <= start {
			// Wraps past midnight: 21:00-02:00 runs into the next day.
			end += minutesPerDay
		}
		if end > 2*minutesPerDay {
			end = 2 * minutesPerDay
		}
		if start >= 2*minutesPerDay {
			continue
		}
		res = append(res, minuteSpan{start, end})
	}
	return res
}

func resolveTimePoint(tp TimePoint, ctx *Context, d time.Time) (int, bool) {
	if tp.Kind == TimeFixed {
		return tp.Time.Minutes(), true
	}
	et, ok := ctx.eventTime(d, tp.Event)
	if !ok {
		return 0, false
	}
	return et.Minutes() + tp.Offset, true
}

// --- Rule application ---

// ruleDayRanges collects the rule's contribution to a single day, clipped
// to that day: its own spans up to midnight plus the spill of yesterday's
// overnight spans.
func ruleDayRanges(r *Rule, ctx *Context, day time.Time) []timeRange {
	var out []timeRange

	if dayMatches(r, ctx, day) {
		for _, sp := range resolveTimeSpans(r, ctx, day) {
			end := sp.end
			if end > minutesPerDay {
				end = minutesPerDay
			}
			if end > sp.start {
				out = append(out, timeRange{start: sp.start, end: end, state: r.State, comments: r.Comments})
			}
		}
	}

	prev := day.AddDate(0, 0, -1)
	if dayMatches(r, ctx, prev) {
		for _, sp := range resolveTimeSpans(r, ctx, prev) {
			if sp.end > minutesPerDay {
				out = append(out, timeRange{start: 0, end: sp.end - minutesPerDay, state: r.State, comments: r.Comments})
			}
		}
	}

	return out
}

// evalDay computes the final partition of one day by applying every rule
// in sequence order.
func evalDay(seq *RuleSequence, ctx *Context, day time.Time) []timeRange {
	sched := &daySchedule{}
	for i := range seq.Rules {
		r := &seq.Rules[i]
		contrib := ruleDayRanges(r, ctx, day)
		switch r.Combinator {
		case Additional:
			for _, tr := range contrib {
				sched.fillUnset(tr)
			}
		case Fallback:
			if !sched.resolved() {
				for _, tr := range contrib {
					sched.override(tr)
				}
			}
		default:
			for _, tr := range contrib {
				sched.override(tr)
			}
		}
	}
	return sched.finalize()
}

// --- Window evaluation ---

// evaluateSequence resolves the schedule over [from, to) as a gapless,
// canonical sequence of intervals in the context's timezone.
func evaluateSequence(seq *RuleSequence, ctx *Context, from, to time.Time) []Interval {
	loc := ctx.location()
	fromL := from.In(loc)
	toL := to.In(loc)
	if !toL.After(fromL) {
		return nil
	}

	firstDay := dateOnly(fromL)
	lastDay := dateOnly(toL)
	if toL.Equal(startOfDay(toL, loc)) {
		lastDay = lastDay.AddDate(0, 0, -1)
	}

	var out []Interval
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		for _, tr := range evalDay(seq, ctx, day) {
			start := wallTime(day, tr.start, loc)
			end := wallTime(day, tr.end, loc)
			if n := len(out); n > 0 && out[n-1].End.Equal(start) &&
				out[n-1].State == tr.state && slices.Equal(out[n-1].Comments, tr.comments) {
				out[n-1].End = end
				continue
			}
			out = append(out, Interval{Start: start, End: end, State: tr.state, Comments: tr.comments})
		}
	}

	return clipIntervals(out, fromL, toL)
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// wallTime materializes a minute offset of a day key as a wall-clock
// instant in loc. Minute overflow normalizes into the next day.
func wallTime(day time.Time, mins int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, mins, 0, 0, loc)
}

// clipIntervals trims the sequence to the window, dropping what falls
// outside.
func clipIntervals(in []Interval, from, to time.Time) []Interval {
	var out []Interval
	for _, iv := range in {
		if !iv.End.After(from) || !iv.Start.Before(to) {
			continue
		}
		if iv.Start.Before(from) {
			iv.Start = from
		}
		if iv.End.After(to) {
			iv.End = to
		}
		out = append(out, iv)
	}
	return out
}
