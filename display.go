package openhours

import (
	"fmt"
	"strings"
)

// Display renders a rule sequence in canonical form: normalized keyword
// casing, zero-padded numbers, and single-space separation. Parsing the
// result yields the same AST.
func Display(seq *RuleSequence) string {
	var sb strings.Builder
	for i := range seq.Rules {
		r := &seq.Rules[i]
		if i > 0 {
			switch r.Combinator {
			case Additional:
				sb.WriteString(", ")
			case Fallback:
				sb.WriteString(" || ")
			default:
				sb.WriteString("; ")
			}
		}
		sb.WriteString(displayRule(r))
	}
	return sb.String()
}

func displayRule(r *Rule) string {
	var parts []string

	if r.IsConstant() && r.State == Open {
		parts = append(parts, "24/7")
	} else {
		if len(r.Years) > 0 {
			parts = append(parts, displayList(r.Years, displayYearRange))
		}
		if len(r.Monthdays) > 0 {
			parts = append(parts, displayList(r.Monthdays, displayMonthdayRange))
		}
		if len(r.Weeks) > 0 {
			parts = append(parts, "week "+displayList(r.Weeks, displayWeekRange))
		}
		if len(r.Weekdays) > 0 {
			parts = append(parts, displayList(r.Weekdays, displayWeekdayEntry))
		}
		if len(r.Times) > 0 {
			parts = append(parts, displayList(r.Times, displayTimeSpan))
		}
	}

	if r.State != Open || len(parts) == 0 && len(r.Comments) == 0 {
		switch r.State {
		case Closed:
			parts = append(parts, "off")
		case Unknown:
			parts = append(parts, "unknown")
		case Open:
			parts = append(parts, "open")
		}
	}
	for _, c := range r.Comments {
		parts = append(parts, fmt.Sprintf("%q", c))
	}

	return strings.Join(parts, " ")
}

func displayList[T any](items []T, f func(T) string) string {
	strs := make([]string, len(items))
	for i, it := range items {
		strs[i] = f(it)
	}
	return strings.Join(strs, ",")
}

func displayYearRange(y YearRange) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04d", y.Start)
	switch {
	case y.OpenEnd:
		sb.WriteByte('+')
	case y.End != y.Start:
		fmt.Fprintf(&sb, "-%04d", y.End)
		if y.Step > 1 {
			fmt.Fprintf(&sb, "/%d", y.Step)
		}
	}
	return sb.String()
}

func displayWeekRange(w WeekRange) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%02d", w.Start)
	if w.End != w.Start {
		fmt.Fprintf(&sb, "-%02d", w.End)
		if w.Step > 1 {
			fmt.Fprintf(&sb, "/%d", w.Step)
		}
	}
	return sb.String()
}

func displayMonthdayRange(md MonthdayRange) string {
	if md.Kind == MonthdayMonths {
		var sb strings.Builder
		if md.YearHint != 0 {
			fmt.Fprintf(&sb, "%04d ", md.YearHint)
		}
		sb.WriteString(md.StartMonth.String())
		if md.EndMonth != md.StartMonth {
			sb.WriteByte('-')
			sb.WriteString(md.EndMonth.String())
		}
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(displayPartialDate(md.Start))
	sb.WriteString(displayDateOffset(md.StartOffset))
	switch {
	case md.OpenEnd:
		sb.WriteByte('+')
	case md.End != md.Start || !md.EndOffset.IsZero() && md.EndOffset != md.StartOffset:
		sb.WriteByte('-')
		sb.WriteString(displayDateTo(md.Start, md.End))
		sb.WriteString(displayDateOffset(md.EndOffset))
	}
	return sb.String()
}

func displayPartialDate(pd PartialDate) string {
	var sb strings.Builder
	if pd.Year != 0 {
		fmt.Fprintf(&sb, "%04d ", pd.Year)
	}
	if pd.Kind == DateEaster {
		sb.WriteString("easter")
	} else {
		fmt.Fprintf(&sb, "%s %02d", pd.Month, pd.Day)
	}
	return sb.String()
}

// displayDateTo shortens the end bound to a bare day number when only the
// day differs from the start.
func displayDateTo(from, to PartialDate) string {
	if from.Kind == DateCalendar && to.Kind == DateCalendar &&
		from.Year == to.Year && from.Month == to.Month && from.Day <= to.Day {
		return fmt.Sprintf("%02d", to.Day)
	}
	return displayPartialDate(to)
}

func displayDateOffset(o DateOffset) string {
	var sb strings.Builder
	switch o.Snap {
	case SnapNext:
		sb.WriteString(" +")
		sb.WriteString(o.Weekday.String())
	case SnapPrev:
		sb.WriteString(" -")
		sb.WriteString(o.Weekday.String())
	}
	if o.Days != 0 {
		sb.WriteString(displayDayShift(o.Days))
	}
	return sb.String()
}

func displayDayShift(days int) string {
	unit := "days"
	n := days
	if n < 0 {
		n = -n
	}
	if n == 1 {
		unit = "day"
	}
	return fmt.Sprintf(" %+d %s", days, unit)
}

func displayWeekdayEntry(e WeekdayEntry) string {
	if e.Kind == WeekdayEntryHoliday {
		s := e.Holiday.String()
		if e.Offset != 0 {
			s += displayDayShift(e.Offset)
		}
		return s
	}

	var sb strings.Builder
	sb.WriteString(e.Start.String())
	if e.End != e.Start {
		sb.WriteByte('-')
		sb.WriteString(e.End.String())
	}

	if !e.NthFromStart.Full() || !e.NthFromEnd.Full() {
		var nths []string
		for _, n := range e.NthFromStart.Positions() {
			nths = append(nths, fmt.Sprintf("%d", n))
		}
		for _, n := range e.NthFromEnd.Positions() {
			nths = append(nths, fmt.Sprintf("-%d", n))
		}
		sb.WriteByte('[')
		sb.WriteString(strings.Join(nths, ","))
		sb.WriteByte(']')
	}

	if e.Offset != 0 {
		sb.WriteString(displayDayShift(e.Offset))
	}
	return sb.String()
}

func displayTimeSpan(ts TimeSpan) string {
	var sb strings.Builder
	sb.WriteString(displayTimePoint(ts.Start))
	startOnly := ts.End.Kind == TimeFixed && ts.End.Time == Midnight24
	switch {
	case ts.OpenEnd && startOnly:
		sb.WriteByte('+')
	default:
		sb.WriteByte('-')
		sb.WriteString(displayTimePoint(ts.End))
		if ts.OpenEnd {
			sb.WriteByte('+')
		}
	}
	return sb.String()
}

func displayTimePoint(tp TimePoint) string {
	if tp.Kind == TimeFixed {
		return tp.Time.String()
	}
	if tp.Offset == 0 {
		return tp.Event.String()
	}
	sign := "+"
	off := tp.Offset
	if off < 0 {
		sign = "-"
		off = -off
	}
	return fmt.Sprintf("(%s%s%s)", tp.Event, sign, TimeFromMinutes(off))
}
