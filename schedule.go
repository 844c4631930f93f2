package openhours

import (
	"slices"
	"sort"
)

// timeRange is one resolved stretch of a day, in minutes from midnight.
// end is exclusive and capped at minutesPerDay.
type timeRange struct {
	start    int
	end      int
	state    State
	comments []string
}

// daySchedule accumulates the resolved ranges of a single day while rules
// are applied in order. Ranges stay sorted and non-overlapping; minutes not
// covered by any range are still unset.
type daySchedule struct {
	ranges []timeRange
}

// resolved reports whether any rule has resolved part of this day.
func (d *daySchedule) resolved() bool {
	return len(d.ranges) > 0
}

// override replaces whatever earlier rules resolved for the sub-span of r,
// keeping the uncovered remainders of existing ranges.
func (d *daySchedule) override(r timeRange) {
	if r.start >= r.end {
		return
	}
	var next []timeRange
	for _, ex := range d.ranges {
		if ex.end <= r.start || ex.start >= r.end {
			next = append(next, ex)
			continue
		}
		if ex.start < r.start {
			left := ex
			left.end = r.start
			next = append(next, left)
		}
		if ex.end > r.end {
			right := ex
			right.start = r.end
			next = append(next, right)
		}
	}
	next = append(next, r)
	sort.Slice(next, func(i, j int) bool { return next[i].start < next[j].start })
	d.ranges = next
}

// fillUnset resolves only the minutes of r that no earlier rule has
// claimed, leaving existing ranges untouched.
func (d *daySchedule) fillUnset(r timeRange) {
	if r.start >= r.end {
		return
	}
	cursor := r.start
	var inserts []timeRange
	for _, ex := range d.ranges {
		if ex.end <= cursor {
			continue
		}
		if ex.start >= r.end {
			break
		}
		if ex.start > cursor {
			gap := r
			gap.start = cursor
			gap.end = ex.start
			inserts = append(inserts, gap)
		}
		if ex.end > cursor {
			cursor = ex.end
		}
	}
	if cursor < r.end {
		gap := r
		gap.start = cursor
		gap.end = r.end
		inserts = append(inserts, gap)
	}
	if len(inserts) == 0 {
		return
	}
	d.ranges = append(d.ranges, inserts...)
	sort.Slice(d.ranges, func(i, j int) bool { return d.ranges[i].start < d.ranges[j].start })
}

// finalize turns the partial schedule into a total partition of the day:
// unset minutes become Closed without comments, and adjacent ranges with
// identical state and comments merge.
func (d *daySchedule) finalize() []timeRange {
	var out []timeRange
	cursor := 0
	for _, ex := range d.ranges {
		if ex.start > cursor {
			out = appendMerged(out, timeRange{start: cursor, end: ex.start, state: Closed})
		}
		out = appendMerged(out, ex)
		cursor = ex.end
	}
	if cursor < minutesPerDay {
		out = appendMerged(out, timeRange{start: cursor, end: minutesPerDay, state: Closed})
	}
	return out
}

// appendMerged appends r, coalescing with the previous range when state and
// comments agree.
func appendMerged(out []timeRange, r timeRange) []timeRange {
	if n := len(out); n > 0 {
		prev := &out[n-1]
		if prev.end == r.start && prev.state == r.state && slices.Equal(prev.comments, r.comments) {
			prev.end = r.end
			return out
		}
	}
	return append(out, r)
}
