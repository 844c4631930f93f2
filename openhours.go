// Package openhours parses and evaluates schedule expressions in the OSM
// opening_hours mini-language.
//
// An expression is a sequence of rules joined by ";" (override), ","
// (additional) or "||" (fallback). Each rule constrains up to five axes
// (years, monthdays, ISO weeks, weekdays or holidays, times of day) and
// carries a state: open, closed or unknown.
//
//	oh, err := openhours.Parse("Mo-Fr 09:00-18:00; Sa 10:00-14:00; PH off")
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx := openhours.NewContext().WithLocation(berlin)
//	if oh.IsOpen(ctx, time.Now()) {
//		...
//	}
//
// Evaluation is total: once an expression parses, any window resolves to a
// gapless sequence of state-labeled intervals with no further errors.
package openhours

import (
	"iter"
	"slices"
	"time"
)

// nextChangeHorizonDays bounds the search for the next state transition.
const nextChangeHorizonDays = 3000

// OpeningHours is a parsed opening_hours expression, ready for evaluation.
// It is immutable and safe for concurrent use.
type OpeningHours struct {
	rules *RuleSequence
	input string
}

// Parse parses an opening_hours expression. The returned error, if any, is
// a *Error carrying the byte span of the offending input.
func Parse(input string) (*OpeningHours, error) {
	seq, err := ParseSequence(input)
	if err != nil {
		return nil, err
	}
	return &OpeningHours{rules: seq, input: input}, nil
}

// MustParse is like Parse but panics on invalid input. Intended for
// expressions known at compile time.
func MustParse(input string) *OpeningHours {
	oh, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return oh
}

// Validate reports whether the input is a well-formed expression.
func Validate(input string) error {
	_, err := ParseSequence(input)
	return err
}

// Rules exposes the parsed rule sequence.
func (oh *OpeningHours) Rules() *RuleSequence {
	return oh.rules
}

// Input returns the original expression text.
func (oh *OpeningHours) Input() string {
	return oh.input
}

// String renders the expression in canonical form.
func (oh *OpeningHours) String() string {
	return Display(oh.rules)
}

// Evaluate resolves the schedule over [from, to) into a gapless sequence
// of intervals in the context's timezone. Adjacent intervals always differ
// in state or comments.
func (oh *OpeningHours) Evaluate(ctx *Context, from, to time.Time) []Interval {
	return evaluateSequence(oh.rules, ctx, from, to)
}

// Intervals returns a lazy iterator over the evaluated intervals of
// [from, to). Days are resolved on demand, so large windows cost no more
// memory than small ones.
func (oh *OpeningHours) Intervals(ctx *Context, from, to time.Time) iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		loc := ctx.location()
		fromL := from.In(loc)
		toL := to.In(loc)
		if !toL.After(fromL) {
			return
		}

		firstDay := dateOnly(fromL)
		lastDay := dateOnly(toL)
		if toL.Equal(startOfDay(toL, loc)) {
			lastDay = lastDay.AddDate(0, 0, -1)
		}

		var pending *Interval
		for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
			for _, tr := range evalDay(oh.rules, ctx, day) {
				iv := Interval{
					Start:    wallTime(day, tr.start, loc),
					End:      wallTime(day, tr.end, loc),
					State:    tr.state,
					Comments: tr.comments,
				}
				if pending != nil && pending.End.Equal(iv.Start) &&
					pending.State == iv.State && slices.Equal(pending.Comments, iv.Comments) {
					pending.End = iv.End
					continue
				}
				if pending != nil {
					if !emitClipped(yield, *pending, fromL, toL) {
						return
					}
				}
				p := iv
				pending = &p
			}
		}
		if pending != nil {
			emitClipped(yield, *pending, fromL, toL)
		}
	}
}

// emitClipped yields the interval clipped to the window, skipping it when
// it falls entirely outside. Reports false once the consumer stops.
func emitClipped(yield func(Interval) bool, iv Interval, from, to time.Time) bool {
	if !iv.End.After(from) || !iv.Start.Before(to) {
		return true
	}
	if iv.Start.Before(from) {
		iv.Start = from
	}
	if iv.End.After(to) {
		iv.End = to
	}
	return yield(iv)
}

// StateAt returns the interval covering the instant t.
func (oh *OpeningHours) StateAt(ctx *Context, t time.Time) Interval {
	ivs := oh.Evaluate(ctx, t, t.Add(time.Minute))
	if len(ivs) == 0 {
		return Interval{Start: t, End: t.Add(time.Minute), State: Closed}
	}
	return ivs[0]
}

// IsOpen reports whether the schedule is open at t.
func (oh *OpeningHours) IsOpen(ctx *Context, t time.Time) bool {
	return oh.StateAt(ctx, t).State == Open
}

// IsClosed reports whether the schedule is closed at t.
func (oh *OpeningHours) IsClosed(ctx *Context, t time.Time) bool {
	return oh.StateAt(ctx, t).State == Closed
}

// IsUnknown reports whether the schedule state at t is unknown.
func (oh *OpeningHours) IsUnknown(ctx *Context, t time.Time) bool {
	return oh.StateAt(ctx, t).State == Unknown
}

// NextChange returns the next instant after t at which the state or the
// comments change. Reports false when no change occurs within the search
// horizon, which is the case for constant schedules like "24/7".
func (oh *OpeningHours) NextChange(ctx *Context, t time.Time) (time.Time, bool) {
	horizon := t.AddDate(0, 0, nextChangeHorizonDays)

	first := true
	var cur Interval
	for iv := range oh.Intervals(ctx, t, horizon) {
		if first {
			cur = iv
			first = false
			continue
		}
		if iv.State != cur.State || !slices.Equal(iv.Comments, cur.Comments) {
			return iv.Start, true
		}
		cur.End = iv.End
	}
	return time.Time{}, false
}
