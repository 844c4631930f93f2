package openhours

import (
	"testing"
	"time"
)

func TestEasterDate(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2000, time.April, 23},
		{2016, time.March, 27},
		{2024, time.March, 31},
		{2025, time.April, 20},
		{2038, time.April, 25},
	}
	for _, tt := range tests {
		got := easterDate(tt.year)
		if got.Month() != tt.month || got.Day() != tt.day {
			t.Errorf("easterDate(%d) = %v, want %v %d", tt.year, got, tt.month, tt.day)
		}
	}
}

func TestCivilDate(t *testing.T) {
	if _, ok := civilDate(2024, Feb, 30); ok {
		t.Error("Feb 30 should not resolve")
	}
	if d, ok := civilDate(2024, Feb, 29); !ok || d.Day() != 29 {
		t.Error("Feb 29 2024 should resolve (leap year)")
	}
	if _, ok := civilDate(2023, Feb, 29); ok {
		t.Error("Feb 29 2023 should not resolve")
	}
}

func TestOsmWeekday(t *testing.T) {
	// 2024-01-01 is a Monday, 2024-01-07 a Sunday.
	if got := osmWeekday(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)); got != Mo {
		t.Errorf("Jan 1 = %v, want Mo", got)
	}
	if got := osmWeekday(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)); got != Su {
		t.Errorf("Jan 7 = %v, want Su", got)
	}
}

func TestWrappingContains(t *testing.T) {
	tests := []struct {
		start, end, val int
		want            bool
	}{
		{1, 5, 3, true},
		{1, 5, 6, false},
		{11, 2, 12, true},
		{11, 2, 1, true},
		{11, 2, 5, false},
		{3, 3, 3, true},
	}
	for _, tt := range tests {
		if got := wrappingContains(tt.start, tt.end, tt.val); got != tt.want {
			t.Errorf("wrappingContains(%d, %d, %d) = %v, want %v", tt.start, tt.end, tt.val, got, tt.want)
		}
	}
}

func TestNthInMonth(t *testing.T) {
	d := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) // third Monday
	if got := nthInMonth(d); got != 3 {
		t.Errorf("nthInMonth(Jan 15) = %d, want 3", got)
	}
	if got := nthInMonthFromEnd(d); got != 3 {
		t.Errorf("nthInMonthFromEnd(Jan 15) = %d, want 3", got)
	}
	last := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC) // last Monday
	if got := nthInMonthFromEnd(last); got != 1 {
		t.Errorf("nthInMonthFromEnd(Jan 29) = %d, want 1", got)
	}
}

func TestApplyDateOffsetSnap(t *testing.T) {
	// Jan 1 2024 is a Monday; the next Sunday is Jan 7.
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	next := applyDateOffset(d, DateOffset{Snap: SnapNext, Weekday: Su})
	if next.Day() != 7 {
		t.Errorf("snap next Sunday = %v, want Jan 7", next)
	}

	// Snapping to the weekday the date already has is a no-op.
	same := applyDateOffset(d, DateOffset{Snap: SnapNext, Weekday: Mo})
	if same.Day() != 1 {
		t.Errorf("snap next Monday = %v, want Jan 1", same)
	}

	prev := applyDateOffset(d, DateOffset{Snap: SnapPrev, Weekday: Fr})
	if prev.Month() != time.December || prev.Day() != 29 {
		t.Errorf("snap previous Friday = %v, want Dec 29", prev)
	}

	shifted := applyDateOffset(d, DateOffset{Snap: SnapNext, Weekday: Su, Days: 2})
	if shifted.Day() != 9 {
		t.Errorf("snap next Sunday +2 days = %v, want Jan 9", shifted)
	}
}

func TestResolvePartialDate(t *testing.T) {
	d, ok := resolvePartialDate(NewCalendarDate(0, Mar, 15), 2024)
	if !ok || d.Year() != 2024 || d.Month() != time.March || d.Day() != 15 {
		t.Errorf("unqualified date = %v (%v)", d, ok)
	}

	// A year-qualified date ignores the candidate year.
	d, ok = resolvePartialDate(NewCalendarDate(2020, Mar, 15), 2024)
	if !ok || d.Year() != 2020 {
		t.Errorf("qualified date = %v (%v), want year 2020", d, ok)
	}

	d, ok = resolvePartialDate(NewEasterDate(0), 2024)
	if !ok || d.Month() != time.March || d.Day() != 31 {
		t.Errorf("easter 2024 = %v (%v), want Mar 31", d, ok)
	}

	if _, ok = resolvePartialDate(NewCalendarDate(0, Feb, 30), 2024); ok {
		t.Error("Feb 30 should not resolve")
	}
}

func TestIsoWeek(t *testing.T) {
	// 2024-01-01 is in ISO week 1; 2023-01-01 (a Sunday) in week 52 of 2022.
	if got := isoWeek(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)); got != 1 {
		t.Errorf("isoWeek(2024-01-01) = %d, want 1", got)
	}
	if got := isoWeek(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)); got != 52 {
		t.Errorf("isoWeek(2023-01-01) = %d, want 52", got)
	}
}
