package openhours

import "testing"

func mustRules(t *testing.T, input string) []Rule {
	t.Helper()
	seq, err := ParseSequence(input)
	if err != nil {
		t.Fatalf("ParseSequence(%q) failed: %v", input, err)
	}
	return seq.Rules
}

func TestParseAlwaysOpen(t *testing.T) {
	rules := mustRules(t, "24/7")
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	r := rules[0]
	if !r.IsConstant() || r.State != Open {
		t.Errorf("24/7 = %+v, want constant open rule", r)
	}
}

func TestParseWeekdaysAndTimes(t *testing.T) {
	rules := mustRules(t, "Mo-Fr 09:00-18:00")
	r := rules[0]
	if len(r.Weekdays) != 1 {
		t.Fatalf("got %d weekday entries, want 1", len(r.Weekdays))
	}
	wd := r.Weekdays[0]
	if wd.Start != Mo || wd.End != Fr {
		t.Errorf("weekday range = %v-%v, want Mo-Fr", wd.Start, wd.End)
	}
	if !wd.NthFromStart.Full() || !wd.NthFromEnd.Full() {
		t.Errorf("bare weekday range should include every occurrence")
	}
	if len(r.Times) != 1 {
		t.Fatalf("got %d time spans, want 1", len(r.Times))
	}
	ts := r.Times[0]
	if ts.Start.Time.Minutes() != 9*60 || ts.End.Time.Minutes() != 18*60 {
		t.Errorf("time span = %v-%v, want 09:00-18:00", ts.Start.Time, ts.End.Time)
	}
}

func TestParseCombinators(t *testing.T) {
	rules := mustRules(t, `Mo-Fr 09:00-18:00; We off, Sa 10:00-14:00 || "by appointment"`)
	if len(rules) != 4 {
		t.Fatalf("got %d rules, want 4", len(rules))
	}
	wantComb := []Combinator{Override, Override, Additional, Fallback}
	for i, want := range wantComb {
		if rules[i].Combinator != want {
			t.Errorf("rule %d combinator = %v, want %v", i, rules[i].Combinator, want)
		}
	}
	if rules[1].State != Closed {
		t.Errorf("'We off' state = %v, want closed", rules[1].State)
	}
	if len(rules[3].Comments) != 1 || rules[3].Comments[0] != "by appointment" {
		t.Errorf("fallback comments = %v", rules[3].Comments)
	}
}

func TestParseTimeListVsAdditionalRule(t *testing.T) {
	// A comma followed by a timespan continues the time selector.
	rules := mustRules(t, "Mo-Fr 08:00-12:00,14:00-16:00")
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	if len(rules[0].Times) != 2 {
		t.Errorf("got %d time spans, want 2", len(rules[0].Times))
	}

	// A comma followed by a weekday starts an additional rule.
	rules = mustRules(t, "Mo-Fr 08:00-12:00, Sa 10:00-14:00")
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[1].Combinator != Additional {
		t.Errorf("second rule combinator = %v, want additional", rules[1].Combinator)
	}
}

func TestParseYearSelector(t *testing.T) {
	rules := mustRules(t, "2020-2030/2 10:00-12:00")
	r := rules[0]
	if len(r.Years) != 1 {
		t.Fatalf("got %d year ranges, want 1", len(r.Years))
	}
	y := r.Years[0]
	if y.Start != 2020 || y.End != 2030 || y.Step != 2 {
		t.Errorf("year range = %+v, want 2020-2030/2", y)
	}

	rules = mustRules(t, "2024+ Mo")
	if !rules[0].Years[0].OpenEnd {
		t.Errorf("2024+ should be open ended")
	}
}

func TestParseYearVsMonthdayPrefix(t *testing.T) {
	// A four-digit number directly before a month binds to the monthday.
	rules := mustRules(t, "2024 Jan 10:00-12:00")
	r := rules[0]
	if len(r.Years) != 0 {
		t.Errorf("year selector = %+v, want none", r.Years)
	}
	if len(r.Monthdays) != 1 || r.Monthdays[0].YearHint != 2024 {
		t.Errorf("monthdays = %+v, want Jan with year 2024", r.Monthdays)
	}
}

func TestParseMonthdayRanges(t *testing.T) {
	tests := []struct {
		input string
		check func(md MonthdayRange) bool
	}{
		{"Jan", func(md MonthdayRange) bool {
			return md.Kind == MonthdayMonths && md.StartMonth == Jan && md.EndMonth == Jan
		}},
		{"Nov-Feb", func(md MonthdayRange) bool {
			return md.Kind == MonthdayMonths && md.StartMonth == Nov && md.EndMonth == Feb
		}},
		{"Jan 01-Feb 15", func(md MonthdayRange) bool {
			return md.Kind == MonthdayDates && md.Start.Day == 1 && md.End.Month == Feb && md.End.Day == 15
		}},
		{"Jan 05-10", func(md MonthdayRange) bool {
			return md.Kind == MonthdayDates && md.End.Month == Jan && md.End.Day == 10
		}},
		{"Jan 25-05", func(md MonthdayRange) bool {
			// End day below the start day rolls into the next month.
			return md.End.Month == Feb && md.End.Day == 5
		}},
		{"easter", func(md MonthdayRange) bool {
			return md.Kind == MonthdayDates && md.Start.Kind == DateEaster
		}},
		{"easter +2 days", func(md MonthdayRange) bool {
			return md.Start.Kind == DateEaster && md.StartOffset.Days == 2
		}},
		{"Jan 01 +Su", func(md MonthdayRange) bool {
			return md.StartOffset.Snap == SnapNext && md.StartOffset.Weekday == Su
		}},
		{"Jan 01 -Su -2 days", func(md MonthdayRange) bool {
			return md.StartOffset.Snap == SnapPrev && md.StartOffset.Days == -2
		}},
		{"Dec 20+", func(md MonthdayRange) bool {
			return md.OpenEnd
		}},
	}

	for _, tt := range tests {
		rules := mustRules(t, tt.input)
		if len(rules[0].Monthdays) != 1 {
			t.Errorf("Parse(%q): got %d monthday entries, want 1", tt.input, len(rules[0].Monthdays))
			continue
		}
		if !tt.check(rules[0].Monthdays[0]) {
			t.Errorf("Parse(%q): monthday = %+v fails check", tt.input, rules[0].Monthdays[0])
		}
	}
}

func TestParseWeekSelector(t *testing.T) {
	rules := mustRules(t, "week 01-10/2,51 Mo")
	r := rules[0]
	if len(r.Weeks) != 2 {
		t.Fatalf("got %d week ranges, want 2", len(r.Weeks))
	}
	if r.Weeks[0].Start != 1 || r.Weeks[0].End != 10 || r.Weeks[0].Step != 2 {
		t.Errorf("first week range = %+v, want 01-10/2", r.Weeks[0])
	}
	if r.Weeks[1].Start != 51 || r.Weeks[1].End != 51 {
		t.Errorf("second week range = %+v, want 51", r.Weeks[1])
	}
	if len(r.Weekdays) != 1 {
		t.Errorf("weekday selector after weeks not parsed")
	}
}

func TestParseNthWeekday(t *testing.T) {
	rules := mustRules(t, "Mo[1,-1] 10:00-12:00")
	wd := rules[0].Weekdays[0]
	if !wd.NthFromStart.Has(1) || wd.NthFromStart.Has(2) {
		t.Errorf("nth from start = %v, want {1}", wd.NthFromStart.Positions())
	}
	if !wd.NthFromEnd.Has(1) || wd.NthFromEnd.Has(2) {
		t.Errorf("nth from end = %v, want {1}", wd.NthFromEnd.Positions())
	}

	rules = mustRules(t, "Mo[2-4]")
	wd = rules[0].Weekdays[0]
	for i := 1; i <= 5; i++ {
		want := i >= 2 && i <= 4
		if wd.NthFromStart.Has(i) != want {
			t.Errorf("Mo[2-4]: occurrence %d included = %v, want %v", i, wd.NthFromStart.Has(i), want)
		}
	}
}

func TestParseWeekdayOffset(t *testing.T) {
	rules := mustRules(t, "Su +1 day 10:00-12:00")
	wd := rules[0].Weekdays[0]
	if wd.Start != Su || wd.Offset != 1 {
		t.Errorf("entry = %+v, want Su with offset 1", wd)
	}
}

func TestParseHolidays(t *testing.T) {
	rules := mustRules(t, "PH,SH -1 day off")
	r := rules[0]
	if len(r.Weekdays) != 2 {
		t.Fatalf("got %d entries, want 2", len(r.Weekdays))
	}
	if r.Weekdays[0].Holiday != PublicHoliday {
		t.Errorf("first entry = %+v, want PH", r.Weekdays[0])
	}
	if r.Weekdays[1].Holiday != SchoolHoliday || r.Weekdays[1].Offset != -1 {
		t.Errorf("second entry = %+v, want SH -1 day", r.Weekdays[1])
	}
	if r.State != Closed {
		t.Errorf("state = %v, want closed", r.State)
	}
}

func TestParseVariableTimes(t *testing.T) {
	rules := mustRules(t, "sunrise-sunset")
	ts := rules[0].Times[0]
	if ts.Start.Kind != TimeVariable || ts.Start.Event != Sunrise {
		t.Errorf("start = %+v, want sunrise", ts.Start)
	}
	if ts.End.Event != Sunset {
		t.Errorf("end = %+v, want sunset", ts.End)
	}

	rules = mustRules(t, "(sunrise+01:00)-(sunset-00:30)")
	ts = rules[0].Times[0]
	if ts.Start.Offset != 60 {
		t.Errorf("start offset = %d, want 60", ts.Start.Offset)
	}
	if ts.End.Offset != -30 {
		t.Errorf("end offset = %d, want -30", ts.End.Offset)
	}
}

func TestParseBareStartTime(t *testing.T) {
	rules := mustRules(t, "Mo 10:00")
	ts := rules[0].Times[0]
	if ts.End.Kind != TimeFixed || ts.End.Time != Midnight24 {
		t.Errorf("bare start should extend to 24:00, got %+v", ts.End)
	}
	if ts.OpenEnd {
		t.Errorf("bare start is not open ended")
	}

	rules = mustRules(t, "Mo 10:00+")
	ts = rules[0].Times[0]
	if !ts.OpenEnd || ts.End.Time != Midnight24 {
		t.Errorf("10:00+ = %+v, want open end to 24:00", ts)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"Mo-Fr 09:00-18:00;",
		"Mo-Fr 09:00-18:00 ||",
		"Mo-Fr ;; 10:00",
		"week 54",
		"Mo[6]",
		"Mo[0]",
		"Jan 32",
		"25:00-26:00",
		"2030-2020",
		"(sunrise)",
		"(sunrise+01:00",
	}

	for _, input := range tests {
		_, err := ParseSequence(input)
		if err == nil {
			t.Errorf("ParseSequence(%q) succeeded, want error", input)
			continue
		}
		if pe, ok := err.(*Error); !ok || pe.Kind != ErrorKindParse {
			t.Errorf("ParseSequence(%q) error = %v, want parse error", input, err)
		}
	}
}

func TestParseDanglingSeparatorPosition(t *testing.T) {
	input := "Mo-Fr 09:00-18:00;"
	_, err := ParseSequence(input)
	if err == nil {
		t.Fatal("expected error for dangling separator")
	}
	pe := err.(*Error)
	if pe.Position() != len(input) {
		t.Errorf("error position = %d, want %d", pe.Position(), len(input))
	}
}
