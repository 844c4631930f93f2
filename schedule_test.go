package openhours

import "testing"

func TestOverrideSplitsExisting(t *testing.T) {
	d := &daySchedule{}
	d.override(timeRange{start: 540, end: 1020, state: Open})
	d.override(timeRange{start: 720, end: 780, state: Closed})

	want := []timeRange{
		{start: 540, end: 720, state: Open},
		{start: 720, end: 780, state: Closed},
		{start: 780, end: 1020, state: Open},
	}
	if len(d.ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d: %+v", len(d.ranges), len(want), d.ranges)
	}
	for i, w := range want {
		got := d.ranges[i]
		if got.start != w.start || got.end != w.end || got.state != w.state {
			t.Errorf("range %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestOverrideReplacesCovered(t *testing.T) {
	d := &daySchedule{}
	d.override(timeRange{start: 600, end: 660, state: Open})
	d.override(timeRange{start: 0, end: 1440, state: Closed})

	if len(d.ranges) != 1 || d.ranges[0].state != Closed {
		t.Errorf("full-day override left %+v", d.ranges)
	}
}

func TestFillUnsetOnlyFillsGaps(t *testing.T) {
	d := &daySchedule{}
	d.override(timeRange{start: 480, end: 720, state: Open})
	d.fillUnset(timeRange{start: 600, end: 840, state: Unknown})

	want := []timeRange{
		{start: 480, end: 720, state: Open},
		{start: 720, end: 840, state: Unknown},
	}
	if len(d.ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d: %+v", len(d.ranges), len(want), d.ranges)
	}
	for i, w := range want {
		got := d.ranges[i]
		if got.start != w.start || got.end != w.end || got.state != w.state {
			t.Errorf("range %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestFillUnsetAcrossMultipleGaps(t *testing.T) {
	d := &daySchedule{}
	d.override(timeRange{start: 100, end: 200, state: Open})
	d.override(timeRange{start: 400, end: 500, state: Open})
	d.fillUnset(timeRange{start: 0, end: 600, state: Closed})

	var covered int
	for _, r := range d.ranges {
		covered += r.end - r.start
	}
	if covered != 600 {
		t.Errorf("covered %d minutes, want 600: %+v", covered, d.ranges)
	}
}

func TestFinalizeFillsAndMerges(t *testing.T) {
	d := &daySchedule{}
	d.override(timeRange{start: 540, end: 720, state: Open})
	d.override(timeRange{start: 720, end: 1020, state: Open})

	out := d.finalize()
	want := []timeRange{
		{start: 0, end: 540, state: Closed},
		{start: 540, end: 1020, state: Open},
		{start: 1020, end: 1440, state: Closed},
	}
	if len(out) != len(want) {
		t.Fatalf("got %d ranges, want %d: %+v", len(out), len(want), out)
	}
	for i, w := range want {
		if out[i].start != w.start || out[i].end != w.end || out[i].state != w.state {
			t.Errorf("range %d = %+v, want %+v", i, out[i], w)
		}
	}
}

func TestFinalizeKeepsDistinctComments(t *testing.T) {
	d := &daySchedule{}
	d.override(timeRange{start: 0, end: 720, state: Open, comments: []string{"morning"}})
	d.override(timeRange{start: 720, end: 1440, state: Open, comments: []string{"afternoon"}})

	out := d.finalize()
	if len(out) != 2 {
		t.Fatalf("got %d ranges, want 2: %+v", len(out), out)
	}
}

func TestFinalizeEmptyDay(t *testing.T) {
	d := &daySchedule{}
	out := d.finalize()
	if len(out) != 1 || out[0].start != 0 || out[0].end != minutesPerDay || out[0].state != Closed {
		t.Errorf("empty day = %+v, want one closed range", out)
	}
}
