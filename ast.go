package openhours

import (
	"fmt"
	"strings"
)

// State represents the resolved status of a rule or interval.
type State int

const (
	Open State = iota
	Closed
	Unknown
)

func (s State) String() string {
	names := map[State]string{
		Open:    "open",
		Closed:  "closed",
		Unknown: "unknown",
	}
	return names[s]
}

// ParseState parses a state keyword (case insensitive). "off" is an alias
// for "closed".
func ParseState(s string) (State, bool) {
	stateParse := map[string]State{
		"open":    Open,
		"closed":  Closed,
		"off":     Closed,
		"unknown": Unknown,
	}
	st, ok := stateParse[strings.ToLower(s)]
	return st, ok
}

// Combinator represents how a rule combines with the rules preceding it.
type Combinator int

const (
	// Override replaces the state of any earlier rule for the sub-intervals
	// it covers (";" separator).
	Override Combinator = iota
	// Additional fills only sub-intervals no earlier rule has resolved
	// ("," separator).
	Additional
	// Fallback applies only on days where no earlier rule resolved anything
	// ("||" separator).
	Fallback
)

func (c Combinator) String() string {
	names := map[Combinator]string{
		Override:   "override",
		Additional: "additional",
		Fallback:   "fallback",
	}
	return names[c]
}

// Weekday represents a day of the week (Mo=0 .. Su=6, OSM order).
type Weekday int

const (
	Mo Weekday = iota
	Tu
	We
	Th
	Fr
	Sa
	Su
)

func (w Weekday) String() string {
	names := [...]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	if w < Mo || w > Su {
		return "??"
	}
	return names[w]
}

// ParseWeekday parses a weekday abbreviation or full name (case insensitive).
func ParseWeekday(s string) (Weekday, bool) {
	weekdayParse := map[string]Weekday{
		"mo": Mo, "monday": Mo,
		"tu": Tu, "tuesday": Tu,
		"we": We, "wednesday": We,
		"th": Th, "thursday": Th,
		"fr": Fr, "friday": Fr,
		"sa": Sa, "saturday": Sa,
		"su": Su, "sunday": Su,
	}
	w, ok := weekdayParse[strings.ToLower(s)]
	return w, ok
}

// Month represents a month of the year (Jan=1 .. Dec=12).
type Month int

const (
	Jan Month = iota + 1
	Feb
	Mar
	Apr
	May
	Jun
	Jul
	Aug
	Sep
	Oct
	Nov
	Dec
)

func (m Month) String() string {
	names := [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	if m < Jan || m > Dec {
		return "???"
	}
	return names[m-1]
}

// Next returns the month following m, wrapping December to January.
func (m Month) Next() Month {
	if m == Dec {
		return Jan
	}
	return m + 1
}

// ParseMonth parses a month abbreviation or full name (case insensitive).
func ParseMonth(s string) (Month, bool) {
	monthParse := map[string]Month{
		"jan": Jan, "january": Jan,
		"feb": Feb, "february": Feb,
		"mar": Mar, "march": Mar,
		"apr": Apr, "april": Apr,
		"may": May,
		"jun": Jun, "june": Jun,
		"jul": Jul, "july": Jul,
		"aug": Aug, "august": Aug,
		"sep": Sep, "september": Sep,
		"oct": Oct, "october": Oct,
		"nov": Nov, "november": Nov,
		"dec": Dec, "december": Dec,
	}
	m, ok := monthParse[strings.ToLower(s)]
	return m, ok
}

// --- Year selector ---

// YearRange represents a year constraint like "2020", "2020-2030/2" or
// "2020+".
type YearRange struct {
	Start   int
	End     int
	OpenEnd bool
	Step    int
}

// NewYearRange creates a single-year range.
func NewYearRange(year int) YearRange {
	return YearRange{Start: year, End: year, Step: 1}
}

// Matches reports whether the given year satisfies this range.
func (y YearRange) Matches(year int) bool {
	if year < y.Start {
		return false
	}
	if !y.OpenEnd && year > y.End {
		return false
	}
	step := y.Step
	if step < 1 {
		step = 1
	}
	return (year-y.Start)%step == 0
}

// --- Week selector ---

// WeekRange represents an ISO week constraint like "01-10/2". Ranges may
// wrap across the year boundary ("51-02").
type WeekRange struct {
	Start int
	End   int
	Step  int
}

// Matches reports whether the given ISO week number satisfies this range.
func (w WeekRange) Matches(week int) bool {
	if !wrappingContains(w.Start, w.End, week) {
		return false
	}
	step := w.Step
	if step < 1 {
		step = 1
	}
	if w.Start <= w.End {
		return (week-w.Start)%step == 0
	}
	// Wrapped range: count from the start week, through week 53.
	var idx int
	if week >= w.Start {
		idx = week - w.Start
	} else {
		idx = 53 - w.Start + week
	}
	return idx%step == 0
}

// --- Monthday selector ---

// MonthdayKind represents the type of a monthday range entry.
type MonthdayKind int

const (
	// MonthdayMonths is a month-granular range like "Jan" or "Nov-Feb".
	MonthdayMonths MonthdayKind = iota
	// MonthdayDates is a date-granular range like "Jan 01-Feb 15" or
	// "easter +2 days".
	MonthdayDates
)

// DateKind represents the type of a partial date.
type DateKind int

const (
	DateCalendar DateKind = iota
	DateEaster
)

// PartialDate represents a date that may lack a year and may be variable
// (easter). Day is unused for easter dates.
type PartialDate struct {
	Kind  DateKind
	Year  int // 0 means "any year"
	Month Month
	Day   int
}

// NewCalendarDate creates a fixed calendar date (year 0 means unqualified).
func NewCalendarDate(year int, month Month, day int) PartialDate {
	return PartialDate{Kind: DateCalendar, Year: year, Month: month, Day: day}
}

// NewEasterDate creates an easter-relative date (year 0 means unqualified).
func NewEasterDate(year int) PartialDate {
	return PartialDate{Kind: DateEaster, Year: year}
}

// WeekdaySnapKind represents the direction of a "+Su" / "-Su" date offset.
type WeekdaySnapKind int

const (
	SnapNone WeekdaySnapKind = iota
	SnapNext
	SnapPrev
)

// DateOffset represents the offset part of a monthday bound: an optional
// weekday snap followed by a signed day shift.
type DateOffset struct {
	Snap    WeekdaySnapKind
	Weekday Weekday
	Days    int
}

// IsZero reports whether the offset leaves dates unchanged.
func (o DateOffset) IsZero() bool {
	return o.Snap == SnapNone && o.Days == 0
}

// MonthdayRange represents one entry of the monthday selector.
type MonthdayRange struct {
	Kind MonthdayKind

	// MonthdayMonths fields
	YearHint   int // 0 means "any year"
	StartMonth Month
	EndMonth   Month

	// MonthdayDates fields
	Start       PartialDate
	End         PartialDate
	StartOffset DateOffset
	EndOffset   DateOffset
	OpenEnd     bool
}

// NewMonthRange creates a month-granular monthday entry.
func NewMonthRange(year int, start, end Month) MonthdayRange {
	return MonthdayRange{Kind: MonthdayMonths, YearHint: year, StartMonth: start, EndMonth: end}
}

// NewDateRange creates a date-granular monthday entry.
func NewDateRange(start, end PartialDate, startOffset, endOffset DateOffset) MonthdayRange {
	return MonthdayRange{
		Kind:        MonthdayDates,
		Start:       start,
		End:         end,
		StartOffset: startOffset,
		EndOffset:   endOffset,
	}
}

// --- Weekday selector ---

// NthSet is a bitfield over the five possible occurrences of a weekday in a
// month (bit 0 = first occurrence).
type NthSet uint8

const nthSetFull NthSet = (1 << 5) - 1

// Set marks occurrence i (1-based) as included.
func (n *NthSet) Set(i int) {
	if i >= 1 && i <= 5 {
		*n |= 1 << (i - 1)
	}
}

// Has reports whether occurrence i (1-based) is included.
func (n NthSet) Has(i int) bool {
	if i < 1 || i > 5 {
		return false
	}
	return n&(1<<(i-1)) != 0
}

// Any reports whether any occurrence is included.
func (n NthSet) Any() bool { return n != 0 }

// Full reports whether every occurrence is included.
func (n NthSet) Full() bool { return n == nthSetFull }

// Positions returns the included occurrences in ascending order.
func (n NthSet) Positions() []int {
	var res []int
	for i := 1; i <= 5; i++ {
		if n.Has(i) {
			res = append(res, i)
		}
	}
	return res
}

// WeekdayEntryKind represents the type of a weekday selector entry.
type WeekdayEntryKind int

const (
	WeekdayEntryRange WeekdayEntryKind = iota
	WeekdayEntryHoliday
)

// HolidayKind represents a holiday calendar.
type HolidayKind int

const (
	PublicHoliday HolidayKind = iota
	SchoolHoliday
)

func (h HolidayKind) String() string {
	if h == SchoolHoliday {
		return "SH"
	}
	return "PH"
}

// WeekdayEntry represents one entry of the weekday selector: either a
// weekday range with optional nth constraints and day offset ("Mo-Fr",
// "Mo[1,-1] +2 days"), or a holiday reference ("PH", "SH +1 day").
type WeekdayEntry struct {
	Kind WeekdayEntryKind

	// WeekdayEntryRange fields
	Start        Weekday
	End          Weekday
	NthFromStart NthSet
	NthFromEnd   NthSet
	Offset       int // days

	// WeekdayEntryHoliday fields
	Holiday HolidayKind
}

// NewWeekdayRange creates a weekday range entry with all occurrences
// included.
func NewWeekdayRange(start, end Weekday) WeekdayEntry {
	return WeekdayEntry{
		Kind:         WeekdayEntryRange,
		Start:        start,
		End:          end,
		NthFromStart: nthSetFull,
		NthFromEnd:   nthSetFull,
	}
}

// NewHolidayEntry creates a holiday entry with an optional day offset.
func NewHolidayEntry(kind HolidayKind, offset int) WeekdayEntry {
	return WeekdayEntry{Kind: WeekdayEntryHoliday, Holiday: kind, Offset: offset}
}

// --- Time selector ---

// ExtendedTime represents a wall-clock time of day. Hours may exceed 24 (up
// to 48) to express spans that spill past midnight.
type ExtendedTime struct {
	Hour   int
	Minute int
}

// Midnight boundaries used by the evaluator.
var (
	Midnight00 = ExtendedTime{0, 0}
	Midnight24 = ExtendedTime{24, 0}
)

func (t ExtendedTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the total number of minutes from 00:00.
func (t ExtendedTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// TimeFromMinutes builds an ExtendedTime from minutes past midnight.
func TimeFromMinutes(mins int) ExtendedTime {
	return ExtendedTime{Hour: mins / 60, Minute: mins % 60}
}

// TimeEvent represents a solar event anchoring a variable time.
type TimeEvent int

const (
	Dawn TimeEvent = iota
	Sunrise
	Sunset
	Dusk
)

func (e TimeEvent) String() string {
	names := [...]string{"dawn", "sunrise", "sunset", "dusk"}
	if e < Dawn || e > Dusk {
		return "?"
	}
	return names[e]
}

// ParseTimeEvent parses a solar event keyword (case insensitive).
func ParseTimeEvent(s string) (TimeEvent, bool) {
	eventParse := map[string]TimeEvent{
		"dawn":    Dawn,
		"sunrise": Sunrise,
		"sunset":  Sunset,
		"dusk":    Dusk,
	}
	e, ok := eventParse[strings.ToLower(s)]
	return e, ok
}

// TimePointKind represents the type of a time span endpoint.
type TimePointKind int

const (
	TimeFixed TimePointKind = iota
	TimeVariable
)

// TimePoint represents one endpoint of a time span: either a fixed clock
// time or a solar event with a signed minute offset.
type TimePoint struct {
	Kind   TimePointKind
	Time   ExtendedTime
	Event  TimeEvent
	Offset int // minutes, only for TimeVariable
}

// NewFixedTime creates a fixed clock time endpoint.
func NewFixedTime(t ExtendedTime) TimePoint {
	return TimePoint{Kind: TimeFixed, Time: t}
}

// NewVariableTime creates a solar event endpoint with a minute offset.
func NewVariableTime(event TimeEvent, offset int) TimePoint {
	return TimePoint{Kind: TimeVariable, Event: event, Offset: offset}
}

// TimeSpan represents one entry of the time selector. OpenEnd marks spans
// written with a trailing "+".
type TimeSpan struct {
	Start   TimePoint
	End     TimePoint
	OpenEnd bool
}

// --- Rule and rule sequence ---

// Rule is one rule of a schedule: up to five selectors (an empty selector
// is unconstrained), a state, the combinator linking it to the previous
// rules, and attached comments.
type Rule struct {
	Years      []YearRange
	Monthdays  []MonthdayRange
	Weeks      []WeekRange
	Weekdays   []WeekdayEntry
	Times      []TimeSpan
	State      State
	Combinator Combinator
	Comments   []string
}

// HasDaySelector reports whether any day-granular axis is constrained.
func (r *Rule) HasDaySelector() bool {
	return len(r.Years) > 0 || len(r.Monthdays) > 0 || len(r.Weeks) > 0 || len(r.Weekdays) > 0
}

// IsConstant reports whether the rule matches every day, all day.
func (r *Rule) IsConstant() bool {
	return !r.HasDaySelector() && len(r.Times) == 0
}

// RuleSequence is the parsed AST of a full opening_hours expression.
type RuleSequence struct {
	Rules []Rule
}
