package openhours

import "fmt"

// parser is the internal parser state.
type parser struct {
	tokens []Token
	pos    int
	input  string
}

// ParseSequence parses an opening_hours expression into a RuleSequence.
// Parsing is all-or-nothing: any grammar violation aborts with a ParseError
// and no partial AST is returned.
func ParseSequence(input string) (*RuleSequence, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		return nil, ParseError("empty expression", Span{0, 0}, input, "rule")
	}

	p := &parser{tokens: tokens, input: input}
	seq := &RuleSequence{}
	comb := Override

	for {
		rule, err := p.parseRule(comb)
		if err != nil {
			return nil, err
		}
		seq.Rules = append(seq.Rules, rule)

		if p.peek() == nil {
			break
		}

		comb, err = p.parseCombinator()
		if err != nil {
			return nil, err
		}
		if p.peek() == nil {
			return nil, p.errorAtEnd("expected rule after separator")
		}
	}

	return seq, nil
}

func (p *parser) peek() *Token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) *Token {
	if p.pos+n < len(p.tokens) {
		return &p.tokens[p.pos+n]
	}
	return nil
}

func (p *parser) peekKind() TokenKind {
	tok := p.peek()
	if tok != nil {
		return tok.Kind
	}
	return -1
}

func (p *parser) kindAt(n int) TokenKind {
	tok := p.peekAt(n)
	if tok != nil {
		return tok.Kind
	}
	return -1
}

func (p *parser) advance() *Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *parser) currentSpan() Span {
	tok := p.peek()
	if tok != nil {
		return tok.Span
	}
	if len(p.tokens) > 0 {
		last := p.tokens[len(p.tokens)-1]
		return Span{last.Span.End, last.Span.End}
	}
	return Span{0, 0}
}

func (p *parser) error(message string, span Span) error {
	return ParseError(message, span, p.input, "")
}

func (p *parser) errorAtEnd(message string) error {
	span := Span{0, 0}
	if len(p.tokens) > 0 {
		end := p.tokens[len(p.tokens)-1].Span.End
		span = Span{end, end}
	}
	return ParseError(message, span, p.input, "")
}

func (p *parser) consume(expected string, kind TokenKind) (*Token, error) {
	span := p.currentSpan()
	tok := p.peek()
	if tok != nil && tok.Kind == kind {
		p.pos++
		return tok, nil
	}
	if tok != nil {
		return nil, p.error(fmt.Sprintf("expected %s", expected), span)
	}
	return nil, p.errorAtEnd(fmt.Sprintf("expected %s", expected))
}

// --- Rule level ---

func (p *parser) parseCombinator() (Combinator, error) {
	switch p.peekKind() {
	case TokenSemicolon:
		p.advance()
		return Override, nil
	case TokenComma:
		p.advance()
		return Additional, nil
	case TokenFallbackSep:
		p.advance()
		return Fallback, nil
	default:
		return 0, p.error("expected rule separator (';', ',' or '||')", p.currentSpan())
	}
}

func (p *parser) parseRule(comb Combinator) (Rule, error) {
	rule := Rule{State: Open, Combinator: comb}
	start := p.pos

	if p.isAlwaysOpen() {
		// "24/7": unconstrained on every axis.
		p.pos += 3
	} else {
		if err := p.parseSelectors(&rule); err != nil {
			return Rule{}, err
		}
	}

	// Rule modifier: optional state keyword and comment.
	if p.peekKind() == TokenStateWord {
		rule.State = p.advance().StateVal
	}
	if p.peekKind() == TokenComment {
		rule.Comments = append(rule.Comments, p.advance().Text)
	}

	if p.pos == start {
		return Rule{}, p.error("expected rule", p.currentSpan())
	}
	return rule, nil
}

// isAlwaysOpen reports whether the cursor sits on the "24/7" shorthand.
func (p *parser) isAlwaysOpen() bool {
	t0, t1, t2 := p.peekAt(0), p.peekAt(1), p.peekAt(2)
	return t0 != nil && t0.Kind == TokenNumber && t0.NumberVal == 24 &&
		t1 != nil && t1.Kind == TokenSlash &&
		t2 != nil && t2.Kind == TokenNumber && t2.NumberVal == 7
}

// parseSelectors parses the five selector axes in grammar order. Each axis
// parser either advances the cursor or leaves it untouched when the axis is
// absent.
func (p *parser) parseSelectors(rule *Rule) error {
	if p.yearSelectorApplies() {
		years, err := p.parseYearSelector()
		if err != nil {
			return err
		}
		rule.Years = years
	}

	if p.monthdaySelectorApplies() {
		monthdays, err := p.parseMonthdaySelector()
		if err != nil {
			return err
		}
		rule.Monthdays = monthdays
	}

	if p.peekKind() == TokenWeekKeyword {
		weeks, err := p.parseWeekSelector()
		if err != nil {
			return err
		}
		rule.Weeks = weeks
	}

	// Optional readability separator after the wide-range selectors
	// ("Jan: Mo-Fr").
	if p.peekKind() == TokenColon {
		p.advance()
	}

	if k := p.peekKind(); k == TokenWeekdayName || k == TokenHolidayWord {
		weekdays, err := p.parseWeekdaySelector()
		if err != nil {
			return err
		}
		rule.Weekdays = weekdays
	}

	if p.timespanApplies() {
		times, err := p.parseTimeSelector()
		if err != nil {
			return err
		}
		rule.Times = times
	}

	return nil
}

// --- Year selector ---

func (p *parser) yearSelectorApplies() bool {
	tok := p.peek()
	if tok == nil || tok.Kind != TokenNumber || tok.Digits != 4 {
		return false
	}
	// A year directly followed by a month or easter is a monthday prefix.
	next := p.kindAt(1)
	return next != TokenMonthName && next != TokenEasterKeyword
}

func (p *parser) parseYearSelector() ([]YearRange, error) {
	var res []YearRange
	for {
		yr, err := p.parseYearRange()
		if err != nil {
			return nil, err
		}
		res = append(res, yr)

		if p.peekKind() != TokenComma {
			break
		}
		next := p.peekAt(1)
		if next == nil || next.Kind != TokenNumber || next.Digits != 4 {
			break
		}
		p.advance()
	}
	return res, nil
}

func (p *parser) parseYearRange() (YearRange, error) {
	tok, err := p.consume("year", TokenNumber)
	if err != nil {
		return YearRange{}, err
	}
	if tok.Digits != 4 {
		return YearRange{}, p.error("expected four-digit year", tok.Span)
	}
	yr := NewYearRange(tok.NumberVal)

	switch p.peekKind() {
	case TokenDash:
		p.advance()
		end, err := p.consume("year", TokenNumber)
		if err != nil {
			return YearRange{}, err
		}
		if end.Digits != 4 {
			return YearRange{}, p.error("expected four-digit year", end.Span)
		}
		if end.NumberVal < yr.Start {
			return YearRange{}, p.error("year range end before start", end.Span)
		}
		yr.End = end.NumberVal
		if p.peekKind() == TokenSlash {
			p.advance()
			step, err := p.consume("year step", TokenNumber)
			if err != nil {
				return YearRange{}, err
			}
			if step.NumberVal < 1 {
				return YearRange{}, p.error("year step must be at least 1", step.Span)
			}
			yr.Step = step.NumberVal
		}
	case TokenPlus:
		p.advance()
		yr.OpenEnd = true
	}

	return yr, nil
}

// --- Monthday selector ---

func (p *parser) monthdaySelectorApplies() bool {
	switch p.peekKind() {
	case TokenMonthName, TokenEasterKeyword:
		return true
	case TokenNumber:
		tok := p.peek()
		if tok.Digits != 4 {
			return false
		}
		next := p.kindAt(1)
		return next == TokenMonthName || next == TokenEasterKeyword
	default:
		return false
	}
}

func (p *parser) parseMonthdaySelector() ([]MonthdayRange, error) {
	var res []MonthdayRange
	for {
		md, err := p.parseMonthdayRange()
		if err != nil {
			return nil, err
		}
		res = append(res, md)

		if p.peekKind() != TokenComma {
			break
		}
		save := p.pos
		p.advance()
		if !p.monthdaySelectorApplies() {
			p.pos = save
			break
		}
	}
	return res, nil
}

func (p *parser) parseMonthdayRange() (MonthdayRange, error) {
	year := 0
	if tok := p.peek(); tok != nil && tok.Kind == TokenNumber && tok.Digits == 4 {
		year = tok.NumberVal
		p.advance()
	}

	if p.peekKind() == TokenMonthName {
		monthTok := p.advance()
		month := monthTok.MonthVal

		if tok := p.peek(); tok != nil && tok.Kind == TokenNumber && tok.Digits <= 2 {
			return p.parseDateRange(NewCalendarDate(year, month, p.mustDayNumber()))
		}

		// Month-granular range: "Jan" or "Nov-Feb".
		endMonth := month
		if p.peekKind() == TokenDash && p.kindAt(1) == TokenMonthName {
			p.advance()
			endMonth = p.advance().MonthVal
		}
		return NewMonthRange(year, month, endMonth), nil
	}

	if p.peekKind() == TokenEasterKeyword {
		p.advance()
		return p.parseDateRange(NewEasterDate(year))
	}

	return MonthdayRange{}, p.error("expected month name or 'easter'", p.currentSpan())
}

// mustDayNumber consumes a day number token; callers have already peeked it.
func (p *parser) mustDayNumber() int {
	return p.advance().NumberVal
}

func (p *parser) parseDateRange(start PartialDate) (MonthdayRange, error) {
	if start.Kind == DateCalendar {
		if start.Day < 1 || start.Day > 31 {
			return MonthdayRange{}, p.error("day of month out of range", p.currentSpan())
		}
	}

	startOffset := p.parseDateOffset()
	md := NewDateRange(start, start, startOffset, startOffset)

	switch {
	case p.peekKind() == TokenPlus:
		p.advance()
		md.OpenEnd = true
		return md, nil

	case p.peekKind() == TokenDash && p.dateToFollows():
		p.advance()
		end, err := p.parseDateTo(start)
		if err != nil {
			return MonthdayRange{}, err
		}
		md.End = end
		md.EndOffset = p.parseDateOffset()
		return md, nil

	default:
		return md, nil
	}
}

// dateToFollows reports whether the tokens after a dash continue a date
// range, as opposed to a negative day offset ("-2 days").
func (p *parser) dateToFollows() bool {
	switch p.kindAt(1) {
	case TokenMonthName, TokenEasterKeyword:
		return true
	case TokenNumber:
		// A bare day number, unless it reads as "-N days".
		return p.kindAt(2) != TokenDayKeyword
	default:
		return false
	}
}

func (p *parser) parseDateTo(from PartialDate) (PartialDate, error) {
	switch p.peekKind() {
	case TokenNumber:
		tok := p.advance()
		day := tok.NumberVal
		if day < 1 || day > 31 {
			return PartialDate{}, p.error("day of month out of range", tok.Span)
		}
		if from.Kind != DateCalendar {
			return PartialDate{}, p.error("variable date cannot be followed by a bare day number", tok.Span)
		}
		// "Jan 25-5" reads as Jan 25 through Feb 5.
		month := from.Month
		year := from.Year
		if from.Day > day {
			month = month.Next()
			if month == Jan && year != 0 {
				year++
			}
		}
		return NewCalendarDate(year, month, day), nil

	case TokenMonthName, TokenEasterKeyword:
		return p.parseDateFrom()

	default:
		return PartialDate{}, p.error("expected date after '-'", p.currentSpan())
	}
}

func (p *parser) parseDateFrom() (PartialDate, error) {
	year := 0
	if tok := p.peek(); tok != nil && tok.Kind == TokenNumber && tok.Digits == 4 {
		year = tok.NumberVal
		p.advance()
	}

	switch p.peekKind() {
	case TokenEasterKeyword:
		p.advance()
		return NewEasterDate(year), nil
	case TokenMonthName:
		month := p.advance().MonthVal
		dayTok, err := p.consume("day number", TokenNumber)
		if err != nil {
			return PartialDate{}, err
		}
		if dayTok.NumberVal < 1 || dayTok.NumberVal > 31 {
			return PartialDate{}, p.error("day of month out of range", dayTok.Span)
		}
		return NewCalendarDate(year, month, dayTok.NumberVal), nil
	default:
		return PartialDate{}, p.error("expected month name or 'easter'", p.currentSpan())
	}
}

// parseDateOffset parses an optional weekday snap ("+Su", "-Mo") followed
// by an optional signed day shift ("+2 days").
func (p *parser) parseDateOffset() DateOffset {
	var o DateOffset

	if k := p.peekKind(); (k == TokenPlus || k == TokenDash) && p.kindAt(1) == TokenWeekdayName {
		sign := p.advance().Kind
		wd := p.advance().WeekdayVal
		if sign == TokenPlus {
			o.Snap = SnapNext
		} else {
			o.Snap = SnapPrev
		}
		o.Weekday = wd
	}

	if k := p.peekKind(); (k == TokenPlus || k == TokenDash) &&
		p.kindAt(1) == TokenNumber && p.kindAt(2) == TokenDayKeyword {
		sign := p.advance().Kind
		n := p.advance().NumberVal
		p.advance() // "day"/"days"
		if sign == TokenDash {
			n = -n
		}
		o.Days = n
	}

	return o
}

// --- Week selector ---

func (p *parser) parseWeekSelector() ([]WeekRange, error) {
	p.advance() // "week"

	var res []WeekRange
	for {
		wr, err := p.parseWeekRange()
		if err != nil {
			return nil, err
		}
		res = append(res, wr)

		if p.peekKind() != TokenComma || p.kindAt(1) != TokenNumber {
			break
		}
		p.advance()
	}
	return res, nil
}

func (p *parser) parseWeekRange() (WeekRange, error) {
	tok, err := p.consume("week number", TokenNumber)
	if err != nil {
		return WeekRange{}, err
	}
	if tok.NumberVal < 1 || tok.NumberVal > 53 {
		return WeekRange{}, p.error("week number out of range", tok.Span)
	}
	wr := WeekRange{Start: tok.NumberVal, End: tok.NumberVal, Step: 1}

	if p.peekKind() == TokenDash && p.kindAt(1) == TokenNumber {
		p.advance()
		end := p.advance()
		if end.NumberVal < 1 || end.NumberVal > 53 {
			return WeekRange{}, p.error("week number out of range", end.Span)
		}
		wr.End = end.NumberVal

		if p.peekKind() == TokenSlash {
			p.advance()
			step, err := p.consume("week step", TokenNumber)
			if err != nil {
				return WeekRange{}, err
			}
			if step.NumberVal < 1 {
				return WeekRange{}, p.error("week step must be at least 1", step.Span)
			}
			wr.Step = step.NumberVal
		}
	}

	return wr, nil
}

// --- Weekday selector ---

func (p *parser) parseWeekdaySelector() ([]WeekdayEntry, error) {
	var res []WeekdayEntry
	for {
		var entry WeekdayEntry
		var err error
		if p.peekKind() == TokenHolidayWord {
			entry = p.parseHolidayEntry()
		} else {
			entry, err = p.parseWeekdayRange()
			if err != nil {
				return nil, err
			}
		}
		res = append(res, entry)

		if p.peekKind() != TokenComma {
			break
		}
		if k := p.kindAt(1); k != TokenWeekdayName && k != TokenHolidayWord {
			break
		}
		p.advance()
	}
	return res, nil
}

func (p *parser) parseHolidayEntry() WeekdayEntry {
	kind := p.advance().HolidayVal
	offset := 0
	if k := p.peekKind(); (k == TokenPlus || k == TokenDash) &&
		p.kindAt(1) == TokenNumber && p.kindAt(2) == TokenDayKeyword {
		sign := p.advance().Kind
		n := p.advance().NumberVal
		p.advance()
		if sign == TokenDash {
			n = -n
		}
		offset = n
	}
	return NewHolidayEntry(kind, offset)
}

func (p *parser) parseWeekdayRange() (WeekdayEntry, error) {
	start := p.advance().WeekdayVal
	end := start

	if p.peekKind() == TokenDash && p.kindAt(1) == TokenWeekdayName {
		p.advance()
		end = p.advance().WeekdayVal
	}

	entry := NewWeekdayRange(start, end)

	if p.peekKind() == TokenLBracket {
		p.advance()
		entry.NthFromStart = 0
		entry.NthFromEnd = 0
		for {
			if err := p.parseNthEntry(&entry); err != nil {
				return WeekdayEntry{}, err
			}
			if p.peekKind() != TokenComma {
				break
			}
			p.advance()
		}
		if _, err := p.consume("']'", TokenRBracket); err != nil {
			return WeekdayEntry{}, err
		}
		if !entry.NthFromStart.Any() && !entry.NthFromEnd.Any() {
			entry.NthFromStart = nthSetFull
			entry.NthFromEnd = nthSetFull
		}
	}

	if k := p.peekKind(); (k == TokenPlus || k == TokenDash) &&
		p.kindAt(1) == TokenNumber && p.kindAt(2) == TokenDayKeyword {
		sign := p.advance().Kind
		n := p.advance().NumberVal
		p.advance()
		if sign == TokenDash {
			n = -n
		}
		entry.Offset = n
	}

	return entry, nil
}

func (p *parser) parseNthEntry(entry *WeekdayEntry) error {
	negative := false
	if p.peekKind() == TokenDash {
		p.advance()
		negative = true
	}

	tok, err := p.consume("nth occurrence (1-5)", TokenNumber)
	if err != nil {
		return err
	}
	from := tok.NumberVal
	to := from
	if from < 1 || from > 5 {
		return p.error("nth occurrence out of range", tok.Span)
	}

	if !negative && p.peekKind() == TokenDash && p.kindAt(1) == TokenNumber {
		p.advance()
		endTok := p.advance()
		to = endTok.NumberVal
		if to < from || to > 5 {
			return p.error("nth occurrence out of range", endTok.Span)
		}
	}

	for i := from; i <= to; i++ {
		if negative {
			entry.NthFromEnd.Set(i)
		} else {
			entry.NthFromStart.Set(i)
		}
	}
	return nil
}

// --- Time selector ---

func (p *parser) timespanApplies() bool {
	switch p.peekKind() {
	case TokenTime, TokenEventName, TokenLParen:
		return true
	default:
		return false
	}
}

func (p *parser) parseTimeSelector() ([]TimeSpan, error) {
	var res []TimeSpan
	for {
		ts, err := p.parseTimeSpan()
		if err != nil {
			return nil, err
		}
		res = append(res, ts)

		if p.peekKind() != TokenComma {
			break
		}
		save := p.pos
		p.advance()
		if !p.timespanApplies() {
			p.pos = save
			break
		}
	}
	return res, nil
}

func (p *parser) parseTimeSpan() (TimeSpan, error) {
	start, err := p.parseTimePoint(false)
	if err != nil {
		return TimeSpan{}, err
	}
	span := TimeSpan{Start: start}

	switch p.peekKind() {
	case TokenDash:
		p.advance()
		end, err := p.parseTimePoint(true)
		if err != nil {
			return TimeSpan{}, err
		}
		span.End = end
		if p.peekKind() == TokenPlus {
			p.advance()
			span.OpenEnd = true
		}
	case TokenPlus:
		p.advance()
		span.End = NewFixedTime(Midnight24)
		span.OpenEnd = true
	default:
		// A span with only a start extends to the end of the day.
		span.End = NewFixedTime(Midnight24)
	}

	return span, nil
}

func (p *parser) parseTimePoint(extended bool) (TimePoint, error) {
	switch p.peekKind() {
	case TokenTime:
		tok := p.advance()
		if !extended && tok.TimeHour > 24 {
			return TimePoint{}, p.error("start time cannot pass midnight", tok.Span)
		}
		return NewFixedTime(ExtendedTime{tok.TimeHour, tok.TimeMinute}), nil

	case TokenEventName:
		return NewVariableTime(p.advance().EventVal, 0), nil

	case TokenLParen:
		p.advance()
		evTok, err := p.consume("solar event", TokenEventName)
		if err != nil {
			return TimePoint{}, err
		}
		sign := p.peekKind()
		if sign != TokenPlus && sign != TokenDash {
			return TimePoint{}, p.error("expected '+' or '-' after solar event", p.currentSpan())
		}
		p.advance()
		offTok, err := p.consume("offset (HH:MM)", TokenTime)
		if err != nil {
			return TimePoint{}, err
		}
		offset := offTok.TimeHour*60 + offTok.TimeMinute
		if sign == TokenDash {
			offset = -offset
		}
		if _, err := p.consume("')'", TokenRParen); err != nil {
			return TimePoint{}, err
		}
		return NewVariableTime(evTok.EventVal, offset), nil

	default:
		return TimePoint{}, p.error("expected time (HH:MM) or solar event", p.currentSpan())
	}
}
