package openhours

import (
	"strconv"
	"strings"
)

// TokenKind represents the type of token.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenTime
	TokenWeekdayName
	TokenMonthName
	TokenEventName
	TokenStateWord
	TokenHolidayWord
	TokenWeekKeyword
	TokenEasterKeyword
	TokenDayKeyword
	TokenComment
	TokenComma
	TokenSemicolon
	TokenFallbackSep
	TokenDash
	TokenPlus
	TokenSlash
	TokenColon
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
)

// Token represents a lexed token.
type Token struct {
	Kind TokenKind
	Span Span

	// Value fields (only one is set based on Kind)
	NumberVal  int
	Digits     int // number of digits lexed for TokenNumber
	TimeHour   int
	TimeMinute int
	WeekdayVal Weekday
	MonthVal   Month
	EventVal   TimeEvent
	StateVal   State
	HolidayVal HolidayKind
	Text       string // comment content for TokenComment
}

// lexer is the internal lexer state.
type lexer struct {
	input string
	pos   int
}

// Tokenize tokenizes an opening_hours expression into a list of tokens.
// Lexing is all-or-nothing: the first unrecognized character aborts with a
// LexError carrying its byte offset.
func Tokenize(input string) ([]Token, error) {
	l := &lexer{input: input}
	return l.tokenize()
}

func (l *lexer) tokenize() ([]Token, error) {
	var tokens []Token
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			break
		}

		start := l.pos
		ch := l.input[l.pos]

		switch {
		case ch == ',':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenComma, Span: Span{start, l.pos}})
		case ch == ';':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenSemicolon, Span: Span{start, l.pos}})
		case ch == '|':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '|' {
				l.pos += 2
				tokens = append(tokens, Token{Kind: TokenFallbackSep, Span: Span{start, l.pos}})
			} else {
				return nil, LexError("unexpected character '|'", Span{start, start + 1}, l.input)
			}
		case ch == '-':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenDash, Span: Span{start, l.pos}})
		case ch == '+':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenPlus, Span: Span{start, l.pos}})
		case ch == '/':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenSlash, Span: Span{start, l.pos}})
		case ch == ':':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenColon, Span: Span{start, l.pos}})
		case ch == '[':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenLBracket, Span: Span{start, l.pos}})
		case ch == ']':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenRBracket, Span: Span{start, l.pos}})
		case ch == '(':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenLParen, Span: Span{start, l.pos}})
		case ch == ')':
			l.pos++
			tokens = append(tokens, Token{Kind: TokenRParen, Span: Span{start, l.pos}})
		case ch == '"':
			tok, err := l.lexComment()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case isDigit(ch):
			tok, err := l.lexNumberOrTime()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case isAlpha(ch):
			tok, err := l.lexWord()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			return nil, LexError("unexpected character '"+string(ch)+"'", Span{start, start + 1}, l.input)
		}
	}

	return tokens, nil
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && isWhitespace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *lexer) lexComment() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '"':
			l.pos++
			return Token{Kind: TokenComment, Span: Span{start, l.pos}, Text: sb.String()}, nil
		case '\\':
			if l.pos+1 < len(l.input) {
				sb.WriteByte(l.input[l.pos+1])
				l.pos += 2
			} else {
				l.pos++
			}
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
	return Token{}, LexError("unterminated comment", Span{start, l.pos}, l.input)
}

func (l *lexer) lexNumberOrTime() (Token, error) {
	start := l.pos

	numStart := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	digits := l.input[numStart:l.pos]

	// HH:MM time literal. Extended hours up to 48 are allowed so overnight
	// spans can be written as 18:00-26:00.
	if (len(digits) == 1 || len(digits) == 2) &&
		l.pos+1 < len(l.input) && l.input[l.pos] == ':' && isDigit(l.input[l.pos+1]) {
		colonPos := l.pos
		l.pos++ // skip ':'
		minStart := l.pos
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
		minDigits := l.input[minStart:l.pos]
		if len(minDigits) != 2 {
			return Token{}, LexError("expected two-digit minutes", Span{colonPos, l.pos}, l.input)
		}
		hour, _ := strconv.Atoi(digits)
		minute, _ := strconv.Atoi(minDigits)
		if hour > 48 || minute > 59 || (hour == 48 && minute > 0) {
			return Token{}, LexError("time of day out of range", Span{start, l.pos}, l.input)
		}
		return Token{Kind: TokenTime, Span: Span{start, l.pos}, TimeHour: hour, TimeMinute: minute}, nil
	}

	num, err := strconv.Atoi(digits)
	if err != nil {
		return Token{}, LexError("invalid number", Span{start, l.pos}, l.input)
	}
	return Token{Kind: TokenNumber, Span: Span{start, l.pos}, NumberVal: num, Digits: len(digits)}, nil
}

func (l *lexer) lexWord() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isAlpha(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start:l.pos]
	span := Span{start, l.pos}

	lower := strings.ToLower(word)
	switch lower {
	case "week":
		return Token{Kind: TokenWeekKeyword, Span: span}, nil
	case "easter":
		return Token{Kind: TokenEasterKeyword, Span: span}, nil
	case "day", "days":
		return Token{Kind: TokenDayKeyword, Span: span}, nil
	case "ph":
		return Token{Kind: TokenHolidayWord, Span: span, HolidayVal: PublicHoliday}, nil
	case "sh":
		return Token{Kind: TokenHolidayWord, Span: span, HolidayVal: SchoolHoliday}, nil
	}

	if st, ok := ParseState(lower); ok {
		return Token{Kind: TokenStateWord, Span: span, StateVal: st}, nil
	}
	if ev, ok := ParseTimeEvent(lower); ok {
		return Token{Kind: TokenEventName, Span: span, EventVal: ev}, nil
	}
	if wd, ok := ParseWeekday(lower); ok {
		return Token{Kind: TokenWeekdayName, Span: span, WeekdayVal: wd}, nil
	}
	if m, ok := ParseMonth(lower); ok {
		return Token{Kind: TokenMonthName, Span: span, MonthVal: m}, nil
	}

	return Token{}, LexError("unknown keyword '"+word+"'", span, l.input)
}

// Helper functions

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
