// Package typeexpr parses textual type expressions like
// "dict[str, int] | None" into declared-hint values.
package typeexpr

type Lexer struct {
	input        []rune
	position     int  // current position in input (points to current rune)
	readPosition int  // current reading position in input (after current rune)
	curr         rune // current rune under examination
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: []rune(input)}
	l.readRune()
	return l
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.position
	var tok Token
	switch l.curr {
	case '[':
		tok = Token{Type: LBRACK, Literal: "[", Pos: pos}
	case ']':
		tok = Token{Type: RBRACK, Literal: "]", Pos: pos}
	case ',':
		tok = Token{Type: COMMA, Literal: ",", Pos: pos}
	case '|':
		tok = Token{Type: PIPE, Literal: "|", Pos: pos}
	case 0:
		tok = Token{Type: EOF, Literal: "", Pos: pos}
	default:
		if isIdentStart(l.curr) {
			return Token{Type: IDENT, Literal: l.readIdentifier(), Pos: pos}
		}
		tok = Token{Type: ILLEGAL, Literal: string(l.curr), Pos: pos}
	}

	l.readRune()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.curr == ' ' || l.curr == '\t' || l.curr == '\n' || l.curr == '\r' {
		l.readRune()
	}
}

func (l *Lexer) readRune() {
	if l.readPosition >= len(l.input) {
		l.curr = 0
	} else {
		l.curr = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// readIdentifier scans a dotted name like builtins.list.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isIdentPart(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

func isIdentStart(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || '0' <= ch && ch <= '9' || ch == '.'
}
