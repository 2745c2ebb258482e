package typeexpr

import "strconv"

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	IDENT // int, builtins.list, pkg.Thing

	LBRACK // [
	RBRACK // ]
	COMMA  // ,
	PIPE   // |
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT: "IDENT",

	LBRACK: "[",
	RBRACK: "]",
	COMMA:  ",",
	PIPE:   "|",
}

// Token is one lexeme of a type expression. Pos is the rune offset, used in
// parse errors.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	return t.Type.String()
}

func (tokenType TokenType) String() string {
	s := ""
	if 0 <= tokenType && tokenType < TokenType(len(tokens)) {
		s = tokens[tokenType]
	}
	if s == "" {
		s = "token(" + strconv.Itoa(int(tokenType)) + ")"
	}
	return s
}
