package typeexpr

import (
	"testing"
)

type lexTest struct {
	expectedType    TokenType
	expectedLiteral string
}

func checkInput(t *testing.T, input string, tests []lexTest) {
	l := NewLexer(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `dict[builtins.str, list[int]] | None`

	tests := []lexTest{
		{IDENT, "dict"},
		{LBRACK, "["},
		{IDENT, "builtins.str"},
		{COMMA, ","},
		{IDENT, "list"},
		{LBRACK, "["},
		{IDENT, "int"},
		{RBRACK, "]"},
		{RBRACK, "]"},
		{PIPE, "|"},
		{IDENT, "None"},
		{EOF, ""},
	}
	checkInput(t, input, tests)
}

func TestNextTokenWhitespaceAndIllegal(t *testing.T) {
	input := "  _Private \t | \n ? "

	tests := []lexTest{
		{IDENT, "_Private"},
		{PIPE, "|"},
		{ILLEGAL, "?"},
		{EOF, ""},
	}
	checkInput(t, input, tests)
}

func TestTokenPositions(t *testing.T) {
	l := NewLexer("int | str")
	if tok := l.NextToken(); tok.Pos != 0 {
		t.Fatalf("int pos wrong. expected=0, got=%d", tok.Pos)
	}
	if tok := l.NextToken(); tok.Pos != 4 {
		t.Fatalf("pipe pos wrong. expected=4, got=%d", tok.Pos)
	}
	if tok := l.NextToken(); tok.Pos != 6 {
		t.Fatalf("str pos wrong. expected=6, got=%d", tok.Pos)
	}
}
