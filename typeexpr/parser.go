package typeexpr

import (
	"fmt"

	"github.com/auguria/augur/model"
)

// Resolver maps a class name from a type expression to its descriptor.
// Returning nil marks the name unknown; the expression then degrades to an
// opaque hint rather than failing the parse.
type Resolver func(name string) *model.Class

// Grammar:
//
//	union := atom ('|' atom)*
//	atom  := IDENT [ '[' union (',' union)* ']' ]
type Parser struct {
	l        *Lexer
	resolver Resolver

	curToken  Token
	peekToken Token
}

// Parse parses one type expression. Malformed syntax is an error; unknown
// names are not, they produce opaque hints.
func Parse(input string, resolver Resolver) (model.Hint, error) {
	p := &Parser{l: NewLexer(input), resolver: resolver}
	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()

	hint, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.curToken.Type != EOF {
		return nil, p.errorf("unexpected %q", p.curToken.Literal)
	}
	return hint, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("type expression at offset %d: %s", p.curToken.Pos, fmt.Sprintf(format, args...))
}

func (p *Parser) parseUnion() (model.Hint, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	items := []model.Hint{first}
	for p.curToken.Type == PIPE {
		p.nextToken()
		next, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &model.UnionHint{Items: items}, nil
}

func (p *Parser) parseAtom() (model.Hint, error) {
	if p.curToken.Type != IDENT {
		return nil, p.errorf("expected a name, got %q", p.curToken.Literal)
	}
	name := p.curToken.Literal
	p.nextToken()

	var args []model.Hint
	parameterized := false
	if p.curToken.Type == LBRACK {
		parameterized = true
		p.nextToken()
		for {
			arg, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.curToken.Type == COMMA {
				p.nextToken()
				continue
			}
			break
		}
		if p.curToken.Type != RBRACK {
			return nil, p.errorf("expected ']', got %q", p.curToken.Literal)
		}
		p.nextToken()
	}

	return p.buildHint(name, args, parameterized)
}

func (p *Parser) buildHint(name string, args []model.Hint, parameterized bool) (model.Hint, error) {
	switch name {
	case "Any":
		if parameterized {
			return nil, p.errorf("Any takes no arguments")
		}
		return &model.AnyHint{}, nil
	case "None":
		name = "NoneType"
	case "tuple":
		// Bare tuple keeps Args nil to mark the unparameterized form.
		if !parameterized {
			return &model.TupleHint{}, nil
		}
		return &model.TupleHint{Args: args}, nil
	}

	class := p.resolve(name)
	if class == nil {
		return &model.OpaqueHint{Text: name}, nil
	}
	if parameterized {
		return &model.GenericHint{Origin: class, Args: args}, nil
	}
	return &model.ClassHint{Class: class}, nil
}

// resolve tries the name as written, then with the builtins prefix.
func (p *Parser) resolve(name string) *model.Class {
	if c := p.resolver(name); c != nil {
		return c
	}
	return p.resolver(model.BuiltinsModule + "." + name)
}
