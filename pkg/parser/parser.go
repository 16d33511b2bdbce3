package parser

import (
	"unicode"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
)

var keywords = map[string]struct{}{
	"let": {}, "mut": {}, "fn": {}, "class": {}, "struct": {}, "type": {},
	"if": {}, "else": {}, "while": {}, "return": {}, "use": {}, "extern": {},
	"out": {}, "true": {}, "false": {}, "this": {},
}

// Parser is a recursive-descent parser over a pre-lexed token stream. It keeps
// the struct names declared so far so that `Name { ... }` can be told apart
// from a name followed by a block.
type Parser struct {
	tokens      []Token
	pos         int
	structNames map[string]struct{}
}

// ParseModule lexes and parses a complete source unit.
func ParseModule(source string) (*ast.Module, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens, structNames: make(map[string]struct{})}
	body, err := p.parseStatements(false)
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.leftoverError()
	}
	return ast.NewModule(body), nil
}

// ParseExpression parses a single expression; trailing tokens are an error.
func ParseExpression(source string) (ast.Expression, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens, structNames: make(map[string]struct{})}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, newSyntaxError(p.cur().Pos, "invalid expression")
	}
	return expr, nil
}

// leftoverError reports a token no statement could absorb. A stray "=" means
// an expression ran into an assignment it cannot hold.
func (p *Parser) leftoverError() error {
	tok := p.cur()
	if tok.IsPunct("=") {
		return newSyntaxError(tok.Pos, "invalid expression")
	}
	return newSyntaxError(tok.Pos, "invalid input")
}

func (p *Parser) cur() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) prev() Token {
	if p.pos == 0 {
		return Token{}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == TokenEOF
}

func (p *Parser) isKeyword(word string) bool {
	return p.cur().Is(TokenIdentifier, word)
}

func (p *Parser) acceptPunct(text string) bool {
	if p.cur().IsPunct(text) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) acceptKeyword(word string) bool {
	if p.isKeyword(word) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) expectPunct(text, message string) error {
	if !p.acceptPunct(text) {
		return newSyntaxError(p.cur().Pos, "%s", message)
	}
	return nil
}

func (p *Parser) expectIdentifier(message string) (*ast.Identifier, error) {
	tok := p.cur()
	if tok.Kind != TokenIdentifier {
		return nil, newSyntaxError(tok.Pos, "%s", message)
	}
	if _, reserved := keywords[tok.Text]; reserved {
		return nil, newSyntaxError(tok.Pos, "%s", message)
	}
	p.pos++
	return ast.NewIdentifier(tok.Text), nil
}

func (p *Parser) looksLikeStructName(name string) bool {
	if _, ok := p.structNames[name]; ok {
		return true
	}
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
