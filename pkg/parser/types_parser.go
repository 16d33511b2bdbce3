package parser

import (
	"strconv"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
)

// parseType reads `Name`, `Name<T, U>`, `*T`, `*mut T`, `&T`, `&mut T` and
// `[T; n; cap]`.
func (p *Parser) parseType() (ast.TypeExpression, error) {
	tok := p.cur()
	switch {
	case tok.IsPunct("*"), tok.IsPunct("&"):
		p.next()
		mutable := p.acceptKeyword("mut")
		pointee, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ast.NewPointerType(mutable, pointee), nil
	case tok.IsPunct("["):
		p.next()
		element, err := p.parseType()
		if err != nil {
			return nil, err
		}
		var sizes []int64
		for p.acceptPunct(";") {
			sizeTok := p.cur()
			if sizeTok.Kind != TokenInteger {
				return nil, newSyntaxError(sizeTok.Pos, "invalid array type")
			}
			p.next()
			size, err := strconv.ParseInt(sizeTok.Text, 10, 64)
			if err != nil {
				return nil, newSyntaxError(sizeTok.Pos, "invalid array type")
			}
			sizes = append(sizes, size)
		}
		if !p.acceptPunct("]") {
			return nil, newSyntaxError(tok.Pos, "mismatched brackets")
		}
		return ast.NewArrayType(element, sizes), nil
	case tok.Kind == TokenIdentifier:
		p.next()
		if p.cur().IsPunct("<") {
			args, err := p.parseTypeArguments()
			if err != nil {
				return nil, err
			}
			return ast.NewGenericType(tok.Text, args), nil
		}
		return ast.NewSimpleType(tok.Text), nil
	}
	return nil, newSyntaxError(tok.Pos, "invalid type")
}

func (p *Parser) parseTypeArguments() ([]ast.TypeExpression, error) {
	open := p.next() // <
	var args []ast.TypeExpression
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.acceptPunct(",") {
			break
		}
	}
	if !p.acceptPunct(">") {
		return nil, newSyntaxError(open.Pos, "invalid type arguments")
	}
	return args, nil
}

func (p *Parser) parseGenericParams() ([]string, error) {
	if !p.cur().IsPunct("<") {
		return nil, nil
	}
	open := p.next()
	var names []string
	for {
		name, err := p.expectIdentifier("invalid generic parameters")
		if err != nil {
			return nil, err
		}
		names = append(names, name.Name)
		if !p.acceptPunct(",") {
			break
		}
	}
	if !p.acceptPunct(">") {
		return nil, newSyntaxError(open.Pos, "invalid generic parameters")
	}
	return names, nil
}
