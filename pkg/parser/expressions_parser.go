package parser

import (
	"math/big"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
)

var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3, "<": 3, "<=": 3, ">": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5, "%": 5,
}

// continuesExpression reports whether tok can extend a statement-level block
// into a larger expression, as in `{let x = 3; x} + {let x = 4; x}`.
func continuesExpression(tok Token) bool {
	if tok.Kind != TokenPunct {
		return false
	}
	if tok.Text == "." {
		return true
	}
	_, ok := binaryPrecedence[tok.Text]
	return ok
}

func (p *Parser) continueExpression(left ast.Expression) (ast.Expression, error) {
	left, err := p.parsePostfix(left)
	if err != nil {
		return nil, err
	}
	return p.parseBinaryFrom(left, 0)
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.parseBinaryFrom(left, minPrec)
}

func (p *Parser) parseBinaryFrom(left ast.Expression, minPrec int) (ast.Expression, error) {
	for {
		op := p.cur()
		if op.Kind != TokenPunct {
			return left, nil
		}
		prec, ok := binaryPrecedence[op.Text]
		if !ok || prec <= minPrec {
			return left, nil
		}
		p.next()
		right, err := p.parseBinary(prec)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op.Text, left, right)
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	tok := p.cur()
	if tok.Kind == TokenPunct {
		switch tok.Text {
		case "-":
			p.next()
			if lit := p.cur(); lit.Kind == TokenInteger {
				p.next()
				value, ok := new(big.Int).SetString(lit.Text, 10)
				if !ok {
					return nil, newLexicalError(lit.Pos, "invalid numeric literal '%s'", lit.Text)
				}
				return p.parsePostfix(ast.NewIntegerLiteral(value.Neg(value), lit.Suffix))
			}
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return ast.NewUnaryExpression("-", operand), nil
		case "*":
			p.next()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return ast.NewDereference(operand), nil
		case "&":
			p.next()
			mutable := p.acceptKeyword("mut")
			target, err := p.expectIdentifier("invalid address-of target")
			if err != nil {
				return nil, err
			}
			return ast.NewAddressOf(target, mutable), nil
		}
	}
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(primary)
}

func (p *Parser) parsePostfix(expr ast.Expression) (ast.Expression, error) {
	for {
		tok := p.cur()
		switch {
		case tok.IsPunct("."):
			p.next()
			member, err := p.expectIdentifier("invalid property access")
			if err != nil {
				return nil, err
			}
			expr = ast.NewMemberAccess(expr, member)
		case tok.IsPunct("("):
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = ast.NewFunctionCall(expr, args)
		case tok.IsPunct("["):
			p.next()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if !p.acceptPunct("]") {
				return nil, newSyntaxError(tok.Pos, "mismatched brackets")
			}
			expr = ast.NewIndexExpression(expr, index)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArguments() ([]ast.Expression, error) {
	open := p.next() // (
	var args []ast.Expression
	for !p.cur().IsPunct(")") {
		if p.atEOF() {
			return nil, newSyntaxError(open.Pos, "mismatched parentheses")
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.acceptPunct(",") {
			break
		}
	}
	if !p.acceptPunct(")") {
		return nil, newSyntaxError(open.Pos, "mismatched parentheses")
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case TokenInteger:
		p.next()
		value, ok := new(big.Int).SetString(tok.Text, 10)
		if !ok {
			return nil, newLexicalError(tok.Pos, "invalid numeric literal '%s'", tok.Text)
		}
		return ast.NewIntegerLiteral(value, tok.Suffix), nil
	case TokenChar:
		p.next()
		return ast.NewCharLiteral([]rune(tok.Text)[0]), nil
	case TokenString:
		p.next()
		return ast.NewStringLiteral(tok.Text), nil
	case TokenIdentifier:
		return p.parseWordExpression()
	case TokenPunct:
		switch tok.Text {
		case "(":
			p.next()
			inner, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if !p.acceptPunct(")") {
				return nil, newSyntaxError(tok.Pos, "mismatched parentheses")
			}
			return inner, nil
		case "{":
			return p.parseBlock()
		case "[":
			return p.parseArrayLiteral()
		case ")":
			return nil, newSyntaxError(tok.Pos, "mismatched parentheses")
		}
	}
	return nil, newSyntaxError(tok.Pos, "invalid expression")
}

func (p *Parser) parseWordExpression() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Text {
	case "true", "false":
		p.next()
		return ast.NewBooleanLiteral(tok.Text == "true"), nil
	case "this":
		p.next()
		return ast.NewThisExpression(), nil
	case "fn":
		return p.parseFunctionLiteral(false)
	case "if":
		return p.parseIf()
	}
	if _, reserved := keywords[tok.Text]; reserved {
		return nil, newSyntaxError(tok.Pos, "invalid expression")
	}
	p.next()
	ident := ast.NewIdentifier(tok.Text)
	if !p.looksLikeStructName(tok.Text) {
		return ident, nil
	}
	if p.cur().IsPunct("{") {
		return p.parseStructLiteralBody(ident, nil)
	}
	if p.cur().IsPunct("<") {
		save := p.pos
		if args, err := p.parseTypeArguments(); err == nil && p.cur().IsPunct("{") {
			return p.parseStructLiteralBody(ident, args)
		}
		p.pos = save
	}
	return ident, nil
}

func (p *Parser) parseStructLiteralBody(structType *ast.Identifier, typeArgs []ast.TypeExpression) (ast.Expression, error) {
	open := p.next() // {
	var values []ast.Expression
	for !p.cur().IsPunct("}") {
		if p.atEOF() {
			return nil, newSyntaxError(open.Pos, "mismatched braces")
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
		if !p.acceptPunct(",") {
			break
		}
	}
	if !p.acceptPunct("}") {
		return nil, newSyntaxError(open.Pos, "mismatched braces")
	}
	return ast.NewStructLiteral(structType, typeArgs, values), nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	open := p.next() // [
	var elements []ast.Expression
	for !p.cur().IsPunct("]") {
		if p.atEOF() {
			return nil, newSyntaxError(open.Pos, "mismatched brackets")
		}
		element, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
		if !p.acceptPunct(",") {
			break
		}
	}
	if !p.acceptPunct("]") {
		return nil, newSyntaxError(open.Pos, "mismatched brackets")
	}
	return ast.NewArrayLiteral(elements), nil
}

// parseFunctionLiteral reads `fn [name][<T>][[captures]](params) [: T] => body`.
// Definitions require the name; literals may omit it.
func (p *Parser) parseFunctionLiteral(requireName bool) (*ast.FunctionLiteral, error) {
	fnTok := p.next() // fn
	var id *ast.Identifier
	if p.cur().Kind == TokenIdentifier {
		ident, err := p.expectIdentifier("invalid function declaration")
		if err != nil {
			return nil, err
		}
		id = ident
	} else if requireName {
		return nil, newSyntaxError(fnTok.Pos, "invalid function declaration")
	}
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	var captures []*ast.Capture
	explicit := false
	if p.cur().IsPunct("[") {
		explicit = true
		captures, err = p.parseCaptures()
		if err != nil {
			return nil, err
		}
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	var ret ast.TypeExpression
	if p.acceptPunct(":") {
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	var body ast.Statement
	switch {
	case p.acceptPunct("=>"):
		if p.cur().IsPunct("{") {
			body, err = p.parseBlock()
		} else {
			body, err = p.parseSimpleStatement()
		}
	case p.cur().IsPunct("{"):
		body, err = p.parseBlock()
	default:
		return nil, newSyntaxError(p.cur().Pos, "invalid function declaration")
	}
	if err != nil {
		return nil, err
	}
	fn := ast.NewFunctionLiteral(id, params, body)
	fn.GenericParams = generics
	fn.Captures = captures
	fn.ExplicitCaptures = explicit
	fn.ReturnType = ret
	return fn, nil
}

func (p *Parser) parseCaptures() ([]*ast.Capture, error) {
	open := p.next() // [
	var captures []*ast.Capture
	for !p.cur().IsPunct("]") {
		reference := p.acceptPunct("&")
		mutable := reference && p.acceptKeyword("mut")
		name, err := p.expectIdentifier("invalid capture list")
		if err != nil {
			return nil, err
		}
		captures = append(captures, ast.NewCapture(name, reference, mutable))
		if !p.acceptPunct(",") {
			break
		}
	}
	if !p.acceptPunct("]") {
		return nil, newSyntaxError(open.Pos, "mismatched brackets")
	}
	return captures, nil
}

func (p *Parser) parseParams() ([]*ast.FunctionParameter, error) {
	if !p.cur().IsPunct("(") {
		return nil, newSyntaxError(p.cur().Pos, "invalid function declaration")
	}
	open := p.next()
	var params []*ast.FunctionParameter
	for !p.cur().IsPunct(")") {
		name, err := p.expectIdentifier("invalid parameter list")
		if err != nil {
			return nil, err
		}
		var paramType ast.TypeExpression
		if p.acceptPunct(":") {
			paramType, err = p.parseType()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, ast.NewFunctionParameter(name, paramType))
		if !p.acceptPunct(",") {
			break
		}
	}
	if !p.acceptPunct(")") {
		return nil, newSyntaxError(open.Pos, "mismatched parentheses")
	}
	return params, nil
}
