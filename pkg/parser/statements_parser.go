package parser

import (
	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
)

var assignmentOperators = map[string]struct{}{
	"=": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {},
}

// parseStatements reads statements until EOF or, inside a block, the closing
// brace (left unconsumed). A statement needs a `;` separator unless it ended
// with a `}` or a `;` it consumed itself.
func (p *Parser) parseStatements(inBlock bool) ([]ast.Statement, error) {
	var body []ast.Statement
	for {
		for p.acceptPunct(";") {
		}
		if p.atEOF() || (inBlock && p.cur().IsPunct("}")) {
			return body, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		if p.acceptPunct(";") {
			continue
		}
		if p.atEOF() || (inBlock && p.cur().IsPunct("}")) {
			return body, nil
		}
		if last := p.prev(); last.IsPunct("}") || last.IsPunct(";") {
			continue
		}
		return nil, p.leftoverError()
	}
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.cur()
	if tok.IsPunct("{") {
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if continuesExpression(p.cur()) {
			return p.continueExpression(block)
		}
		return block, nil
	}
	if tok.Kind == TokenIdentifier {
		switch tok.Text {
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "fn":
			if p.peek(1).Kind == TokenIdentifier {
				return p.parseFunctionDefinition(false)
			}
		case "class":
			if p.peek(1).Is(TokenIdentifier, "fn") {
				p.next()
				return p.parseFunctionDefinition(true)
			}
		case "struct":
			return p.parseStructDefinition()
		case "type":
			return p.parseTypeAlias()
		case "let":
			return p.parseLet()
		case "use":
			return p.parseUse(false)
		case "extern":
			return p.parseExtern()
		case "out":
			return p.parseExport()
		}
	}
	return p.parseSimpleStatement()
}

// parseSimpleStatement handles `return`, assignments and bare expressions.
// It is also the single-statement form of `=>` bodies and if/while bodies.
func (p *Parser) parseSimpleStatement() (ast.Statement, error) {
	if p.acceptKeyword("return") {
		if p.cur().IsPunct(";") || p.cur().IsPunct("}") || p.atEOF() {
			return ast.NewReturnStatement(nil), nil
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewReturnStatement(arg), nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	op := p.cur()
	if op.Kind == TokenPunct {
		if _, ok := assignmentOperators[op.Text]; ok {
			p.next()
			if !isAssignable(expr) {
				return nil, newSyntaxError(op.Pos, "invalid assignment target")
			}
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return ast.NewAssignmentStatement(op.Text, expr, value), nil
		}
	}
	return expr, nil
}

func isAssignable(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.Dereference, *ast.IndexExpression, *ast.MemberAccess:
		return true
	default:
		return false
	}
}

func (p *Parser) parseBlock() (*ast.BlockExpression, error) {
	open := p.cur()
	if err := p.expectPunct("{", "expected '{'"); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(true)
	if err != nil {
		return nil, err
	}
	if !p.acceptPunct("}") {
		return nil, newSyntaxError(open.Pos, "mismatched braces")
	}
	return ast.NewBlockExpression(body), nil
}

// parseBody reads an if/while/function body: a block or one simple statement.
func (p *Parser) parseBody() (ast.Statement, error) {
	if p.cur().IsPunct("{") {
		return p.parseBlock()
	}
	return p.parseStatement()
}

func (p *Parser) parseCondition(keyword string) (ast.Expression, error) {
	if !p.cur().IsPunct("(") {
		return nil, newSyntaxError(p.cur().Pos, "invalid %s statement", keyword)
	}
	open := p.next()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.acceptPunct(")") {
		return nil, newSyntaxError(open.Pos, "mismatched parentheses")
	}
	return cond, nil
}

func (p *Parser) parseIf() (*ast.IfExpression, error) {
	p.next() // if
	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if p.cur().IsPunct(";") && p.peek(1).Is(TokenIdentifier, "else") {
		p.next()
	}
	var otherwise ast.Statement
	if p.acceptKeyword("else") {
		otherwise, err = p.parseBody()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfExpression(cond, then, otherwise), nil
}

func (p *Parser) parseWhile() (*ast.WhileLoop, error) {
	p.next() // while
	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(cond, body), nil
}

func (p *Parser) parseLet() (*ast.LetStatement, error) {
	letTok := p.next()
	mutable := p.acceptKeyword("mut")

	var name *ast.Identifier
	var pattern *ast.StructPattern
	if p.cur().IsPunct("{") {
		p.next()
		var fields []*ast.Identifier
		for !p.cur().IsPunct("}") {
			field, err := p.expectIdentifier("invalid declaration")
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
			if !p.acceptPunct(",") {
				break
			}
		}
		if err := p.expectPunct("}", "invalid declaration"); err != nil {
			return nil, err
		}
		pattern = ast.NewStructPattern(fields)
	} else {
		ident, err := p.expectIdentifier("invalid declaration")
		if err != nil {
			return nil, err
		}
		name = ident
	}

	var typeExpr ast.TypeExpression
	if p.acceptPunct(":") {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		typeExpr = t
	}

	var value ast.Expression
	if p.acceptPunct("=") {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		value = v
	}

	if value == nil && (typeExpr == nil || pattern != nil) {
		return nil, newSyntaxError(letTok.Pos, "invalid declaration")
	}
	if pattern != nil {
		return ast.NewDestructuringLet(pattern, typeExpr, value), nil
	}
	return ast.NewLetStatement(name, mutable, typeExpr, value), nil
}

func (p *Parser) parseFunctionDefinition(isClass bool) (*ast.FunctionDefinition, error) {
	fn, err := p.parseFunctionLiteral(true)
	if err != nil {
		return nil, err
	}
	if isClass {
		fn.Body = desugarClassBody(fn.Body)
	}
	return ast.NewFunctionDefinition(fn, isClass), nil
}

func (p *Parser) parseStructDefinition() (*ast.StructDefinition, error) {
	p.next() // struct
	id, err := p.expectIdentifier("invalid struct declaration")
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	p.structNames[id.Name] = struct{}{}
	open := p.cur()
	if err := p.expectPunct("{", "invalid struct declaration"); err != nil {
		return nil, err
	}
	var fields []*ast.StructFieldDefinition
	for !p.cur().IsPunct("}") {
		if p.atEOF() {
			return nil, newSyntaxError(open.Pos, "mismatched braces")
		}
		fieldName, err := p.expectIdentifier("invalid struct declaration")
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":", "invalid struct declaration"); err != nil {
			return nil, err
		}
		fieldType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.NewStructFieldDefinition(fieldName, fieldType))
		if !p.acceptPunct(",") && !p.acceptPunct(";") {
			break
		}
	}
	if err := p.expectPunct("}", "mismatched braces"); err != nil {
		return nil, err
	}
	return ast.NewStructDefinition(id, generics, fields), nil
}

func (p *Parser) parseTypeAlias() (*ast.TypeAliasDefinition, error) {
	typeTok := p.next()
	if p.cur().Kind != TokenIdentifier {
		return nil, newSyntaxError(typeTok.Pos, "invalid type declaration")
	}
	id, err := p.expectIdentifier("invalid type declaration")
	if err != nil {
		return nil, err
	}
	if !p.acceptPunct("=") {
		return nil, newSyntaxError(typeTok.Pos, "invalid type declaration")
	}
	if p.cur().IsPunct(";") || p.atEOF() {
		return nil, newSyntaxError(typeTok.Pos, "invalid type declaration")
	}
	target, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var handler *ast.Identifier
	if p.acceptKeyword("then") {
		handler, err = p.expectIdentifier("invalid type declaration")
		if err != nil {
			return nil, err
		}
	}
	return ast.NewTypeAliasDefinition(id, target, handler), nil
}

func (p *Parser) parseUse(extern bool) (*ast.UseStatement, error) {
	useTok := p.next() // use
	module, err := p.expectIdentifier("invalid use statement")
	if err != nil {
		return nil, err
	}
	if extern {
		return ast.NewUseStatement(module, nil, true), nil
	}
	if !p.acceptPunct("::") {
		return nil, newSyntaxError(useTok.Pos, "invalid use statement")
	}
	item, err := p.expectIdentifier("invalid use statement")
	if err != nil {
		return nil, err
	}
	return ast.NewUseStatement(module, item, false), nil
}

func (p *Parser) parseExtern() (ast.Statement, error) {
	externTok := p.next() // extern
	if p.isKeyword("use") {
		return p.parseUse(true)
	}
	isClass := p.acceptKeyword("class")
	if !p.acceptKeyword("fn") {
		return nil, newSyntaxError(externTok.Pos, "invalid extern declaration")
	}
	id, err := p.expectIdentifier("invalid extern declaration")
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
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
	decl := ast.NewExternFunction(id, params, ret, isClass)
	decl.GenericParams = generics
	return decl, nil
}

func (p *Parser) parseExport() (*ast.ExportStatement, error) {
	outTok := p.next() // out
	decl, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if len(ast.DeclaredNames(decl)) == 0 {
		return nil, newSyntaxError(outTok.Pos, "invalid declaration")
	}
	return ast.NewExportStatement(decl), nil
}
