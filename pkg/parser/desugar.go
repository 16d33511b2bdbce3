package parser

import "github.com/SirMathhman/Tuff-sub000/pkg/ast"

// desugarClassBody turns the body of `class fn Name(...) => body` into a
// block that ends with `this`, unless it already does.
func desugarClassBody(body ast.Statement) ast.Statement {
	block, ok := body.(*ast.BlockExpression)
	if !ok {
		return ast.NewBlockExpression([]ast.Statement{body, ast.NewThisExpression()})
	}
	if n := len(block.Body); n > 0 {
		if _, isThis := block.Body[n-1].(*ast.ThisExpression); isThis {
			return block
		}
	}
	stmts := make([]ast.Statement, 0, len(block.Body)+1)
	stmts = append(stmts, block.Body...)
	stmts = append(stmts, ast.NewThisExpression())
	return ast.NewBlockExpression(stmts)
}
