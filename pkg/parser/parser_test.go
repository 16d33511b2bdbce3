package parser_test

import (
	"encoding/json"
	"errors"
	"math/big"
	"reflect"
	"testing"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/parser"
)

func mustParse(t *testing.T, source string) *ast.Module {
	t.Helper()
	mod, err := parser.ParseModule(source)
	if err != nil {
		t.Fatalf("ParseModule(%q) returned error: %v", source, err)
	}
	return mod
}

func TestParseLetForms(t *testing.T) {
	mod := mustParse(t, "let mut x : U8 = 1; let { a, b } : Point = p; let y : I32;")
	if len(mod.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(mod.Body))
	}
	first, ok := mod.Body[0].(*ast.LetStatement)
	if !ok || !first.Mutable || first.Name.Name != "x" || first.TypeExpr.String() != "U8" {
		t.Fatalf("unexpected first let: %#v", mod.Body[0])
	}
	pattern, ok := mod.Body[1].(*ast.LetStatement)
	if !ok || pattern.Pattern == nil || len(pattern.Pattern.Fields) != 2 || pattern.Pattern.Fields[1].Name != "b" {
		t.Fatalf("unexpected destructuring let: %#v", mod.Body[1])
	}
	deferred, ok := mod.Body[2].(*ast.LetStatement)
	if !ok || deferred.Value != nil || deferred.TypeExpr == nil {
		t.Fatalf("unexpected deferred let: %#v", mod.Body[2])
	}
}

func TestParsePrecedence(t *testing.T) {
	mod := mustParse(t, "1 + 2 * 3 == 7 && true")
	want := ast.NewBinaryExpression("&&",
		ast.NewBinaryExpression("==",
			ast.NewBinaryExpression("+",
				ast.NewIntegerLiteral(big.NewInt(1), ""),
				ast.NewBinaryExpression("*",
					ast.NewIntegerLiteral(big.NewInt(2), ""),
					ast.NewIntegerLiteral(big.NewInt(3), ""),
				),
			),
			ast.NewIntegerLiteral(big.NewInt(7), ""),
		),
		ast.NewBooleanLiteral(true),
	)
	got, _ := json.Marshal(mod.Body[0])
	expected, _ := json.Marshal(want)
	if string(got) != string(expected) {
		t.Fatalf("unexpected tree:\n got %s\nwant %s", got, expected)
	}
}

func TestParseNegativeLiteralFolds(t *testing.T) {
	mod := mustParse(t, "-128I8")
	lit, ok := mod.Body[0].(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("expected integer literal, got %T", mod.Body[0])
	}
	if lit.Value.Int64() != -128 || lit.Suffix != "I8" {
		t.Fatalf("expected -128I8, got %s%s", lit.Value, lit.Suffix)
	}
}

func TestParseBlockContinuesAsExpression(t *testing.T) {
	mod := mustParse(t, "{let x = 3; x} + {let x = 4; x}")
	bin, ok := mod.Body[0].(*ast.BinaryExpression)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected binary +, got %T", mod.Body[0])
	}
	if _, ok := bin.Left.(*ast.BlockExpression); !ok {
		t.Fatalf("expected block on the left, got %T", bin.Left)
	}
}

func TestParseNoSemicolonAfterBrace(t *testing.T) {
	mod := mustParse(t, "fn add(a : I32, b : I32) : I32 => { a + b } add(3, 4)")
	if len(mod.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(mod.Body))
	}
	def, ok := mod.Body[0].(*ast.FunctionDefinition)
	if !ok || def.Function.Name() != "add" || len(def.Function.Params) != 2 || def.Function.ReturnType.String() != "I32" {
		t.Fatalf("unexpected function definition: %#v", mod.Body[0])
	}
	if _, ok := mod.Body[1].(*ast.FunctionCall); !ok {
		t.Fatalf("expected call, got %T", mod.Body[1])
	}
}

func TestParseCapturesAndGenerics(t *testing.T) {
	mod := mustParse(t, "fn f<T>[&mut a, &b, c](v : T) => v;")
	fn := mod.Body[0].(*ast.FunctionDefinition).Function
	if !fn.ExplicitCaptures || len(fn.Captures) != 3 {
		t.Fatalf("expected 3 explicit captures, got %#v", fn.Captures)
	}
	if !fn.Captures[0].Mutable || fn.Captures[1].Mutable || !fn.Captures[1].Reference || fn.Captures[2].Reference {
		t.Fatalf("unexpected capture modes: %#v", fn.Captures)
	}
	if !reflect.DeepEqual(fn.GenericParams, []string{"T"}) {
		t.Fatalf("expected generic T, got %v", fn.GenericParams)
	}
}

func TestParseClassSugarAppendsThis(t *testing.T) {
	mod := mustParse(t, "class fn Point(x : I32, y : I32) => { fn m() => x; }")
	def := mod.Body[0].(*ast.FunctionDefinition)
	if !def.IsClass {
		t.Fatalf("expected class definition")
	}
	body := def.Function.Body.(*ast.BlockExpression).Body
	if _, ok := body[len(body)-1].(*ast.ThisExpression); !ok {
		t.Fatalf("expected trailing this, got %T", body[len(body)-1])
	}
}

func TestParseTypes(t *testing.T) {
	cases := map[string]string{
		"let a : *mut I32 = p;":     "*mut I32",
		"let a : &I32 = p;":         "*I32",
		"let a : [U8; 3; 5] = p;":   "[U8; 3; 5]",
		"let a : Box<I32, U8> = p;": "Box<I32, U8>",
		"let a : [*I32; 2] = p;":    "[*I32; 2]",
	}
	for source, want := range cases {
		mod := mustParse(t, source)
		let := mod.Body[0].(*ast.LetStatement)
		if got := let.TypeExpr.String(); got != want {
			t.Fatalf("%s: expected type %q, got %q", source, want, got)
		}
	}
}

func TestParseStructsAndModules(t *testing.T) {
	mod := mustParse(t, "struct Box<T> { value : T; extra : U8 } use m::item; extern use lib; extern fn alloc<T>(n : USize) : T; out let x = Box<I32> { 1, 2 };")
	def, ok := mod.Body[0].(*ast.StructDefinition)
	if !ok || len(def.Fields) != 2 || def.GenericParams[0] != "T" {
		t.Fatalf("unexpected struct: %#v", mod.Body[0])
	}
	use := mod.Body[1].(*ast.UseStatement)
	if use.Module.Name != "m" || use.Item.Name != "item" || use.Extern {
		t.Fatalf("unexpected use: %#v", use)
	}
	if ext := mod.Body[2].(*ast.UseStatement); !ext.Extern || ext.Item != nil {
		t.Fatalf("unexpected extern use: %#v", ext)
	}
	if _, ok := mod.Body[3].(*ast.ExternFunction); !ok {
		t.Fatalf("expected extern fn, got %T", mod.Body[3])
	}
	export := mod.Body[4].(*ast.ExportStatement)
	lit := export.Declaration.(*ast.LetStatement).Value.(*ast.StructLiteral)
	if lit.StructType.Name != "Box" || len(lit.TypeArguments) != 1 || len(lit.Values) != 2 {
		t.Fatalf("unexpected struct literal: %#v", lit)
	}
}

func TestParseTypeAliasWithDrop(t *testing.T) {
	mod := mustParse(t, "type L = I32 then release;")
	alias := mod.Body[0].(*ast.TypeAliasDefinition)
	if alias.ID.Name != "L" || alias.Target.String() != "I32" || alias.DropHandler == nil || alias.DropHandler.Name != "release" {
		t.Fatalf("unexpected alias: %#v", alias)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"hello world", "invalid input"},
		{"let x;", "invalid declaration"},
		{"let = 1;", "invalid declaration"},
		{"type X;", "invalid type declaration"},
		{"type = I32;", "invalid type declaration"},
		{"{ 1", "mismatched braces"},
		{"(1 + 2", "mismatched parentheses"},
		{"if 1 {}", "invalid if statement"},
		{"1 = 2", "invalid assignment target"},
		{"out 1", "invalid declaration"},
		{"let x = ;", "invalid expression"},
		{"let x = 1 = 2;", "invalid expression"},
		{"let mut y = 0; y = 1 = 2;", "invalid expression"},
	}
	for _, tc := range cases {
		_, err := parser.ParseModule(tc.source)
		if err == nil {
			t.Fatalf("ParseModule(%q): expected error %q", tc.source, tc.want)
		}
		var synErr *parser.SyntaxError
		if !errors.As(err, &synErr) {
			t.Fatalf("ParseModule(%q): expected *SyntaxError, got %T", tc.source, err)
		}
		if synErr.Message != tc.want {
			t.Fatalf("ParseModule(%q): expected %q, got %q", tc.source, tc.want, synErr.Message)
		}
	}
}

func TestParseExpression(t *testing.T) {
	expr, err := parser.ParseExpression("a.b[0](1)")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("expected call, got %T", expr)
	}
	if _, ok := call.Callee.(*ast.IndexExpression); !ok {
		t.Fatalf("expected indexed callee, got %T", call.Callee)
	}
	if _, err := parser.ParseExpression("a b"); err == nil {
		t.Fatalf("expected trailing input to fail")
	}
}
