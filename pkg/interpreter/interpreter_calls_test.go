package interpreter

import (
	"reflect"
	"testing"

	"github.com/SirMathhman/Tuff-sub000/pkg/ast"
	"github.com/SirMathhman/Tuff-sub000/pkg/parser"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

func TestFunctionCalls(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"typed add", "fn add(first : I32, second : I32) : I32 => { first + second } add(3, 4)", "7"},
		{"forward reference", "fn getA() => getB(); fn getB() => 100; getA()", "100"},
		{"explicit return", "fn get_five() : I32 => { return 5; } get_five()", "5"},
		{"return skips rest", "fn f() => { return 1; 2 } f()", "1"},
		{"recursion", "fn fact(n : I32) : I32 => { if (n <= 1) return 1; n * fact(n - 1) } fact(5)", "120"},
		{"function literal value", "let double = fn (x : I32) => x * 2; double(21)", "42"},
		{"function as argument", "fn apply(f, v) => f(v); fn inc(x) => x + 1; apply(inc, 41)", "42"},
		{"unused capture is not resolved", "fn withcap[&x]() => 100; 42", "42"},
		{"shared capture", "let value = 100; fn get[&value]() => value; get()", "100"},
		{"mutable capture writes back", "let mut value = 100; fn addOnce[&mut value]() => value += 1; addOnce(); value", "101"},
		{"call writes stay local", "let mut x = 1; fn bump() => { x = 50; x } bump() + x", "51"},
		{"render function", "fn named() => 1; named", "<fn named>"},
		{"builtin shadowed", "fn typeOf(v) => 7; typeOf(1)", "7"},
		{"generic parameter", "fn id<T>(v : T) : T => v; id(5U8)", "5"},
		{"argument coerced", "fn f(v : U8) => typeOf(v); f(3)", "U8"},
	})
}

func TestFunctionErrors(t *testing.T) {
	runErrorCases(t, []errorCase{
		{"arity", "fn f(a) => a; f(1, 2)", "function 'f' expects 1 arguments, got 2", runtime.ErrorType},
		{"not a function", "let x = 1; x()", "'x' is not a function", runtime.ErrorType},
		{"call result is not a function", "fn f() => 1; f()()", "'<expression>' is not a function", runtime.ErrorType},
		{"missing capture", "fn withcap[&x]() => x; withcap()", "undefined variable 'x'", runtime.ErrorName},
		{"mutable capture of immutable", "let v = 1; fn f[&mut v]() => v += 1; f()", "cannot capture immutable variable 'v' mutably", runtime.ErrorBorrow},
		{"argument range", "fn f(v : U8) => v; f(300)", "value out of range for U8", runtime.ErrorType},
		{"return type range", "fn f() : U8 => 256; f()", "value out of range for U8", runtime.ErrorType},
	})
}

func TestFreeIdentifiersSkipsLocals(t *testing.T) {
	mod, err := parser.ParseModule("fn inner(b) => { let c = 2; a + b + c + d + inner(0) }")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	def, ok := mod.Body[0].(*ast.FunctionDefinition)
	if !ok {
		t.Fatalf("expected function definition, got %T", mod.Body[0])
	}
	got := freeIdentifiers(def.Function)
	want := []string{"a", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected free identifiers %v, got %v", want, got)
	}
}

func TestNestedFunctionSeesEnclosingFrame(t *testing.T) {
	got := mustEvaluate(t, "fn outer() => { let a = 1; fn inner(b) => { let c = 2; a + b + c }; inner } outer()(10)")
	if got != "13" {
		t.Fatalf("expected 13, got %q", got)
	}
}
