package interpreter

import (
	"testing"

	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

func TestEvaluateProgramImports(t *testing.T) {
	cases := []struct {
		name    string
		sources map[string]string
		want    string
	}{
		{
			name: "single export",
			sources: map[string]string{
				"main":  "use other::value; value",
				"other": "out let value = 100;",
			},
			want: "100",
		},
		{
			name: "named constant",
			sources: map[string]string{
				"main": "use math::pi; pi",
				"math": "out let pi = 314;",
			},
			want: "314",
		},
		{
			name: "extern use imports every export",
			sources: map[string]string{
				"main":   "extern use stdlib; extern fn alloc_value<T>(size : USize) : T; alloc_value(100USize)",
				"stdlib": "out let alloc_value = fn alloc_value(size : USize) : USize => size;",
			},
			want: "100",
		},
		{
			name: "exported constructor keeps its frame",
			sources: map[string]string{
				"main":     "use geometry::make_point; let p = make_point(10, 20); p.getX()",
				"geometry": "out let make_point = fn make_point(x, y) => { fn getX() => x; fn getY() => y; this };",
			},
			want: "10",
		},
		{
			name: "exported function sees module privates",
			sources: map[string]string{
				"main": "use lib::scaled; scaled(2)",
				"lib":  "let factor = 21; out fn scaled(v : I32) : I32 => v * factor;",
			},
			want: "42",
		},
		{
			name: "exported struct",
			sources: map[string]string{
				"main":   "use shapes::Square; Square { 5 }.side",
				"shapes": "out struct Square { side : I32 }",
			},
			want: "5",
		},
		{
			name: "nested imports",
			sources: map[string]string{
				"main": "use b::twice; twice",
				"b":    "use a::base; out let twice = base * 2;",
				"a":    "out let base = 21;",
			},
			want: "42",
		},
		{
			name: "module print output is collected",
			sources: map[string]string{
				"main":  "use noisy::v; v",
				"noisy": "print(9); out let v = 1;",
			},
			want: "1|9",
		},
		{
			name: "each import site re-evaluates",
			sources: map[string]string{
				"main":  "use noisy::a; use noisy::b; a + b",
				"noisy": "print(1); out let a = 1; out let b = 2;",
			},
			want: "3|1\n1",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateProgram("main", tc.sources)
			if err != nil {
				t.Fatalf("evaluate program: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEvaluateProgramErrors(t *testing.T) {
	cases := []struct {
		name    string
		main    string
		sources map[string]string
		want    string
		kind    runtime.ErrorKind
	}{
		{"missing main", "main", map[string]string{"other": "1"}, "main file 'main' not found in source set", runtime.ErrorName},
		{"missing module", "main", map[string]string{"main": "use nowhere::x; x"}, "module 'nowhere' not found in source set", runtime.ErrorName},
		{"missing export", "main", map[string]string{"main": "use m::y; y", "m": "out let x = 1;"}, "module 'm' has no export 'y'", runtime.ErrorName},
		{"private name", "main", map[string]string{"main": "use m::x; y", "m": "let y = 2; out let x = 1;"}, "undefined variable 'y'", runtime.ErrorName},
		{"cycle", "a", map[string]string{"a": "use b::x; x", "b": "use a::y; out let x = 1;"}, "import cycle detected: a -> b -> a", runtime.ErrorName},
		{"collision", "main", map[string]string{"main": "let x = 2; use m::x; x", "m": "out let x = 1;"}, "duplicate declaration", runtime.ErrorName},
		{"module error surfaces", "main", map[string]string{"main": "use m::x; x", "m": "out let x = 255U8 + 1U8;"}, "overflow", runtime.ErrorType},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateProgram(tc.main, tc.sources)
			expectEvalError(t, err, tc.want, tc.kind)
		})
	}
}

func TestEvaluateOneRejectsImports(t *testing.T) {
	_, err := EvaluateOne("use other::value; value")
	expectEvalError(t, err, "module 'other' not found in source set", runtime.ErrorName)
}
