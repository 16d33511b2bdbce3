package interpreter

import (
	"errors"
	"testing"

	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

type evalCase struct {
	name   string
	source string
	want   string
}

type errorCase struct {
	name   string
	source string
	want   string
	kind   runtime.ErrorKind
}

func mustEvaluate(t *testing.T, source string) string {
	t.Helper()
	got, err := EvaluateOne(source)
	if err != nil {
		t.Fatalf("evaluate %q: unexpected error: %v", source, err)
	}
	return got
}

func runEvalCases(t *testing.T, cases []evalCase) {
	t.Helper()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := mustEvaluate(t, tc.source); got != tc.want {
				t.Fatalf("evaluate %q: expected %q, got %q", tc.source, tc.want, got)
			}
		})
	}
}

func expectEvalError(t *testing.T, err error, want string, kind runtime.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got none", want)
	}
	var rtErr *Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if rtErr.Message != want {
		t.Fatalf("expected message %q, got %q", want, rtErr.Message)
	}
	if kind != "" && rtErr.Kind != kind {
		t.Fatalf("expected %s error for %q, got %s", kind, want, rtErr.Kind)
	}
}

func runErrorCases(t *testing.T, cases []errorCase) {
	t.Helper()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateOne(tc.source)
			if err == nil {
				t.Fatalf("evaluate %q: expected error %q, got result %q", tc.source, tc.want, got)
			}
			expectEvalError(t, err, tc.want, tc.kind)
		})
	}
}
