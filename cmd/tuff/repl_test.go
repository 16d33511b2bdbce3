package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestReplSessionAccumulates(t *testing.T) {
	session := &replSession{}

	steps := []struct {
		line     string
		rendered string
		output   []string
		wantErr  string
	}{
		{line: "let mut x = 1;", rendered: ""},
		{line: "print(x);", output: []string{"1"}},
		{line: "x = x + 1;", rendered: ""},
		{line: "undefined_name", wantErr: "undefined_name"},
		{line: "print(x); x", rendered: "2", output: []string{"2"}},
	}
	for _, step := range steps {
		rendered, output, err := session.Feed(step.line)
		if step.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), step.wantErr) {
				t.Fatalf("Feed(%q): expected error containing %q, got %v", step.line, step.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Feed(%q): %v", step.line, err)
		}
		if rendered != step.rendered {
			t.Fatalf("Feed(%q): rendered %q, want %q", step.line, rendered, step.rendered)
		}
		if len(output) != 0 || len(step.output) != 0 {
			if !reflect.DeepEqual(output, step.output) {
				t.Fatalf("Feed(%q): output %v, want %v", step.line, output, step.output)
			}
		}
	}
	if len(session.lines) != 4 {
		t.Fatalf("expected the failing line to be dropped, kept %d lines", len(session.lines))
	}
}

func TestReplSessionReset(t *testing.T) {
	session := &replSession{}
	if _, _, err := session.Feed("let a = 3;"); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	session.Reset()
	if _, _, err := session.Feed("a"); err == nil {
		t.Fatalf("expected 'a' to be undefined after reset")
	}
}

func TestRunPiped(t *testing.T) {
	code, stdout, stderr := capturePiped(t, "print(4);\nlet y = 6;\ny")
	if code != 0 {
		t.Fatalf("runPiped exited %d (stderr: %q)", code, stderr)
	}
	if stdout != "4\n6\n" {
		t.Fatalf("unexpected output %q", stdout)
	}

	code, _, stderr = capturePiped(t, "let y = ;")
	if code != 1 || !strings.Contains(stderr, "syntax error: invalid expression") {
		t.Fatalf("expected syntax failure, got %d (stderr: %q)", code, stderr)
	}
}
