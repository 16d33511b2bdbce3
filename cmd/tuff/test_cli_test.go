package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTestCommandPasses(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "numbers.test.yml"), `
cases:
  - name: addition
    source: "1 + 2"
    expect: "3"
  - name: print output
    source: "print(7); 1"
    expect: "1|7"
  - name: overflow
    source: "1U8 + 255U8"
    error: overflow
  - name: linked modules
    source: "use lib::v; v"
    modules:
      lib: "out let v = 5;"
    expect: "5"
`)
	writeFile(t, filepath.Join(dir, "nested", "unit.test.yml"), `
cases:
  - source: "let x : I32 = 1;"
    expect: ""
`)
	writeFile(t, filepath.Join(dir, "ignored.yml"), "cases: [{source: 'nope', expect: '1'}]\n")

	code, stdout, stderr := captureCLI(t, []string{"test", dir})
	if code != 0 {
		t.Fatalf("test exited %d (stdout: %q, stderr: %q)", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "5 passed, 0 failed") {
		t.Fatalf("unexpected summary %q", stdout)
	}
	if !strings.Contains(stdout, "case 1") {
		t.Fatalf("expected unnamed case to be numbered: %q", stdout)
	}
}

func TestTestCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "broken.test.yml")
	writeFile(t, file, `
cases:
  - name: wrong value
    source: "2 * 2"
    expect: "5"
  - name: missing error
    source: "1"
    error: overflow
  - name: unexpected error
    source: "nope"
    expect: "1"
`)
	code, stdout, _ := captureCLI(t, []string{"test", file})
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	for _, want := range []string{
		`expected "5", got "4"`,
		`expected error "overflow", got result "1"`,
		"unexpected name error: undefined variable 'nope'",
		"0 passed, 3 failed",
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestTestCommandRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "typo.test.yml"), "cases:\n  - sauce: '1'\n")
	code, _, stderr := captureCLI(t, []string{"test", dir})
	if code != 2 || !strings.Contains(stderr, "sauce") {
		t.Fatalf("expected parse failure, got %d (stderr: %q)", code, stderr)
	}
}
