package parser

import (
	"errors"
	"testing"
)

func tokenTexts(tokens []Token) []string {
	texts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == TokenEOF {
			break
		}
		texts = append(texts, tok.Text+tok.Suffix)
	}
	return texts
}

func TestTokenizeOperatorsAndSuffixes(t *testing.T) {
	tokens, err := Tokenize("let x : U8 = 100U8 + valueU16; x += 1 // comment\n a::b => c != d")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []string{"let", "x", ":", "U8", "=", "100U8", "+", "valueU16", ";", "x", "+=", "1", "a", "::", "b", "=>", "c", "!=", "d"}
	got := tokenTexts(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if tokens[5].Kind != TokenInteger || tokens[5].Suffix != "U8" || tokens[5].Text != "100" {
		t.Fatalf("expected integer 100 with suffix U8, got %+v", tokens[5])
	}
	if tokens[7].Kind != TokenIdentifier {
		t.Fatalf("expected valueU16 to be one identifier, got %+v", tokens[7])
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("a\n  b")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if pos := tokens[1].Pos; pos.Line != 2 || pos.Column != 3 {
		t.Fatalf("expected b at 2:3, got %d:%d", pos.Line, pos.Column)
	}
}

func TestTokenizeLiterals(t *testing.T) {
	tokens, err := Tokenize(`'a' '\n' "hi\tthere" "open`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if tokens[0].Kind != TokenChar || tokens[0].Text != "a" {
		t.Fatalf("expected char a, got %+v", tokens[0])
	}
	if tokens[1].Text != "\n" {
		t.Fatalf("expected decoded newline, got %q", tokens[1].Text)
	}
	if tokens[2].Kind != TokenString || tokens[2].Text != "hi\tthere" {
		t.Fatalf("expected decoded string, got %+v", tokens[2])
	}
	if tokens[3].Kind != TokenString || tokens[3].Text != "open" {
		t.Fatalf("expected unterminated string to end at EOF, got %+v", tokens[3])
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"42u32", "invalid numeric literal '42u32'"},
		{"!x", "invalid operator '!'"},
		{"'a", "unterminated character literal"},
		{`"\q"`, `invalid escape sequence '\q'`},
		{"''", "invalid character literal"},
		{"a # b", "invalid character '#'"},
	}
	for _, tc := range cases {
		_, err := Tokenize(tc.source)
		if err == nil {
			t.Fatalf("Tokenize(%q): expected error %q", tc.source, tc.want)
		}
		var synErr *SyntaxError
		if !errors.As(err, &synErr) {
			t.Fatalf("Tokenize(%q): expected *SyntaxError, got %T", tc.source, err)
		}
		if synErr.Kind != ErrorLexical || synErr.Message != tc.want {
			t.Fatalf("Tokenize(%q): expected lexical %q, got %s %q", tc.source, tc.want, synErr.Kind, synErr.Message)
		}
	}
}
