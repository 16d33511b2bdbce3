package runtime

import (
	"math/big"
	"testing"
)

func TestSuffixBounds(t *testing.T) {
	cases := []struct {
		suffix   Suffix
		min, max string
	}{
		{SuffixU8, "0", "255"},
		{SuffixI8, "-128", "127"},
		{SuffixU16, "0", "65535"},
		{SuffixI32, "-2147483648", "2147483647"},
		{SuffixU64, "0", "18446744073709551615"},
		{SuffixUSize, "0", "18446744073709551615"},
		{SuffixI64, "-9223372036854775808", "9223372036854775807"},
		{SuffixChar, "0", "1114111"},
	}
	for _, tc := range cases {
		min, max := tc.suffix.Bounds()
		if min.String() != tc.min || max.String() != tc.max {
			t.Fatalf("%s: expected [%s, %s], got [%s, %s]", tc.suffix, tc.min, tc.max, min, max)
		}
	}
	if min, max := SuffixNone.Bounds(); min != nil || max != nil {
		t.Fatalf("untyped integers should be unbounded")
	}
}

func TestBoundsAreCopies(t *testing.T) {
	_, max := SuffixU8.Bounds()
	max.SetInt64(1)
	if _, again := SuffixU8.Bounds(); again.Int64() != 255 {
		t.Fatalf("mutating returned bound leaked into the table: %s", again)
	}
}

func TestParseSuffix(t *testing.T) {
	if s, ok := ParseSuffix("USize"); !ok || s != SuffixUSize {
		t.Fatalf("expected USize to parse, got %q %v", s, ok)
	}
	if _, ok := ParseSuffix("u8"); ok {
		t.Fatalf("suffix matching must be case-sensitive")
	}
	if len(Suffixes()) != 10 {
		t.Fatalf("expected 10 suffixes, got %d", len(Suffixes()))
	}
	if !SuffixI16.IsSigned() || SuffixI16.IsUnsigned() || !SuffixU32.IsUnsigned() || SuffixNone.IsUnsigned() {
		t.Fatalf("unexpected signedness classification")
	}
	if SuffixNone.TypeName() != "I32" || SuffixU8.TypeName() != "U8" {
		t.Fatalf("unexpected type names")
	}
}

func TestCheckLiteral(t *testing.T) {
	cases := []struct {
		value  int64
		suffix Suffix
		want   string
	}{
		{255, SuffixU8, ""},
		{256, SuffixU8, "numeric literal out of range for U8"},
		{-1, SuffixU8, "negative numeric literal with suffix not supported"},
		{-128, SuffixI8, ""},
		{-129, SuffixI8, "numeric literal out of range for I8"},
		{-5, SuffixNone, ""},
		{1 << 40, SuffixNone, ""},
	}
	for _, tc := range cases {
		err := CheckLiteral(big.NewInt(tc.value), tc.suffix)
		if tc.want == "" {
			if err != nil {
				t.Fatalf("%d%s: unexpected error %v", tc.value, tc.suffix, err)
			}
			continue
		}
		if err == nil || err.Error() != tc.want {
			t.Fatalf("%d%s: expected %q, got %v", tc.value, tc.suffix, tc.want, err)
		}
		if kind := err.(*Error).Kind; kind != ErrorType {
			t.Fatalf("%d%s: expected type error, got %s", tc.value, tc.suffix, kind)
		}
	}
}

func TestCheckValueAndArithmetic(t *testing.T) {
	if err := CheckValue(big.NewInt(70000), SuffixU16); err == nil || err.Error() != "value out of range for U16" {
		t.Fatalf("expected range error, got %v", err)
	}
	if err := CheckArithmetic(big.NewInt(-1), SuffixU32); err == nil || err.Error() != "overflow" {
		t.Fatalf("expected overflow, got %v", err)
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	if err := CheckArithmetic(huge, SuffixNone); err != nil {
		t.Fatalf("untyped arithmetic should not overflow: %v", err)
	}
}

func TestUnifySuffixes(t *testing.T) {
	cases := []struct {
		a, b Suffix
		want Suffix
		err  bool
	}{
		{SuffixU8, SuffixU8, SuffixU8, false},
		{SuffixNone, SuffixI64, SuffixI64, false},
		{SuffixU16, SuffixNone, SuffixU16, false},
		{SuffixNone, SuffixNone, SuffixNone, false},
		{SuffixU8, SuffixU16, SuffixNone, true},
	}
	for _, tc := range cases {
		got, err := UnifySuffixes(tc.a, tc.b)
		if tc.err {
			if err == nil || err.Error() != "type suffix mismatch" {
				t.Fatalf("%q/%q: expected mismatch, got %v", tc.a, tc.b, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q/%q: expected %q, got %q (%v)", tc.a, tc.b, tc.want, got, err)
		}
	}
}
