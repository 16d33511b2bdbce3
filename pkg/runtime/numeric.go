package runtime

import (
	"math/big"
)

// Suffix is the width/signedness tag of an integer.
type Suffix string

const (
	SuffixNone  Suffix = ""
	SuffixU8    Suffix = "U8"
	SuffixU16   Suffix = "U16"
	SuffixU32   Suffix = "U32"
	SuffixU64   Suffix = "U64"
	SuffixUSize Suffix = "USize"
	SuffixI8    Suffix = "I8"
	SuffixI16   Suffix = "I16"
	SuffixI32   Suffix = "I32"
	SuffixI64   Suffix = "I64"
	SuffixChar  Suffix = "Char"
)

type suffixInfo struct {
	min    *big.Int
	max    *big.Int
	signed bool
}

var suffixTable = map[Suffix]suffixInfo{
	SuffixU8:    unsignedRange(8),
	SuffixU16:   unsignedRange(16),
	SuffixU32:   unsignedRange(32),
	SuffixU64:   unsignedRange(64),
	SuffixUSize: unsignedRange(64),
	SuffixI8:    signedRange(8),
	SuffixI16:   signedRange(16),
	SuffixI32:   signedRange(32),
	SuffixI64:   signedRange(64),
	SuffixChar:  {min: big.NewInt(0), max: big.NewInt(0x10FFFF)},
}

func unsignedRange(bits uint) suffixInfo {
	max := new(big.Int).Lsh(big.NewInt(1), bits)
	max.Sub(max, big.NewInt(1))
	return suffixInfo{min: big.NewInt(0), max: max}
}

func signedRange(bits uint) suffixInfo {
	max := new(big.Int).Lsh(big.NewInt(1), bits-1)
	min := new(big.Int).Neg(max)
	max.Sub(max, big.NewInt(1))
	return suffixInfo{min: min, max: max, signed: true}
}

// Suffixes lists every known suffix in declaration order.
func Suffixes() []Suffix {
	return []Suffix{SuffixU8, SuffixU16, SuffixU32, SuffixU64, SuffixUSize, SuffixI8, SuffixI16, SuffixI32, SuffixI64, SuffixChar}
}

// ParseSuffix recognizes a suffix name; matching is case-sensitive.
func ParseSuffix(name string) (Suffix, bool) {
	s := Suffix(name)
	_, ok := suffixTable[s]
	return s, ok
}

func (s Suffix) Known() bool {
	_, ok := suffixTable[s]
	return ok
}

func (s Suffix) IsSigned() bool {
	return suffixTable[s].signed
}

func (s Suffix) IsUnsigned() bool {
	info, ok := suffixTable[s]
	return ok && !info.signed
}

// Bounds returns copies of the inclusive range; untyped values are unbounded
// and report nil bounds.
func (s Suffix) Bounds() (*big.Int, *big.Int) {
	info, ok := suffixTable[s]
	if !ok {
		return nil, nil
	}
	return new(big.Int).Set(info.min), new(big.Int).Set(info.max)
}

func (s Suffix) Contains(v *big.Int) bool {
	info, ok := suffixTable[s]
	if !ok {
		return true
	}
	return v.Cmp(info.min) >= 0 && v.Cmp(info.max) <= 0
}

// TypeName is what typeOf reports; untyped integers default to I32.
func (s Suffix) TypeName() string {
	if s == SuffixNone {
		return string(SuffixI32)
	}
	return string(s)
}

// CheckLiteral validates a suffixed literal as written in source.
func CheckLiteral(v *big.Int, s Suffix) error {
	if s == SuffixNone {
		return nil
	}
	if v.Sign() < 0 && s.IsUnsigned() {
		return NewError(ErrorType, "negative numeric literal with suffix not supported")
	}
	if !s.Contains(v) {
		return NewErrorf(ErrorType, "numeric literal out of range for %s", s)
	}
	return nil
}

// CheckValue validates a value stored into a binding of suffix s.
func CheckValue(v *big.Int, s Suffix) error {
	if !s.Contains(v) {
		return NewErrorf(ErrorType, "value out of range for %s", s)
	}
	return nil
}

// CheckArithmetic validates an arithmetic result.
func CheckArithmetic(v *big.Int, s Suffix) error {
	if !s.Contains(v) {
		return NewError(ErrorType, "overflow")
	}
	return nil
}

// UnifySuffixes returns the single suffix shared by two operands. Untyped
// operands adopt the other side's suffix.
func UnifySuffixes(a, b Suffix) (Suffix, error) {
	switch {
	case a == b:
		return a, nil
	case a == SuffixNone:
		return b, nil
	case b == SuffixNone:
		return a, nil
	default:
		return SuffixNone, NewError(ErrorType, "type suffix mismatch")
	}
}
