package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/michaelmacinnis/adapted"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdentifier
	TokenInteger
	TokenChar
	TokenString
	TokenPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return "identifier"
	case TokenInteger:
		return "integer"
	case TokenChar:
		return "char"
	case TokenString:
		return "string"
	case TokenPunct:
		return "punctuation"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Position is a 1-based line/column plus byte offset.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Kind TokenKind
	// Text is the literal source slice, except for chars and strings where it
	// holds the decoded contents.
	Text   string
	Suffix string
	Pos    Position
}

func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func (t Token) IsPunct(text string) bool {
	return t.Kind == TokenPunct && t.Text == text
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}
	return fmt.Sprintf("%q", t.Text+t.Suffix)
}

// NumericSuffixes are the type tags a digit run may carry.
var NumericSuffixes = map[string]struct{}{
	"U8": {}, "U16": {}, "U32": {}, "U64": {}, "USize": {},
	"I8": {}, "I16": {}, "I32": {}, "I64": {}, "Char": {},
}

var twoCharOperators = map[string]struct{}{
	"==": {}, "!=": {}, "<=": {}, ">=": {}, "&&": {}, "||": {},
	"->": {}, "=>": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {}, "::": {},
}

const singleCharPunct = "+-*/%<>=&|(){}[];:,.'\""

type lexer struct {
	src    []rune
	pos    int
	line   int
	column int
	tokens []Token
}

// Tokenize converts source text into a token stream terminated by TokenEOF.
func Tokenize(source string) ([]Token, error) {
	lx := &lexer{src: []rune(source), line: 1, column: 1}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

func (lx *lexer) run() error {
	for {
		lx.skipWhitespaceAndComments()
		if lx.pos >= len(lx.src) {
			lx.tokens = append(lx.tokens, Token{Kind: TokenEOF, Pos: lx.position()})
			return nil
		}
		start := lx.position()
		ch := lx.src[lx.pos]
		switch {
		case isDigit(ch):
			tok, err := lx.readNumber(start)
			if err != nil {
				return err
			}
			lx.tokens = append(lx.tokens, tok)
		case isIdentStart(ch):
			lx.tokens = append(lx.tokens, Token{Kind: TokenIdentifier, Text: lx.readWord(), Pos: start})
		case ch == '\'':
			tok, err := lx.readChar(start)
			if err != nil {
				return err
			}
			lx.tokens = append(lx.tokens, tok)
		case ch == '"':
			tok, err := lx.readString(start)
			if err != nil {
				return err
			}
			lx.tokens = append(lx.tokens, tok)
		default:
			tok, err := lx.readPunct(start)
			if err != nil {
				return err
			}
			lx.tokens = append(lx.tokens, tok)
		}
	}
}

func (lx *lexer) position() Position {
	return Position{Offset: lx.pos, Line: lx.line, Column: lx.column}
}

func (lx *lexer) peekAt(offset int) rune {
	idx := lx.pos + offset
	if idx < 0 || idx >= len(lx.src) {
		return 0
	}
	return lx.src[idx]
}

func (lx *lexer) advance() rune {
	ch := lx.src[lx.pos]
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return ch
}

func (lx *lexer) skipWhitespaceAndComments() {
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		if unicode.IsSpace(ch) {
			lx.advance()
			continue
		}
		if ch == '/' && lx.peekAt(1) == '/' {
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.advance()
			}
			continue
		}
		return
	}
}

func (lx *lexer) readWord() string {
	start := lx.pos
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.advance()
	}
	return string(lx.src[start:lx.pos])
}

// readNumber reads a digit run and an optional suffix glued to it. Letters
// only count as a suffix when they follow a digit directly; the whole letter
// run must then be a known suffix.
func (lx *lexer) readNumber(start Position) (Token, error) {
	begin := lx.pos
	for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
		lx.advance()
	}
	digits := strings.ReplaceAll(string(lx.src[begin:lx.pos]), "_", "")
	tok := Token{Kind: TokenInteger, Text: digits, Pos: start}
	if lx.pos < len(lx.src) && isIdentStart(lx.src[lx.pos]) {
		suffix := lx.readWord()
		if _, ok := NumericSuffixes[suffix]; !ok {
			return Token{}, newLexicalError(start, "invalid numeric literal '%s%s'", digits, suffix)
		}
		tok.Suffix = suffix
	}
	return tok, nil
}

func (lx *lexer) readChar(start Position) (Token, error) {
	lx.advance() // opening quote
	raw, terminated := lx.readQuoted('\'')
	if !terminated {
		return Token{}, newLexicalError(start, "unterminated character literal")
	}
	text, err := decodeEscapes(raw, start)
	if err != nil {
		return Token{}, err
	}
	if len([]rune(text)) != 1 {
		return Token{}, newLexicalError(start, "invalid character literal")
	}
	return Token{Kind: TokenChar, Text: text, Pos: start}, nil
}

// readString is lenient: a missing closing quote ends the literal at EOF.
func (lx *lexer) readString(start Position) (Token, error) {
	lx.advance()
	raw, _ := lx.readQuoted('"')
	text, err := decodeEscapes(raw, start)
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenString, Text: text, Pos: start}, nil
}

func (lx *lexer) readQuoted(quote rune) (string, bool) {
	begin := lx.pos
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		if ch == '\\' && lx.pos+1 < len(lx.src) {
			lx.advance()
			lx.advance()
			continue
		}
		if ch == quote {
			raw := string(lx.src[begin:lx.pos])
			lx.advance()
			return raw, true
		}
		lx.advance()
	}
	return string(lx.src[begin:lx.pos]), false
}

func decodeEscapes(raw string, pos Position) (string, error) {
	if !strings.Contains(raw, `\`) {
		return raw, nil
	}
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' {
			continue
		}
		if i+1 >= len(runes) {
			return "", newLexicalError(pos, "invalid escape sequence")
		}
		switch runes[i+1] {
		case 'n', 't', 'r', '\\', '"', '\'':
			i++
		default:
			return "", newLexicalError(pos, "invalid escape sequence '\\%c'", runes[i+1])
		}
	}
	text, err := adapted.ActualBytes(raw)
	if err != nil {
		return "", newLexicalError(pos, "invalid escape sequence")
	}
	return text, nil
}

func (lx *lexer) readPunct(start Position) (Token, error) {
	ch := lx.src[lx.pos]
	if lx.pos+1 < len(lx.src) {
		pair := string([]rune{ch, lx.src[lx.pos+1]})
		if _, ok := twoCharOperators[pair]; ok {
			lx.advance()
			lx.advance()
			return Token{Kind: TokenPunct, Text: pair, Pos: start}, nil
		}
	}
	if ch == '!' {
		return Token{}, newLexicalError(start, "invalid operator '!'")
	}
	if !strings.ContainsRune(singleCharPunct, ch) {
		return Token{}, newLexicalError(start, "invalid character '%c'", ch)
	}
	lx.advance()
	return Token{Kind: TokenPunct, Text: string(ch), Pos: start}, nil
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}
