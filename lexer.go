// lexer.go — tokenizer for SketchLang source text.
//
// The lexer turns raw source into a flat token stream with line/column
// positions. It is deliberately dumb about the grammar: apart from `end`
// (which closes every block and gets its own token kind) every word is
// emitted as an IDENT, and the parser decides from context which words act
// as keywords. Newlines are significant (they separate statements); all
// other whitespace is not. `#` starts a comment running to end of line.
package sketchlang

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	NEWLINE
	END // the word "end", any casing

	// Literals & identifiers
	NUMBER
	STRING
	IDENT

	// Punctuation
	LPAREN
	RPAREN
	COMMA
	COLON
	ASSIGN // "=" (named arguments and parameter defaults only)

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	EQ  // "=="
	NEQ // "!="
	LT
	LTE
	GT
	GTE
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice; identifier casing is preserved
	Literal interface{} // parsed value for NUMBER/STRING literals
	Line    int         // 1-based
	Col     int         // 1-based
}

// Lexer scans a SketchLang source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int
	col    int
	tokens []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  1,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) rewindToStart() {
	l.cur = l.start
	l.line = l.tokStartLine
	l.col = l.tokStartCol
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipBlanks() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\t':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// ----- errors -----

// LexError reports a character-level scanning failure with a 1-based position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

// ----- scanners -----

// scanString parses a double-quoted string literal. Recognized escapes are
// \n \t \" and \\; an unknown escape passes the following character through
// literally.
func (l *Lexer) scanString() (string, error) {
	// consume the opening quote
	l.advance()

	var out strings.Builder
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '"' {
			return out.String(), nil
		}
		if ch == '\\' {
			esc, ok := l.advance()
			if !ok {
				return "", l.err("unterminated string literal")
			}
			switch esc {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case '"':
				out.WriteByte('"')
			case '\\':
				out.WriteByte('\\')
			default:
				out.WriteByte(esc)
			}
			continue
		}
		if ch == '\n' {
			return "", l.err("unterminated string literal")
		}
		out.WriteByte(ch)
	}
	return "", l.err("unterminated string literal")
}

// scanNumber parses an integer or a number with a single fractional dot.
// A second dot is not part of the number.
func (l *Lexer) scanNumber() (float64, error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		// consume the dot only when a digit follows
		if l.cur+1 < len(l.src) && isDigit(l.src[l.cur+1]) {
			l.advance()
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}
	lex := l.src[l.start:l.cur]
	v, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		return 0, l.err("invalid number literal")
	}
	return v, nil
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// ignoreUntilNewline eats until '\n' or EOF.
func (l *Lexer) ignoreUntilNewline() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	for {
		l.skipBlanks()
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.addToken(EOF, nil), nil
		}

		ch, _ := l.advance()

		switch ch {
		case '\n':
			return l.addToken(NEWLINE, nil), nil
		case '(':
			return l.addToken(LPAREN, nil), nil
		case ')':
			return l.addToken(RPAREN, nil), nil
		case ',':
			return l.addToken(COMMA, nil), nil
		case ':':
			return l.addToken(COLON, nil), nil
		case '+':
			return l.addToken(PLUS, nil), nil
		case '-':
			return l.addToken(MINUS, nil), nil
		case '*':
			return l.addToken(STAR, nil), nil
		case '/':
			return l.addToken(SLASH, nil), nil
		case '%':
			return l.addToken(PERCENT, nil), nil
		case '=':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(EQ, nil), nil
			}
			return l.addToken(ASSIGN, nil), nil
		case '!':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(NEQ, nil), nil
			}
			return Token{}, l.err("unexpected '!' (did you mean '!='?)")
		case '<':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(LTE, nil), nil
			}
			return l.addToken(LT, nil), nil
		case '>':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(GTE, nil), nil
			}
			return l.addToken(GT, nil), nil
		case '#':
			l.ignoreUntilNewline()
			l.start = l.cur
			continue
		case '"':
			l.rewindToStart()
			text, err := l.scanString()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(STRING, text), nil
		}

		if isDigit(ch) {
			l.rewindToStart()
			v, err := l.scanNumber()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(NUMBER, v), nil
		}

		if isAlpha(ch) {
			l.rewindToStart()
			lex := l.scanIdentifier()
			if strings.EqualFold(lex, "end") {
				return l.addToken(END, nil), nil
			}
			return l.addToken(IDENT, nil), nil
		}

		return Token{}, l.err(fmt.Sprintf("unexpected character: %q", ch))
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
