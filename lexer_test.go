// lexer_test.go
package sketchlang

import (
	"errors"
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	ts, err := l.Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantLexError(t *testing.T, src string) *LexError {
	t.Helper()
	l := NewLexer(src)
	_, err := l.Scan()
	if err == nil {
		t.Fatalf("expected a lex error for %q, got none", src)
	}
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	return le
}

func Test_Lexer_LetStatement(t *testing.T) {
	got := wantTypes(t, `let x be 10`, []TokenType{IDENT, IDENT, IDENT, NUMBER})
	if got[0].Lexeme != "let" || got[1].Lexeme != "x" {
		t.Fatalf("unexpected lexemes: %q %q", got[0].Lexeme, got[1].Lexeme)
	}
	if got[3].Literal.(float64) != 10 {
		t.Fatalf("number literal = %v", got[3].Literal)
	}
}

func Test_Lexer_NewlinesAreSignificant(t *testing.T) {
	wantTypes(t, "let x be 1\nprint x", []TokenType{
		IDENT, IDENT, IDENT, NUMBER, NEWLINE, IDENT, IDENT,
	})
}

func Test_Lexer_Operators_OneAndTwoChar(t *testing.T) {
	wantTypes(t, `a == b != c <= d >= e < f > g = h`, []TokenType{
		IDENT, EQ, IDENT, NEQ, IDENT, LTE, IDENT, GTE, IDENT, LT, IDENT, GT, IDENT, ASSIGN, IDENT,
	})
	wantTypes(t, `1 + 2 - 3 * 4 / 5 % 6`, []TokenType{
		NUMBER, PLUS, NUMBER, MINUS, NUMBER, STAR, NUMBER, SLASH, NUMBER, PERCENT, NUMBER,
	})
}

func Test_Lexer_Numbers_SingleFractionalDot(t *testing.T) {
	got := wantTypes(t, `3.14 42`, []TokenType{NUMBER, NUMBER})
	if got[0].Literal.(float64) != 3.14 || got[1].Literal.(float64) != 42 {
		t.Fatalf("literals = %v %v", got[0].Literal, got[1].Literal)
	}

	// A second dot is not part of the number, and a stray dot is no token at all.
	le := wantLexError(t, `1.2.3`)
	if le.Col != 4 {
		t.Fatalf("stray dot reported at col %d, want 4", le.Col)
	}
}

func Test_Lexer_Strings_Escapes(t *testing.T) {
	got := wantTypes(t, `"a\nb\t\"\\"`, []TokenType{STRING})
	if got[0].Literal.(string) != "a\nb\t\"\\" {
		t.Fatalf("decoded string = %q", got[0].Literal)
	}

	// Unknown escapes pass the following character through literally.
	got = wantTypes(t, `"a\qb"`, []TokenType{STRING})
	if got[0].Literal.(string) != "aqb" {
		t.Fatalf("decoded string = %q", got[0].Literal)
	}
}

func Test_Lexer_Strings_Unterminated(t *testing.T) {
	wantLexError(t, `"abc`)
	wantLexError(t, "\"ab\ncd\"")
}

func Test_Lexer_BareBang(t *testing.T) {
	le := wantLexError(t, `let x be !true`)
	if le.Col != 10 {
		t.Fatalf("bare '!' reported at col %d, want 10", le.Col)
	}
}

func Test_Lexer_Comments_RunToEndOfLine(t *testing.T) {
	wantTypes(t, "# a comment\nlet x be 1 # trailing\nprint x", []TokenType{
		NEWLINE, IDENT, IDENT, IDENT, NUMBER, NEWLINE, IDENT, IDENT,
	})
}

func Test_Lexer_EndToken_CaseInsensitive(t *testing.T) {
	wantTypes(t, "end End END", []TokenType{END, END, END})
	// ...but only the exact word: longer identifiers stay identifiers.
	wantTypes(t, "ending", []TokenType{IDENT})
}

func Test_Lexer_IdentifierCasingPreserved(t *testing.T) {
	got := wantTypes(t, `LET myVar BE 1`, []TokenType{IDENT, IDENT, IDENT, NUMBER})
	if got[0].Lexeme != "LET" || got[1].Lexeme != "myVar" {
		t.Fatalf("lexemes = %q %q", got[0].Lexeme, got[1].Lexeme)
	}
}

func Test_Lexer_Positions(t *testing.T) {
	got := toks(t, "let x be 1\n  circle")
	if got[0].Line != 1 || got[0].Col != 1 {
		t.Fatalf("first token at %d:%d", got[0].Line, got[0].Col)
	}
	if got[1].Col != 5 {
		t.Fatalf("'x' at col %d, want 5", got[1].Col)
	}
	last := got[len(got)-2] // before EOF
	if last.Line != 2 || last.Col != 3 {
		t.Fatalf("'circle' at %d:%d, want 2:3", last.Line, last.Col)
	}
}
