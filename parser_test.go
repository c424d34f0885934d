// parser_test.go
package sketchlang

import (
	"errors"
	"testing"
)

func parse(t *testing.T, src string) []Stmt {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return prog
}

func parseOne(t *testing.T, src string) Stmt {
	t.Helper()
	prog := parse(t, src)
	if len(prog) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog))
	}
	return prog[0]
}

func wantParseError(t *testing.T, src string) *ParseError {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected a parse error for:\n%s", src)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	return pe
}

func Test_Parser_Let(t *testing.T) {
	st, ok := parseOne(t, "let x be 1 + 2").(*LetStmt)
	if !ok {
		t.Fatalf("want *LetStmt")
	}
	if st.Name != "x" {
		t.Fatalf("name = %q", st.Name)
	}
	bin, ok := st.Value.(*BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("value = %#v", st.Value)
	}
}

func Test_Parser_Set(t *testing.T) {
	st, ok := parseOne(t, "set total to total + 1").(*SetStmt)
	if !ok || st.Name != "total" {
		t.Fatalf("got %#v", st)
	}
}

func Test_Parser_KeywordsCaseInsensitive_NamesCaseSensitive(t *testing.T) {
	st, ok := parseOne(t, "LET myVar BE 1").(*LetStmt)
	if !ok {
		t.Fatalf("want *LetStmt")
	}
	if st.Name != "myVar" {
		t.Fatalf("declared name = %q, want original casing", st.Name)
	}
}

func Test_Parser_Precedence(t *testing.T) {
	st := parseOne(t, "let v be 1 + 2 * 3 == 7 and not false").(*LetStmt)
	// and ( == ( + ( * ) ) , not )
	and, ok := st.Value.(*BinaryExpr)
	if !ok || and.Op != "and" {
		t.Fatalf("top = %#v", st.Value)
	}
	eq, ok := and.L.(*BinaryExpr)
	if !ok || eq.Op != "==" {
		t.Fatalf("and.L = %#v", and.L)
	}
	add, ok := eq.L.(*BinaryExpr)
	if !ok || add.Op != "+" {
		t.Fatalf("eq.L = %#v", eq.L)
	}
	mul, ok := add.R.(*BinaryExpr)
	if !ok || mul.Op != "*" {
		t.Fatalf("add.R = %#v", add.R)
	}
	if _, ok := and.R.(*UnaryExpr); !ok {
		t.Fatalf("and.R = %#v", and.R)
	}
}

func Test_Parser_IfChain(t *testing.T) {
	src := `
if x > 10:
    print "big"
otherwise if x > 5:
    print "medium"
otherwise:
    print "small"
end
`
	st, ok := parseOne(t, src).(*IfStmt)
	if !ok {
		t.Fatalf("want *IfStmt")
	}
	if len(st.Arms) != 2 {
		t.Fatalf("arms = %d, want 2", len(st.Arms))
	}
	if st.Else == nil || len(st.Else) != 1 {
		t.Fatalf("else = %#v", st.Else)
	}
}

func Test_Parser_IfWithoutOtherwise(t *testing.T) {
	st := parseOne(t, "if ok:\n    print 1\nend").(*IfStmt)
	if len(st.Arms) != 1 || st.Else != nil {
		t.Fatalf("got %#v", st)
	}
}

func Test_Parser_RepeatCount(t *testing.T) {
	st, ok := parseOne(t, "repeat 5 times as i:\n    print i\nend").(*RepeatCountStmt)
	if !ok {
		t.Fatalf("want *RepeatCountStmt")
	}
	if st.Var != "i" || len(st.Body) != 1 {
		t.Fatalf("got %#v", st)
	}
}

func Test_Parser_RepeatCount_DefaultVar(t *testing.T) {
	st := parseOne(t, "repeat n times:\n    print it\nend").(*RepeatCountStmt)
	if st.Var != "it" {
		t.Fatalf("var = %q, want \"it\"", st.Var)
	}
}

func Test_Parser_RepeatUntil_UpdateForms(t *testing.T) {
	// let update
	st, ok := parseOne(t, "repeat let x be 0 until x >= 10:\nend").(*RepeatUntilStmt)
	if !ok {
		t.Fatalf("want *RepeatUntilStmt")
	}
	if _, ok := st.Update.(*LetStmt); !ok {
		t.Fatalf("update = %#v", st.Update)
	}

	// set update
	st = parseOne(t, "repeat set x to x + 1 until x >= 10:\nend").(*RepeatUntilStmt)
	if _, ok := st.Update.(*SetStmt); !ok {
		t.Fatalf("update = %#v", st.Update)
	}

	// shorthand: `x be ...` is equivalent to set
	st = parseOne(t, "repeat x be x + 10 until x >= 100:\n    print x\nend").(*RepeatUntilStmt)
	set, ok := st.Update.(*SetStmt)
	if !ok || set.Name != "x" {
		t.Fatalf("update = %#v", st.Update)
	}
}

func Test_Parser_FuncDef_DefaultsAnywhere(t *testing.T) {
	src := `
to draw(x = 10, y, r = 5):
    circle at (x, y) radius r
end
`
	st, ok := parseOne(t, src).(*FuncDefStmt)
	if !ok {
		t.Fatalf("want *FuncDefStmt")
	}
	if st.Name != "draw" || len(st.Params) != 3 {
		t.Fatalf("got %#v", st)
	}
	if st.Params[0].Default == nil || st.Params[1].Default != nil || st.Params[2].Default == nil {
		t.Fatalf("defaults misparsed: %#v", st.Params)
	}
}

func Test_Parser_GiveBack_BareAndValued(t *testing.T) {
	src := `
to f(n):
    if n <= 0:
        give back
    end
    give back n * 2
end
`
	st := parseOne(t, src).(*FuncDefStmt)
	iff := st.Body[0].(*IfStmt)
	ret := iff.Arms[0].Body[0].(*ReturnStmt)
	if ret.Value != nil {
		t.Fatalf("bare give back should carry no value: %#v", ret.Value)
	}
	ret2 := st.Body[1].(*ReturnStmt)
	if ret2.Value == nil {
		t.Fatalf("valued give back lost its value")
	}
}

func Test_Parser_SingleLineIfWithOtherwise(t *testing.T) {
	// `otherwise` terminates the arm's block even without a newline.
	src := "to countdown(n): if n <= 0: give back 0 otherwise: countdown(n - 1) end end"
	st := parseOne(t, src).(*FuncDefStmt)
	iff, ok := st.Body[0].(*IfStmt)
	if !ok {
		t.Fatalf("body[0] = %#v", st.Body[0])
	}
	if iff.Else == nil {
		t.Fatalf("missing otherwise block")
	}
	if _, ok := iff.Else[0].(*ExprStmt); !ok {
		t.Fatalf("otherwise body = %#v", iff.Else[0])
	}
}

func Test_Parser_DrawingStatements(t *testing.T) {
	prog := parse(t, `
start svg width 200 height 200
use fill "tomato"
use stroke "black" width 2
circle at (100, 100) radius 50
rect at (10, 10) width 30 height 40
line from (0, 0) to (200, 200)
text "hello" at (20, 180) size 12
no fill
no stroke
finish svg
`)
	want := []interface{}{
		&StartCanvasStmt{}, &FillStmt{}, &StrokeStmt{}, &CircleStmt{}, &RectStmt{},
		&LineStmt{}, &TextStmt{}, &NoFillStmt{}, &NoStrokeStmt{}, &FinishCanvasStmt{},
	}
	if len(prog) != len(want) {
		t.Fatalf("got %d statements, want %d", len(prog), len(want))
	}
	for i := range prog {
		if got, wantT := typeName(prog[i]), typeName(want[i]); got != wantT {
			t.Fatalf("statement %d: got %s, want %s", i, got, wantT)
		}
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case *StartCanvasStmt:
		return "start"
	case *FinishCanvasStmt:
		return "finish"
	case *FillStmt:
		return "fill"
	case *StrokeStmt:
		return "stroke"
	case *NoFillStmt:
		return "nofill"
	case *NoStrokeStmt:
		return "nostroke"
	case *CircleStmt:
		return "circle"
	case *RectStmt:
		return "rect"
	case *LineStmt:
		return "line"
	case *TextStmt:
		return "text"
	default:
		return "other"
	}
}

func Test_Parser_BareCoordinatePair(t *testing.T) {
	st := parseOne(t, "circle at 100, 100 radius 50").(*CircleStmt)
	if st.X == nil || st.Y == nil || st.R == nil {
		t.Fatalf("got %#v", st)
	}
}

func Test_Parser_TextSizeOptional(t *testing.T) {
	st := parseOne(t, `text "hi" at (10, 20)`).(*TextStmt)
	if st.Size != nil {
		t.Fatalf("size should be nil when omitted")
	}
}

func Test_Parser_CallArguments(t *testing.T) {
	st := parseOne(t, `let v be greet("bob", greeting = "yo")`).(*LetStmt)
	call, ok := st.Value.(*CallExpr)
	if !ok || call.Callee != "greet" {
		t.Fatalf("value = %#v", st.Value)
	}
	if len(call.Args) != 2 {
		t.Fatalf("args = %d", len(call.Args))
	}
	if call.Args[0].Name != "" || call.Args[1].Name != "greeting" {
		t.Fatalf("args = %#v", call.Args)
	}
}

func Test_Parser_ExpressionStatement(t *testing.T) {
	st, ok := parseOne(t, "countdown(3)").(*ExprStmt)
	if !ok {
		t.Fatalf("want *ExprStmt")
	}
	if _, ok := st.X.(*CallExpr); !ok {
		t.Fatalf("x = %#v", st.X)
	}
}

func Test_Parser_Errors(t *testing.T) {
	pe := wantParseError(t, "let be 5")
	if pe.Incomplete {
		t.Fatalf("mid-input error should not be incomplete")
	}
	wantParseError(t, "set x 5")
	wantParseError(t, "use color \"red\"")
	wantParseError(t, "let x be 1 let y be 2") // missing newline
	wantParseError(t, "end")
}

func Test_Parser_IncompleteAtEOF(t *testing.T) {
	pe := wantParseError(t, "if x > 1:\n    print x\n")
	if !pe.Incomplete {
		t.Fatalf("unclosed block should report incomplete, got %v", pe)
	}
	if !IsIncomplete(pe) {
		t.Fatalf("IsIncomplete should be true")
	}
	pe = wantParseError(t, "let x be")
	if !pe.Incomplete {
		t.Fatalf("dangling expression at EOF should report incomplete, got %v", pe)
	}
}
