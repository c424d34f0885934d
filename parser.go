// parser.go — recursive-descent parser for SketchLang.
//
// The parser consumes the token stream produced by the lexer and builds the
// statement list for a program. Statement dispatch is by keyword lookahead on
// the first token of a line; each statement form has a strict fixed surface.
// Keywords are matched case-insensitively (`If`, `LET` and `let` all work)
// while variable and function names stay case-sensitive. Only `end` is
// reserved by the lexer; every other keyword is an IDENT resolved here from
// context, so `let width be 3` is legal even though `width` is also a
// sub-keyword of `rect`.
//
// Blocks are terminated by `end` or by the word `otherwise` (which the
// enclosing `if` consumes). Blank lines between statements are skipped.
//
// Expression precedence, lowest to highest:
//
//	or  <  and  <  == !=  <  < <= > >=  <  + -  <  * / %  <  unary - not
//
// All binary operators are left-associative; unary is right-associative.
package sketchlang

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports a grammar-level failure with a 1-based position.
// Incomplete is set when the failure was running out of input (an unclosed
// block or dangling expression at EOF); the REPL uses it to keep reading.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err is a ParseError caused by truncated input.
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Incomplete
}

// Parse lexes and parses a complete SketchLang source string into its
// program statement list.
func Parse(src string) ([]Stmt, error) {
	lex := NewLexer(src)
	toks, err := lex.Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.program()
}

type parser struct {
	toks []Token
	i    int
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekN(n int) Token {
	idx := p.i + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

// isKw reports whether tok is the given contextual keyword, case-insensitively.
func isKw(tok Token, word string) bool {
	return tok.Type == IDENT && strings.EqualFold(tok.Lexeme, word)
}

func (p *parser) peekKw(word string) bool { return isKw(p.peek(), word) }

func (p *parser) matchKw(word string) bool {
	if p.peekKw(word) {
		p.i++
		return true
	}
	return false
}

func (p *parser) need(t TokenType, msg string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.fail(msg)
}

func (p *parser) needKw(word, msg string) error {
	if p.matchKw(word) {
		return nil
	}
	return p.fail(msg)
}

func (p *parser) fail(msg string) error {
	g := p.peek()
	return &ParseError{Line: g.Line, Col: g.Col, Msg: msg, Incomplete: g.Type == EOF}
}

func (p *parser) skipNewlines() {
	for p.peek().Type == NEWLINE {
		p.i++
	}
}

// blockDone reports whether the current token terminates a block body.
func (p *parser) blockDone() bool {
	t := p.peek()
	return t.Type == END || t.Type == EOF || isKw(t, "otherwise")
}

// endOfStatement consumes the newline(s) separating statements. A statement
// may also be terminated by the end of its enclosing block.
func (p *parser) endOfStatement() error {
	if p.match(NEWLINE) {
		p.skipNewlines()
		return nil
	}
	if p.blockDone() {
		return nil
	}
	return p.fail("expected newline after statement")
}

// ───────────────────────────── program & blocks ─────────────────────────────

func (p *parser) program() ([]Stmt, error) {
	stmts := []Stmt{}
	p.skipNewlines()
	for !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		if err := p.endOfStatement(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	return stmts, nil
}

// block parses statements until `end`, `otherwise` or EOF, leaving the
// terminator for the caller.
func (p *parser) block() ([]Stmt, error) {
	stmts := []Stmt{}
	p.skipNewlines()
	for !p.blockDone() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		if err := p.endOfStatement(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	return stmts, nil
}

// ─────────────────────────────── statements ─────────────────────────────────

func (p *parser) statement() (Stmt, error) {
	tok := p.peek()
	if tok.Type == END {
		return nil, p.fail("unexpected 'end' with no open block")
	}
	if tok.Type == IDENT {
		switch strings.ToLower(tok.Lexeme) {
		case "let":
			p.i++
			return p.letStmt(tok)
		case "set":
			p.i++
			return p.setStmt(tok)
		case "print":
			p.i++
			return p.printStmt(tok)
		case "if":
			p.i++
			return p.ifStmt(tok)
		case "repeat":
			p.i++
			return p.repeatStmt(tok)
		case "to":
			p.i++
			return p.funcDefStmt(tok)
		case "give":
			p.i++
			return p.returnStmt(tok)
		case "circle":
			p.i++
			return p.circleStmt(tok)
		case "rect":
			p.i++
			return p.rectStmt(tok)
		case "line":
			p.i++
			return p.lineStmt(tok)
		case "text":
			p.i++
			return p.textStmt(tok)
		case "use":
			p.i++
			return p.useStmt(tok)
		case "no":
			p.i++
			return p.noStmt(tok)
		case "start":
			p.i++
			return p.startStmt(tok)
		case "finish":
			p.i++
			return p.finishStmt(tok)
		}
	}
	// Anything else is a bare expression statement (typically a call).
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{at: posOf(tok), X: x}, nil
}

func posOf(tok Token) at { return at{Line: tok.Line, Col: tok.Col} }

func (p *parser) letStmt(tok Token) (Stmt, error) {
	name, err := p.need(IDENT, "expected a name after 'let'")
	if err != nil {
		return nil, err
	}
	if err := p.needKw("be", "expected 'be' after the name in 'let'"); err != nil {
		return nil, err
	}
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &LetStmt{at: posOf(tok), Name: name.Lexeme, Value: v}, nil
}

func (p *parser) setStmt(tok Token) (Stmt, error) {
	name, err := p.need(IDENT, "expected a name after 'set'")
	if err != nil {
		return nil, err
	}
	if err := p.needKw("to", "expected 'to' after the name in 'set'"); err != nil {
		return nil, err
	}
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &SetStmt{at: posOf(tok), Name: name.Lexeme, Value: v}, nil
}

func (p *parser) printStmt(tok Token) (Stmt, error) {
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &PrintStmt{at: posOf(tok), Value: v}, nil
}

func (p *parser) ifStmt(tok Token) (Stmt, error) {
	st := &IfStmt{at: posOf(tok)}
	for {
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(COLON, "expected ':' after condition"); err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		st.Arms = append(st.Arms, IfArm{Cond: cond, Body: body})

		if p.match(END) {
			return st, nil
		}
		if p.matchKw("otherwise") {
			if p.matchKw("if") {
				continue
			}
			if _, err := p.need(COLON, "expected ':' after 'otherwise'"); err != nil {
				return nil, err
			}
			st.Else, err = p.block()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(END, "expected 'end' to close 'if'"); err != nil {
				return nil, err
			}
			return st, nil
		}
		return nil, p.fail("expected 'end' to close 'if'")
	}
}

// repeatStmt disambiguates the two loop forms by lookahead: an update
// statement (`let ...`, `set ...`, or the `<name> be ...` shorthand) starts
// the conditional loop, anything else is a counted loop.
func (p *parser) repeatStmt(tok Token) (Stmt, error) {
	if p.peekKw("let") || p.peekKw("set") ||
		(p.peek().Type == IDENT && isKw(p.peekN(1), "be")) {
		return p.repeatUntilStmt(tok)
	}
	count, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.needKw("times", "expected 'times' after the repeat count"); err != nil {
		return nil, err
	}
	name := "it"
	if p.matchKw("as") {
		id, err := p.need(IDENT, "expected a name after 'as'")
		if err != nil {
			return nil, err
		}
		name = id.Lexeme
	}
	if _, err := p.need(COLON, "expected ':' after 'times'"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(END, "expected 'end' to close 'repeat'"); err != nil {
		return nil, err
	}
	return &RepeatCountStmt{at: posOf(tok), Count: count, Var: name, Body: body}, nil
}

func (p *parser) repeatUntilStmt(tok Token) (Stmt, error) {
	update, err := p.updateStmt()
	if err != nil {
		return nil, err
	}
	if err := p.needKw("until", "expected 'until' after the loop update"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(COLON, "expected ':' after the 'until' condition"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(END, "expected 'end' to close 'repeat'"); err != nil {
		return nil, err
	}
	return &RepeatUntilStmt{at: posOf(tok), Update: update, Cond: cond, Body: body}, nil
}

// updateStmt parses the restricted statement allowed between `repeat` and
// `until`: `let <name> be <expr>`, `set <name> to <expr>`, or the shorthand
// `<name> be <expr>` (equivalent to `set`).
func (p *parser) updateStmt() (Stmt, error) {
	tok := p.peek()
	if p.matchKw("let") {
		return p.letStmt(tok)
	}
	if p.matchKw("set") {
		return p.setStmt(tok)
	}
	name, err := p.need(IDENT, "expected a loop update before 'until'")
	if err != nil {
		return nil, err
	}
	if err := p.needKw("be", "expected 'be' in the loop update"); err != nil {
		return nil, err
	}
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &SetStmt{at: posOf(tok), Name: name.Lexeme, Value: v}, nil
}

func (p *parser) funcDefStmt(tok Token) (Stmt, error) {
	name, err := p.need(IDENT, "expected a function name after 'to'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "expected '(' after the function name"); err != nil {
		return nil, err
	}
	var params []Param
	if p.peek().Type != RPAREN {
		for {
			id, err := p.need(IDENT, "expected a parameter name")
			if err != nil {
				return nil, err
			}
			param := Param{Name: id.Lexeme}
			if p.match(ASSIGN) {
				param.Default, err = p.expression()
				if err != nil {
					return nil, err
				}
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "expected ')' after the parameter list"); err != nil {
		return nil, err
	}
	if _, err := p.need(COLON, "expected ':' after the parameter list"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(END, "expected 'end' to close the function"); err != nil {
		return nil, err
	}
	return &FuncDefStmt{at: posOf(tok), Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *parser) returnStmt(tok Token) (Stmt, error) {
	if err := p.needKw("back", "expected 'back' after 'give'"); err != nil {
		return nil, err
	}
	st := &ReturnStmt{at: posOf(tok)}
	if p.peek().Type != NEWLINE && !p.blockDone() {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		st.Value = v
	}
	return st, nil
}

// point parses a coordinate pair, either `(x, y)` or bare `x, y`.
func (p *parser) point() (x, y Expr, err error) {
	parens := p.match(LPAREN)
	x, err = p.expression()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.need(COMMA, "expected ',' between coordinates"); err != nil {
		return nil, nil, err
	}
	y, err = p.expression()
	if err != nil {
		return nil, nil, err
	}
	if parens {
		if _, err := p.need(RPAREN, "expected ')' after coordinates"); err != nil {
			return nil, nil, err
		}
	}
	return x, y, nil
}

func (p *parser) circleStmt(tok Token) (Stmt, error) {
	if err := p.needKw("at", "expected 'at' after 'circle'"); err != nil {
		return nil, err
	}
	x, y, err := p.point()
	if err != nil {
		return nil, err
	}
	if err := p.needKw("radius", "expected 'radius' after the circle position"); err != nil {
		return nil, err
	}
	r, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &CircleStmt{at: posOf(tok), X: x, Y: y, R: r}, nil
}

func (p *parser) rectStmt(tok Token) (Stmt, error) {
	if err := p.needKw("at", "expected 'at' after 'rect'"); err != nil {
		return nil, err
	}
	x, y, err := p.point()
	if err != nil {
		return nil, err
	}
	if err := p.needKw("width", "expected 'width' after the rect position"); err != nil {
		return nil, err
	}
	w, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.needKw("height", "expected 'height' after the rect width"); err != nil {
		return nil, err
	}
	h, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &RectStmt{at: posOf(tok), X: x, Y: y, W: w, H: h}, nil
}

func (p *parser) lineStmt(tok Token) (Stmt, error) {
	if err := p.needKw("from", "expected 'from' after 'line'"); err != nil {
		return nil, err
	}
	x1, y1, err := p.point()
	if err != nil {
		return nil, err
	}
	if err := p.needKw("to", "expected 'to' after the line start point"); err != nil {
		return nil, err
	}
	x2, y2, err := p.point()
	if err != nil {
		return nil, err
	}
	return &LineStmt{at: posOf(tok), X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
}

func (p *parser) textStmt(tok Token) (Stmt, error) {
	content, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.needKw("at", "expected 'at' after the text content"); err != nil {
		return nil, err
	}
	x, y, err := p.point()
	if err != nil {
		return nil, err
	}
	st := &TextStmt{at: posOf(tok), Content: content, X: x, Y: y}
	if p.matchKw("size") {
		st.Size, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (p *parser) useStmt(tok Token) (Stmt, error) {
	if p.matchKw("fill") {
		c, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &FillStmt{at: posOf(tok), Color: c}, nil
	}
	if p.matchKw("stroke") {
		c, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.needKw("width", "expected 'width' after the stroke color"); err != nil {
			return nil, err
		}
		w, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &StrokeStmt{at: posOf(tok), Color: c, Width: w}, nil
	}
	return nil, p.fail("expected 'fill' or 'stroke' after 'use'")
}

func (p *parser) noStmt(tok Token) (Stmt, error) {
	if p.matchKw("fill") {
		return &NoFillStmt{at: posOf(tok)}, nil
	}
	if p.matchKw("stroke") {
		return &NoStrokeStmt{at: posOf(tok)}, nil
	}
	return nil, p.fail("expected 'fill' or 'stroke' after 'no'")
}

func (p *parser) startStmt(tok Token) (Stmt, error) {
	if err := p.needKw("svg", "expected 'svg' after 'start'"); err != nil {
		return nil, err
	}
	if err := p.needKw("width", "expected 'width' after 'start svg'"); err != nil {
		return nil, err
	}
	w, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.needKw("height", "expected 'height' after the canvas width"); err != nil {
		return nil, err
	}
	h, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &StartCanvasStmt{at: posOf(tok), Width: w, Height: h}, nil
}

func (p *parser) finishStmt(tok Token) (Stmt, error) {
	if err := p.needKw("svg", "expected 'svg' after 'finish'"); err != nil {
		return nil, err
	}
	return &FinishCanvasStmt{at: posOf(tok)}, nil
}

// ─────────────────────────────── expressions ────────────────────────────────

func (p *parser) expression() (Expr, error) { return p.orExpr() }

func (p *parser) orExpr() (Expr, error) {
	l, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.peekKw("or") {
		op := p.peek()
		p.i++
		r, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		l = &BinaryExpr{at: posOf(op), Op: "or", L: l, R: r}
	}
	return l, nil
}

func (p *parser) andExpr() (Expr, error) {
	l, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.peekKw("and") {
		op := p.peek()
		p.i++
		r, err := p.equality()
		if err != nil {
			return nil, err
		}
		l = &BinaryExpr{at: posOf(op), Op: "and", L: l, R: r}
	}
	return l, nil
}

var binOpText = map[TokenType]string{
	EQ:      "==",
	NEQ:     "!=",
	LT:      "<",
	LTE:     "<=",
	GT:      ">",
	GTE:     ">=",
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
}

func (p *parser) binaryLevel(next func() (Expr, error), ops ...TokenType) (Expr, error) {
	l, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.prev()
		r, err := next()
		if err != nil {
			return nil, err
		}
		l = &BinaryExpr{at: posOf(op), Op: binOpText[op.Type], L: l, R: r}
	}
	return l, nil
}

func (p *parser) equality() (Expr, error) {
	return p.binaryLevel(p.relational, EQ, NEQ)
}

func (p *parser) relational() (Expr, error) {
	return p.binaryLevel(p.additive, LT, LTE, GT, GTE)
}

func (p *parser) additive() (Expr, error) {
	return p.binaryLevel(p.multiplicative, PLUS, MINUS)
}

func (p *parser) multiplicative() (Expr, error) {
	return p.binaryLevel(p.unary, STAR, SLASH, PERCENT)
}

func (p *parser) unary() (Expr, error) {
	if p.peek().Type == MINUS || p.peekKw("not") {
		op := p.peek()
		p.i++
		text := "-"
		if op.Type == IDENT {
			text = "not"
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{at: posOf(op), Op: text, Operand: operand}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.i++
		return &NumberLit{at: posOf(tok), Value: tok.Literal.(float64)}, nil
	case STRING:
		p.i++
		return &StringLit{at: posOf(tok), Value: tok.Literal.(string)}, nil
	case IDENT:
		p.i++
		switch strings.ToLower(tok.Lexeme) {
		case "true":
			return &BoolLit{at: posOf(tok), Value: true}, nil
		case "false":
			return &BoolLit{at: posOf(tok), Value: false}, nil
		}
		if p.peek().Type == LPAREN {
			return p.callArgs(tok)
		}
		return &Ident{at: posOf(tok), Name: tok.Lexeme}, nil
	case LPAREN:
		p.i++
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "expected ')' to close the group"); err != nil {
			return nil, err
		}
		return &GroupExpr{at: posOf(tok), X: x}, nil
	}
	return nil, p.fail("expected an expression")
}

// callArgs parses `(arg, ...)` after an identifier. Arguments are positional
// unless written `name = expr`.
func (p *parser) callArgs(callee Token) (Expr, error) {
	p.i++ // consume '('
	call := &CallExpr{at: posOf(callee), Callee: callee.Lexeme}
	if p.peek().Type != RPAREN {
		for {
			var arg Arg
			if p.peek().Type == IDENT && p.peekN(1).Type == ASSIGN {
				arg.Name = p.peek().Lexeme
				p.i += 2
			}
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			arg.Value = v
			call.Args = append(call.Args, arg)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "expected ')' after the call arguments"); err != nil {
		return nil, err
	}
	return call, nil
}
