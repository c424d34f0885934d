// interp.go — the tree-walking evaluator.
//
// Execution is strictly single-threaded and synchronous: statements run in
// order against a chain of lexical frames, expressions are evaluated
// eagerly, and the only side effects are prints (to the configured writer)
// and drawing operations on the canvas.
//
// Non-local return is an explicit control signal threaded through statement
// execution (the ctrl result), not a panic: `give back` is expected and
// frequent, genuine failures travel the error path.
package sketchlang

import (
	"fmt"
	"io"
	"math"
	"os"
)

// Interp evaluates SketchLang programs. Out receives `print` output; Limit,
// when positive, caps the number of evaluated statements and expressions so
// runaway loops and recursion fail fast instead of hanging the host.
type Interp struct {
	Out   io.Writer
	Limit int

	steps  int
	global *Env
	canvas *Canvas
}

// New returns an interpreter with a fresh global environment and canvas,
// printing to stdout and with no execution budget.
func New() *Interp {
	return &Interp{Out: os.Stdout, global: NewEnv(nil), canvas: &Canvas{}}
}

// Canvas exposes the drawing state, e.g. for a REPL to show the document
// built so far.
func (ip *Interp) Canvas() *Canvas { return ip.canvas }

// ctrl is the statement execution result: either fall through to the next
// statement or unwind to the nearest call site carrying a return value.
type ctrl int

const (
	ctrlNormal ctrl = iota
	ctrlReturn
)

type positioned interface {
	Pos() (line, col int)
}

func rtErr(n positioned, kind ErrKind, format string, args ...interface{}) *RuntimeError {
	line, col := n.Pos()
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

// tick charges one evaluated statement or expression against the budget.
func (ip *Interp) tick(n positioned) error {
	ip.steps++
	if ip.Limit > 0 && ip.steps > ip.Limit {
		return rtErr(n, ErrLimit, "execution budget of %d operations exceeded", ip.Limit)
	}
	return nil
}

// ─────────────────────────────── statements ─────────────────────────────────

// execBlock runs stmts in order. The returned value is the return value when
// c is ctrlReturn, otherwise the value of the last executed statement (bare
// expressions yield their value, everything else yields null).
func (ip *Interp) execBlock(stmts []Stmt, env *Env) (c ctrl, v Value, err error) {
	v = Null
	for _, s := range stmts {
		c, v, err = ip.execStmt(s, env)
		if err != nil || c == ctrlReturn {
			return c, v, err
		}
	}
	return ctrlNormal, v, nil
}

func (ip *Interp) execStmt(s Stmt, env *Env) (ctrl, Value, error) {
	if err := ip.tick(s); err != nil {
		return ctrlNormal, Null, err
	}

	switch st := s.(type) {
	case *LetStmt:
		v, err := ip.evalExpr(st.Value, env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		env.Define(st.Name, v)
		return ctrlNormal, Null, nil

	case *SetStmt:
		v, err := ip.evalExpr(st.Value, env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		env.Assign(st.Name, v)
		return ctrlNormal, Null, nil

	case *PrintStmt:
		v, err := ip.evalExpr(st.Value, env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		fmt.Fprintln(ip.Out, FormatValue(v))
		return ctrlNormal, Null, nil

	case *IfStmt:
		for _, arm := range st.Arms {
			cond, err := ip.evalExpr(arm.Cond, env)
			if err != nil {
				return ctrlNormal, Null, err
			}
			if Truthy(cond) {
				return ip.execBlock(arm.Body, NewEnv(env))
			}
		}
		if st.Else != nil {
			return ip.execBlock(st.Else, NewEnv(env))
		}
		return ctrlNormal, Null, nil

	case *RepeatCountStmt:
		return ip.execRepeatCount(st, env)

	case *RepeatUntilStmt:
		return ip.execRepeatUntil(st, env)

	case *FuncDefStmt:
		fn := &Fun{Name: st.Name, Params: st.Params, Body: st.Body, Env: env}
		env.Define(st.Name, FunVal(fn))
		return ctrlNormal, Null, nil

	case *ReturnStmt:
		v := Null
		if st.Value != nil {
			var err error
			v, err = ip.evalExpr(st.Value, env)
			if err != nil {
				return ctrlNormal, Null, err
			}
		}
		return ctrlReturn, v, nil

	case *ExprStmt:
		v, err := ip.evalExpr(st.X, env)
		return ctrlNormal, v, err

	case *CircleStmt:
		if err := ip.needCanvas(st); err != nil {
			return ctrlNormal, Null, err
		}
		x, y, err := ip.evalNumPair(st.X, st.Y, env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		r, err := ip.evalNum(st.R, "circle radius", env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		ip.canvas.Circle(x, y, r)
		return ctrlNormal, Null, nil

	case *RectStmt:
		if err := ip.needCanvas(st); err != nil {
			return ctrlNormal, Null, err
		}
		x, y, err := ip.evalNumPair(st.X, st.Y, env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		w, err := ip.evalNum(st.W, "rect width", env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		h, err := ip.evalNum(st.H, "rect height", env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		ip.canvas.Rect(x, y, w, h)
		return ctrlNormal, Null, nil

	case *LineStmt:
		if err := ip.needCanvas(st); err != nil {
			return ctrlNormal, Null, err
		}
		x1, y1, err := ip.evalNumPair(st.X1, st.Y1, env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		x2, y2, err := ip.evalNumPair(st.X2, st.Y2, env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		ip.canvas.Line(x1, y1, x2, y2)
		return ctrlNormal, Null, nil

	case *TextStmt:
		if err := ip.needCanvas(st); err != nil {
			return ctrlNormal, Null, err
		}
		content, err := ip.evalExpr(st.Content, env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		x, y, err := ip.evalNumPair(st.X, st.Y, env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		size := 16.0
		if st.Size != nil {
			size, err = ip.evalNum(st.Size, "text size", env)
			if err != nil {
				return ctrlNormal, Null, err
			}
		}
		ip.canvas.Text(FormatValue(content), x, y, size)
		return ctrlNormal, Null, nil

	case *FillStmt:
		if err := ip.needCanvas(st); err != nil {
			return ctrlNormal, Null, err
		}
		color, err := ip.evalStr(st.Color, "fill color", env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		ip.canvas.SetFill(color)
		return ctrlNormal, Null, nil

	case *StrokeStmt:
		if err := ip.needCanvas(st); err != nil {
			return ctrlNormal, Null, err
		}
		color, err := ip.evalStr(st.Color, "stroke color", env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		width, err := ip.evalNum(st.Width, "stroke width", env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		ip.canvas.SetStroke(color, width)
		return ctrlNormal, Null, nil

	case *NoFillStmt:
		if err := ip.needCanvas(st); err != nil {
			return ctrlNormal, Null, err
		}
		ip.canvas.ClearFill()
		return ctrlNormal, Null, nil

	case *NoStrokeStmt:
		if err := ip.needCanvas(st); err != nil {
			return ctrlNormal, Null, err
		}
		ip.canvas.ClearStroke()
		return ctrlNormal, Null, nil

	case *StartCanvasStmt:
		w, err := ip.evalNum(st.Width, "canvas width", env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		h, err := ip.evalNum(st.Height, "canvas height", env)
		if err != nil {
			return ctrlNormal, Null, err
		}
		ip.canvas.Start(w, h)
		return ctrlNormal, Null, nil

	case *FinishCanvasStmt:
		if err := ip.needCanvas(st); err != nil {
			return ctrlNormal, Null, err
		}
		return ctrlNormal, Null, nil
	}

	return ctrlNormal, Null, rtErr(s, ErrRuntime, "unhandled statement %T", s)
}

func (ip *Interp) needCanvas(s positioned) error {
	if !ip.canvas.Started() {
		return rtErr(s, ErrRuntime, "must 'start svg' before drawing or finishing")
	}
	return nil
}

// execRepeatCount: the count is evaluated once at entry, floored, clamped at
// zero; the loop variable is rebound to 1..count in the loop's own frame.
func (ip *Interp) execRepeatCount(st *RepeatCountStmt, env *Env) (ctrl, Value, error) {
	n, err := ip.evalNum(st.Count, "repeat count", env)
	if err != nil {
		return ctrlNormal, Null, err
	}
	count := int(math.Floor(n))
	if count < 0 {
		count = 0
	}
	loop := NewEnv(env)
	for i := 1; i <= count; i++ {
		loop.Define(st.Var, Num(float64(i)))
		c, v, err := ip.execBlock(st.Body, NewEnv(loop))
		if err != nil || c == ctrlReturn {
			return c, v, err
		}
	}
	return ctrlNormal, Null, nil
}

// execRepeatUntil: per iteration the update runs first, then the condition
// is tested — when true the loop stops without running the body. The update
// therefore always runs at least once, even if the condition already holds.
func (ip *Interp) execRepeatUntil(st *RepeatUntilStmt, env *Env) (ctrl, Value, error) {
	loop := NewEnv(env)
	for {
		if _, _, err := ip.execStmt(st.Update, loop); err != nil {
			return ctrlNormal, Null, err
		}
		cond, err := ip.evalExpr(st.Cond, loop)
		if err != nil {
			return ctrlNormal, Null, err
		}
		if Truthy(cond) {
			return ctrlNormal, Null, nil
		}
		c, v, err := ip.execBlock(st.Body, NewEnv(loop))
		if err != nil || c == ctrlReturn {
			return c, v, err
		}
	}
}

// ─────────────────────────────── expressions ────────────────────────────────

func (ip *Interp) evalExpr(e Expr, env *Env) (Value, error) {
	if err := ip.tick(e); err != nil {
		return Null, err
	}

	switch x := e.(type) {
	case *NumberLit:
		return Num(x.Value), nil
	case *StringLit:
		return Str(x.Value), nil
	case *BoolLit:
		return Bool(x.Value), nil
	case *GroupExpr:
		return ip.evalExpr(x.X, env)

	case *Ident:
		v, ok := env.Get(x.Name)
		if !ok {
			return Null, rtErr(x, ErrName, "undefined variable: %s", x.Name)
		}
		return v, nil

	case *UnaryExpr:
		operand, err := ip.evalExpr(x.Operand, env)
		if err != nil {
			return Null, err
		}
		switch x.Op {
		case "-":
			if operand.Tag != VTNum {
				return Null, rtErr(x, ErrType, "operator '-' requires a number, got %s", operand.Tag)
			}
			return Num(-operand.Num()), nil
		case "not":
			return Bool(!Truthy(operand)), nil
		}
		return Null, rtErr(x, ErrRuntime, "unhandled unary operator %q", x.Op)

	case *BinaryExpr:
		return ip.evalBinary(x, env)

	case *CallExpr:
		return ip.evalCall(x, env)
	}

	return Null, rtErr(e, ErrRuntime, "unhandled expression %T", e)
}

func (ip *Interp) evalBinary(x *BinaryExpr, env *Env) (Value, error) {
	// Both operands evaluate eagerly; 'and'/'or' do not short-circuit.
	l, err := ip.evalExpr(x.L, env)
	if err != nil {
		return Null, err
	}
	r, err := ip.evalExpr(x.R, env)
	if err != nil {
		return Null, err
	}

	switch x.Op {
	case "+":
		if l.Tag == VTNum && r.Tag == VTNum {
			return Num(l.Num() + r.Num()), nil
		}
		return Str(FormatValue(l) + FormatValue(r)), nil

	case "-", "*", "/", "%":
		if l.Tag != VTNum || r.Tag != VTNum {
			return Null, rtErr(x, ErrType, "operator '%s' requires numbers, got %s and %s", x.Op, l.Tag, r.Tag)
		}
		a, b := l.Num(), r.Num()
		switch x.Op {
		case "-":
			return Num(a - b), nil
		case "*":
			return Num(a * b), nil
		case "/":
			return Num(a / b), nil
		default:
			return Num(math.Mod(a, b)), nil
		}

	case "==":
		return Bool(Equal(l, r)), nil
	case "!=":
		return Bool(!Equal(l, r)), nil

	case "<", "<=", ">", ">=":
		if l.Tag != VTNum || r.Tag != VTNum {
			return Null, rtErr(x, ErrType, "operator '%s' requires numbers, got %s and %s", x.Op, l.Tag, r.Tag)
		}
		a, b := l.Num(), r.Num()
		switch x.Op {
		case "<":
			return Bool(a < b), nil
		case "<=":
			return Bool(a <= b), nil
		case ">":
			return Bool(a > b), nil
		default:
			return Bool(a >= b), nil
		}

	case "and":
		return Bool(Truthy(l) && Truthy(r)), nil
	case "or":
		return Bool(Truthy(l) || Truthy(r)), nil
	}

	return Null, rtErr(x, ErrRuntime, "unhandled binary operator %q", x.Op)
}

// evalCall resolves the callee, builds a fresh activation frame parented on
// the function's captured closure (not the caller's frame), binds arguments,
// and runs the body. Each call gets its own frame, so recursion needs no
// special casing.
func (ip *Interp) evalCall(x *CallExpr, env *Env) (Value, error) {
	v, ok := env.Get(x.Callee)
	if !ok {
		return Null, rtErr(x, ErrName, "undefined function: %s", x.Callee)
	}
	if v.Tag != VTFun {
		return Null, rtErr(x, ErrName, "'%s' is not a function, it is a %s", x.Callee, v.Tag)
	}
	fn := v.Data.(*Fun)

	frame := NewEnv(fn.Env)
	bound := make([]bool, len(fn.Params))

	// Unnamed arguments fill parameters left to right; named arguments bind
	// by name in any position, overriding a binding already made.
	pos := 0
	for _, a := range x.Args {
		av, err := ip.evalExpr(a.Value, env)
		if err != nil {
			return Null, err
		}
		if a.Name == "" {
			if pos >= len(fn.Params) {
				return Null, rtErr(x, ErrTooManyArguments,
					"too many arguments in call to %s: expected %d", x.Callee, len(fn.Params))
			}
			frame.Define(fn.Params[pos].Name, av)
			bound[pos] = true
			pos++
			continue
		}
		idx := -1
		for i, prm := range fn.Params {
			if prm.Name == a.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return Null, rtErr(x, ErrUnknownArgument,
				"unknown argument '%s' in call to %s", a.Name, x.Callee)
		}
		frame.Define(a.Name, av)
		bound[idx] = true
	}

	// Defaults evaluate in the call frame, so they may reference parameters
	// bound above.
	for i, prm := range fn.Params {
		if bound[i] {
			continue
		}
		if prm.Default == nil {
			return Null, rtErr(x, ErrMissingArgument,
				"missing argument '%s' in call to %s", prm.Name, x.Callee)
		}
		dv, err := ip.evalExpr(prm.Default, frame)
		if err != nil {
			return Null, err
		}
		frame.Define(prm.Name, dv)
	}

	c, rv, err := ip.execBlock(fn.Body, frame)
	if err != nil {
		return Null, err
	}
	if c == ctrlReturn {
		return rv, nil
	}
	return Null, nil
}

// ───────────────────────────── typed evaluation ─────────────────────────────

func (ip *Interp) evalNum(e Expr, what string, env *Env) (float64, error) {
	v, err := ip.evalExpr(e, env)
	if err != nil {
		return 0, err
	}
	if v.Tag != VTNum {
		return 0, rtErr(e, ErrType, "%s must be a number, got %s", what, v.Tag)
	}
	return v.Num(), nil
}

func (ip *Interp) evalNumPair(ex, ey Expr, env *Env) (x, y float64, err error) {
	x, err = ip.evalNum(ex, "x coordinate", env)
	if err != nil {
		return 0, 0, err
	}
	y, err = ip.evalNum(ey, "y coordinate", env)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func (ip *Interp) evalStr(e Expr, what string, env *Env) (string, error) {
	v, err := ip.evalExpr(e, env)
	if err != nil {
		return "", err
	}
	if v.Tag != VTStr {
		return "", rtErr(e, ErrType, "%s must be a string, got %s", what, v.Tag)
	}
	return v.Str(), nil
}
