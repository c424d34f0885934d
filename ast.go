// ast.go — statement and expression nodes produced by the parser.
//
// Both families are closed tagged-variant sets: an unexported marker method
// keeps outside packages from adding variants, and the evaluator switches
// exhaustively over them. Every node records the 1-based line/column of its
// introducing token so runtime errors can point back into the source.
package sketchlang

// at is embedded by every node to carry its source position.
type at struct {
	Line int
	Col  int
}

func (a at) Pos() (line, col int) { return a.Line, a.Col }

// Stmt is one executable statement.
type Stmt interface {
	Pos() (line, col int)
	stmtNode()
}

// Expr is one evaluable expression.
type Expr interface {
	Pos() (line, col int)
	exprNode()
}

// ───────────────────────────── statements ───────────────────────────────

// LetStmt — `let <name> be <expr>`: introduces a binding in the current frame.
type LetStmt struct {
	at
	Name  string
	Value Expr
}

// SetStmt — `set <name> to <expr>`: updates the nearest enclosing binding.
type SetStmt struct {
	at
	Name  string
	Value Expr
}

// PrintStmt — `print <expr>`.
type PrintStmt struct {
	at
	Value Expr
}

// IfArm is one `if`/`otherwise if` condition with its block.
type IfArm struct {
	Cond Expr
	Body []Stmt
}

// IfStmt — `if ...: ... (otherwise if ...: ...)* (otherwise: ...)? end`.
type IfStmt struct {
	at
	Arms []IfArm
	Else []Stmt // nil when no final `otherwise`
}

// RepeatCountStmt — `repeat <expr> times [as <name>]: ... end`.
// Var is "it" when no name was given.
type RepeatCountStmt struct {
	at
	Count Expr
	Var   string
	Body  []Stmt
}

// RepeatUntilStmt — `repeat <update> until <expr>: ... end`.
// Update is restricted by the parser to *LetStmt or *SetStmt.
type RepeatUntilStmt struct {
	at
	Update Stmt
	Cond   Expr
	Body   []Stmt
}

// Param is one declared function parameter with an optional default.
type Param struct {
	Name    string
	Default Expr // nil when the parameter has no default
}

// FuncDefStmt — `to <name>(<params>): ... end`.
type FuncDefStmt struct {
	at
	Name   string
	Params []Param
	Body   []Stmt
}

// ReturnStmt — `give back [expr]`. Value is nil for a bare `give back`.
type ReturnStmt struct {
	at
	Value Expr
}

// ExprStmt is a bare expression in statement position (typically a call).
type ExprStmt struct {
	at
	X Expr
}

// CircleStmt — `circle at (<x>, <y>) radius <r>`.
type CircleStmt struct {
	at
	X, Y, R Expr
}

// RectStmt — `rect at (<x>, <y>) width <w> height <h>`.
type RectStmt struct {
	at
	X, Y, W, H Expr
}

// LineStmt — `line from (<x1>, <y1>) to (<x2>, <y2>)`.
type LineStmt struct {
	at
	X1, Y1, X2, Y2 Expr
}

// TextStmt — `text <content> at (<x>, <y>) [size <s>]`. Size is nil when omitted.
type TextStmt struct {
	at
	Content Expr
	X, Y    Expr
	Size    Expr
}

// FillStmt — `use fill <expr>`.
type FillStmt struct {
	at
	Color Expr
}

// StrokeStmt — `use stroke <expr> width <expr>`.
type StrokeStmt struct {
	at
	Color Expr
	Width Expr
}

// NoFillStmt — `no fill`.
type NoFillStmt struct{ at }

// NoStrokeStmt — `no stroke`.
type NoStrokeStmt struct{ at }

// StartCanvasStmt — `start svg width <expr> height <expr>`.
type StartCanvasStmt struct {
	at
	Width  Expr
	Height Expr
}

// FinishCanvasStmt — `finish svg`.
type FinishCanvasStmt struct{ at }

func (*LetStmt) stmtNode()          {}
func (*SetStmt) stmtNode()          {}
func (*PrintStmt) stmtNode()        {}
func (*IfStmt) stmtNode()           {}
func (*RepeatCountStmt) stmtNode()  {}
func (*RepeatUntilStmt) stmtNode()  {}
func (*FuncDefStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()       {}
func (*ExprStmt) stmtNode()         {}
func (*CircleStmt) stmtNode()       {}
func (*RectStmt) stmtNode()         {}
func (*LineStmt) stmtNode()         {}
func (*TextStmt) stmtNode()         {}
func (*FillStmt) stmtNode()         {}
func (*StrokeStmt) stmtNode()       {}
func (*NoFillStmt) stmtNode()       {}
func (*NoStrokeStmt) stmtNode()     {}
func (*StartCanvasStmt) stmtNode()  {}
func (*FinishCanvasStmt) stmtNode() {}

// ───────────────────────────── expressions ──────────────────────────────

// NumberLit is a numeric literal (always a 64-bit float at runtime).
type NumberLit struct {
	at
	Value float64
}

// StringLit is a double-quoted string literal, escapes already decoded.
type StringLit struct {
	at
	Value string
}

// BoolLit is `true` or `false` (any casing).
type BoolLit struct {
	at
	Value bool
}

// Ident is a variable reference. Names are case-sensitive.
type Ident struct {
	at
	Name string
}

// Arg is one call argument; Name is "" for positional arguments.
type Arg struct {
	Name  string
	Value Expr
}

// CallExpr — `<name>(<args>)`.
type CallExpr struct {
	at
	Callee string
	Args   []Arg
}

// UnaryExpr — prefix `-` or `not`.
type UnaryExpr struct {
	at
	Op      string
	Operand Expr
}

// BinaryExpr — left-associative binary operation.
type BinaryExpr struct {
	at
	Op   string
	L, R Expr
}

// GroupExpr — a parenthesized expression.
type GroupExpr struct {
	at
	X Expr
}

func (*NumberLit) exprNode()  {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*Ident) exprNode()      {}
func (*CallExpr) exprNode()   {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*GroupExpr) exprNode()  {}
