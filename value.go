// value.go — the runtime value model and the lexical environment chain.
package sketchlang

import (
	"fmt"
	"math"
	"strconv"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull ValueTag = iota // null (no payload)
	VTBool                 // bool
	VTNum                  // float64
	VTStr                  // string
	VTFun                  // *Fun (user-defined closure)
)

func (t ValueTag) String() string {
	switch t {
	case VTNull:
		return "null"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTFun:
		return "function"
	}
	return "unknown"
}

// Value is the universal runtime carrier used by the evaluator. The tag
// determines which Go type Data holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

var Null = Value{Tag: VTNull}

func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value { return Value{Tag: VTStr, Data: s} }
func Bool(b bool) Value { return Value{Tag: VTBool, Data: b} }
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

func (v Value) Num() float64 { return v.Data.(float64) }
func (v Value) Str() string { return v.Data.(string) }
func (v Value) Bool() bool { return v.Data.(bool) }

// Fun is a first-class function value: its parameter list, its body, and the
// environment that was active at definition time. The closure environment is
// shared, never copied; every call builds a fresh activation frame whose
// parent is this environment, which is what makes scoping lexical rather
// than dynamic.
type Fun struct {
	Name   string
	Params []Param
	Body   []Stmt
	Env    *Env
}

// Truthy applies the coercion used by the logical operators: booleans are
// their own truth value, nonzero numbers and non-empty strings are true,
// everything else (including null) is false.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTBool:
		return v.Bool()
	case VTNum:
		return v.Num() != 0
	case VTStr:
		return v.Str() != ""
	default:
		return false
	}
}

// Equal compares runtime type and value together: values of differing tags
// are never equal.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNull:
		return true
	case VTBool:
		return a.Bool() == b.Bool()
	case VTNum:
		return a.Num() == b.Num()
	case VTStr:
		return a.Str() == b.Str()
	case VTFun:
		return a.Data == b.Data
	}
	return false
}

// FormatValue renders a value the way `print` and the REPL show it.
// Integral numbers render without a fractional part so they round-trip.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case VTNum:
		return formatNum(v.Num())
	case VTStr:
		return v.Str()
	case VTFun:
		f := v.Data.(*Fun)
		if f.Name != "" {
			return fmt.Sprintf("<function %s>", f.Name)
		}
		return "<function>"
	}
	return "<unknown>"
}

func formatNum(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Env is one lexical frame: a name-to-value table plus a navigational link
// to the enclosing frame. Lookup and assignment walk innermost-out;
// declaration always binds in this frame, shadowing any outer binding.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name to v in this frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Assign updates the nearest enclosing binding of name. When no frame
// declares the name it is defined at the outermost frame; this leniency is
// deliberate (see DESIGN.md) so `set` never fails on a fresh name.
func (e *Env) Assign(name string, v Value) {
	outermost := e
	for f := e; f != nil; f = f.parent {
		if _, ok := f.table[name]; ok {
			f.table[name] = v
			return
		}
		outermost = f
	}
	outermost.table[name] = v
}
