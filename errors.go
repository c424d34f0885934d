// errors.go — evaluation-time error taxonomy and caret-snippet rendering.
//
// Lexing and parsing keep their own error types (LexError in lexer.go,
// ParseError in parser.go). Everything that fails during evaluation is a
// *RuntimeError with a Kind from the taxonomy below and, where available,
// a 1-based line/column. All errors are terminal: the first one encountered
// surfaces and any partially built document is discarded.
package sketchlang

import (
	"fmt"
	"strings"
)

// ErrKind classifies evaluation-time failures.
type ErrKind int

const (
	ErrRuntime          ErrKind = iota // drawing before `start svg`, return outside a function, ...
	ErrName                            // undefined variable or function
	ErrType                            // operator/statement applied to the wrong value kind
	ErrTooManyArguments                // more unnamed arguments than declared parameters
	ErrMissingArgument                 // a parameter left unbound with no default
	ErrUnknownArgument                 // a named argument matching no parameter
	ErrLimit                           // execution budget exceeded
)

func (k ErrKind) String() string {
	switch k {
	case ErrName:
		return "NAME ERROR"
	case ErrType:
		return "TYPE ERROR"
	case ErrTooManyArguments, ErrMissingArgument, ErrUnknownArgument:
		return "ARGUMENT ERROR"
	case ErrLimit:
		return "EXECUTION LIMIT EXCEEDED"
	default:
		return "RUNTIME ERROR"
	}
}

// RuntimeError reports an evaluation failure with a 1-based position.
type RuntimeError struct {
	Kind ErrKind
	Msg  string
	Line int
	Col  int
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes lexer, parser, and runtime
// errors and leaves other errors untouched. The snippet shows the header,
// the 1-based line:column, one line of context either side, and a caret
// aligned under the offending column — suitable for logs and terminals,
// no ANSI escapes.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", e.Line, e.Col, e.Msg))
	case *RuntimeError:
		if e.Line < 1 {
			return err
		}
		return fmt.Errorf("%s", snippet(src, e.Kind.String(), e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// snippet builds a Python-like caret snippet. Coordinates are 1-based and
// clamped to the source bounds so rendering never panics.
func snippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
