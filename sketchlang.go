// sketchlang.go — public entry points for the SketchLang core.
//
// SketchLang is a small English-like drawing language: source text is lexed,
// parsed into a statement list, and tree-walk evaluated; the program builds
// an SVG document as a side effect and the serialized markup is the result.
//
//	start svg width 200 height 200
//	use fill "tomato"
//	repeat 5 times as i:
//	    circle at (40 * i, 100) radius 15
//	end
//	finish svg
//
// The usual entry point is Run (or RunWithLimit to bound execution). Hosts
// that need persistent state between snippets — the REPL does — create an
// Interp and feed it EvalSource calls.
package sketchlang

// Version of the SketchLang core.
const Version = "0.4.1"

// Run evaluates a complete program and returns the serialized SVG document.
// A program that never executes `start svg` returns the empty string. Prints
// go to stdout. The first error encountered is returned and any partially
// built document is discarded.
func Run(src string) (string, error) { return RunWithLimit(src, 0) }

// RunWithLimit is Run with an execution budget: a positive limit caps the
// total count of evaluated statements and expressions, and exceeding it
// fails with an EXECUTION LIMIT error instead of looping indefinitely.
func RunWithLimit(src string, limit int) (string, error) {
	ip := New()
	ip.Limit = limit
	return ip.RunProgram(src)
}

// RunProgram parses and evaluates src against this interpreter's global
// environment and canvas, then serializes the canvas if it was started.
// `finish svg` is a checkpoint, not a requirement: a program that started a
// canvas serializes even without it.
func (ip *Interp) RunProgram(src string) (string, error) {
	prog, err := Parse(src)
	if err != nil {
		return "", err
	}
	c, _, err := ip.execBlock(prog, ip.global)
	if err != nil {
		return "", err
	}
	if c == ctrlReturn {
		return "", &RuntimeError{Kind: ErrRuntime, Msg: "'give back' used outside a function"}
	}
	if ip.canvas.Started() {
		return ip.canvas.SVG(), nil
	}
	return "", nil
}

// EvalSource parses and evaluates src in the persistent global environment,
// returning the value of the last statement (bare expressions yield their
// value, everything else yields null). Used by the REPL.
func (ip *Interp) EvalSource(src string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Null, err
	}
	c, v, err := ip.execBlock(prog, ip.global)
	if err != nil {
		return Null, err
	}
	if c == ctrlReturn {
		return Null, &RuntimeError{Kind: ErrRuntime, Msg: "'give back' used outside a function"}
	}
	return v, nil
}
