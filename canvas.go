// canvas.go — the drawing builder: canvas state, style state, and SVG output.
//
// The evaluator drives this state machine. Its lifecycle is uninitialized →
// started (`start svg` sets the dimensions and clears any prior operations) →
// finished (serialization). Every drawing operation snapshots the style in
// effect when it was emitted, so later `use fill`/`use stroke` statements
// never repaint earlier shapes.
package sketchlang

import (
	"fmt"
	"strings"
)

// style is the paint state captured per operation. An empty Fill renders as
// fill="none"; when HasStroke is false the stroke attributes are omitted.
type style struct {
	Fill        string
	HasStroke   bool
	Stroke      string
	StrokeWidth float64
}

type opKind int

const (
	opCircle opKind = iota
	opRect
	opLine
	opText
)

// drawOp is one emitted shape or text run with its resolved arguments.
type drawOp struct {
	kind   opKind
	x, y   float64
	r      float64 // circle
	w, h   float64 // rect
	x2, y2 float64 // line
	text   string  // text
	size   float64 // text
	style  style
}

// Canvas accumulates drawing operations and serializes them to SVG markup.
// The zero value is an unstarted canvas.
type Canvas struct {
	started bool
	width   float64
	height  float64
	cur     style
	ops     []drawOp
}

// Started reports whether `start svg` has run.
func (c *Canvas) Started() bool { return c.started }

// Start sets the canvas dimensions, resets the operation sequence, and
// restores the default style (black fill, no stroke).
func (c *Canvas) Start(width, height float64) {
	c.started = true
	c.width = width
	c.height = height
	c.cur = style{Fill: "black"}
	c.ops = nil
}

func (c *Canvas) SetFill(color string) { c.cur.Fill = color }

func (c *Canvas) SetStroke(color string, width float64) {
	c.cur.HasStroke = true
	c.cur.Stroke = color
	c.cur.StrokeWidth = width
}

func (c *Canvas) ClearFill()   { c.cur.Fill = "" }
func (c *Canvas) ClearStroke() { c.cur.HasStroke = false }

func (c *Canvas) Circle(x, y, r float64) {
	c.ops = append(c.ops, drawOp{kind: opCircle, x: x, y: y, r: r, style: c.cur})
}

func (c *Canvas) Rect(x, y, w, h float64) {
	c.ops = append(c.ops, drawOp{kind: opRect, x: x, y: y, w: w, h: h, style: c.cur})
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	c.ops = append(c.ops, drawOp{kind: opLine, x: x1, y: y1, x2: x2, y2: y2, style: c.cur})
}

func (c *Canvas) Text(content string, x, y, size float64) {
	c.ops = append(c.ops, drawOp{kind: opText, text: content, x: x, y: y, size: size, style: c.cur})
}

// SVG serializes the document: header with the stored dimensions and an
// origin viewBox, one element per operation, closing tag.
func (c *Canvas) SVG() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatNum(c.width), formatNum(c.height), formatNum(c.width), formatNum(c.height))
	b.WriteByte('\n')
	for _, op := range c.ops {
		b.WriteString("  ")
		b.WriteString(op.render())
		b.WriteByte('\n')
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func (op drawOp) render() string {
	switch op.kind {
	case opCircle:
		return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s"%s/>`,
			formatNum(op.x), formatNum(op.y), formatNum(op.r), op.style.paintAttrs(true))
	case opRect:
		return fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s"%s/>`,
			formatNum(op.x), formatNum(op.y), formatNum(op.w), formatNum(op.h), op.style.paintAttrs(true))
	case opLine:
		return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`,
			formatNum(op.x), formatNum(op.y), formatNum(op.x2), formatNum(op.y2), op.style.paintAttrs(false))
	case opText:
		return fmt.Sprintf(`<text x="%s" y="%s" font-size="%s"%s>%s</text>`,
			formatNum(op.x), formatNum(op.y), formatNum(op.size), op.style.paintAttrs(true), escapeXML(op.text))
	}
	return ""
}

// paintAttrs renders the captured style. Lines take no fill attribute.
func (s style) paintAttrs(withFill bool) string {
	var b strings.Builder
	if withFill {
		fill := s.Fill
		if fill == "" {
			fill = "none"
		}
		fmt.Fprintf(&b, ` fill="%s"`, escapeXML(fill))
	}
	if s.HasStroke {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, escapeXML(s.Stroke), formatNum(s.StrokeWidth))
	}
	return b.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string { return xmlEscaper.Replace(s) }
