package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
)

// Vec — точка на холсте.
type Vec struct{ X, Y float64 }

// Stroke — стиль линии.
type Stroke struct {
	Color string
	Width float64
}

// TextStyle — стиль подписи.
type TextStyle struct {
	Color string
	Font  string
}

// Canvas — холст немедленного режима: каждый вызов рисует поверх уже нарисованного.
type Canvas interface {
	Size() (w, h float64)
	Clear()
	Line(from, to Vec, s Stroke)
	Polyline(pts []Vec, s Stroke)
	Text(at Vec, text string, s TextStyle)
}

// SVGCanvas накапливает примитивы и сериализует их в SVG.
type SVGCanvas struct {
	width, height float64
	background    string
	elems         []string
}

// NewSVGCanvas создаёт холст. Пустой background — прозрачный фон.
func NewSVGCanvas(width, height float64, background string) *SVGCanvas {
	return &SVGCanvas{width: width, height: height, background: background}
}

func (c *SVGCanvas) Size() (float64, float64) { return c.width, c.height }

func (c *SVGCanvas) Clear() { c.elems = c.elems[:0] }

func (c *SVGCanvas) Line(from, to Vec, s Stroke) {
	c.elems = append(c.elems, fmt.Sprintf(
		`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`,
		num(from.X), num(from.Y), num(to.X), num(to.Y), html.EscapeString(s.Color), num(s.Width)))
}

func (c *SVGCanvas) Polyline(pts []Vec, s Stroke) {
	if len(pts) == 0 {
		return
	}
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = num(p.X) + "," + num(p.Y)
	}
	c.elems = append(c.elems, fmt.Sprintf(
		`<polyline points="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linejoin="round"/>`,
		strings.Join(coords, " "), html.EscapeString(s.Color), num(s.Width)))
}

func (c *SVGCanvas) Text(at Vec, text string, s TextStyle) {
	c.elems = append(c.elems, fmt.Sprintf(
		`<text x="%s" y="%s" fill="%s" style="font: %s">%s</text>`,
		num(at.X), num(at.Y), html.EscapeString(s.Color), html.EscapeString(s.Font), html.EscapeString(text)))
}

// Len — число нарисованных примитивов.
func (c *SVGCanvas) Len() int { return len(c.elems) }

// WriteTo пишет SVG-документ.
func (c *SVGCanvas) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(c.width), num(c.height), num(c.width), num(c.height))
	buf.WriteByte('\n')
	if c.background != "" {
		fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="%s"/>`, html.EscapeString(c.background))
		buf.WriteByte('\n')
	}
	for _, e := range c.elems {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	buf.WriteString("</svg>\n")
	return buf.WriteTo(w)
}

// num печатает координату без лишних нулей.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
