package viz

import (
	"math"
	"strings"

	"github.com/san-kum/armsim/internal/arm"
)

const brailleBlank = '\u2800'

// brailleBit is the dot bit at column x, row y of one 2x4 braille cell.
var brailleBit = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas is a dot raster rendered with braille characters. Width and Height
// count characters; each one holds 2x4 dots.
type Canvas struct {
	Width, Height int
	cells         []uint8
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, cells: make([]uint8, w*h)}
}

// SubWidth and SubHeight are the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (int, uint8, bool) {
	if x < 0 || y < 0 || x >= c.SubWidth() || y >= c.SubHeight() {
		return 0, 0, false
	}
	return (y/4)*c.Width + x/2, brailleBit[x%2][y%4], true
}

// Set lights the dot at (x, y). Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if i, bit, ok := c.cell(x, y); ok {
		c.cells[i] |= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	i, bit, ok := c.cell(x, y)
	return ok && c.cells[i]&bit != 0
}

func (c *Canvas) Clear() { clear(c.cells) }

// DrawLine lights the dots between two dots, both ends included.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	n := max(absInt(dx), absInt(dy))
	if n == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		c.Set(x0+int(math.Round(f*float64(dx))), y0+int(math.Round(f*float64(dy))))
	}
}

// DrawDot lights a (2r+1) square centred on (x, y).
func (c *Canvas) DrawDot(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// Plot lights the dot under a point of the arm plane.
func (c *Canvas) Plot(vp Viewport, p arm.Vec3) {
	c.Set(vp.Project(p))
}

// Segment draws the straight line between two points of the arm plane.
func (c *Canvas) Segment(vp Viewport, a, b arm.Vec3) {
	x0, y0 := vp.Project(a)
	x1, y1 := vp.Project(b)
	c.DrawLine(x0, y0, x1, y1)
}

// Joint marks a point of the arm plane with a dot of radius r.
func (c *Canvas) Joint(vp Viewport, p arm.Vec3, r int) {
	x, y := vp.Project(p)
	c.DrawDot(x, y, r)
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for row := 0; row < c.Height; row++ {
		for _, bits := range c.cells[row*c.Width : (row+1)*c.Width] {
			b.WriteRune(brailleBlank + rune(bits))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
