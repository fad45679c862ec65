package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one terminal character with its foreground colour.
type cell struct {
	r    rune
	fg   string
	bold bool
}

// canvas is a fixed-size rune grid.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(0, w), max(0, h)
	cells := make([][]cell, h)
	for y := range cells {
		cells[y] = make([]cell, w)
		for x := range cells[y] {
			cells[y][x].r = ' '
		}
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) in(x, y int) bool { return x >= 0 && x < c.w && y >= 0 && y < c.h }

func (c *canvas) set(x, y int, r rune, fg string, bold bool) {
	if c.in(x, y) {
		c.cells[y][x] = cell{r: r, fg: fg, bold: bold}
	}
}

func (c *canvas) at(x, y int) rune {
	if !c.in(x, y) {
		return 0
	}
	return c.cells[y][x].r
}

// border is the rune set of one box style.
type border struct {
	tl, tr, bl, br, h, v rune
}

var (
	leafBorder      = border{'╭', '╮', '╰', '╯', '─', '│'}
	containerBorder = border{'┌', '┐', '└', '┘', '╌', '╎'}
	selectedBorder  = border{'┏', '┓', '┗', '┛', '━', '┃'}
)

// box draws a rectangle from (x0, y0) to (x1, y1) inclusive, clearing its
// interior so children drawn later sit on a clean background. The label is
// written on the first inner row and truncated to the inner width.
func (c *canvas) box(x0, y0, x1, y1 int, b border, fg string, bold bool, label string) {
	if x1 < x0+1 || y1 < y0+1 {
		return
	}
	// Only the on-canvas part of the box is visited.
	for y := max(y0, 0); y <= min(y1, c.h-1); y++ {
		for x := max(x0, 0); x <= min(x1, c.w-1); x++ {
			var r rune
			switch {
			case y == y0 && x == x0:
				r = b.tl
			case y == y0 && x == x1:
				r = b.tr
			case y == y1 && x == x0:
				r = b.bl
			case y == y1 && x == x1:
				r = b.br
			case y == y0 || y == y1:
				r = b.h
			case x == x0 || x == x1:
				r = b.v
			default:
				r = ' '
			}
			c.set(x, y, r, fg, bold)
		}
	}

	inner := x1 - x0 - 1
	if inner <= 0 {
		return
	}
	row := y0 + 1
	if row >= y1 {
		// Two-row boxes carry the label in the top border.
		row = y0
	}
	text := []rune(label)
	if len(text) > inner {
		if inner > 1 {
			text = append(text[:inner-1], '…')
		} else {
			text = text[:inner]
		}
	}
	if row < 0 || row >= c.h {
		return
	}
	for i, r := range text {
		c.set(x0+1+i, row, r, fg, bold)
	}
}

// line draws a straight segment with r, touching only blank cells so edges
// never overwrite boxes or labels.
func (c *canvas) line(x0, y0, x1, y1 int, r rune, fg string) {
	x0, y0, x1, y1, ok := clip(x0, y0, x1, y1, c.w, c.h)
	if !ok {
		return
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for range dx - dy + 1 {
		if c.at(x0, y0) == ' ' {
			c.set(x0, y0, r, fg, false)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// text writes s starting at (x, y) onto blank cells only.
func (c *canvas) text(x, y int, s, fg string) {
	for i, r := range []rune(s) {
		if c.at(x+i, y) == ' ' {
			c.set(x+i, y, r, fg, false)
		}
	}
}

// plain returns the grid without styling.
func (c *canvas) plain() string {
	var sb strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, cl := range row {
			sb.WriteRune(cl.r)
		}
	}
	return sb.String()
}

// render returns the grid with runs of equal colour styled by lipgloss.
func (c *canvas) render() string {
	var sb strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].fg == row[start].fg && row[x].bold == row[start].bold {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:x] {
				run.WriteRune(cl.r)
			}
			if row[start].fg == "" {
				sb.WriteString(run.String())
			} else {
				st := lipgloss.NewStyle().Foreground(lipgloss.Color(row[start].fg)).Bold(row[start].bold)
				sb.WriteString(st.Render(run.String()))
			}
			start = x
		}
	}
	return sb.String()
}

// clip trims a segment to the w x h grid with Liang-Barsky so that long
// off-canvas edges cost no more than their visible part. Segments already
// inside are returned unchanged.
func clip(x0, y0, x1, y1, w, h int) (int, int, int, int, bool) {
	inside := func(x, y int) bool { return x >= 0 && x < w && y >= 0 && y < h }
	if inside(x0, y0) && inside(x1, y1) {
		return x0, y0, x1, y1, true
	}
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	fx0, fy0 := float64(x0), float64(y0)
	dx, dy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0.0, 1.0
	for _, pq := range [4][2]float64{
		{-dx, fx0},
		{dx, float64(w-1) - fx0},
		{-dy, fy0},
		{dy, float64(h-1) - fy0},
	} {
		p, q := pq[0], pq[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return int(math.Round(fx0 + t0*dx)), int(math.Round(fy0 + t0*dy)),
		int(math.Round(fx0 + t1*dx)), int(math.Round(fy0 + t1*dy)), true
}

// cellSpan converts the screen interval [lo, hi) to inclusive cell indices.
func cellSpan(lo, hi, size float64) (int, int) {
	a := int(math.Floor(lo / size))
	b := int(math.Ceil(hi/size)) - 1
	return a, max(a, b)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
