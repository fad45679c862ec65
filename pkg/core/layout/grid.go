package layout

import (
	"math"

	"github.com/matzehuels/boardview/pkg/core/geom"
)

// size is the extent of a box before it is positioned.
type size struct{ w, h float64 }

// grid arranges cells in a square-ish grid: cols = ceil(sqrt(n)), cell i
// at column i%cols and row i/cols. Each column is as wide as its widest cell
// and each row as tall as its tallest, so enlarged containers push their
// neighbours apart instead of overlapping them.
//
// It returns the top-left offset of every cell and the total extent.
func grid(cells []size, spacing float64) ([]geom.Point, size) {
	n := len(cells)
	if n == 0 {
		return nil, size{}
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	colW := make([]float64, cols)
	rowH := make([]float64, rows)
	for i, c := range cells {
		col, row := i%cols, i/cols
		colW[col] = math.Max(colW[col], c.w)
		rowH[row] = math.Max(rowH[row], c.h)
	}

	xs := make([]float64, cols)
	for c := 1; c < cols; c++ {
		xs[c] = xs[c-1] + colW[c-1] + spacing
	}
	ys := make([]float64, rows)
	for r := 1; r < rows; r++ {
		ys[r] = ys[r-1] + rowH[r-1] + spacing
	}

	offsets := make([]geom.Point, n)
	for i := range cells {
		offsets[i] = geom.Point{X: xs[i%cols], Y: ys[i/cols]}
	}
	total := size{
		w: xs[cols-1] + colW[cols-1],
		h: ys[rows-1] + rowH[rows-1],
	}
	return offsets, total
}
