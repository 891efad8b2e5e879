// Package grid computes the launcher's cell geometry. Drawing and pointer
// hit-testing both go through Compute and the same cell origin formula,
// so a click always lands on the cell that was drawn under it.
package grid

// Fixed geometry in pixels.
const (
	BarHeight = 50.0 // search bar band at the top of the window
	Pad       = 8.0  // inner cell padding
	RowPad    = 8.0  // added to the icon size to get the row height
)

// Params are the inputs of one layout computation.
type Params struct {
	Width, Height int
	Columns       int // configured column count
	IconSize      int
	Count         int // filtered item count
	Offset        int // index of the first visible filtered item
}

// Rect is a cell rectangle in window pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout is the derived geometry for one frame.
type Layout struct {
	Params

	EffectiveColumns int
	ColumnWidth      float64
	XOffset          float64
	RowHeight        float64
	VisibleRows      int
}

// Compute derives the layout for p. It never divides by zero: columns and
// visible rows are at least 1.
func Compute(p Params) Layout {
	cols := max(p.Columns, 1)
	eff := cols
	if p.Count > 0 {
		eff = max(min(p.Count, cols), 1)
	}
	colW := float64(p.Width) / float64(cols)
	rowH := float64(p.IconSize) + RowPad
	if rowH <= 0 {
		rowH = RowPad
	}
	rows := int((float64(p.Height) - BarHeight) / rowH)

	return Layout{
		Params:           p,
		EffectiveColumns: eff,
		ColumnWidth:      colW,
		XOffset:          (float64(p.Width) - float64(eff)*colW) / 2,
		RowHeight:        rowH,
		VisibleRows:      max(rows, 1),
	}
}

// VisibleCount is the number of cells in the visible window.
func (l Layout) VisibleCount() int {
	return l.VisibleRows * l.EffectiveColumns
}

// Window returns the half-open range of filtered indices that are drawn.
func (l Layout) Window() (start, end int) {
	start = min(max(l.Offset, 0), l.Count)
	end = min(start+l.VisibleCount(), l.Count)
	return start, end
}

// cell returns the top-left corner of the cell at (row, col) of the
// visible window.
func (l Layout) cell(row, col int) (x, y float64) {
	return l.XOffset + float64(col)*l.ColumnWidth, BarHeight + float64(row)*l.RowHeight
}

// cellAt inverts cell for a point at or below the bar and right of XOffset.
// The quotient is only an estimate; it is corrected against cell so that
// (row, col) is the cell whose [origin, next origin) span holds the point.
func (l Layout) cellAt(x, y float64) (row, col int) {
	row, col = int((y-BarHeight)/l.RowHeight), int((x-l.XOffset)/l.ColumnWidth)
	for col > 0 {
		if x0, _ := l.cell(0, col); x >= x0 {
			break
		}
		col--
	}
	for {
		if x1, _ := l.cell(0, col+1); x < x1 {
			break
		}
		col++
	}
	for row > 0 {
		if _, y0 := l.cell(row, 0); y >= y0 {
			break
		}
		row--
	}
	for {
		if _, y1 := l.cell(row+1, 0); y < y1 {
			break
		}
		row++
	}
	return row, col
}

// CellRect returns the rectangle of filtered index i, or false when i is
// outside the visible window.
func (l Layout) CellRect(i int) (Rect, bool) {
	start, end := l.Window()
	if i < start || i >= end {
		return Rect{}, false
	}
	v := i - start
	row, col := v/l.EffectiveColumns, v%l.EffectiveColumns
	x, y := l.cell(row, col)
	x1, y1 := l.cell(row+1, col+1)
	return Rect{X: x, Y: y, W: x1 - x, H: y1 - y}, true
}

// ItemAt maps a window point to a filtered index. Points in the search
// bar, left of the grid, past the last effective column, below the last
// visible row or past the last item resolve to no item.
func (l Layout) ItemAt(x, y float64) (int, bool) {
	if l.ColumnWidth <= 0 || l.RowHeight <= 0 {
		return 0, false
	}
	right, bottom := l.cell(l.VisibleRows, l.EffectiveColumns)
	if !(x >= l.XOffset && x < right && y >= BarHeight && y < bottom) {
		return 0, false
	}
	row, col := l.cellAt(x, y)
	if col >= l.EffectiveColumns || row >= l.VisibleRows {
		return 0, false
	}
	idx := max(l.Offset, 0) + row*l.EffectiveColumns + col
	if idx >= l.Count {
		return 0, false
	}
	return idx, true
}

// EnsureVisible returns the offset that keeps selected inside the visible
// window, moving it as little as possible.
func (l Layout) EnsureVisible(selected int) int {
	off := l.Offset
	visible := l.VisibleCount()
	if visible == 0 {
		return off
	}
	if selected < off {
		off = selected
	}
	if selected >= off+visible {
		off = selected - visible + 1
	}
	return off
}

// ScrollBy returns the offset after scrolling one row down (delta > 0) or
// up (delta < 0). Scrolling stops when the last item is visible and never
// goes below zero.
func (l Layout) ScrollBy(delta float64) int {
	off := l.Offset
	visible := l.VisibleCount()
	switch {
	case delta > 0 && off+visible < l.Count:
		off = min(off+l.EffectiveColumns, l.Count-visible)
	case delta < 0 && off > 0:
		off = max(off-l.EffectiveColumns, 0)
	}
	return off
}
