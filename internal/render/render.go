// Package render draws one launcher frame: background, search bar and the
// visible window of the grid.
package render

import (
	"github.com/runger/grimoire/internal/desktop"
	"github.com/runger/grimoire/internal/glyph"
	"github.com/runger/grimoire/internal/grid"
	"github.com/runger/grimoire/internal/raster"
)

// Placeholder is shown in the search bar while the query is empty.
const Placeholder = "Search..."

const (
	borderWidth = 2
	commentGap  = 12.0 // space between name and comment
	minComment  = 20.0 // comments narrower than this are not drawn
)

// View is the state needed to draw a frame.
type View struct {
	Items    []desktop.Item
	Filtered []int
	Query    string
	Selected int
	Hover    int // -1 for none
	Layout   grid.Layout
}

// Renderer draws frames with a fixed theme and font.
type Renderer struct {
	Text            *glyph.Rasterizer
	Theme           Theme
	FontSize        float64
	CommentFontSize float64
	ShowComments    bool
	Icons           bool // reserve the icon column (desktop entry mode)
}

// Draw renders v into dst. The frame is expected to match the layout's
// viewport size.
func (r *Renderer) Draw(dst *raster.Frame, v View) {
	t := r.Theme
	w, h := dst.W, dst.H
	bar := int(grid.BarHeight)

	dst.Fill(t.Background, t.BackgroundAlpha)
	dst.FillRectAlpha(0, 0, w, bar, t.BarBackground, t.BackgroundAlpha)
	dst.FillRectAlpha(0, bar-borderWidth, w, borderWidth, t.BarBorder, t.BackgroundAlpha)

	dst.FillRectAlpha(0, 0, w, borderWidth, t.Border, t.BackgroundAlpha)
	dst.FillRectAlpha(0, h-borderWidth, w, borderWidth, t.Border, t.BackgroundAlpha)
	dst.FillRectAlpha(0, 0, borderWidth, h, t.Border, t.BackgroundAlpha)
	dst.FillRectAlpha(w-borderWidth, 0, borderWidth, h, t.Border, t.BackgroundAlpha)

	r.drawQuery(dst, v.Query)
	r.drawGrid(dst, v)
}

func (r *Renderer) drawQuery(dst *raster.Frame, query string) {
	text, color := query, r.Theme.Text
	if query == "" {
		text, color = Placeholder, r.Theme.TextPlaceholder
	}
	tw := r.Text.Measure(text, r.FontSize)
	x := (float64(dst.W) - tw) / 2
	baseline := (grid.BarHeight + r.FontSize) / 2
	r.Text.Draw(dst, text, x, baseline, r.FontSize, float64(dst.W), grid.BarHeight, color)
}

func (r *Renderer) drawGrid(dst *raster.Frame, v View) {
	t := r.Theme
	l := v.Layout
	iconPad := grid.Pad
	if r.Icons {
		iconPad = grid.Pad + float64(l.IconSize) + grid.Pad
	}

	start, end := l.Window()
	for i := start; i < end; i++ {
		cell, ok := l.CellRect(i)
		if !ok || v.Filtered[i] < 0 || v.Filtered[i] >= len(v.Items) {
			continue
		}
		item := v.Items[v.Filtered[i]]
		cx, cy := int(cell.X), int(cell.Y)
		cw, ch := int(cell.W), int(cell.H)

		switch {
		case i == v.Selected:
			dst.FillRectAlpha(cx, cy, cw, ch, t.Selection, t.SelectionAlpha)
		case i == v.Hover:
			dst.FillRectAlpha(cx, cy, cw, ch, t.Selection, t.SelectionAlpha/2)
		}

		if r.Icons && item.Image != nil {
			img := item.Image
			ix := cx + int(grid.Pad)
			iy := cy + (ch-img.H)/2
			dst.BlitRGBA(ix, iy, img.W, img.H, img.Pix)
		}

		textX := cell.X + iconPad
		withComment := r.ShowComments && item.Comment != ""
		maxName := max(cell.W-iconPad, 0)
		if withComment {
			maxName = (cell.W - iconPad) / 2
		}
		nameBaseline := cell.Y + (cell.H+r.FontSize)/2
		r.Text.Draw(dst, item.Name, textX, nameBaseline, r.FontSize, maxName, cell.H, t.Text)

		if !withComment {
			continue
		}
		nameW := r.Text.Measure(item.Name, r.FontSize)
		commentX := textX + min(nameW, maxName) + commentGap
		commentMax := max(cell.X+cell.W-commentX-grid.Pad, 0)
		if commentMax > minComment {
			commentBaseline := cell.Y + (cell.H+r.CommentFontSize)/2
			r.Text.Draw(dst, item.Comment, commentX, commentBaseline, r.CommentFontSize, commentMax, cell.H, t.TextComment)
		}
	}
}
