// Package launcher holds the interaction state machine and the event loop
// that drives it.
package launcher

import (
	"unicode"
	"unicode/utf8"

	"github.com/runger/grimoire/internal/desktop"
	"github.com/runger/grimoire/internal/grid"
	"github.com/runger/grimoire/internal/rank"
)

// Viewport is the window geometry and the layout settings that feed it.
type Viewport struct {
	Width, Height int
	Columns       int
	IconSize      int
}

// State is the launcher's interaction state. It is owned by the event
// loop; handlers mutate it and report whether a redraw is needed but never
// draw themselves.
type State struct {
	Items    []desktop.Item
	Matcher  rank.Matcher
	Viewport Viewport

	Query    string
	Filtered []int // indices into Items
	Selected int   // index into Filtered
	Offset   int   // first visible index into Filtered
	Hover    int   // index into Filtered, -1 for none
	Exit     bool
}

// Outcome tells the event loop what a dispatched event requires.
type Outcome struct {
	Redraw bool
	Commit bool // commit the current selection; Exit is already set
}

// NewState returns the state for items, already in ranked order, with an
// empty query.
func NewState(items []desktop.Item, m rank.Matcher, vp Viewport) *State {
	s := &State{
		Items:    items,
		Matcher:  m,
		Viewport: vp,
		Hover:    -1,
	}
	s.refilter()
	return s
}

// Layout derives the grid geometry for the current state. It is computed
// fresh on every call so drawing and hit-testing cannot disagree.
func (s *State) Layout() grid.Layout {
	return grid.Compute(grid.Params{
		Width:    s.Viewport.Width,
		Height:   s.Viewport.Height,
		Columns:  s.Viewport.Columns,
		IconSize: s.Viewport.IconSize,
		Count:    len(s.Filtered),
		Offset:   s.Offset,
	})
}

// Current returns the selected item, or false when the filtered view is
// empty.
func (s *State) Current() (desktop.Item, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Filtered) {
		return desktop.Item{}, false
	}
	return s.Items[s.Filtered[s.Selected]], true
}

// Dispatch applies one event.
func (s *State) Dispatch(ev Event) Outcome {
	switch ev := ev.(type) {
	case KeyPress:
		return s.key(ev)
	case PointerMove:
		return s.move(ev)
	case PointerClick:
		return s.click(ev)
	case Scroll:
		return s.scroll(ev)
	case Resize:
		return s.resize(ev)
	case Close:
		s.Exit = true
	}
	return Outcome{}
}

func (s *State) key(ev KeyPress) Outcome {
	n := len(s.Filtered)
	eff := s.Layout().EffectiveColumns

	changed := false
	switch ev.Key {
	case KeyEscape:
		s.Exit = true
		return Outcome{}
	case KeyEnter:
		return s.commit()
	case KeyBackspace:
		if s.Query != "" {
			_, size := utf8.DecodeLastRuneInString(s.Query)
			s.Query = s.Query[:len(s.Query)-size]
			s.refilter()
			changed = true
		}
	case KeyLeft:
		if s.Selected > 0 {
			s.Selected--
			changed = true
		}
	case KeyRight:
		if s.Selected+1 < n {
			s.Selected++
			changed = true
		}
	case KeyUp:
		if s.Selected >= eff {
			s.Selected -= eff
			changed = true
		}
	case KeyDown:
		if s.Selected+eff < n {
			s.Selected += eff
			changed = true
		}
	default:
		if printable(ev.Text) {
			s.Query += ev.Text
			s.refilter()
			changed = true
		}
	}
	if changed {
		s.EnsureVisible()
	}
	return Outcome{Redraw: changed}
}

func (s *State) move(ev PointerMove) Outcome {
	hover := -1
	if idx, ok := s.Layout().ItemAt(ev.X, ev.Y); ok {
		hover = idx
	}
	if hover == s.Hover {
		return Outcome{}
	}
	s.Hover = hover
	return Outcome{Redraw: true}
}

func (s *State) click(ev PointerClick) Outcome {
	if ev.Button != ButtonPrimary {
		return Outcome{}
	}
	idx, ok := s.Layout().ItemAt(ev.X, ev.Y)
	if !ok {
		return Outcome{}
	}
	s.Selected = idx
	return s.commit()
}

func (s *State) scroll(ev Scroll) Outcome {
	off := s.Layout().ScrollBy(ev.Delta)
	if off == s.Offset {
		return Outcome{}
	}
	s.Offset = off
	return Outcome{Redraw: true}
}

func (s *State) resize(ev Resize) Outcome {
	if ev.W > 0 {
		s.Viewport.Width = ev.W
	}
	if ev.H > 0 {
		s.Viewport.Height = ev.H
	}
	s.EnsureVisible()
	return Outcome{Redraw: true}
}

func (s *State) commit() Outcome {
	if len(s.Filtered) == 0 {
		return Outcome{}
	}
	s.Exit = true
	return Outcome{Commit: true}
}

// EnsureVisible scrolls so the selection is inside the visible window.
func (s *State) EnsureVisible() {
	s.Offset = s.Layout().EnsureVisible(s.Selected)
}

// SetQuery replaces the query and recomputes the filtered view.
func (s *State) SetQuery(q string) {
	s.Query = q
	s.refilter()
}

func (s *State) refilter() {
	s.Filtered = s.Matcher.Filter(s.Items, s.Query)
	s.Selected = 0
	s.Offset = 0
}

func printable(text string) bool {
	if text == "" || !utf8.ValidString(text) {
		return false
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
