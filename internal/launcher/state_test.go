package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/grimoire/internal/desktop"
	"github.com/runger/grimoire/internal/rank"
)

func makeItems(names ...string) []desktop.Item {
	items := make([]desktop.Item, len(names))
	for i, n := range names {
		items[i] = desktop.Item{Name: n, Exec: n, ID: n}
	}
	return items
}

// Default geometry: 600x400 with 32px icons gives 8 visible rows.
func newState(items []desktop.Item, cols int) *State {
	return NewState(items, rank.Matcher{}, Viewport{Width: 600, Height: 400, Columns: cols, IconSize: 32})
}

func TestNewState(t *testing.T) {
	s := newState(makeItems("a", "b", "c"), 1)
	assert.Equal(t, []int{0, 1, 2}, s.Filtered)
	assert.Equal(t, 0, s.Selected)
	assert.Equal(t, -1, s.Hover)
	assert.False(t, s.Exit)
}

func TestTextInputFilters(t *testing.T) {
	s := newState(makeItems("Firefox", "Files", "Terminal"), 1)
	s.Selected = 2

	o := s.Dispatch(KeyPress{Text: "f"})
	assert.True(t, o.Redraw)
	o = s.Dispatch(KeyPress{Text: "i"})
	assert.True(t, o.Redraw)

	assert.Equal(t, "fi", s.Query)
	assert.Equal(t, []int{0, 1}, s.Filtered)
	assert.Equal(t, 0, s.Selected, "selection resets on query change")
	assert.Equal(t, 0, s.Offset)
}

func TestTextInputRejectsControl(t *testing.T) {
	s := newState(makeItems("a"), 1)
	for _, text := range []string{"", "\x01", "a\tb", "\x7f"} {
		o := s.Dispatch(KeyPress{Text: text})
		assert.False(t, o.Redraw, "%q", text)
	}
	assert.Empty(t, s.Query)
}

func TestBackspace(t *testing.T) {
	s := newState(makeItems("Firefox", "Files", "Terminal"), 1)

	o := s.Dispatch(KeyPress{Key: KeyBackspace})
	assert.False(t, o.Redraw, "empty query is a no-op")

	s.Dispatch(KeyPress{Text: "té"})
	require.Equal(t, "té", s.Query)
	o = s.Dispatch(KeyPress{Key: KeyBackspace})
	assert.True(t, o.Redraw)
	assert.Equal(t, "t", s.Query, "removes a whole rune")
	s.Dispatch(KeyPress{Key: KeyBackspace})
	assert.Equal(t, []int{0, 1, 2}, s.Filtered)
}

func TestArrowKeysInGrid(t *testing.T) {
	// 7 filtered items, 3 columns: rows of 3, 3, 1.
	s := newState(makeItems("a", "b", "c", "d", "e", "f", "g"), 3)

	for i := 0; i < 2; i++ {
		assert.True(t, s.Dispatch(KeyPress{Key: KeyDown}).Redraw)
	}
	assert.Equal(t, 6, s.Selected)
	assert.False(t, s.Dispatch(KeyPress{Key: KeyDown}).Redraw, "6+3 >= 7")
	assert.Equal(t, 6, s.Selected)

	assert.False(t, s.Dispatch(KeyPress{Key: KeyRight}).Redraw, "last item")
	assert.True(t, s.Dispatch(KeyPress{Key: KeyUp}).Redraw)
	assert.Equal(t, 3, s.Selected)
	assert.True(t, s.Dispatch(KeyPress{Key: KeyLeft}).Redraw)
	assert.Equal(t, 2, s.Selected)
	assert.True(t, s.Dispatch(KeyPress{Key: KeyRight}).Redraw)
	assert.Equal(t, 3, s.Selected, "right wraps into the next row")

	s.Selected = 1
	assert.False(t, s.Dispatch(KeyPress{Key: KeyUp}).Redraw)
	s.Selected = 0
	assert.False(t, s.Dispatch(KeyPress{Key: KeyLeft}).Redraw)
}

func TestDownThreeTimesStopsAtLastRow(t *testing.T) {
	s := newState(makeItems("a", "b", "c", "d", "e", "f", "g"), 3)
	for i := 0; i < 3; i++ {
		s.Dispatch(KeyPress{Key: KeyDown})
	}
	assert.Equal(t, 6, s.Selected)
}

func TestKeyboardKeepsSelectionVisible(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	s := newState(makeItems(names...), 1) // 8 visible rows

	for i := 0; i < 10; i++ {
		s.Dispatch(KeyPress{Key: KeyDown})
	}
	assert.Equal(t, 10, s.Selected)
	assert.Equal(t, 3, s.Offset)

	for i := 0; i < 8; i++ {
		s.Dispatch(KeyPress{Key: KeyUp})
	}
	assert.Equal(t, 2, s.Selected)
	assert.Equal(t, 2, s.Offset)
}

func TestEscapeExitsWithoutCommit(t *testing.T) {
	s := newState(makeItems("a"), 1)
	o := s.Dispatch(KeyPress{Key: KeyEscape})
	assert.True(t, s.Exit)
	assert.False(t, o.Commit)
}

func TestEnterCommits(t *testing.T) {
	s := newState(makeItems("a", "b"), 1)
	s.Dispatch(KeyPress{Key: KeyDown})

	o := s.Dispatch(KeyPress{Key: KeyEnter})
	assert.True(t, o.Commit)
	assert.True(t, s.Exit)
	it, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", it.Name)
}

func TestEnterWithEmptyViewDoesNothing(t *testing.T) {
	s := newState(makeItems("a"), 1)
	s.Dispatch(KeyPress{Text: "zzz"})
	require.Empty(t, s.Filtered)

	o := s.Dispatch(KeyPress{Key: KeyEnter})
	assert.False(t, o.Commit)
	assert.False(t, s.Exit)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestPointerMoveHover(t *testing.T) {
	s := newState(makeItems("a", "b", "c"), 1)

	assert.True(t, s.Dispatch(PointerMove{X: 100, Y: 95}).Redraw)
	assert.Equal(t, 1, s.Hover)
	assert.False(t, s.Dispatch(PointerMove{X: 300, Y: 100}).Redraw, "same cell")

	assert.True(t, s.Dispatch(PointerMove{X: 100, Y: 10}).Redraw)
	assert.Equal(t, -1, s.Hover)
	assert.False(t, s.Dispatch(PointerMove{X: 100, Y: 300}).Redraw, "still no item")
}

func TestPointerClick(t *testing.T) {
	s := newState(makeItems("a", "b", "c"), 1)

	o := s.Dispatch(PointerClick{X: 100, Y: 135, Button: 0x111})
	assert.False(t, o.Commit, "non-primary button")

	o = s.Dispatch(PointerClick{X: 100, Y: 300, Button: ButtonPrimary})
	assert.False(t, o.Commit, "no item under pointer")
	assert.False(t, s.Exit)

	o = s.Dispatch(PointerClick{X: 100, Y: 135, Button: ButtonPrimary})
	assert.True(t, o.Commit)
	assert.True(t, s.Exit)
	assert.Equal(t, 2, s.Selected)
}

func TestScroll(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	s := newState(makeItems(names...), 2) // 8 rows x 2 cols = 16 visible

	assert.True(t, s.Dispatch(Scroll{Delta: 1}).Redraw)
	assert.Equal(t, 2, s.Offset)
	assert.True(t, s.Dispatch(Scroll{Delta: 1}).Redraw)
	assert.Equal(t, 4, s.Offset)
	assert.False(t, s.Dispatch(Scroll{Delta: 1}).Redraw, "last row visible")
	assert.Equal(t, 0, s.Selected, "scroll does not move the selection")

	assert.True(t, s.Dispatch(Scroll{Delta: -3}).Redraw)
	assert.Equal(t, 2, s.Offset)
	s.Dispatch(Scroll{Delta: -1})
	assert.False(t, s.Dispatch(Scroll{Delta: -1}).Redraw)
	assert.Equal(t, 0, s.Offset)
}

func TestResize(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	s := newState(makeItems(names...), 1)
	s.Selected = 7

	o := s.Dispatch(Resize{W: 300, H: 130}) // 2 visible rows
	assert.True(t, o.Redraw)
	assert.Equal(t, 300, s.Viewport.Width)
	assert.Equal(t, 130, s.Viewport.Height)
	assert.Equal(t, 6, s.Offset)

	s.Dispatch(Resize{W: 0, H: -1})
	assert.Equal(t, 300, s.Viewport.Width)
	assert.Equal(t, 130, s.Viewport.Height)
}

func TestClose(t *testing.T) {
	s := newState(makeItems("a"), 1)
	o := s.Dispatch(Close{})
	assert.True(t, s.Exit)
	assert.Equal(t, Outcome{}, o)
}

func TestSearchComments(t *testing.T) {
	items := []desktop.Item{
		{Name: "Firefox", Comment: "Web Browser"},
		{Name: "Terminal", Comment: "Command line"},
	}
	s := NewState(items, rank.Matcher{SearchComments: true}, Viewport{Width: 600, Height: 400, Columns: 1, IconSize: 32})
	s.SetQuery("web")
	assert.Equal(t, []int{0}, s.Filtered)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "enter", KeyEnter.String())
	assert.Equal(t, "none", Key(99).String())
}
