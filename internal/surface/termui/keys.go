package termui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/grimoire/internal/launcher"
)

type keyMap struct {
	Quit      key.Binding
	Submit    key.Binding
	Backspace key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "close")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "launch")),
	Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
	Left:      key.NewBinding(key.WithKeys("left", "ctrl+b")),
	Right:     key.NewBinding(key.WithKeys("right", "ctrl+f")),
	Up:        key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:      key.NewBinding(key.WithKeys("down", "ctrl+n")),
}

// translateKey maps a terminal key to a launcher event.
func translateKey(msg tea.KeyMsg) (launcher.Event, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return launcher.KeyPress{Key: launcher.KeyEscape}, true
	case key.Matches(msg, keys.Submit):
		return launcher.KeyPress{Key: launcher.KeyEnter}, true
	case key.Matches(msg, keys.Backspace):
		return launcher.KeyPress{Key: launcher.KeyBackspace}, true
	case key.Matches(msg, keys.Left):
		return launcher.KeyPress{Key: launcher.KeyLeft}, true
	case key.Matches(msg, keys.Right):
		return launcher.KeyPress{Key: launcher.KeyRight}, true
	case key.Matches(msg, keys.Up):
		return launcher.KeyPress{Key: launcher.KeyUp}, true
	case key.Matches(msg, keys.Down):
		return launcher.KeyPress{Key: launcher.KeyDown}, true
	}
	switch msg.Type {
	case tea.KeyRunes:
		return launcher.KeyPress{Text: string(msg.Runes)}, true
	case tea.KeySpace:
		return launcher.KeyPress{Text: " "}, true
	}
	return nil, false
}

// geometry maps terminal cells to viewport pixels. The frame area is every
// row but the last, which holds the status line; each cell shows two
// vertically stacked samples.
type geometry struct {
	cols, rows   int
	cellW, cellH int
}

func (g geometry) frameRows() int {
	return max(g.rows-1, 1)
}

// viewport returns the pixel size the launcher should lay out for.
func (g geometry) viewport() (w, h int) {
	return g.cols * g.cellW, g.frameRows() * g.cellH
}

// pixel returns the viewport position at the center of cell (x, y).
func (g geometry) pixel(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * float64(g.cellW), (float64(y) + 0.5) * float64(g.cellH)
}

// translateMouse maps a terminal mouse event to a launcher event.
func translateMouse(msg tea.MouseMsg, g geometry) (launcher.Event, bool) {
	if msg.Y >= g.frameRows() {
		return nil, false
	}
	x, y := g.pixel(msg.X, msg.Y)
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return launcher.Scroll{Delta: -1}, true
	case tea.MouseButtonWheelDown:
		return launcher.Scroll{Delta: 1}, true
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress {
			return launcher.PointerClick{X: x, Y: y, Button: launcher.ButtonPrimary}, true
		}
	}
	if msg.Action == tea.MouseActionMotion {
		return launcher.PointerMove{X: x, Y: y}, true
	}
	return nil, false
}
