package launcher

// Key identifies the non-text keys the launcher reacts to.
type Key int

const (
	KeyNone Key = iota // text input; see KeyPress.Text
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "none"
	}
}

// ButtonPrimary is the Linux evdev code of the left mouse button.
const ButtonPrimary = 0x110

// Event is one input event. The set is closed: KeyPress, PointerMove,
// PointerClick, Scroll, Resize and Close.
type Event interface {
	isEvent()
}

// KeyPress is a key press or repeat. Text carries the decoded characters
// for printable keys.
type KeyPress struct {
	Key  Key
	Text string
}

// PointerMove is pointer motion to a window position in pixels.
type PointerMove struct {
	X, Y float64
}

// PointerClick is a button press at a window position in pixels.
type PointerClick struct {
	X, Y   float64
	Button uint32
}

// Scroll is vertical wheel motion; positive Delta scrolls down.
type Scroll struct {
	Delta float64
}

// Resize reports a new window size. Non-positive dimensions keep the
// current value.
type Resize struct {
	W, H int
}

// Close reports that the window was closed.
type Close struct{}

func (KeyPress) isEvent()     {}
func (PointerMove) isEvent()  {}
func (PointerClick) isEvent() {}
func (Scroll) isEvent()       {}
func (Resize) isEvent()       {}
func (Close) isEvent()        {}
