// Package termui presents launcher frames in a terminal. Each character
// cell shows two stacked pixels using the upper half block, and terminal
// keys, mouse and resize notifications are translated into launcher events.
package termui

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	xdraw "golang.org/x/image/draw"

	"github.com/runger/grimoire/internal/launcher"
	"github.com/runger/grimoire/internal/raster"
)

// Default cell size in pixels when the terminal does not report one.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

const halfBlock = "▀"

// Options configures a Surface.
type Options struct {
	// Input and Output are the terminal. Output is also probed for its
	// color profile and cell size.
	Input  io.Reader
	Output io.Writer

	// CellWidth and CellHeight override the detected cell size.
	CellWidth, CellHeight int

	// Status returns the text of the bottom line. Optional.
	Status func() string

	Logger *slog.Logger
}

// Surface is a launcher.Source and launcher.Presenter backed by a
// bubbletea program.
type Surface struct {
	prog    *tea.Program
	events  chan launcher.Event
	moved   chan struct{} // signalled when motion is pending
	done    chan struct{}
	out     *termenv.Output
	status  func() string
	logger  *slog.Logger
	started sync.Once

	mu     sync.Mutex
	geo    geometry
	err    error
	motion *launcher.PointerMove // latest unpolled pointer position
}

// New prepares a surface. Call Start to take over the terminal.
func New(opts Options) *Surface {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := termenv.NewOutput(opts.Output)
	lipgloss.SetColorProfile(out.ColorProfile())

	cw, ch := opts.CellWidth, opts.CellHeight
	if cw <= 0 || ch <= 0 {
		dw, dh := cellSize(opts.Output)
		if cw <= 0 {
			cw = dw
		}
		if ch <= 0 {
			ch = dh
		}
	}

	s := &Surface{
		events: make(chan launcher.Event, 256),
		moved:  make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    out,
		status: opts.Status,
		logger: logger,
		geo:    geometry{cols: 80, rows: 24, cellW: cw, cellH: ch},
	}
	s.prog = tea.NewProgram(&model{s: s},
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithInput(opts.Input),
		tea.WithOutput(opts.Output),
	)
	return s
}

// Start runs the terminal program in the background.
func (s *Surface) Start() {
	s.started.Do(func() {
		go func() {
			defer close(s.done)
			if _, err := s.prog.Run(); err != nil {
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
				s.logger.Warn("terminal program ended", "error", err)
			}
		}()
	})
}

// Close restores the terminal and waits for the program to exit.
func (s *Surface) Close() error {
	s.prog.Quit()
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Viewport returns the pixel size matching the current terminal size.
func (s *Surface) Viewport() (w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geo.viewport()
}

// Poll waits up to timeout for input and returns everything queued. Pointer
// motion is coalesced: a batch carries at most one PointerMove, the latest,
// after the other events. After the program has exited it reports
// launcher.ErrSourceClosed.
func (s *Surface) Poll(ctx context.Context, timeout time.Duration) ([]launcher.Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var batch []launcher.Event
	select {
	case ev := <-s.events:
		batch = append(batch, ev)
	case <-s.moved:
	case <-s.done:
		return s.drain(nil), launcher.ErrSourceClosed
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.drain(batch), nil
}

func (s *Surface) drain(batch []launcher.Event) []launcher.Event {
queued:
	for {
		select {
		case ev := <-s.events:
			batch = append(batch, ev)
		default:
			break queued
		}
	}
	s.mu.Lock()
	mv := s.motion
	s.motion = nil
	s.mu.Unlock()
	if mv != nil {
		batch = append(batch, *mv)
	}
	return batch
}

// emit queues ev for Poll without blocking. It runs on the program's event
// loop, which Present also waits on, so a full queue drops the event.
func (s *Surface) emit(ev launcher.Event) {
	if mv, ok := ev.(launcher.PointerMove); ok {
		s.mu.Lock()
		s.motion = &mv
		s.mu.Unlock()
		select {
		case s.moved <- struct{}{}:
		default:
		}
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("input queue full, dropping event", "event", fmt.Sprintf("%T", ev))
	}
}

// Present converts f to terminal cells and hands it to the program.
func (s *Surface) Present(f *raster.Frame) error {
	s.mu.Lock()
	geo := s.geo
	s.mu.Unlock()

	body := renderCells(s.out, f, geo.cols, geo.frameRows())
	status := ""
	if s.status != nil {
		status = s.status()
	}
	s.prog.Send(frameMsg{view: body + "\n" + statusLine(status, geo.cols)})
	return nil
}

type frameMsg struct {
	view string
}

type model struct {
	s    *Surface
	view string
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.view = msg.view
	case tea.KeyMsg:
		if ev, ok := translateKey(msg); ok {
			m.s.emit(ev)
		}
	case tea.MouseMsg:
		m.s.mu.Lock()
		geo := m.s.geo
		m.s.mu.Unlock()
		if ev, ok := translateMouse(msg, geo); ok {
			m.s.emit(ev)
		}
	case tea.WindowSizeMsg:
		m.s.mu.Lock()
		m.s.geo.cols, m.s.geo.rows = msg.Width, msg.Height
		w, h := m.s.geo.viewport()
		m.s.mu.Unlock()
		m.s.emit(launcher.Resize{W: w, H: h})
	}
	return m, nil
}

func (m *model) View() string {
	return m.view
}

// renderCells samples f down to cols x 2*rows pixels and renders each
// pair of vertical samples as one half-block cell.
func renderCells(out *termenv.Output, f *raster.Frame, cols, rows int) string {
	if cols <= 0 || rows <= 0 || f.W <= 0 || f.H <= 0 {
		return ""
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	src := f.Image()
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	var b strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < cols; c++ {
			top := cellColor(dst, c, 2*r)
			bottom := cellColor(dst, c, 2*r+1)
			b.WriteString(out.String(halfBlock).
				Foreground(out.Color(top)).
				Background(out.Color(bottom)).
				String())
		}
	}
	return b.String()
}

func cellColor(img *image.RGBA, x, y int) string {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+3 : i+3]
	return fmt.Sprintf("#%02x%02x%02x", p[0], p[1], p[2])
}

var statusStyle = lipgloss.NewStyle().Reverse(true)

// statusLine renders text on one reversed line exactly cols cells wide.
func statusLine(text string, cols int) string {
	if cols <= 0 {
		return ""
	}
	text = strings.ReplaceAll(text, "\n", " ")
	text = runewidth.Truncate(text, cols, "…")
	return statusStyle.Width(cols).MaxWidth(cols).Render(text)
}
