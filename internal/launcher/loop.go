package launcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/runger/grimoire/internal/raster"
	"github.com/runger/grimoire/internal/render"
)

// PollInterval bounds how long the loop blocks waiting for input.
const PollInterval = 16 * time.Millisecond

// Source delivers input events. Poll blocks for at most timeout and may
// return an empty batch.
type Source interface {
	Poll(ctx context.Context, timeout time.Duration) ([]Event, error)
}

// Presenter shows a finished frame.
type Presenter interface {
	Present(f *raster.Frame) error
}

// ErrSourceClosed may be returned by a Source whose input has ended.
// Run treats it like a Close event.
var ErrSourceClosed = errors.New("event source closed")

// Session bundles what the loop needs besides its input and output.
type Session struct {
	State     *State
	Renderer  *render.Renderer
	Committer Committer
	Logger    *slog.Logger

	frame *raster.Frame
}

// View returns the render view of the current state.
func (s *Session) View() render.View {
	st := s.State
	return render.View{
		Items:    st.Items,
		Filtered: st.Filtered,
		Query:    st.Query,
		Selected: st.Selected,
		Hover:    st.Hover,
		Layout:   st.Layout(),
	}
}

// Frame renders the current state into the session's frame buffer,
// reallocating it when the viewport size changed.
func (s *Session) Frame() *raster.Frame {
	vp := s.State.Viewport
	if s.frame == nil || s.frame.W != vp.Width || s.frame.H != vp.Height {
		s.frame = raster.NewFrame(vp.Width, vp.Height)
	}
	s.Renderer.Draw(s.frame, s.View())
	return s.frame
}

// Run drives the session until the state asks to exit or ctx is done.
// Each iteration waits for one batch of events, dispatches all of it and
// presents at most one frame. Commit side effects run before Run returns.
func Run(ctx context.Context, s *Session, src Source, out Presenter) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := out.Present(s.Frame()); err != nil {
		return err
	}

	for {
		events, err := src.Poll(ctx, PollInterval)
		switch {
		case errors.Is(err, ErrSourceClosed):
			events = append(events, Close{})
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		redraw := false
		for _, ev := range events {
			o := s.State.Dispatch(ev)
			if o.Commit {
				s.commit(ctx, logger)
			}
			redraw = redraw || o.Redraw
			if s.State.Exit {
				break
			}
		}

		if s.State.Exit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		if redraw {
			if err := out.Present(s.Frame()); err != nil {
				return err
			}
		}
	}
}

func (s *Session) commit(ctx context.Context, logger *slog.Logger) {
	item, ok := s.State.Current()
	if !ok || s.Committer == nil {
		return
	}
	if err := s.Committer.Commit(ctx, item); err != nil {
		logger.Warn("commit failed", "item", item.Name, "error", err)
	}
}
