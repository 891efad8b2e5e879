package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/grimoire/internal/desktop"
	"github.com/runger/grimoire/internal/frecency"
	"github.com/runger/grimoire/internal/glyph"
	"github.com/runger/grimoire/internal/icon"
	"github.com/runger/grimoire/internal/instance"
	"github.com/runger/grimoire/internal/launcher"
	glog "github.com/runger/grimoire/internal/log"
	"github.com/runger/grimoire/internal/rank"
	"github.com/runger/grimoire/internal/render"
	"github.com/runger/grimoire/internal/surface/termui"
)

type mode string

const (
	modeDrun  mode = "drun"
	modeDmenu mode = "dmenu"
)

var drunCmd = &cobra.Command{
	Use:     "drun",
	Short:   "Launch an installed application (default)",
	GroupID: groupLaunch,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLauncher(cmd, modeDrun)
	},
}

var dmenuCmd = &cobra.Command{
	Use:   "dmenu",
	Short: "Pick one line from stdin and print it",
	Long: `Read candidate lines from stdin, let the user pick one, and print the
chosen line unchanged to stdout. Nothing is printed when the picker is
dismissed.

Example:
  ls ~/notes | grimoire dmenu | xargs -r $EDITOR`,
	GroupID: groupLaunch,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLauncher(cmd, modeDmenu)
	},
}

// candidates holds the ranked items for a mode. In drun mode the frecency
// store and map that ranked them come along for the committer.
type candidates struct {
	items    []desktop.Item
	store    frecency.Store
	frecency frecency.Map
}

func (c *candidates) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
}

// loadCandidates builds the item list for m. Icons are only resolved when
// withIcons is set, since text-only commands never draw them.
func (e *env) loadCandidates(ctx context.Context, m mode, stdin io.Reader, withIcons bool) *candidates {
	if m == modeDmenu {
		items, err := desktop.ReadLines(stdin)
		if err != nil {
			e.logger.Warn("failed to read stdin", "error", err, "lines", len(items))
		}
		return &candidates{items: items}
	}

	store, fm := e.openFrecency(ctx)
	opts := desktop.ScanOptions{Logger: e.logger}
	if withIcons {
		opts.Icons = icon.NewResolver(e.paths.IconCacheDir(), e.cfg.UI.IconSize, e.logger)
	}
	items := desktop.Scan(desktop.Dirs(homeDir()), opts)
	rank.Sort(items, fm, time.Now())
	return &candidates{items: items, store: store, frecency: fm}
}

// newRenderer builds the renderer for m from the configuration.
func (e *env) newRenderer(m mode) *render.Renderer {
	font := glyph.Load(e.cfg.UI.Font, e.paths.FontCacheDir(), e.logger)
	return &render.Renderer{
		Text:            glyph.NewRasterizer(font, e.cfg.UI.GlyphCacheEntries),
		Theme:           render.LoadTheme(expandHome(e.cfg.UI.ColorFile)),
		FontSize:        e.cfg.UI.FontSize,
		CommentFontSize: e.cfg.UI.CommentFontSize,
		ShowComments:    e.cfg.UI.ShowComments,
		Icons:           m == modeDrun,
	}
}

func (e *env) matcher() rank.Matcher {
	return rank.Matcher{SearchComments: e.cfg.UI.SearchComments}
}

func (e *env) viewport(w, h int) launcher.Viewport {
	return launcher.Viewport{
		Width:    w,
		Height:   h,
		Columns:  e.cfg.UI.Columns,
		IconSize: e.cfg.UI.IconSize,
	}
}

// runLauncher runs the interactive launcher on the controlling terminal.
// Every outcome the user can cause ends with exit status 0: failures are
// logged, and a second instance quietly exits.
func runLauncher(cmd *cobra.Command, m mode) error {
	e := loadEnv()
	defer e.close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lock := instance.New(e.paths.LockFile())
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, instance.ErrRunning) {
			e.logger.Info("launcher already running", "error", err)
			return nil
		}
		e.logger.Warn("failed to take instance lock, continuing", "error", err)
	}
	defer lock.Release()

	cands := e.loadCandidates(ctx, m, cmd.InOrStdin(), true)
	defer cands.close()

	var committer launcher.Committer
	if m == modeDmenu {
		committer = &launcher.DmenuCommitter{W: cmd.OutOrStdout()}
	} else {
		committer = &launcher.DrunCommitter{
			Frecency: cands.frecency,
			Store:    cands.store,
			Spawner:  launcher.ShellSpawner{Terminal: e.cfg.Launch.Terminal, Logger: e.logger},
			Logger:   e.logger,
		}
	}

	renderer := e.newRenderer(m)
	glog.LogStartup(e.logger, glog.StartupInfo{
		Version:    Version,
		Mode:       string(m),
		ConfigPath: e.paths.ConfigFile(),
		StatePath:  e.statePath(),
		Backend:    e.cfg.State.Backend,
		Font:       renderer.Text.Font().Family(),
		Items:      len(cands.items),
		PID:        os.Getpid(),
	})

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		e.logger.Warn("no terminal available", "error", err)
		return nil
	}
	defer tty.Close()

	var state *launcher.State
	surf := termui.New(termui.Options{
		Input:  tty,
		Output: tty,
		Status: func() string { return statusText(state) },
		Logger: e.logger,
	})
	state = launcher.NewState(cands.items, e.matcher(), e.viewport(surf.Viewport()))

	session := &launcher.Session{
		State:     state,
		Renderer:  renderer,
		Committer: committer,
		Logger:    e.logger,
	}

	surf.Start()
	runErr := launcher.Run(ctx, session, surf, surf)
	if err := surf.Close(); err != nil {
		e.logger.Warn("terminal surface closed with error", "error", err)
	}
	if runErr != nil {
		e.logger.Error("launcher loop failed", "error", runErr)
	}
	glog.LogShutdown(e.logger, exitReason(state, runErr))
	return nil
}

// statusText summarizes the state for the terminal status line.
func statusText(s *launcher.State) string {
	if s == nil {
		return ""
	}
	text := fmt.Sprintf("%d/%d", len(s.Filtered), len(s.Items))
	if item, ok := s.Current(); ok {
		text += "  " + item.Name
		if item.Comment != "" {
			text += " - " + item.Comment
		}
	}
	return text
}

func exitReason(s *launcher.State, err error) string {
	switch {
	case err != nil:
		return "error"
	case s != nil && s.Exit:
		return "done"
	default:
		return "interrupted"
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}
