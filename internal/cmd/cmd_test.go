package cmd

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/grimoire/internal/config"
	"github.com/runger/grimoire/internal/desktop"
	"github.com/runger/grimoire/internal/instance"
	"github.com/runger/grimoire/internal/launcher"
	"github.com/runger/grimoire/internal/rank"
)

// isolate points every XDG location and HOME at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(home, "run"))
	t.Setenv("XDG_DATA_DIRS", "")
	t.Setenv("GRIMOIRE_LOG_LEVEL", "")
	t.Setenv("GRIMOIRE_DEBUG", "")
	t.Setenv("GRIMOIRE_TERMINAL", "")
	return home
}

func resetFlags() {
	dmenuFlag = false
	colorMode = "auto"
	listQuery, listScores, listDmenu = "", false, false
	snapshotQuery, snapshotOut, snapshotFormat = "", "grimoire.png", "png"
	snapshotSelected, snapshotWidth, snapshotHeight = 0, 0, 0
	snapshotDmenu = false
}

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDesktop(t *testing.T, home, id, name, comment string) {
	t.Helper()
	dir := filepath.Join(home, ".local", "share", "applications")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "[Desktop Entry]\nType=Application\nName=" + name + "\nExec=" + id + " %U\nComment=" + comment + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".desktop"), []byte(content), 0o644))
}

func writeState(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".local", "state", "widgets")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grimoire.toml"), []byte(content), 0o644))
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, err := runRoot(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "grimoire "+Version)
	assert.Contains(t, out, "commit:")
}

func TestConfig_SetGetList(t *testing.T) {
	home := isolate(t)

	out, err := runRoot(t, "", "config", "ui.columns", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "ui.columns = 4")

	saved := filepath.Join(home, ".config", "grimoire", "config.yaml")
	assert.FileExists(t, saved)

	out, err = runRoot(t, "", "config", "ui.columns")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	out, err = runRoot(t, "", "config")
	require.NoError(t, err)
	for _, key := range config.ListKeys() {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, saved)
}

func TestConfig_InvalidSetFails(t *testing.T) {
	isolate(t)

	_, err := runRoot(t, "", "config", "state.backend", "redis")
	assert.Error(t, err)

	_, err = runRoot(t, "", "config", "nosuch.key")
	assert.Error(t, err)
}

func TestList_Dmenu(t *testing.T) {
	isolate(t)

	out, err := runRoot(t, "firefox\nfiles\nterminal\n", "list", "--dmenu", "--query", "fi")
	require.NoError(t, err)
	assert.Equal(t, "firefox\nfiles\n", out)
}

func TestList_DrunRanksByFrecency(t *testing.T) {
	home := isolate(t)
	writeDesktop(t, home, "zqxalpha", "Zqxalpha", "first")
	writeDesktop(t, home, "zqxbeta", "Zqxbeta", "")
	writeState(t, home, "[zqxbeta]\ncount = 5\nlast = 4102444800\n")

	out, err := runRoot(t, "", "list", "--query", "zqx", "--scores")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Zqxbeta")
	assert.Contains(t, lines[0], "5.000")
	assert.Contains(t, lines[1], "Zqxalpha")
	assert.Contains(t, lines[1], "first")
}

func TestFrecency_ShowForgetReset(t *testing.T) {
	home := isolate(t)

	out, err := runRoot(t, "", "frecency", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No launches recorded")

	writeState(t, home, "[firefox]\ncount = 2\nlast = 1700000000\n\n[foot]\ncount = 9\nlast = 1700000000\n")

	out, err = runRoot(t, "", "frecency", "show")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "foot"), strings.Index(out, "firefox"), "higher score first")

	out, err = runRoot(t, "", "frecency", "forget", "foot")
	require.NoError(t, err)
	assert.Contains(t, out, "Forgot")

	out, err = runRoot(t, "", "frecency", "forget", "foot")
	require.NoError(t, err)
	assert.Contains(t, out, "No launches recorded for")

	out, err = runRoot(t, "", "frecency", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "foot")
	assert.Contains(t, out, "firefox")

	out, err = runRoot(t, "", "frecency", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared")

	out, err = runRoot(t, "", "frecency", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No launches recorded")
}

func TestSnapshot_PNG(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "frame.png")

	_, err := runRoot(t, "alpha\nbeta\ngamma\n",
		"snapshot", "--dmenu", "--query", "a", "--selected", "1",
		"--width", "200", "--height", "150", "--out", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestSnapshot_BGRAToStdout(t *testing.T) {
	isolate(t)

	out, err := runRoot(t, "one\n", "snapshot", "--dmenu", "--format", "bgra",
		"--width", "64", "--height", "80", "--out", "-")
	require.NoError(t, err)
	assert.Len(t, out, 64*80*4)
}

func TestSnapshot_UnknownFormat(t *testing.T) {
	isolate(t)

	_, err := runRoot(t, "", "snapshot", "--format", "gif", "--out", "-")
	assert.Error(t, err)
}

func TestLauncher_SecondInstanceExitsQuietly(t *testing.T) {
	isolate(t)

	lock := instance.New(config.DefaultPaths().LockFile())
	require.NoError(t, lock.Acquire())
	defer lock.Release()

	out, err := runRoot(t, "a\nb\n", "dmenu")
	if err == nil && out == "" {
		return
	}
	t.Fatalf("second instance should exit cleanly with no output, got %q, %v", out, err)
}

func TestRoot_RejectsArgs(t *testing.T) {
	isolate(t)

	_, err := runRoot(t, "", "unexpected")
	assert.Error(t, err)
}

func TestStatusText(t *testing.T) {
	assert.Empty(t, statusText(nil))

	items := []desktop.Item{
		{Name: "Firefox", Comment: "Web Browser"},
		{Name: "Files"},
	}
	s := launcher.NewState(items, rank.Matcher{}, launcher.Viewport{Width: 600, Height: 400, Columns: 1, IconSize: 32})
	assert.Equal(t, "2/2  Firefox - Web Browser", statusText(s))

	s.SetQuery("zzz")
	assert.Equal(t, "0/2", statusText(s))
}

func TestExitReason(t *testing.T) {
	assert.Equal(t, "error", exitReason(nil, assert.AnError))
	assert.Equal(t, "done", exitReason(&launcher.State{Exit: true}, nil))
	assert.Equal(t, "interrupted", exitReason(&launcher.State{}, nil))
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)
	assert.Equal(t, filepath.Join(home, "colors"), expandHome("~/colors"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/etc/colors", expandHome("/etc/colors"))
	assert.Equal(t, "", expandHome(""))
}
