package cmd

import (
	"testing"

	"github.com/muesli/termenv"
)

func withColorMode(t *testing.T, mode string) {
	t.Helper()
	orig := colorMode
	t.Cleanup(func() {
		colorMode = orig
		applyColorMode()
	})
	colorMode = mode
	applyColorMode()
}

func TestApplyColorMode(t *testing.T) {
	withColorMode(t, "always")
	if colorBold == "" || colorReset == "" {
		t.Fatal("always should enable colors")
	}
	if colorReset != "\x1b[0m" {
		t.Errorf("colorReset = %q", colorReset)
	}

	colorMode = "never"
	applyColorMode()
	if colorBold != "" || colorDim != "" || colorReset != "" {
		t.Error("never should disable colors")
	}
}

func TestStdoutProfile_Env(t *testing.T) {
	t.Setenv("TERM", "dumb")
	if p := stdoutProfile(); p != termenv.Ascii {
		t.Errorf("TERM=dumb: profile = %v, want Ascii", p)
	}

	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "1")
	if p := stdoutProfile(); p != termenv.Ascii {
		t.Errorf("NO_COLOR: profile = %v, want Ascii", p)
	}
}

func TestAutoModeFollowsProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	withColorMode(t, "auto")
	if colorDim != "" {
		t.Error("auto mode should disable colors under NO_COLOR")
	}
}
