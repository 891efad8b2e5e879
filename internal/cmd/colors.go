package cmd

import (
	"os"

	"github.com/muesli/termenv"
)

// Escape sequences for CLI output. Empty when colors are off.
var (
	colorGreen  string
	colorYellow string
	colorCyan   string
	colorDim    string
	colorBold   string
	colorReset  string
)

// colorMode is bound to the --color flag: auto, always or never.
var colorMode = "auto"

func init() {
	applyColorMode()
}

func enableColors() {
	colorGreen = termenv.CSI + "0;32m"
	colorYellow = termenv.CSI + "0;33m"
	colorCyan = termenv.CSI + "0;36m"
	colorDim = termenv.CSI + termenv.FaintSeq + "m"
	colorBold = termenv.CSI + termenv.BoldSeq + "m"
	colorReset = termenv.CSI + termenv.ResetSeq + "m"
}

func disableColors() {
	colorGreen = ""
	colorYellow = ""
	colorCyan = ""
	colorDim = ""
	colorBold = ""
	colorReset = ""
}

func applyColorMode() {
	switch colorMode {
	case "always":
		enableColors()
	case "never":
		disableColors()
	default:
		if stdoutProfile() == termenv.Ascii {
			disableColors()
		} else {
			enableColors()
		}
	}
}

// stdoutProfile is the color profile of stdout, honoring NO_COLOR,
// CLICOLOR_FORCE and TERM=dumb.
func stdoutProfile() termenv.Profile {
	if os.Getenv("TERM") == "dumb" {
		return termenv.Ascii
	}
	return termenv.NewOutput(os.Stdout).EnvColorProfile()
}
