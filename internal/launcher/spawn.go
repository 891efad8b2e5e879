package launcher

import (
	"log/slog"
	"os"
	"os/exec"

	"github.com/google/shlex"

	"github.com/runger/grimoire/internal/desktop"
)

// ShellSpawner runs commands through sh -c, detached from the launcher:
// all standard streams go to /dev/null, the child gets its own session and
// is never waited on.
type ShellSpawner struct {
	Terminal string // prefix for entries with Terminal=true, e.g. "ghostty -e"
	Logger   *slog.Logger
}

// CommandLine returns the shell command line for item.
func (s ShellSpawner) CommandLine(item desktop.Item) string {
	if item.Terminal && s.Terminal != "" {
		return s.Terminal + " " + item.Exec
	}
	return item.Exec
}

// Spawn starts item's command.
func (s ShellSpawner) Spawn(item desktop.Item) error {
	line := s.CommandLine(item)
	cmd := exec.Command("sh", "-c", line)
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer devNull.Close()
	cmd.Stdin, cmd.Stdout, cmd.Stderr = devNull, devNull, devNull
	setProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("launched", "item", item.Name, "program", program(line), "pid", cmd.Process.Pid)
	}
	return cmd.Process.Release()
}

// program returns the first word of a command line for logging.
func program(line string) string {
	words, err := shlex.Split(line)
	if err != nil || len(words) == 0 {
		return ""
	}
	return words[0]
}
