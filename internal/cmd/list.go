package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/runger/grimoire/internal/desktop"
	"github.com/runger/grimoire/internal/frecency"
)

var (
	listQuery  string
	listScores bool
	listDmenu  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the ranked candidate list",
	Long: `Print the candidates in the order the launcher shows them, filtered by
--query the same way typing in the search bar would.

Examples:
  grimoire list                    # All applications, best first
  grimoire list --query fire       # Entries matching "fire"
  grimoire list --scores           # Include frecency scores
  printf 'a\nb\n' | grimoire list --dmenu --query b`,
	GroupID: groupLaunch,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "filter like the search bar")
	listCmd.Flags().BoolVar(&listScores, "scores", false, "show frecency scores")
	listCmd.Flags().BoolVar(&listDmenu, "dmenu", false, "read candidates from stdin")
}

func runList(cmd *cobra.Command, args []string) error {
	e := loadEnv()
	defer e.close()

	m := modeDrun
	if listDmenu {
		m = modeDmenu
	}
	cands := e.loadCandidates(cmd.Context(), m, cmd.InOrStdin(), false)
	defer cands.close()

	filtered := e.matcher().Filter(cands.items, listQuery)
	width := termWidth()
	out := cmd.OutOrStdout()
	now := time.Now()
	for _, idx := range filtered {
		printListItem(out, cands.items[idx], cands.frecency, now, width)
	}
	return nil
}

func printListItem(out io.Writer, item desktop.Item, fm frecency.Map, now time.Time, width int) {
	line := item.Name
	if listScores {
		line = fmt.Sprintf("%8.3f  %s", fm.Score(item.ID, now), line)
	}
	if item.Comment != "" {
		line += "  " + colorDim + item.Comment + colorReset
	}
	if width > 0 && colorDim == "" {
		line = runewidth.Truncate(line, width, "…")
	}
	fmt.Fprintln(out, line)
}

// termWidth returns the width list output is truncated to, or 0 for no
// truncation.
func termWidth() int {
	if w := ioctlColumns(os.Stdout.Fd()); w > 0 {
		return w
	}
	if v, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && v > 0 {
		return v
	}
	return 0
}
