package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/grimoire/internal/frecency"
)

var frecencyCmd = &cobra.Command{
	Use:     "frecency",
	Short:   "Inspect or edit launch history",
	GroupID: groupState,
}

var frecencyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List recorded launches, highest score first",
	Args:  cobra.NoArgs,
	RunE:  runFrecencyShow,
}

var frecencyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget every recorded launch",
	Args:  cobra.NoArgs,
	RunE:  runFrecencyReset,
}

var frecencyForgetCmd = &cobra.Command{
	Use:   "forget <id>",
	Short: "Forget the launches of one desktop entry",
	Long: `Forget the launches of one desktop entry. The id is the desktop file
name without the .desktop suffix, as printed by 'grimoire frecency show'.`,
	Args: cobra.ExactArgs(1),
	RunE: runFrecencyForget,
}

func init() {
	frecencyCmd.AddCommand(frecencyShowCmd)
	frecencyCmd.AddCommand(frecencyResetCmd)
	frecencyCmd.AddCommand(frecencyForgetCmd)
}

type frecencyRow struct {
	id    string
	entry frecency.Entry
	score float64
}

// rankedEntries orders the map by score, then id.
func rankedEntries(fm frecency.Map, now time.Time) []frecencyRow {
	rows := make([]frecencyRow, 0, len(fm))
	for id, e := range fm {
		rows = append(rows, frecencyRow{id: id, entry: e, score: frecency.Score(e, now)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		return rows[i].id < rows[j].id
	})
	return rows
}

func runFrecencyShow(cmd *cobra.Command, args []string) error {
	e := loadEnv()
	defer e.close()

	store, fm := e.openFrecency(cmd.Context())
	if store != nil {
		defer store.Close()
	}

	out := cmd.OutOrStdout()
	if len(fm) == 0 {
		fmt.Fprintf(out, "No launches recorded in %s\n", e.statePath())
		return nil
	}

	now := time.Now()
	fmt.Fprintf(out, "%s%8s  %6s  %-19s  %s%s\n", colorBold, "SCORE", "COUNT", "LAST", "ID", colorReset)
	for _, r := range rankedEntries(fm, now) {
		last := time.Unix(r.entry.Last, 0).Format("2006-01-02 15:04:05")
		fmt.Fprintf(out, "%8.3f  %6d  %-19s  %s%s%s\n", r.score, r.entry.Count, last, colorCyan, r.id, colorReset)
	}
	return nil
}

func runFrecencyReset(cmd *cobra.Command, args []string) error {
	e := loadEnv()
	defer e.close()

	store, fm := e.openFrecency(cmd.Context())
	if store == nil {
		return fmt.Errorf("frecency state unavailable for backend %q", e.cfg.State.Backend)
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), frecency.Map{}); err != nil {
		return fmt.Errorf("failed to reset frecency state: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%sCleared%s %d entries from %s\n", colorGreen, colorReset, len(fm), e.statePath())
	return nil
}

func runFrecencyForget(cmd *cobra.Command, args []string) error {
	e := loadEnv()
	defer e.close()

	store, fm := e.openFrecency(cmd.Context())
	if store == nil {
		return fmt.Errorf("frecency state unavailable for backend %q", e.cfg.State.Backend)
	}
	defer store.Close()

	id := args[0]
	if !fm.Forget(id) {
		fmt.Fprintf(cmd.OutOrStdout(), "%sNo launches recorded for%s %s\n", colorYellow, colorReset, id)
		return nil
	}
	if err := store.Save(cmd.Context(), fm); err != nil {
		return fmt.Errorf("failed to save frecency state: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%sForgot%s %s\n", colorGreen, colorReset, id)
	return nil
}
