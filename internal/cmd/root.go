package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

const (
	groupLaunch = "launch"
	groupState  = "state"
	groupSetup  = "setup"
)

var dmenuFlag bool

var rootCmd = &cobra.Command{
	Use:   "grimoire",
	Short: "keyboard-driven application launcher",
	Long: `grimoire - keyboard-driven application launcher
  - type to fuzzy-filter installed applications
  - frequently and recently launched entries rank first
  - --dmenu turns stdin lines into the candidate list`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyColorMode()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if dmenuFlag {
			return runLauncher(cmd, modeDmenu)
		}
		return runLauncher(cmd, modeDrun)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupLaunch, Title: "Launching:"},
		&cobra.Group{ID: groupState, Title: "State:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)

	rootCmd.Flags().BoolVar(&dmenuFlag, "dmenu", false, "read candidates from stdin and print the chosen line")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")

	rootCmd.AddCommand(drunCmd)
	rootCmd.AddCommand(dmenuCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(frecencyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
