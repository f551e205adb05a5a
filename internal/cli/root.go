package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Options holds the flags shared by every command
type Options struct {
	ConfigPath string
	Channel    string
	Catalogue  string // overrides the channel url when set
	LogFile    string
}

// NewRootCommand creates the compgrip command tree. Without a subcommand it runs the TUI.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "compgrip",
		Short: "Pick installer components and their dependencies",
		Long: `compgrip shows an installer's component list as a tree of categories.

Selecting a component pulls in everything it depends on. Unselecting one asks
before removing the selected components that depend on it. On accept the
install plan is printed as JSON.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default compgrip.toml)")
	cmd.PersistentFlags().StringVar(&opts.Channel, "channel", "", "release channel (default from config)")
	cmd.PersistentFlags().StringVar(&opts.Catalogue, "catalogue", "", "component list url or path, overrides --channel")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log", "", "log file (default from config)")

	cmd.AddCommand(newTreeCommand(opts))
	cmd.AddCommand(newDepsCommand(opts))
	cmd.AddCommand(newDependantsCommand(opts))
	cmd.AddCommand(newPlanCommand(opts))
	cmd.AddCommand(newUnselectCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
