package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mint/internal/adapters/watcher" //nolint:depguard // Default debounce window
	"go.trai.ch/mint/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [targets...]",
		Short: "Run tasks, then run them again whenever project files change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			debounce, _ := cmd.Flags().GetDuration("debounce")
			return c.app.Watch(cmd.Context(), args, app.WatchOptions{
				RunOptions: runOptions(cmd),
				Debounce:   debounce,
			})
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Duration("debounce", watcher.DefaultDebounceWindow, "Quiet period before a batch of changes triggers a rebuild")
	return cmd
}
