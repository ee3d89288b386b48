package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.trai.ch/mint/internal/adapters/detector" //nolint:depguard // Output mode names
	"go.trai.ch/mint/internal/app"
	"go.trai.ch/mint/internal/core/domain"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run specified tasks and their dependencies",
		Long:  "Run specified tasks and their dependencies.\nWithout targets, the task named \"default\" runs.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.app.Run(cmd.Context(), args, runOptions(cmd))
			if len(args) == 0 && errors.Is(err, domain.ErrNoTargetsSpecified) {
				// No default task: show usage instead of an error.
				_ = cmd.Help()
				return nil
			}
			return err
		},
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache and force execution")
	cmd.Flags().IntP("jobs", "j", 1, "Maximum number of tasks run in parallel (0 uses one per CPU)")
	cmd.Flags().StringP("output", "o", "auto", "Output mode: auto, tui or linear")
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		mode, _ := cmd.Flags().GetString("output")
		_, err := detector.ParseMode(mode)
		return err
	}
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	noCache, _ := cmd.Flags().GetBool("no-cache")
	jobs, _ := cmd.Flags().GetInt("jobs")
	output, _ := cmd.Flags().GetString("output")
	return app.RunOptions{NoCache: noCache, Jobs: jobs, OutputMode: output}
}
