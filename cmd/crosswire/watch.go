package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-crosswire/pkg/source"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	show := &showOptions{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [files...]",
		Short: "Re-apply files as they change and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg, ctx, err := root.load(ctx, args)
			if err != nil {
				return err
			}
			if err := show.render(cmd, reg); err != nil {
				return err
			}

			appendFile := source.AppendTo(reg)
			watcher, err := source.NewWatcher(func(ctx context.Context, file *source.File) error {
				if err := appendFile(ctx, file); err != nil {
					return err
				}
				return show.render(cmd, reg)
			}, args, source.WithWatchLogger(root.logger), source.WithDebounce(debounce))
			if err != nil {
				return err
			}
			return watcher.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&show.missingOnly, "missing-only", false, "Only list settings without a value")
	cmd.Flags().BoolVar(&show.json, "json", false, "Output a JSON snapshot")
	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "Delay before reloading a changed file")
	return cmd
}
