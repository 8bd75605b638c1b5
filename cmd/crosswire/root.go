package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-crosswire"
	"github.com/goliatone/go-crosswire/pkg/source"
)

type rootOptions struct {
	verbose bool
	sets    []string
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: slog.Default()}

	cmd := &cobra.Command{
		Use:   "crosswire",
		Short: "Inspect layered dependency settings",
		Long: `crosswire loads YAML or JSON setting files the way an application
would apply them and shows how each name resolves.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringArrayVar(&opts.sets, "set", nil, "Override a setting with NAME=VALUE (repeatable)")

	cmd.AddCommand(newShowCmd(opts), newGetCmd(opts), newWatchCmd(opts))
	return cmd
}

// load applies files in order, then --set overrides, to a fresh registry.
func (o *rootOptions) load(ctx context.Context, files []string) (*crosswire.Registry, context.Context, error) {
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	reg := crosswire.NewRegistry(
		crosswire.WithName("cli"),
		crosswire.WithLogger(crosswire.SlogLogger(logger)),
		crosswire.WithEvaluatorLogger(crosswire.SlogEvaluatorLogger(logger)),
	)

	sources, err := source.LoadAll(files...)
	if err != nil {
		return nil, nil, err
	}
	if len(o.sets) > 0 {
		overrides := source.NewMemory("--set")
		for _, assignment := range o.sets {
			if err := overrides.PutAssignment(assignment); err != nil {
				return nil, nil, err
			}
		}
		sources = append(sources, overrides)
	}

	ctx = reg.Bind(ctx)
	if err := reg.Apply(ctx, sources...); err != nil {
		return nil, nil, err
	}
	logger.Debug("configuration loaded", "files", len(files), "settings", reg.Store().Len())
	return reg, ctx, nil
}
