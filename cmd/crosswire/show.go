package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-crosswire"
)

type showOptions struct {
	missingOnly bool
	json        bool
	color       bool
}

func newShowCmd(root *rootOptions) *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show [files...]",
		Short: "List every setting after applying files",
		Long: `Apply the files in order (later files win) and print one line per
setting. Settings without a value are flagged as missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := root.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			return opts.render(cmd, reg)
		},
	}
	cmd.Flags().BoolVar(&opts.missingOnly, "missing-only", false, "Only list settings without a value")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output a JSON snapshot")
	cmd.Flags().BoolVar(&opts.color, "color", false, "Highlight missing settings in red")
	return cmd
}

func (o *showOptions) render(cmd *cobra.Command, reg *crosswire.Registry) error {
	out := cmd.OutOrStdout()
	if !o.json {
		return crosswire.Dump(out, reg.Store(), crosswire.DumpOptions{
			MissingOnly: o.missingOnly,
			Color:       o.color,
		})
	}

	snapshot := reg.Snapshot()
	if o.missingOnly {
		snapshot.Entries = snapshot.Missing()
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snapshot)
}
