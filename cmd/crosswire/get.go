package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get NAME [files...]",
		Short: "Resolve one dependency",
		Long: `Apply the files and resolve NAME the way an application would.
Import settings only resolve for symbols compiled into this binary.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			reg, ctx, err := root.load(cmd.Context(), args[1:])
			if err != nil {
				return err
			}
			value, err := reg.Dependency(ctx, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(map[string]any{"name": name, "value": value})
			}
			_, err = fmt.Fprintln(out, value)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
