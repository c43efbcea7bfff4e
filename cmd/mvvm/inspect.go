package main

import (
	"fmt"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/model"
	"github.com/spf13/cobra"
)

func inspectCmd(a *app) *cobra.Command {
	var statsOnly bool

	cmd := &cobra.Command{
		Use:   "inspect <model.yaml>",
		Short: "Validate a model document and summarize it",
		Long: `Decode a model document, report its shape and print it back in
canonical form.

Examples:
  mvvm inspect models/player.yaml
  mvvm inspect --stats models/player.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect(args[0], statsOnly)
		},
	}

	cmd.Flags().BoolVar(&statsOnly, "stats", false, "Print only the summary")

	return cmd
}

func (a *app) inspect(path string, statsOnly bool) error {
	raw, err := model.Load(path)
	if err != nil {
		return err
	}

	stats := model.Collect(raw)
	a.logger.Debug("model loaded", "path", path, "containers", stats.Containers())

	fmt.Fprintf(a.out, "%s\n", path)
	fmt.Fprintf(a.out, "  Objects: %d\n", stats.Objects)
	fmt.Fprintf(a.out, "  Arrays:  %d\n", stats.Arrays)
	fmt.Fprintf(a.out, "  Maps:    %d\n", stats.Maps)
	fmt.Fprintf(a.out, "  Sets:    %d\n", stats.Sets)
	fmt.Fprintf(a.out, "  Scalars: %d\n", stats.Scalars)
	fmt.Fprintf(a.out, "  Depth:   %d\n", stats.Depth)
	if statsOnly {
		return nil
	}

	data, err := model.Encode(raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	_, err = a.out.Write(data)
	return err
}
