package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/vearutop/photoenhance"
)

// getPresetsCmd returns the definition of the presets command.
func getPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List available presets.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Slug", "Brightness", "Contrast", "Warmth", "Saturation", "Description"})
			table.SetAutoWrapText(false)

			for _, p := range photoenhance.Presets() {
				table.Append([]string{p.Name, p.Slug(), f(p.Brightness), f(p.Contrast), f(p.Warmth), f(p.Saturation), p.Description})
			}

			table.Render()
		},
	}
}
