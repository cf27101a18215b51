package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newProvidersCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured providers and today's quota usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, cliMetrics())
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Type", "Adapter", "Timeout", "Daily limit", "Used today"})
			table.SetAutoWrapText(false)

			for _, p := range a.store.All() {
				limit := "unlimited"
				if p.DailyLimit > 0 {
					limit = strconv.Itoa(p.DailyLimit)
				}
				table.Append([]string{
					p.Name,
					string(p.Type),
					p.AdapterID,
					p.Timeout.String(),
					limit,
					strconv.Itoa(a.tracker.Usage(p.Name)),
				})
			}
			table.Render()
			return nil
		},
	}
}
