package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Describe each flow's main scenario and the variables it sets",
		Long: `Describe each flow as its longest path of page transitions, and list
every parameter preset by variable name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, FormatHuman, FormatJSON)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			svc, err := a.service(false)
			if err != nil {
				return err
			}
			sum, err := svc.Summarize(cmd.Context(), data)
			if err != nil {
				return err
			}
			if f == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), sum)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), formatSummaryHuman(sum))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "human", "Output format: human, json")
	return cmd
}
