package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newUsageCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "usage <file>",
		Short: "Report duplicate and unused intents and entities",
		Long: `Report intent and entity declarations that are duplicated or never
referenced by an intent trigger or a condition.

A declaration counts as used when an intent trigger names it exactly or any
condition statement contains its name.`,
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
			res, err := svc.Usage(data)
			if err != nil {
				return err
			}
			if f == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), formatUsageHuman(res))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "human", "Output format: human, json")
	return cmd
}
