package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		format string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List archived reports, or show one",
		Long: `Without arguments, list the most recent archived validation runs.
With a run id, print that report.

Reports are archived by 'botlint validate --save' and by the HTTP API.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				f, err := parseFormat(format, FormatHuman, FormatJSON, FormatYAML, FormatSARIF)
				if err != nil {
					return err
				}
				r, err := store.Get(args[0])
				if err != nil {
					return err
				}
				return writeReport(out, r, f)
			}

			f, err := parseFormat(format, FormatHuman, FormatJSON)
			if err != nil {
				return err
			}
			runs, err := store.List(limit)
			if err != nil {
				return err
			}
			if f == FormatJSON {
				return writeJSON(out, runs)
			}
			_, err = io.WriteString(out, formatRunsHuman(runs))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "human", "Output format: human, json (yaml, sarif for a single run)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	return cmd
}
