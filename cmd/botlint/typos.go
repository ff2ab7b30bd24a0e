package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"botlint/internal/lint"
	"botlint/internal/typo"
)

func newTyposCmd(a *app) *cobra.Command {
	var (
		format  string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "typos <file>",
		Short: "Check response texts for typos with the LLM oracle",
		Long: `Extract every <p> paragraph from page and handler responses and ask the
oracle to flag typos, one request per flow. Requests run in parallel up to
--workers at a time; a failed flow is reported as unknown without affecting
the others.

Requires an oracle API key (OPENAI_API_KEY or oracle.apiKey).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, FormatHuman, FormatJSON)
			if err != nil {
				return err
			}
			if workers < 1 {
				return fmt.Errorf("--workers must be at least 1, got %d", workers)
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			svc, err := a.service(false)
			if err != nil {
				return err
			}
			if svc.Typos != nil && cmd.Flags().Changed("workers") {
				svc.Typos.Workers = workers
			}

			start := time.Now()
			entries, err := svc.CheckTypos(cmd.Context(), data)
			if err != nil {
				return err
			}
			a.logger.Info("Typo check complete", "texts", len(entries), "duration", time.Since(start).Milliseconds())

			if f == FormatJSON {
				if entries == nil {
					entries = []lint.TypoEntry{}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), formatTyposHuman(entries))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "human", "Output format: human, json")
	cmd.Flags().IntVar(&workers, "workers", typo.DefaultWorkers, "Concurrent oracle requests (default: oracle.workers from config)")
	return cmd
}
