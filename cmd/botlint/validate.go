package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botlint/internal/checklist"
	"botlint/internal/errors"
	"botlint/internal/lint"
)

type validateOptions struct {
	checks    []string
	checklist string
	oracle    bool
	usage     bool
	save      bool
	format    string
}

func newValidateCmd(a *app) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a bot export",
		Long: `Validate a bot export against the structural rule set.

Checks every page for transitions to missing pages, pages without handlers,
undeclared intents, unknown event types and malformed conditions. Custom
check descriptions are appended as reminders.

Exit status: 0 when clean, 1 when there are findings, 2 when the document
cannot be read or lacks context.flows, 3 on any other failure.

Examples:
  botlint validate bot.json
  botlint validate bot.json -o sarif > botlint.sarif
  botlint validate bot.json --check "Greeting mentions opening hours"
  botlint validate bot.json --oracle --save
  cat bot.json | botlint validate -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, a, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.checks, "check", nil, "Custom check description (repeatable)")
	f.StringVar(&opts.checklist, "checklist", "", "TOML checklist of custom checks (default: checklist.path from config)")
	f.BoolVar(&opts.oracle, "oracle", false, "Ask the LLM oracle for fix suggestions")
	f.BoolVar(&opts.usage, "usage", false, "Include intent and entity usage analysis")
	f.BoolVar(&opts.save, "save", false, "Archive the report in history")
	f.StringVarP(&opts.format, "output", "o", "human", "Output format: human, json, yaml, sarif")
	return cmd
}

func runValidate(cmd *cobra.Command, a *app, opts *validateOptions, path string) error {
	format, err := parseFormat(opts.format, FormatHuman, FormatJSON, FormatYAML, FormatSARIF)
	if err != nil {
		return err
	}

	checks, err := customChecks(a, opts)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	svc, err := a.service(opts.save)
	if err != nil {
		return err
	}

	r, err := svc.Validate(cmd.Context(), data, lint.ValidateOptions{
		Source:       path,
		CustomChecks: checks,
		UseOracle:    opts.oracle,
		WithUsage:    opts.usage,
		Save:         opts.save,
	})
	if err != nil {
		if r == nil {
			if errors.Is(err, errors.DocumentUnreadable) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return &exitError{code: exitStructure}
			}
			return err
		}
		// The report stands even when archiving fails.
		a.logger.Warn("Report not archived", "error", err)
	}

	if err := writeReport(cmd.OutOrStdout(), r, format); err != nil {
		return err
	}

	switch {
	case r.HasStructureError():
		return &exitError{code: exitStructure}
	case len(r.Findings) > 0:
		return &exitError{code: exitFindings}
	default:
		return nil
	}
}

// customChecks merges --check flags with the checklist file.
func customChecks(a *app, opts *validateOptions) ([]string, error) {
	path := opts.checklist
	if path == "" {
		path = a.cfg.Checklist.Path
	}
	if path == "" {
		return opts.checks, nil
	}
	fromFile, err := checklist.Load(path)
	if err != nil {
		return nil, err
	}
	return checklist.Merge(opts.checks, fromFile), nil
}
