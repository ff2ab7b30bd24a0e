package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"botlint/internal/config"
	"botlint/internal/errors"
	"botlint/internal/history"
	"botlint/internal/lint"
	"botlint/internal/metrics"
	"botlint/internal/oracle"
	"botlint/internal/rules"
	"botlint/internal/slogutil"
	"botlint/internal/suggest"
	"botlint/internal/typo"
	"botlint/internal/version"
)

// Exit codes.
const (
	exitClean     = 0
	exitFindings  = 1
	exitStructure = 2
	exitFailure   = 3
)

// exitError ends the process with code after output has been written.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// app holds state shared by every subcommand for one invocation.
type app struct {
	root    string
	verbose int
	quiet   bool

	cfg     *config.Config
	logs    *slogutil.LoggerFactory
	logger  *slog.Logger
	metrics *metrics.Recorder
	store   *history.Store
}

// execute runs the CLI with args and always releases resources.
func execute(args []string, stdout, stderr io.Writer) error {
	cmd, a := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	defer a.close()
	return cmd.Execute()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "botlint",
		Short: "botlint - bot configuration validator",
		Long: `botlint checks conversational-bot exports (flows, pages, handlers,
intents, entities) for broken page links, missing handlers, unknown intents
and events, and malformed conditions. It can ask an LLM oracle for fix
suggestions and typo checks, archive reports, and serve an HTTP API.`,
		Version:           version.Info(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	cmd.SetVersionTemplate("botlint version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.CountVarP(&a.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Suppress all logs")
	pf.StringVar(&a.root, "root", "", "Project root holding .botlint/ (default: current directory)")

	cmd.AddCommand(
		newValidateCmd(a),
		newUsageCmd(a),
		newSummaryCmd(a),
		newTyposCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newTokenCmd(a),
		newVersionCmd(),
	)
	return cmd, a
}

// setup loads configuration and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		a.root = wd
	}

	cfg, err := config.LoadConfig(a.root)
	if err != nil {
		return errors.New(errors.ConfigInvalid, "cannot load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return errors.New(errors.ConfigInvalid, "invalid configuration", err)
	}
	a.cfg = cfg

	a.logs = slogutil.NewLoggerFactory(a.root, cfg.Logging.Level)
	// The server follows logging.level unless -v/-q are given; every other
	// command defaults to warnings only.
	flags := cmd.Flags()
	if cmd.Name() != serveCmdName || flags.Changed("verbose") || flags.Changed("quiet") {
		a.logs.SetCLILevel(slogutil.LevelFromVerbosity(a.verbose, a.quiet))
	}
	a.logger = a.logs.CLILogger()
	a.logger.Debug("Configuration loaded", "root", a.root, "oracle", cfg.Oracle.Available())
	return nil
}

func (a *app) close() error {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slogutil.OrDiscard(a.logger).Warn("Closing history failed", "error", err)
		}
		a.store = nil
	}
	if a.logs != nil {
		return a.logs.Close()
	}
	return nil
}

// openStore opens the history archive once per invocation.
func (a *app) openStore() (*history.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if !a.cfg.History.Enabled {
		return nil, errors.New(errors.HistoryUnavailable, "history is disabled in configuration", nil)
	}
	s, err := history.Open(a.cfg.History.Path, a.logger)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

// service wires the lint service. The oracle client always backs fix
// suggestions, which degrade to an "unavailable" text without a key; typo
// checks are only wired when the key is set.
func (a *app) service(withStore bool) (*lint.Service, error) {
	client := oracle.New(a.cfg.Oracle, a.logger, a.metrics)

	svc := &lint.Service{
		Engine: rules.NewEngine(rules.WithLogger(a.logger), rules.WithMetrics(a.metrics)),
		Mapper: suggest.NewMapper(client, suggest.WithLogger(a.logger)),
		Logger: a.logger,
	}
	if client.Available() {
		svc.Typos = &typo.Runner{Checker: client, Workers: a.cfg.Oracle.Workers, Logger: a.logger}
	}
	if withStore {
		store, err := a.openStore()
		if err != nil {
			return nil, err
		}
		svc.Store = store
	}
	return svc, nil
}
