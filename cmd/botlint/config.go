package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"botlint/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage botlint configuration",
		Long:  "View and manage botlint configuration stored in .botlint/config.toml",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a), newConfigEnvCmd())
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.Path(a.root)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(a.root); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// ConfigShowResponse is the JSON form of config show.
type ConfigShowResponse struct {
	ConfigPath   string         `json:"configPath"`
	UsedDefaults bool           `json:"usedDefaults"`
	OracleKeySet bool           `json:"oracleKeySet"`
	Config       *config.Config `json:"config"`
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Display the configuration after file, environment and .env overrides.
The oracle API key is never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormat(format, FormatHuman, FormatJSON)
			if err != nil {
				return err
			}
			path := config.Path(a.root)
			_, statErr := os.Stat(path)
			resp := ConfigShowResponse{
				ConfigPath:   path,
				UsedDefaults: statErr != nil,
				OracleKeySet: a.cfg.Oracle.Available(),
				Config:       a.cfg,
			}
			out := cmd.OutOrStdout()
			if f == FormatJSON {
				return writeJSON(out, resp)
			}

			data, err := toml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			source := path
			if resp.UsedDefaults {
				source = "defaults (no config file)"
			}
			fmt.Fprintf(out, "%s %s\n", headerStyle.Render("Configuration:"), source)
			fmt.Fprintf(out, "%s %v\n\n", dimStyle.Render("Oracle key set:"), resp.OracleKeySet)
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "human", "Output format: human, json")
	return cmd
}

// envVars lists the supported environment overrides.
var envVars = []struct {
	Name        string
	Description string
}{
	{"OPENAI_API_KEY", "Oracle API key (also read from .env)"},
	{"BOTLINT_ORACLE_APIKEY", "Oracle API key, takes precedence over OPENAI_API_KEY"},
	{"BOTLINT_ORACLE_BASEURL", "Oracle endpoint base URL"},
	{"BOTLINT_ORACLE_MODEL", "Oracle model name"},
	{"BOTLINT_ORACLE_MAXTOKENS", "Oracle reply token limit"},
	{"BOTLINT_ORACLE_TIMEOUTMS", "Oracle request timeout in milliseconds"},
	{"BOTLINT_ORACLE_WORKERS", "Concurrent typo-check requests (1-32)"},
	{"BOTLINT_LOGGING_LEVEL", "debug, info, warn or error"},
	{"BOTLINT_SERVER_ADDR", "HTTP listen address"},
	{"BOTLINT_SERVER_TOKENHASH", "bcrypt hash of the API token"},
	{"BOTLINT_HISTORY_ENABLED", "Archive reports (true/false)"},
	{"BOTLINT_HISTORY_PATH", "History database path"},
	{"BOTLINT_CHECKLIST_PATH", "Default custom checklist file"},
}

func newConfigEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, v := range envVars {
				set := ""
				if _, ok := os.LookupEnv(v.Name); ok {
					set = successStyle.Render(" (set)")
				}
				fmt.Fprintf(out, "%-26s %s%s\n", v.Name, v.Description, set)
			}
			return nil
		},
	}
}
