package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botlint/internal/server"
)

// TokenResponse is the JSON form of token output.
type TokenResponse struct {
	Token string `json:"token"`
	Hash  string `json:"hash"`
	Saved bool   `json:"saved"`
}

func newTokenCmd(a *app) *cobra.Command {
	var (
		format string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate an API token for botlint serve",
		Long: `Generate a random API token and its bcrypt hash.

Put the hash in server.tokenHash (or pass --save to write it to
.botlint/config.toml) and send the token as "Authorization: Bearer <token>".
The token itself is shown once and never stored.

Examples:
  botlint token
  botlint token --save
  botlint token -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormat(format, FormatHuman, FormatJSON)
			if err != nil {
				return err
			}
			token, err := server.GenerateToken()
			if err != nil {
				return err
			}
			hash, err := server.HashToken(token)
			if err != nil {
				return err
			}

			if save {
				a.cfg.Server.TokenHash = hash
				if err := a.cfg.Save(a.root); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if f == FormatJSON {
				return writeJSON(out, TokenResponse{Token: token, Hash: hash, Saved: save})
			}
			fmt.Fprintf(out, "%s %s\n", headerStyle.Render("Token:"), token)
			fmt.Fprintf(out, "%s %s\n", headerStyle.Render("Hash: "), hash)
			if save {
				fmt.Fprintln(out, successStyle.Render("✓ Hash saved to server.tokenHash"))
			} else {
				fmt.Fprintln(out, dimStyle.Render("Set server.tokenHash to the hash to enable authentication."))
			}
			fmt.Fprintln(out, dimStyle.Render("Store the token now; it cannot be shown again."))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "human", "Output format: human, json")
	cmd.Flags().BoolVar(&save, "save", false, "Write the hash to .botlint/config.toml")
	return cmd
}
