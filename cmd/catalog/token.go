package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalog/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the API token",
	Long: `The HTTP API accepts a single bearer token. Only its bcrypt hash is stored
in the configuration (server.tokenHash or CATALOG_SERVER_TOKENHASH).`,
}

var tokenNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new API token and its hash",
	Long: `Generate a random API token. The token is shown once; put the printed
hash into server.tokenHash and hand the token to API clients.`,
	RunE: runTokenNew,
}

func init() {
	tokenCmd.AddCommand(tokenNewCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenNew(cmd *cobra.Command, args []string) error {
	token, err := auth.GenerateToken()
	if err != nil {
		return err
	}
	hash, err := auth.HashToken(token)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Token:      %s\n", token)
	fmt.Fprintf(out, "Token hash: %s\n", hash)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Save the token now, it cannot be recovered.")
	fmt.Fprintf(out, "Configure the server with: export CATALOG_SERVER_TOKENHASH='%s'\n", hash)
	return nil
}
