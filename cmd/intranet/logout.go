package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session",
	Long:  "Notify the server and remove the stored session. The local session is removed even if the server cannot be reached.",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	a.session.Hydrate()
	if !a.session.IsAuthenticated.Get() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}

	// a fresh process has no CSRF cookie yet
	if err := a.client.PrimeCSRF(cmd.Context()); err != nil {
		a.logger.Warn("continuing without CSRF cookie", "error", err)
	}
	a.client.Logout(cmd.Context())

	fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully. Session removed.")
	return nil
}
