package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the intranet",
	Long:  "Sign in to the intranet and store the session in the configured store.",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Username")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (will prompt if not provided)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	// reset for reuse in tests
	defer func() {
		loginUsername = ""
		loginPassword = ""
	}()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if loginUsername == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Username: ")
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &loginUsername); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}

	if loginPassword == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		loginPassword = string(passwordBytes)
	}

	ctx := cmd.Context()
	if err := a.client.PrimeCSRF(ctx); err != nil {
		a.logger.Warn("continuing without CSRF cookie", "error", err)
	}

	resp, err := a.client.Login(ctx, loginUsername, loginPassword)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	employee := a.session.Employee.Get()
	switch {
	case employee.IsPlaceholder():
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (employee profile unavailable)\n", resp.User.Username)
	case employee != nil:
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", resp.User.Username, employee.Name)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", resp.User.Username)
	}
	return nil
}
