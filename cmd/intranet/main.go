// Command intranet is a terminal client for the secret-lab intranet API.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "intranet",
	Short:         "Secret-lab intranet client",
	Long:          "Browse the secret-lab intranet (employees, documentation, research) from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
