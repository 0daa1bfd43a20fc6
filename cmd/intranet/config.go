package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Undertaker4032/secret-lab-app/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update intranet client configuration settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  "Display the current effective configuration including environment variable overrides",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		redis := "-"
		if cfg.Store.RedisAddr != "" {
			redis = cfg.Store.RedisAddr
		}
		sections := []struct {
			title  string
			fields [][2]string
		}{
			{"Server", [][2]string{{"URL", cfg.Server.URL}, {"Timeout", cfg.Server.Timeout.String()}}},
			{"Auth", [][2]string{{"Mode", cfg.Auth.Mode}}},
			{"Store", [][2]string{{"Backend", cfg.Store.Backend}, {"Redis", redis}}},
			{"Logging", [][2]string{{"Level", cfg.Logging.Level}, {"Format", cfg.Logging.Format}}},
			{"Lists", [][2]string{{"Drop stale results", yesNo(cfg.Lists.DropStaleResults)}}},
		}

		out := cmd.OutOrStdout()
		for _, sec := range sections {
			fmt.Fprintln(out, labelStyle.Render(sec.title+":"))
			for _, f := range sec.fields {
				fmt.Fprintf(out, "  %s: %s\n", f[0], f[1])
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Locale: %s\n", cfg.Locale)

		if cfg.IsInsecure() {
			cmd.Printf("\nWarning: %s is reached over plain http\n", cfg.Server.URL)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>",
	Short:             "Update configuration value",
	Long:              "Update a configuration value in the config file. Example: intranet config set server.url https://intranet.example.com",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: configKeyCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := args[1]

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := cfg.Set(key, value); err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		cmd.Printf("Updated %s to: %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configKeyCompletion provides tab completion for config keys
func configKeyCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys(), cobra.ShellCompDirectiveNoFileComp
}
