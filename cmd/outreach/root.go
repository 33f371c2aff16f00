package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"outreach/internal/client"
	"outreach/internal/config"
	"outreach/internal/logging"
)

func newRootCommand() *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:           "outreach",
		Short:         "Trigger outreach campaigns from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Setup(cmd.ErrOrStderr(), logLevel, true)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newConfigCommand())
	return cmd
}

func newRunCommand() *cobra.Command {
	var (
		serverURL string
		source    string
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a campaign and wait for its metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client.New(client.Options{
				BaseURL: serverURL,
				Source:  source,
				Timeout: timeout,
			})
			if err != nil {
				return err
			}
			return runCampaign(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), c, 0)
		},
	}

	defaultURL := os.Getenv("BASE_URL")
	if defaultURL == "" {
		defaultURL = config.Default().BaseURL
	}
	cmd.Flags().StringVar(&serverURL, "server", defaultURL, "Base URL of the outreach server")
	cmd.Flags().StringVar(&source, "source", "", "Source reported to the workflow webhook (server default when empty)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits indefinitely)")
	return cmd
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective server configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
