package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gearr/gearr-console/internal/cli"
	"github.com/gearr/gearr-console/internal/config"
	"github.com/gearr/gearr-console/internal/gateway"
)

var (
	serverFlag string
	tokenFlag  string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gearr-console",
		Short: "Terminal console for a gearr transcoding cluster",
		Long: `gearr-console talks to a gearr server: it lists, creates and deletes
transcoding jobs, follows live job updates over the server's push channel,
and shows the worker roster.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Server base URL (default GEARR_SERVER_URL)")
	cmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Bearer token (default GEARR_TOKEN; prompted if absent)")
	cmd.AddCommand(
		newWatchCmd(),
		newJobsCmd(),
		newWorkersCmd(),
	)
	return cmd
}

// setup resolves configuration and builds an authenticated gateway
// client. The token falls back to an interactive masked prompt when
// neither flag nor environment provides one.
func setup() (*config.Config, *gateway.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}
	if tokenFlag != "" {
		cfg.Token = tokenFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if cfg.Token == "" {
		token, err := cli.NewTokenPrompter().Prompt()
		if err != nil {
			return nil, nil, err
		}
		cfg.Token = token
	}

	client := gateway.NewClient(cfg.ServerURL, cfg.Token)
	client.HTTPClient.Timeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	return cfg, client, nil
}

// sessionEndedHint is appended to errors that invalidate the session.
func sessionEndedHint(err error) error {
	return fmt.Errorf("%w\nsession ended: the token is likely expired, sign in again", err)
}
