package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/navikt/roompanel/internal/app"
	"github.com/navikt/roompanel/internal/clock"
	"github.com/navikt/roompanel/internal/config"
	"github.com/navikt/roompanel/internal/logging"
	"github.com/navikt/roompanel/internal/repository"
)

var serverConfig = config.GetServerConfig()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the panel server",
	Long: `Run the panel server.

Flags default to the environment: PORT, LOG_LEVEL, ROOMPANEL_CONFIG and
SCHEDULE_WEBHOOK_SECRET. Redis storage is configured with REDIS_ENABLED and
the REDIS_* variables; without it meetings are kept in memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a system configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, err := config.Load(serverConfig.SystemFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rooms, %d panels, %d devices\n",
			serverConfig.SystemFile, len(sys.Rooms), len(sys.Panels), len(sys.Devices))
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serverConfig.Port, "port", "p", serverConfig.Port, "HTTP port")
	serveCmd.Flags().StringVar(&serverConfig.LogLevel, "log-level", serverConfig.LogLevel, "Log level (debug, info, warn, error)")

	for _, c := range []*cobra.Command{serveCmd, validateCmd} {
		c.Flags().StringVarP(&serverConfig.SystemFile, "config", "c", serverConfig.SystemFile, "System configuration file")
		rootCmd.AddCommand(c)
	}
}

func serve(ctx context.Context) error {
	log := logging.Init(serverConfig.LogLevel, os.Stderr)

	sys, err := config.Load(serverConfig.SystemFile)
	if err != nil {
		return err
	}

	repo, err := repository.New(config.GetRedisConfig(), logging.For("repository"))
	if err != nil {
		return err
	}

	a, err := app.New(sys, serverConfig, repo, clock.Real())
	if err != nil {
		repo.Close()
		return err
	}
	log.Info("system loaded", "file", serverConfig.SystemFile, "rooms", len(sys.Rooms), "panels", len(sys.Panels))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx, ":"+serverConfig.Port)
}
