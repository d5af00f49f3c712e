package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenants/pkg/clientip"
	"github.com/dmitrymomot/tenants/pkg/config"
	"github.com/dmitrymomot/tenants/pkg/logger"
	"github.com/dmitrymomot/tenants/pkg/requestid"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "tenants",
		Short:         "Subdomain tenant resolution and tenant directory management",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			config.LoadEnvFiles(envFiles...)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newRollbackCmd(),
		newSeedCmd(),
		newSetActiveCmd("activate", "Serve a tenant on its subdomain again", true),
		newSetActiveCmd("deactivate", "Stop serving a tenant on its subdomain", false),
	)
	return root
}

// newLogger builds the process logger from LOG_* and APP_* variables.
func newLogger() (*slog.Logger, error) {
	var cfg logger.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	log, err := logger.NewFromConfig(cfg, logger.WithContextExtractors(
		requestid.LoggerExtractor(),
		clientip.LoggerExtractor(),
		tenant.LoggerExtractor(),
	))
	if err != nil {
		return nil, err
	}
	logger.SetAsDefault(log)
	return log, nil
}
