package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/cmd/cli/commands"
	"github.com/pventura/congregation-admin/internal/config"
	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/store/localstore"
	"github.com/pventura/congregation-admin/pkg/store/mirrored"
	"github.com/pventura/congregation-admin/pkg/store/postgres"
	"github.com/pventura/congregation-admin/pkg/utils/logging"
)

var (
	env   string
	app   *commands.AppContext
	local *localstore.Store
	mirr  *mirrored.Store
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "congregation",
		Short: "Congregation Admin CLI - Manage duty schedules",
		Long:  `A CLI tool for managing congregation duty rotations, meeting programs, and cleaning assignments.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if mirr != nil {
				mirr.Wait()
			}
			if local != nil {
				local.Close()
			}
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "prod", "Environment (test, prod, etc.)")

	// Commands close over the shared app context populated by initApp.
	app = &commands.AppContext{}
	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.SubstituteCmd(app))
	rootCmd.AddCommand(commands.CleaningCmd(app))
	rootCmd.AddCommand(commands.FinalizeCmd(app))
	rootCmd.AddCommand(commands.ListMonthsCmd(app))
	rootCmd.AddCommand(commands.ClearMonthCmd(app))
	rootCmd.AddCommand(commands.ClearAllCmd(app))
	rootCmd.AddCommand(commands.ListMembersCmd(app))
	rootCmd.AddCommand(commands.AddMemberCmd(app))
	rootCmd.AddCommand(commands.RemoveMemberCmd(app))
	rootCmd.AddCommand(commands.ViewCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, stores and the meeting-day resolver
func initApp() error {
	app.Ctx = context.Background()

	logger, err := logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger
	logger.Info("Starting application", zap.String("environment", env))

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("No config file found, using defaults", zap.Error(err))
		cfg = config.Default()
	}
	app.Cfg = cfg

	app.Resolver, err = calendar.NewResolver(cfg.MeetingRules.Midweek, cfg.MeetingRules.Weekend)
	if err != nil {
		return fmt.Errorf("failed to build meeting-day resolver: %w", err)
	}

	local, err = localstore.Open(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	logger.Debug("Local store opened", zap.String("path", cfg.DataPath))

	var remote *postgres.Store
	if cfg.PostgresDSN != "" {
		remote, err = postgres.New(app.Ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Warn("Remote mirror unavailable, continuing local-only", zap.Error(err))
			remote = nil
		} else if err := remote.RunMigrations(app.Ctx); err != nil {
			logger.Warn("Remote migrations failed, continuing local-only", zap.Error(err))
			remote.Close()
			remote = nil
		} else {
			logger.Info("Remote mirror connected")
		}
	}

	if remote != nil {
		mirr = mirrored.New(local, remote, logger)
	} else {
		mirr = mirrored.New(local, nil, logger)
	}
	app.Database = mirr

	return nil
}
