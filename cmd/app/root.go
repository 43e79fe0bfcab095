package main

import (
	"fmt"
	"strings"

	"exportflow/cmd"
	"exportflow/internal/pkg/logger"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "exportflow",
		Short:         "Milestone scheduling for garment export orders",
		Long:          `Exportflow plans the production and shipping milestones of export orders and tracks them to completion.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional file with environment variables")

	loadConfig := func() (cmd.Config, error) {
		v, err := cmd.NewViper(envFile)
		if err != nil {
			return cmd.Config{}, err
		}
		return cmd.LoadConfig(v), nil
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newMigrateCmd(loadConfig),
		newScheduleCmd(),
	)
	return root
}

type configLoader func() (cmd.Config, error)

func newLogger(cfg cmd.Config) (*zap.Logger, error) {
	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

func openDatabase(cfg cmd.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgresdriver.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// echoLevel maps LOG_LEVEL onto the levels of echo's own logger.
func echoLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
