// Package main implements the taskctl maintenance CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/logger"
	"github.com/yukikurage/task-tracker/internal/storage"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// env holds what the commands need once configuration is loaded
type env struct {
	cfg  *config.Config
	db   *gorm.DB
	disk *storage.Disk
}

// loadEnv is replaced in tests
var loadEnv = func() (*env, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:  cfg,
		db:   db,
		disk: storage.NewDisk(cfg.StorageDir),
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Maintenance commands for the task tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCleanupCmd(),
		newSeedCmd(),
		newMigrateCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if err := database.Migrate(e.db); err != nil {
				logrus.WithError(err).Error("migration failed")
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed.")
			return nil
		},
	}
}
