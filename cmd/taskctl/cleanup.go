package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
)

func newCleanupCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "cleanup-trashed",
		Short: "Permanently delete tasks trashed more than N days ago",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("days") {
				days = e.cfg.TrashRetentionDays
			}
			if days < 0 {
				return fmt.Errorf("--days must not be negative, got %d", days)
			}

			cleaner := services.NewTrashCleaner(repository.NewTaskRepository(e.db), e.disk)
			if _, err := cleaner.Sweep(cmd.Context(), days, cmd.OutOrStdout()); err != nil {
				logrus.WithError(err).Error("trash sweep failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "age in days after which trashed tasks are deleted (defaults to TRASH_RETENTION_DAYS)")
	return cmd
}
