package main

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
)

func newSeedCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed-tasks",
		Short: "Create demo tasks for every status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			seeder := services.NewSeeder(repository.NewUserRepository(e.db), repository.NewTaskRepository(e.db))
			_, _, err = seeder.Seed(cmd.Context(), count, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", constants.DefaultSeedCount, "tasks to create per status")
	return cmd
}
