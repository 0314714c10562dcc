package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/storage"
)

// TrashCleaner permanently deletes tasks that stayed in the trash too long
type TrashCleaner struct {
	taskRepo repository.TaskRepository
	storage  storage.FileStorage
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewTrashCleaner creates a new TrashCleaner
func NewTrashCleaner(taskRepo repository.TaskRepository, fileStorage storage.FileStorage) *TrashCleaner {
	return &TrashCleaner{
		taskRepo: taskRepo,
		storage:  fileStorage,
		now:      time.Now,
		log:      logrus.StandardLogger(),
	}
}

// WithClock replaces the clock used to compute the cutoff
func (c *TrashCleaner) WithClock(now func() time.Time) *TrashCleaner {
	c.now = now
	return c
}

// WithLogger replaces the logger
func (c *TrashCleaner) WithLogger(log logrus.FieldLogger) *TrashCleaner {
	c.log = log
	return c
}

// Sweep purges every task, of any owner, trashed strictly more than days ago.
// Progress lines are written to out. The first failure stops the sweep; tasks
// purged before it stay purged.
func (c *TrashCleaner) Sweep(ctx context.Context, days int, out io.Writer) (int, error) {
	if out == nil {
		out = io.Discard
	}

	fmt.Fprintf(out, "Looking for tasks trashed more than %d days ago...\n", days)
	cutoff := c.now().AddDate(0, 0, -days)

	tasks, err := c.taskRepo.ListTrashedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list trashed tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No trashed tasks found to clean up.")
		return 0, nil
	}

	fmt.Fprintf(out, "Found %d trashed tasks to clean up.\n", len(tasks))

	purged := 0
	for i := range tasks {
		task := &tasks[i]
		trashedOn := task.DeletedAt.Time.Format(models.TimestampLayout)

		if err := purgeTask(ctx, c.taskRepo, c.storage, task); err != nil {
			c.log.WithError(err).WithField("task_id", task.ID).Error("trash sweep stopped")
			return purged, err
		}
		purged++

		c.log.WithFields(logrus.Fields{
			"task_id":    task.ID,
			"title":      task.Title,
			"trashed_on": trashedOn,
		}).Info("permanently deleted trashed task")
		fmt.Fprintf(out, "Permanently deleted: ID: %d, Title: %s, Trashed on: %s\n", task.ID, task.Title, trashedOn)
	}

	c.log.WithFields(logrus.Fields{"count": purged, "days": days}).Info("trash sweep finished")
	fmt.Fprintf(out, "Successfully cleaned up %d trashed tasks.\n", purged)

	return purged, nil
}
