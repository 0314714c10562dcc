package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task
	Create(ctx context.Context, task *models.Task) error

	// CreateInBatches inserts many tasks at once
	CreateInBatches(ctx context.Context, tasks []models.Task, batchSize int) error

	// FindByID finds an active task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// FindByIDWithTrashed finds a task by ID whether or not it is trashed
	FindByIDWithTrashed(ctx context.Context, id uint64) (*models.Task, error)

	// FindTrashedByID finds a task by ID among trashed tasks only
	FindTrashedByID(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks with filtering, ordering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// ListTrashedBefore returns every trashed task deleted strictly before cutoff, across all owners
	ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.Task, error)

	// TitleExists reports whether an active task other than excludeID uses title
	TitleExists(ctx context.Context, title string, excludeID uint64) (bool, error)

	// Save writes every field of the task
	Save(ctx context.Context, task *models.Task) error

	// SoftDelete sets the deletion timestamp
	SoftDelete(ctx context.Context, task *models.Task) error

	// Restore clears the deletion timestamp
	Restore(ctx context.Context, task *models.Task) error

	// ForceDelete removes the row; deleting a missing row is not an error
	ForceDelete(ctx context.Context, id uint64) error
}

// Sort directions
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID  uint64
	Trashed bool
	Status  *models.TaskStatus
	// Search matches titles case-insensitively
	Search         string
	OrderBy        string
	OrderDirection string
	Page           int
	PageSize       int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// First returns the oldest user
	First(ctx context.Context) (*models.User, error)

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
