package repository

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return errors.WithStack(r.db.WithContext(ctx).Create(task).Error)
}

// CreateInBatches inserts many tasks at once
func (r *GormTaskRepository) CreateInBatches(ctx context.Context, tasks []models.Task, batchSize int) error {
	if len(tasks) == 0 {
		return nil
	}
	return errors.WithStack(r.db.WithContext(ctx).CreateInBatches(tasks, batchSize).Error)
}

// FindByID finds an active task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return &task, nil
}

// FindByIDWithTrashed finds a task by ID whether or not it is trashed
func (r *GormTaskRepository) FindByIDWithTrashed(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Unscoped().First(&task, id).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return &task, nil
}

// FindTrashedByID finds a task by ID among trashed tasks only
func (r *GormTaskRepository) FindTrashedByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		First(&task, id).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return &task, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes the LIKE wildcards in s match literally, with '!' as the escape character
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// List retrieves tasks with filtering, ordering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.WithContext(ctx).Model(&models.Task{})
	if filter.Trashed {
		query = query.Unscoped().Where("tasks.deleted_at IS NOT NULL")
	}
	query = query.Where("tasks.user_id = ?", filter.UserID)

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(tasks.title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(filter.Search))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count tasks")
	}

	listQuery := query
	if filter.OrderBy != "" {
		listQuery = listQuery.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "tasks", Name: filter.OrderBy},
			Desc:   filter.OrderDirection == SortDesc,
		})
	}
	// Stable paging when the ordered column has duplicates
	listQuery = listQuery.Order("tasks.id DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Page, filter.PageSize))
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list tasks")
	}

	return tasks, total, nil
}

// ListTrashedBefore returns every trashed task deleted strictly before cutoff, across all owners
func (r *GormTaskRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff.UTC()).
		Order("deleted_at ASC").
		Find(&tasks).Error
	return tasks, errors.WithStack(err)
}

// TitleExists reports whether an active task other than excludeID uses title
func (r *GormTaskRepository) TitleExists(ctx context.Context, title string, excludeID uint64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("title = ?", title)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, errors.WithStack(err)
	}
	return count > 0, nil
}

// Save writes every field of the task
func (r *GormTaskRepository) Save(ctx context.Context, task *models.Task) error {
	return errors.WithStack(r.db.WithContext(ctx).Save(task).Error)
}

// SoftDelete sets the deletion timestamp
func (r *GormTaskRepository) SoftDelete(ctx context.Context, task *models.Task) error {
	return errors.WithStack(r.db.WithContext(ctx).Delete(task).Error)
}

// Restore clears the deletion timestamp
func (r *GormTaskRepository) Restore(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Unscoped().Model(task).Update("deleted_at", nil).Error; err != nil {
		return errors.WithStack(err)
	}
	task.DeletedAt = gorm.DeletedAt{}
	return nil
}

// ForceDelete removes the row; deleting a missing row is not an error
func (r *GormTaskRepository) ForceDelete(ctx context.Context, id uint64) error {
	return errors.WithStack(r.db.WithContext(ctx).Unscoped().Delete(&models.Task{}, id).Error)
}
