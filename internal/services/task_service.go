package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/storage"
	"github.com/yukikurage/task-tracker/internal/validation"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrNotTaskOwner    = errors.New("task belongs to another user")
	ErrTitleTaken      = errors.New("the title has already been taken")
	ErrInvalidImage    = validation.ErrInvalidImage
	ErrImageTooLarge   = validation.ErrImageTooLarge
)

// TaskService handles the task lifecycle: listing, mutation, trash and purge
type TaskService struct {
	taskRepo      repository.TaskRepository
	storage       storage.FileStorage
	maxImageBytes int64
	now           func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, fileStorage storage.FileStorage, maxImageBytes int64) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		storage:       fileStorage,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
	}
}

// WithClock replaces the clock used for subtask timestamps
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// ListTasksInput holds the raw listing options as requested by the caller
type ListTasksInput struct {
	UserID         uint64
	Status         string
	Search         string
	OrderBy        string
	OrderDirection string
	PerPage        int
	Page           int
}

// AppliedFilters is the listing state actually used after invalid options were dropped
type AppliedFilters struct {
	Status         *models.TaskStatus `json:"status"`
	Search         string             `json:"search"`
	OrderBy        string             `json:"order_by"`
	OrderDirection string             `json:"order_direction"`
	PerPage        int                `json:"per_page"`
	Page           int                `json:"page"`
}

// TaskPage is one page of a listing together with the filters that produced it
type TaskPage struct {
	Tasks   []models.Task
	Total   int64
	Filters AppliedFilters
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      uint64
	Title       string
	Description string
	Status      models.TaskStatus
	IsPublished bool
	Image       []byte
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	IsPublished bool
	Image       []byte
}

// ListTasks returns the caller's active tasks
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) (*TaskPage, error) {
	filters := applyListOptions(input,
		[]string{constants.OrderByTitle, constants.OrderByCreatedAt}, constants.OrderByCreatedAt)

	filter := repository.TaskFilter{
		UserID:         input.UserID,
		Status:         filters.Status,
		Search:         filters.Search,
		OrderBy:        filters.OrderBy,
		OrderDirection: filters.OrderDirection,
		Page:           filters.Page,
		PageSize:       filters.PerPage,
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &TaskPage{Tasks: tasks, Total: total, Filters: filters}, nil
}

// ListTrashed returns the caller's trashed tasks
func (s *TaskService) ListTrashed(ctx context.Context, input ListTasksInput) (*TaskPage, error) {
	// Only ordering and paging apply to the trash
	input.Status = ""
	input.Search = ""
	filters := applyListOptions(input,
		[]string{constants.OrderByTitle, constants.OrderByDeletedAt}, constants.OrderByDeletedAt)

	filter := repository.TaskFilter{
		UserID:         input.UserID,
		Trashed:        true,
		OrderBy:        filters.OrderBy,
		OrderDirection: filters.OrderDirection,
		Page:           filters.Page,
		PageSize:       filters.PerPage,
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed tasks: %w", err)
	}

	return &TaskPage{Tasks: tasks, Total: total, Filters: filters}, nil
}

func applyListOptions(input ListTasksInput, orderFields []string, defaultOrder string) AppliedFilters {
	filters := AppliedFilters{
		Search:         strings.TrimSpace(input.Search),
		OrderBy:        defaultOrder,
		OrderDirection: repository.SortDesc,
		PerPage:        constants.DefaultPageSize,
		Page:           input.Page,
	}

	if status, ok := models.ParseTaskStatus(input.Status); ok {
		filters.Status = &status
	}
	if slices.Contains(orderFields, input.OrderBy) {
		filters.OrderBy = input.OrderBy
	}
	if input.OrderDirection == repository.SortAsc || input.OrderDirection == repository.SortDesc {
		filters.OrderDirection = input.OrderDirection
	}
	if slices.Contains(constants.AllowedPageSizes, input.PerPage) {
		filters.PerPage = input.PerPage
	}
	if filters.Page < constants.MinPage {
		filters.Page = constants.MinPage
	}

	return filters
}

// GetTask loads an active task and checks that userID owns it
func (s *TaskService) GetTask(ctx context.Context, taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.UserID != userID {
		return nil, ErrNotTaskOwner
	}

	return task, nil
}

// IsTitleTaken reports whether another active task already uses title
func (s *TaskService) IsTitleTaken(ctx context.Context, title string, excludeID uint64) (bool, error) {
	taken, err := s.taskRepo.TitleExists(ctx, strings.TrimSpace(title), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return taken, nil
}

// MaxImageBytes is the largest accepted image upload
func (s *TaskService) MaxImageBytes() int64 {
	return s.maxImageBytes
}

// CheckImage validates raw image bytes and returns the extension they will be stored under
func (s *TaskService) CheckImage(data []byte) (string, error) {
	return validation.Image(data, s.maxImageBytes)
}

// CreateTask creates a new task owned by input.UserID
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		UserID:      input.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		IsPublished: input.IsPublished,
		Subtasks:    []models.Subtask{},
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}

	if len(input.Image) > 0 {
		ref, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		task.ImagePath = &ref
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask merges input onto task, replacing its image when a new one is supplied
func (s *TaskService) UpdateTask(ctx context.Context, task *models.Task, input UpdateTaskInput) (*models.Task, error) {
	if len(input.Image) > 0 {
		ext, err := s.CheckImage(input.Image)
		if err != nil {
			return nil, err
		}
		if task.ImagePath != nil {
			if err := s.storage.Delete(ctx, *task.ImagePath); err != nil {
				return nil, fmt.Errorf("failed to delete old image: %w", err)
			}
		}
		ref, err := s.storage.Store(ctx, constants.TaskImageDir, input.Image, ext)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		task.ImagePath = &ref
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Description = input.Description
	if input.Status != "" {
		task.Status = input.Status
	}
	task.IsPublished = input.IsPublished

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// UpdateStatus sets the task status unconditionally
func (s *TaskService) UpdateStatus(ctx context.Context, task *models.Task, status models.TaskStatus) (*models.Task, error) {
	task.Status = status
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	return task, nil
}

// TogglePublished flips the published flag
func (s *TaskService) TogglePublished(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.IsPublished = !task.IsPublished
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to toggle published: %w", err)
	}
	return task, nil
}

// AddSubtask appends a subtask and persists the task
func (s *TaskService) AddSubtask(ctx context.Context, task *models.Task, title, description string) (*models.Task, error) {
	task.AddSubtask(strings.TrimSpace(title), description, s.now())
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to add subtask: %w", err)
	}
	return task, nil
}

// UpdateSubtaskStatus sets a subtask's completion. An unknown id leaves the list untouched.
func (s *TaskService) UpdateSubtaskStatus(ctx context.Context, task *models.Task, subtaskID int, completed bool) (*models.Task, error) {
	task.UpdateSubtaskStatus(subtaskID, completed, s.now())
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	return task, nil
}

// RemoveSubtask drops a subtask. An unknown id leaves the list untouched.
func (s *TaskService) RemoveSubtask(ctx context.Context, task *models.Task, subtaskID int) (*models.Task, error) {
	task.RemoveSubtask(subtaskID)
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to remove subtask: %w", err)
	}
	return task, nil
}

// ToggleSubtask flips a subtask's completion, failing with ErrSubtaskNotFound for an unknown id
func (s *TaskService) ToggleSubtask(ctx context.Context, task *models.Task, subtaskID int) (*models.Task, error) {
	subtask, ok := task.FindSubtask(subtaskID)
	if !ok {
		return nil, ErrSubtaskNotFound
	}
	return s.UpdateSubtaskStatus(ctx, task, subtaskID, !subtask.Completed)
}

// DeleteSubtask removes a subtask, failing with ErrSubtaskNotFound for an unknown id
func (s *TaskService) DeleteSubtask(ctx context.Context, task *models.Task, subtaskID int) (*models.Task, error) {
	if _, ok := task.FindSubtask(subtaskID); !ok {
		return nil, ErrSubtaskNotFound
	}
	return s.RemoveSubtask(ctx, task, subtaskID)
}

// SoftDelete moves the task to the trash. The stored image is kept so a restore is lossless.
func (s *TaskService) SoftDelete(ctx context.Context, task *models.Task) error {
	if err := s.taskRepo.SoftDelete(ctx, task); err != nil {
		return fmt.Errorf("failed to trash task: %w", err)
	}
	return nil
}

// Restore brings a trashed task back. found is false when the task is not in
// the trash or belongs to someone else.
func (s *TaskService) Restore(ctx context.Context, taskID, userID uint64) (task *models.Task, found bool, err error) {
	task, found, err = s.findOwnTrashed(ctx, taskID, userID)
	if err != nil || !found {
		return nil, false, err
	}

	if err := s.taskRepo.Restore(ctx, task); err != nil {
		return nil, false, fmt.Errorf("failed to restore task: %w", err)
	}
	return task, true, nil
}

// ForceDelete permanently removes a trashed task and its image. It returns
// false when the task is not in the trash or belongs to someone else.
func (s *TaskService) ForceDelete(ctx context.Context, taskID, userID uint64) (bool, error) {
	task, found, err := s.findOwnTrashed(ctx, taskID, userID)
	if err != nil || !found {
		return false, err
	}

	if err := purgeTask(ctx, s.taskRepo, s.storage, task); err != nil {
		return false, err
	}
	return true, nil
}

func (s *TaskService) findOwnTrashed(ctx context.Context, taskID, userID uint64) (*models.Task, bool, error) {
	task, err := s.taskRepo.FindTrashedByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to find trashed task: %w", err)
	}

	if task.UserID != userID {
		return nil, false, nil
	}
	return task, true, nil
}

// purgeTask deletes the stored image first, then the row
func purgeTask(ctx context.Context, taskRepo repository.TaskRepository, fileStorage storage.FileStorage, task *models.Task) error {
	if task.ImagePath != nil {
		if err := fileStorage.Delete(ctx, *task.ImagePath); err != nil {
			return fmt.Errorf("failed to delete image: %w", err)
		}
	}
	if err := taskRepo.ForceDelete(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) storeImage(ctx context.Context, data []byte) (string, error) {
	ext, err := s.CheckImage(data)
	if err != nil {
		return "", err
	}
	ref, err := s.storage.Store(ctx, constants.TaskImageDir, data, ext)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return ref, nil
}
