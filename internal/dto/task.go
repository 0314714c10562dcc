package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// TaskDTO represents a task in API responses, including its derived fields
type TaskDTO struct {
	ID                     uint64            `json:"id"`
	UserID                 uint64            `json:"user_id"`
	Title                  string            `json:"title"`
	Description            string            `json:"description"`
	Status                 models.TaskStatus `json:"status"`
	IsPublished            bool              `json:"is_published"`
	ImagePath              *string           `json:"image_path"`
	ImageURL               *string           `json:"image_url"`
	Subtasks               []models.Subtask  `json:"subtasks"`
	SubtasksCount          int               `json:"subtasks_count"`
	CompletedSubtasksCount int               `json:"completed_subtasks_count"`
	SubtasksProgress       int               `json:"subtasks_progress"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
	DeletedAt              *time.Time        `json:"deleted_at"`
}

// TaskListResponse represents one page of tasks and the filters that produced it
type TaskListResponse struct {
	Tasks   []TaskDTO                `json:"tasks"`
	Meta    utils.PaginationResponse `json:"meta"`
	Filters services.AppliedFilters  `json:"filters"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToTaskDTO converts a Task model to TaskDTO. baseURL prefixes the image URL.
func ToTaskDTO(task models.Task, baseURL string) TaskDTO {
	subtasks := task.Subtasks
	if subtasks == nil {
		subtasks = []models.Subtask{}
	}

	dto := TaskDTO{
		ID:                     task.ID,
		UserID:                 task.UserID,
		Title:                  task.Title,
		Description:            task.Description,
		Status:                 task.Status,
		IsPublished:            task.IsPublished,
		ImagePath:              task.ImagePath,
		ImageURL:               task.ImageURL(baseURL),
		Subtasks:               subtasks,
		SubtasksCount:          task.SubtasksCount(),
		CompletedSubtasksCount: task.CompletedSubtasksCount(),
		SubtasksProgress:       task.SubtasksProgress(),
		CreatedAt:              task.CreatedAt,
		UpdatedAt:              task.UpdatedAt,
	}

	if task.DeletedAt.Valid {
		deletedAt := task.DeletedAt.Time
		dto.DeletedAt = &deletedAt
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(page *services.TaskPage, baseURL string) TaskListResponse {
	items := make([]TaskDTO, len(page.Tasks))
	for i, task := range page.Tasks {
		items[i] = ToTaskDTO(task, baseURL)
	}

	return TaskListResponse{
		Tasks:   items,
		Meta:    utils.NewPaginationResponse(page.Filters.Page, page.Filters.PerPage, page.Total, len(items)),
		Filters: page.Filters,
	}
}
