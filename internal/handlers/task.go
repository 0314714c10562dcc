package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/logger"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/utils"
	"github.com/yukikurage/task-tracker/internal/validation"
)

// TaskHandler serves the task endpoints
type TaskHandler struct {
	taskService *services.TaskService
	baseURL     string
}

// NewTaskHandler creates a new TaskHandler. baseURL prefixes image links.
func NewTaskHandler(taskService *services.TaskService, baseURL string) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		baseURL:     baseURL,
	}
}

// taskRequest is accepted as JSON or as a multipart form with an optional "image" file
type taskRequest struct {
	Title       string `form:"title" json:"title" binding:"required,max=100"`
	Description string `form:"description" json:"description" binding:"required"`
	Status      string `form:"status" json:"status" binding:"required,oneof=to-do in-progress done"`
	IsPublished bool   `form:"is_published" json:"is_published"`
}

// ListTasks returns the caller's tasks with filtering, ordering and pagination
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	page, err := h.taskService.ListTasks(c.Request.Context(), services.ListTasksInput{
		UserID:         userID,
		Status:         c.Query("status"),
		Search:         c.Query("search"),
		OrderBy:        c.Query("order_by"),
		OrderDirection: c.Query("order_direction"),
		PerPage:        params.PerPage,
		Page:           params.Page,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, h.baseURL))
}

// ListTrashed returns the caller's trashed tasks
func (h *TaskHandler) ListTrashed(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	page, err := h.taskService.ListTrashed(c.Request.Context(), services.ListTasksInput{
		UserID:         userID,
		OrderBy:        c.Query("order_by"),
		OrderDirection: c.Query("order_direction"),
		PerPage:        params.PerPage,
		Page:           params.Page,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, h.baseURL))
}

// GetTask returns a specific task.
// Task is already loaded by RequireTaskAccess middleware.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.baseURL))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	req, image, ok := h.bindTaskRequest(c, 0)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		IsPublished: req.IsPublished,
		Image:       image,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, h.baseURL))
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	req, image, ok := h.bindTaskRequest(c, task.ID)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), task, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		IsPublished: req.IsPublished,
		Image:       image,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.baseURL))
}

// DeleteTask moves a task to the trash
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.SoftDelete(c.Request.Context(), task); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task moved to trash."})
}

// UpdateStatus sets the task status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=to-do in-progress done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, validation.FromBinding(err))
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), task, models.TaskStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.baseURL))
}

// TogglePublished flips the published flag
func (h *TaskHandler) TogglePublished(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	task, err := h.taskService.TogglePublished(c.Request.Context(), task)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.baseURL))
}

// RestoreTask brings a trashed task back
func (h *TaskHandler) RestoreTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := middleware.ParseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, found, err := h.taskService.Restore(c.Request.Context(), taskID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		apierrors.NotFound(c, "Task not found or not authorized.")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.baseURL))
}

// ForceDeleteTask permanently deletes a trashed task
func (h *TaskHandler) ForceDeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := middleware.ParseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	deleted, err := h.taskService.ForceDelete(c.Request.Context(), taskID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		apierrors.NotFound(c, "Task not found or not authorized.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task permanently deleted."})
}

// bindTaskRequest validates the body, the title uniqueness and the optional image.
// It writes the error response itself and returns ok=false on failure.
func (h *TaskHandler) bindTaskRequest(c *gin.Context, taskID uint64) (taskRequest, []byte, bool) {
	var req taskRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.ValidationFailed(c, validation.FromBinding(err))
		return req, nil, false
	}

	image, err := readImage(c, h.taskService.MaxImageBytes())
	if errors.Is(err, services.ErrImageTooLarge) {
		h.respondError(c, err)
		return req, nil, false
	}
	if err != nil {
		apierrors.BadRequest(c, "Failed to read image")
		return req, nil, false
	}
	if image != nil {
		if _, err := h.taskService.CheckImage(image); err != nil {
			h.respondError(c, err)
			return req, nil, false
		}
	}

	taken, err := h.taskService.IsTitleTaken(c.Request.Context(), req.Title, taskID)
	if err != nil {
		h.respondError(c, err)
		return req, nil, false
	}
	if taken {
		h.respondError(c, services.ErrTitleTaken)
		return req, nil, false
	}

	return req, image, true
}

// readImage returns the uploaded "image" file, or nil when none was sent.
// At most maxBytes+1 bytes are read so oversized files never reach memory whole.
func readImage(c *gin.Context, maxBytes int64) ([]byte, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	if header.Size > maxBytes {
		return nil, services.ErrImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(io.LimitReader(file, maxBytes+1))
}

func (h *TaskHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrNotTaskOwner):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrSubtaskNotFound):
		apierrors.NotFound(c, "Subtask not found.")
	case errors.Is(err, services.ErrTitleTaken):
		apierrors.Conflict(c, "The title has already been taken.")
	case errors.Is(err, services.ErrInvalidImage), errors.Is(err, services.ErrImageTooLarge):
		fieldErrors := validation.FieldErrors{}
		fieldErrors.Add("image", err.Error())
		apierrors.ValidationFailed(c, fieldErrors)
	default:
		logger.FromContext(c).WithError(err).Error("task request failed")
		apierrors.InternalError(c, "")
	}
}
