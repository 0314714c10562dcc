package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/validation"
)

// AddSubtask appends a subtask to the task
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required,max=255"`
		Description string `json:"description" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, validation.FromBinding(err))
		return
	}

	task, err := h.taskService.AddSubtask(c.Request.Context(), task, req.Title, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, h.baseURL))
}

// UpdateSubtaskStatus sets a subtask's completion. Unknown subtask ids leave the task unchanged.
func (h *TaskHandler) UpdateSubtaskStatus(c *gin.Context) {
	task, subtaskID, ok := subtaskTarget(c)
	if !ok {
		return
	}

	var req struct {
		Completed *bool `json:"completed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, validation.FromBinding(err))
		return
	}

	task, err := h.taskService.UpdateSubtaskStatus(c.Request.Context(), task, subtaskID, *req.Completed)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.baseURL))
}

// ToggleSubtask flips a subtask's completion
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	task, subtaskID, ok := subtaskTarget(c)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleSubtask(c.Request.Context(), task, subtaskID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.baseURL))
}

// DeleteSubtask removes a subtask
func (h *TaskHandler) DeleteSubtask(c *gin.Context) {
	task, subtaskID, ok := subtaskTarget(c)
	if !ok {
		return
	}

	task, err := h.taskService.DeleteSubtask(c.Request.Context(), task, subtaskID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.baseURL))
}

func subtaskTarget(c *gin.Context) (*models.Task, int, bool) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return nil, 0, false
	}

	subtaskID, err := strconv.Atoi(c.Param("subtask_id"))
	if err != nil || subtaskID < 1 {
		apierrors.BadRequest(c, "Invalid subtask ID")
		return nil, 0, false
	}

	return task, subtaskID, true
}
