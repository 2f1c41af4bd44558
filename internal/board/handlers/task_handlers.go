package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/auth"
	"github.com/MohammadOTaha/side-planner/internal/board/controller"
	"github.com/MohammadOTaha/side-planner/internal/board/service"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

type TaskHandlers struct {
	controller *controller.TaskController
	logger     *logger.Logger
}

func NewTaskHandlers(svc *service.Service, log *logger.Logger) *TaskHandlers {
	return &TaskHandlers{
		controller: controller.NewTaskController(svc),
		logger:     log.WithFields(zap.String("component", "task-handlers")),
	}
}

func (h *TaskHandlers) registerHTTP(api *gin.RouterGroup) {
	tasks := api.Group("/boards/:boardId/tasks")
	tasks.GET("", h.httpListTasks)
	tasks.POST("", h.httpCreateTask)
	tasks.GET("/:taskId", h.httpGetTask)
	tasks.PATCH("/:taskId", h.httpUpdateTask)
	tasks.DELETE("/:taskId", h.httpDeleteTask)
	tasks.POST("/:taskId/restore", h.httpRestoreTask)
	tasks.PUT("/:taskId/move", h.httpMoveTask)
}

func (h *TaskHandlers) httpListTasks(c *gin.Context) {
	resp, err := h.controller.ListTasks(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), c.Query("status"))
	if err != nil {
		writeError(c, h.logger, err, "failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandlers) httpGetTask(c *gin.Context) {
	resp, err := h.controller.GetTask(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), c.Param("taskId"))
	if err != nil {
		writeError(c, h.logger, err, "failed to get task")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandlers) httpCreateTask(c *gin.Context) {
	var body v1.CreateTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	resp, err := h.controller.CreateTask(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), body)
	if err != nil {
		writeError(c, h.logger, err, "failed to create task")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TaskHandlers) httpUpdateTask(c *gin.Context) {
	var body v1.UpdateTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	resp, err := h.controller.UpdateTask(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), c.Param("taskId"), body)
	if err != nil {
		writeError(c, h.logger, err, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandlers) httpDeleteTask(c *gin.Context) {
	if err := h.controller.DeleteTask(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), c.Param("taskId")); err != nil {
		writeError(c, h.logger, err, "failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandlers) httpRestoreTask(c *gin.Context) {
	resp, err := h.controller.RestoreTask(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), c.Param("taskId"))
	if err != nil {
		writeError(c, h.logger, err, "failed to restore task")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandlers) httpMoveTask(c *gin.Context) {
	var body v1.MoveTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status and position are required"})
		return
	}
	resp, err := h.controller.MoveTask(c.Request.Context(), auth.OwnerID(c), c.Param("boardId"), c.Param("taskId"), body)
	if err != nil {
		writeError(c, h.logger, err, "failed to move task")
		return
	}
	c.JSON(http.StatusOK, resp)
}
