package controller

import (
	"context"
	"strings"

	"github.com/MohammadOTaha/side-planner/internal/board/dto"
	"github.com/MohammadOTaha/side-planner/internal/board/models"
	"github.com/MohammadOTaha/side-planner/internal/board/service"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// TaskController scopes every task operation to a board of the caller.
type TaskController struct {
	service *service.Service
}

func NewTaskController(svc *service.Service) *TaskController {
	return &TaskController{service: svc}
}

// authorize fails with service.ErrBoardNotFound unless ownerID owns boardID.
func (c *TaskController) authorize(ctx context.Context, ownerID, boardID string) error {
	_, err := c.service.GetBoard(ctx, ownerID, boardID)
	return err
}

func (c *TaskController) ListTasks(ctx context.Context, ownerID, boardID, status string) (v1.ListTasksResponse, error) {
	if err := c.authorize(ctx, ownerID, boardID); err != nil {
		return v1.ListTasksResponse{}, err
	}
	var (
		tasks []*models.Task
		err   error
	)
	if strings.TrimSpace(status) != "" {
		tasks, err = c.service.ListPartition(ctx, boardID, dto.ParseStatus(status))
	} else {
		tasks, err = c.service.ListTasks(ctx, boardID)
	}
	if err != nil {
		return v1.ListTasksResponse{}, err
	}
	return v1.ListTasksResponse{Tasks: dto.FromTasks(tasks), Total: len(tasks)}, nil
}

func (c *TaskController) GetTask(ctx context.Context, ownerID, boardID, taskID string) (v1.Task, error) {
	if err := c.authorize(ctx, ownerID, boardID); err != nil {
		return v1.Task{}, err
	}
	task, err := c.service.GetTask(ctx, boardID, taskID)
	if err != nil {
		return v1.Task{}, err
	}
	return dto.FromTask(task), nil
}

func (c *TaskController) CreateTask(ctx context.Context, ownerID, boardID string, req v1.CreateTaskRequest) (v1.Task, error) {
	if err := c.authorize(ctx, ownerID, boardID); err != nil {
		return v1.Task{}, err
	}
	task, err := c.service.CreateTask(ctx, &service.CreateTaskRequest{
		BoardID:     boardID,
		ParentID:    req.ParentID,
		Title:       req.Title,
		Description: req.Description,
		Status:      dto.ParseStatus(req.Status),
		Priority:    dto.ParsePriority(req.Priority),
		Complexity:  dto.ParseComplexity(req.Complexity),
		DueDate:     req.DueDate,
	})
	if err != nil {
		return v1.Task{}, err
	}
	return dto.FromTask(task), nil
}

func (c *TaskController) UpdateTask(ctx context.Context, ownerID, boardID, taskID string, req v1.UpdateTaskRequest) (v1.Task, error) {
	if err := c.authorize(ctx, ownerID, boardID); err != nil {
		return v1.Task{}, err
	}
	patch := &service.UpdateTaskRequest{
		Title:        req.Title,
		Description:  req.Description,
		ParentID:     req.ParentID,
		ClearParent:  req.ClearParent,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDue,
	}
	if req.Priority != nil {
		p := dto.ParsePriority(*req.Priority)
		patch.Priority = &p
	}
	if req.Complexity != nil {
		cx := dto.ParseComplexity(*req.Complexity)
		patch.Complexity = &cx
	}
	task, err := c.service.UpdateTask(ctx, boardID, taskID, patch)
	if err != nil {
		return v1.Task{}, err
	}
	return dto.FromTask(task), nil
}

func (c *TaskController) DeleteTask(ctx context.Context, ownerID, boardID, taskID string) error {
	if err := c.authorize(ctx, ownerID, boardID); err != nil {
		return err
	}
	return c.service.DeleteTask(ctx, boardID, taskID)
}

func (c *TaskController) RestoreTask(ctx context.Context, ownerID, boardID, taskID string) (v1.Task, error) {
	if err := c.authorize(ctx, ownerID, boardID); err != nil {
		return v1.Task{}, err
	}
	task, err := c.service.RestoreTask(ctx, boardID, taskID)
	if err != nil {
		return v1.Task{}, err
	}
	return dto.FromTask(task), nil
}

// MoveTask moves a task and returns the authoritative order of the columns
// it touched so clients can replace optimistic state.
func (c *TaskController) MoveTask(ctx context.Context, ownerID, boardID, taskID string, req v1.MoveTaskRequest) (v1.MoveTaskResponse, error) {
	if err := c.authorize(ctx, ownerID, boardID); err != nil {
		return v1.MoveTaskResponse{}, err
	}
	position := 0
	if req.Position != nil {
		position = *req.Position
	}
	res, err := c.service.MoveTask(ctx, boardID, taskID, dto.ParseStatus(req.Status), position)
	if err != nil {
		return v1.MoveTaskResponse{}, err
	}

	resp := v1.MoveTaskResponse{
		Task:    dto.FromTask(res.Task),
		Moved:   res.Moved,
		Columns: make(map[v1.TaskStatus][]v1.Task, len(res.Columns)),
	}
	for status, tasks := range res.Columns {
		resp.Columns[status] = dto.FromTasks(tasks)
	}
	return resp, nil
}
