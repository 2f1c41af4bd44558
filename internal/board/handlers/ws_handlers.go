package handlers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/auth"
	"github.com/MohammadOTaha/side-planner/internal/board/service"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
	ws "github.com/MohammadOTaha/side-planner/pkg/websocket"
)

// RegisterWS installs the websocket request actions on d. The socket's
// request context must carry the authenticated user.
func RegisterWS(d *ws.Dispatcher, svc *service.Service, log *logger.Logger) {
	boards := NewBoardHandlers(svc, log)
	tasks := NewTaskHandlers(svc, log)
	d.RegisterFunc(ws.ActionBoardList, boards.wsListBoards)
	d.RegisterFunc(ws.ActionTaskList, tasks.wsListTasks)
	d.RegisterFunc(ws.ActionTaskMove, tasks.wsMoveTask)
}

func (h *BoardHandlers) wsListBoards(ctx context.Context, msg *ws.Message) (*ws.Message, error) {
	resp, err := h.controller.ListBoards(ctx, auth.OwnerFromContext(ctx))
	if err != nil {
		return wsError(h.logger, msg, err, "Failed to list boards")
	}
	return ws.NewResponse(msg.ID, msg.Action, resp)
}

type wsListTasksRequest struct {
	BoardID string `json:"board_id"`
	Status  string `json:"status"`
}

func (h *TaskHandlers) wsListTasks(ctx context.Context, msg *ws.Message) (*ws.Message, error) {
	var req wsListTasksRequest
	if err := msg.ParsePayload(&req); err != nil {
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeBadRequest, "Invalid payload: "+err.Error(), nil)
	}
	if req.BoardID == "" {
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeValidation, "board_id is required", nil)
	}

	resp, err := h.controller.ListTasks(ctx, auth.OwnerFromContext(ctx), req.BoardID, req.Status)
	if err != nil {
		return wsError(h.logger, msg, err, "Failed to list tasks")
	}
	return ws.NewResponse(msg.ID, msg.Action, resp)
}

type wsMoveTaskRequest struct {
	BoardID  string `json:"board_id"`
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Position *int   `json:"position"`
}

func (h *TaskHandlers) wsMoveTask(ctx context.Context, msg *ws.Message) (*ws.Message, error) {
	var req wsMoveTaskRequest
	if err := msg.ParsePayload(&req); err != nil {
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeBadRequest, "Invalid payload: "+err.Error(), nil)
	}
	if req.BoardID == "" {
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeValidation, "board_id is required", nil)
	}
	if req.TaskID == "" {
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeValidation, "task_id is required", nil)
	}
	if req.Status == "" || req.Position == nil {
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeValidation, "status and position are required", nil)
	}

	resp, err := h.controller.MoveTask(ctx, auth.OwnerFromContext(ctx), req.BoardID, req.TaskID, v1.MoveTaskRequest{
		Status:   req.Status,
		Position: req.Position,
	})
	if err != nil {
		return wsError(h.logger, msg, err, "Failed to move task")
	}
	return ws.NewResponse(msg.ID, msg.Action, resp)
}

// wsError is the websocket counterpart of writeError.
func wsError(log *logger.Logger, msg *ws.Message, err error, fallback string) (*ws.Message, error) {
	switch {
	case errors.Is(err, service.ErrBoardNotFound):
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeNotFound, "board not found", nil)
	case errors.Is(err, service.ErrTaskNotFound):
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeNotFound, "task not found", nil)
	case service.IsValidationError(err):
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeValidation, err.Error(), nil)
	default:
		log.Error(fallback, zap.String("action", msg.Action), zap.Error(err))
		return ws.NewError(msg.ID, msg.Action, ws.ErrorCodeInternalError, fallback, nil)
	}
}
