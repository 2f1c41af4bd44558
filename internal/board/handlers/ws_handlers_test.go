package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	"github.com/MohammadOTaha/side-planner/internal/board/service"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
	ws "github.com/MohammadOTaha/side-planner/pkg/websocket"
)

type wsFixture struct {
	d     *ws.Dispatcher
	svc   *service.Service
	board string
	tasks []string
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	log := logger.NewNop()
	svc := service.NewService(repository.NewMemoryRepository(), nil, log)
	d := ws.NewDispatcher()
	RegisterWS(d, svc, log)

	ctx := context.Background()
	board, err := svc.CreateBoard(ctx, &service.CreateBoardRequest{OwnerID: "alice", Name: "Roadmap"})
	require.NoError(t, err)

	f := &wsFixture{d: d, svc: svc, board: board.ID}
	for _, title := range []string{"A", "B", "C"} {
		task, err := svc.CreateTask(ctx, &service.CreateTaskRequest{BoardID: board.ID, Title: title, Status: v1.TaskStatusTodo})
		require.NoError(t, err)
		f.tasks = append(f.tasks, task.ID)
	}
	return f
}

func (f *wsFixture) dispatch(t *testing.T, owner, action string, payload any) *ws.Message {
	t.Helper()
	msg, err := ws.NewRequest("req-1", action, payload)
	require.NoError(t, err)
	ctx := context.WithValue(context.Background(), logger.UserIDKey, owner)
	resp, err := f.d.Dispatch(ctx, msg)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "req-1", resp.ID)
	return resp
}

func errorCode(t *testing.T, msg *ws.Message) string {
	t.Helper()
	require.Equal(t, ws.MessageTypeError, msg.Type)
	var p ws.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	return p.Code
}

func TestWSMoveTask(t *testing.T) {
	f := newWSFixture(t)

	resp := f.dispatch(t, "alice", ws.ActionTaskMove, map[string]any{
		"board_id": f.board, "task_id": f.tasks[2], "status": "todo", "position": 0,
	})
	require.Equal(t, ws.MessageTypeResponse, resp.Type)

	var body v1.MoveTaskResponse
	require.NoError(t, json.Unmarshal(resp.Payload, &body))
	assert.True(t, body.Moved)
	assert.Equal(t, 0, body.Task.Position)
	require.Len(t, body.Columns[v1.TaskStatusTodo], 3)
	assert.Equal(t, "C", body.Columns[v1.TaskStatusTodo][0].Title)
}

func TestWSMoveTask_Errors(t *testing.T) {
	f := newWSFixture(t)
	pos := 1

	tests := []struct {
		name    string
		owner   string
		payload map[string]any
		code    string
	}{
		{"missing board", "alice", map[string]any{"task_id": f.tasks[0], "status": "todo", "position": pos}, ws.ErrorCodeValidation},
		{"missing position", "alice", map[string]any{"board_id": f.board, "task_id": f.tasks[0], "status": "todo"}, ws.ErrorCodeValidation},
		{"bad status", "alice", map[string]any{"board_id": f.board, "task_id": f.tasks[0], "status": "archived", "position": pos}, ws.ErrorCodeValidation},
		{"unknown task", "alice", map[string]any{"board_id": f.board, "task_id": "nope", "status": "todo", "position": pos}, ws.ErrorCodeNotFound},
		{"foreign board", "mallory", map[string]any{"board_id": f.board, "task_id": f.tasks[0], "status": "todo", "position": pos}, ws.ErrorCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.dispatch(t, tt.owner, ws.ActionTaskMove, tt.payload)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}
}

func TestWSListBoardsAndTasks(t *testing.T) {
	f := newWSFixture(t)

	var boards v1.ListBoardsResponse
	resp := f.dispatch(t, "alice", ws.ActionBoardList, nil)
	require.NoError(t, resp.ParsePayload(&boards))
	assert.Equal(t, 1, boards.Total)

	resp = f.dispatch(t, "bob", ws.ActionBoardList, nil)
	require.NoError(t, resp.ParsePayload(&boards))
	assert.Equal(t, 0, boards.Total)

	var tasks v1.ListTasksResponse
	resp = f.dispatch(t, "alice", ws.ActionTaskList, map[string]any{"board_id": f.board, "status": "todo"})
	require.NoError(t, resp.ParsePayload(&tasks))
	assert.Equal(t, 3, tasks.Total)

	resp = f.dispatch(t, "alice", ws.ActionTaskList, map[string]any{})
	assert.Equal(t, ws.ErrorCodeValidation, errorCode(t, resp))
}
