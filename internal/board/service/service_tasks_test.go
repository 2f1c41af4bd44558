package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTask_DefaultsAndAppend(t *testing.T) {
	forEachRepo(t, func(t *testing.T, f *fixture) {
		first, err := f.svc.CreateTask(context.Background(), &CreateTaskRequest{BoardID: f.board.ID, Title: "  Write docs  "})
		require.NoError(t, err)
		assert.Equal(t, "Write docs", first.Title)
		assert.Equal(t, v1.TaskStatusBacklog, first.Status)
		assert.Equal(t, v1.PriorityMedium, first.Priority)
		assert.Equal(t, v1.ComplexityMedium, first.Complexity)
		assert.Equal(t, 0, first.Position)

		second, err := f.svc.CreateTask(context.Background(), &CreateTaskRequest{BoardID: f.board.ID, Title: "Ship"})
		require.NoError(t, err)
		assert.Equal(t, 1, second.Position)
		assert.Equal(t, []string{"task.created", "task.created"}, f.bus.types())
	})
}

func TestCreateTask_Validation(t *testing.T) {
	f := newFixture(t, repository.NewMemoryRepository())
	tests := []struct {
		name string
		req  CreateTaskRequest
		want error
	}{
		{"blank title", CreateTaskRequest{Title: "   "}, ErrTitleRequired},
		{"long title", CreateTaskRequest{Title: strings.Repeat("x", 256)}, ErrTitleTooLong},
		{"bad status", CreateTaskRequest{Title: "t", Status: "blocked"}, ErrInvalidStatus},
		{"bad priority", CreateTaskRequest{Title: "t", Priority: "urgent"}, ErrInvalidPriority},
		{"bad complexity", CreateTaskRequest{Title: "t", Complexity: "huge"}, ErrInvalidComplexity},
		{"unknown parent", CreateTaskRequest{Title: "t", ParentID: ptr("nope")}, ErrInvalidParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.BoardID = f.board.ID
			_, err := f.svc.CreateTask(context.Background(), &req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}
	assert.Empty(t, f.column(t, v1.TaskStatusBacklog))
}

func TestCreateTask_UnknownBoard(t *testing.T) {
	f := newFixture(t, repository.NewMemoryRepository())
	_, err := f.svc.CreateTask(context.Background(), &CreateTaskRequest{BoardID: "missing", Title: "t"})
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestCreateTask_ParentOnOtherBoardRejected(t *testing.T) {
	forEachRepo(t, func(t *testing.T, f *fixture) {
		other, err := f.svc.CreateBoard(context.Background(), &CreateBoardRequest{OwnerID: testOwner, Name: "Other"})
		require.NoError(t, err)
		foreign, err := f.svc.CreateTask(context.Background(), &CreateTaskRequest{BoardID: other.ID, Title: "foreign"})
		require.NoError(t, err)

		_, err = f.svc.CreateTask(context.Background(), &CreateTaskRequest{BoardID: f.board.ID, Title: "child", ParentID: &foreign.ID})
		assert.ErrorIs(t, err, ErrInvalidParent)
	})
}

func TestUpdateTask(t *testing.T) {
	forEachRepo(t, func(t *testing.T, f *fixture) {
		tasks := f.add(t, v1.TaskStatusTodo, "A", "B")
		due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		f.tick()

		updated, err := f.svc.UpdateTask(context.Background(), f.board.ID, tasks["B"].ID, &UpdateTaskRequest{
			Title:      ptr("B2"),
			Priority:   ptr(v1.PriorityHigh),
			Complexity: ptr(v1.ComplexityLow),
			ParentID:   &tasks["A"].ID,
			DueDate:    &due,
		})
		require.NoError(t, err)
		assert.Equal(t, "B2", updated.Title)
		assert.Equal(t, v1.PriorityHigh, updated.Priority)
		require.NotNil(t, updated.ParentID)
		assert.Equal(t, tasks["A"].ID, *updated.ParentID)

		got, err := f.svc.GetTask(context.Background(), f.board.ID, tasks["B"].ID)
		require.NoError(t, err)
		assert.Equal(t, "B2", got.Title)
		assert.Equal(t, v1.ComplexityLow, got.Complexity)
		require.NotNil(t, got.DueDate)
		assert.True(t, due.Equal(*got.DueDate))
		assert.Equal(t, v1.TaskStatusTodo, got.Status)
		assert.Equal(t, 1, got.Position)

		cleared, err := f.svc.UpdateTask(context.Background(), f.board.ID, tasks["B"].ID, &UpdateTaskRequest{ClearParent: true, ClearDueDate: true})
		require.NoError(t, err)
		assert.Nil(t, cleared.ParentID)
		assert.Nil(t, cleared.DueDate)
	})
}

func TestUpdateTask_RejectsParentCycle(t *testing.T) {
	f := newFixture(t, repository.NewMemoryRepository())
	tasks := f.add(t, v1.TaskStatusTodo, "A", "B")

	_, err := f.svc.UpdateTask(context.Background(), f.board.ID, tasks["B"].ID, &UpdateTaskRequest{ParentID: &tasks["A"].ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateTask(context.Background(), f.board.ID, tasks["A"].ID, &UpdateTaskRequest{ParentID: &tasks["B"].ID})
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = f.svc.UpdateTask(context.Background(), f.board.ID, tasks["A"].ID, &UpdateTaskRequest{ParentID: &tasks["A"].ID})
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestUpdateTask_NotFound(t *testing.T) {
	f := newFixture(t, repository.NewMemoryRepository())
	_, err := f.svc.UpdateTask(context.Background(), f.board.ID, "missing", &UpdateTaskRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask_CompactsColumn(t *testing.T) {
	forEachRepo(t, func(t *testing.T, f *fixture) {
		tasks := f.add(t, v1.TaskStatusTodo, "A", "B", "C")
		child, err := f.svc.CreateTask(context.Background(), &CreateTaskRequest{
			BoardID: f.board.ID, Title: "child", ParentID: &tasks["A"].ID,
		})
		require.NoError(t, err)
		f.bus.reset()

		require.NoError(t, f.svc.DeleteTask(context.Background(), f.board.ID, tasks["A"].ID))
		assert.Equal(t, []string{"task.deleted"}, f.bus.types())

		col := f.column(t, v1.TaskStatusTodo)
		assert.Equal(t, []string{"B", "C"}, titlesOf(col))
		requireContiguous(t, f)

		_, err = f.svc.GetTask(context.Background(), f.board.ID, tasks["A"].ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)

		err = f.svc.DeleteTask(context.Background(), f.board.ID, tasks["A"].ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)

		orphan, err := f.svc.GetTask(context.Background(), f.board.ID, child.ID)
		require.NoError(t, err)
		require.NotNil(t, orphan.ParentID)
		assert.Equal(t, tasks["A"].ID, *orphan.ParentID)
	})
}

func TestRestoreTask_AppendsToColumn(t *testing.T) {
	forEachRepo(t, func(t *testing.T, f *fixture) {
		tasks := f.add(t, v1.TaskStatusTodo, "A", "B", "C")
		require.NoError(t, f.svc.DeleteTask(context.Background(), f.board.ID, tasks["A"].ID))
		f.bus.reset()

		restored, err := f.svc.RestoreTask(context.Background(), f.board.ID, tasks["A"].ID)
		require.NoError(t, err)
		assert.Nil(t, restored.DeletedAt)
		assert.Equal(t, 2, restored.Position)
		assert.Equal(t, []string{"B", "C", "A"}, titlesOf(f.column(t, v1.TaskStatusTodo)))
		requireContiguous(t, f)
		assert.Equal(t, []string{"task.restored"}, f.bus.types())

		// Restoring a live task changes nothing.
		again, err := f.svc.RestoreTask(context.Background(), f.board.ID, tasks["A"].ID)
		require.NoError(t, err)
		assert.Equal(t, 2, again.Position)
		assert.Len(t, f.bus.types(), 1)

		_, err = f.svc.RestoreTask(context.Background(), f.board.ID, "missing")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestCreateTaskWithSubtasks(t *testing.T) {
	forEachRepo(t, func(t *testing.T, f *fixture) {
		f.add(t, v1.TaskStatusBacklog, "existing")

		parent, children, err := f.svc.CreateTaskWithSubtasks(context.Background(),
			&CreateTaskRequest{BoardID: f.board.ID, Title: "Launch", Status: v1.TaskStatusDone},
			[]SubtaskInput{
				{Title: "Write copy", Complexity: v1.ComplexityLow},
				{Title: "Record demo", Description: "5 minutes", Complexity: v1.ComplexityHigh},
			})
		require.NoError(t, err)

		assert.Equal(t, v1.TaskStatusBacklog, parent.Status)
		assert.Equal(t, 1, parent.Position)
		require.Len(t, children, 2)
		for i, child := range children {
			require.NotNil(t, child.ParentID)
			assert.Equal(t, parent.ID, *child.ParentID)
			assert.Equal(t, 2+i, child.Position)
		}
		assert.Equal(t, []string{"existing", "Launch", "Write copy", "Record demo"}, titlesOf(f.column(t, v1.TaskStatusBacklog)))
		assert.Len(t, f.bus.types(), 4)
	})
}

func TestCreateTaskWithSubtasks_InvalidSubtaskWritesNothing(t *testing.T) {
	f := newFixture(t, repository.NewMemoryRepository())

	_, _, err := f.svc.CreateTaskWithSubtasks(context.Background(),
		&CreateTaskRequest{BoardID: f.board.ID, Title: "Launch"},
		[]SubtaskInput{{Title: "ok"}, {Title: ""}})
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.Empty(t, f.column(t, v1.TaskStatusBacklog))
}

func TestListTasks_ColumnOrder(t *testing.T) {
	forEachRepo(t, func(t *testing.T, f *fixture) {
		f.add(t, v1.TaskStatusDone, "D1")
		f.add(t, v1.TaskStatusBacklog, "B1", "B2")
		f.add(t, v1.TaskStatusInProgress, "P1")

		tasks, err := f.svc.ListTasks(context.Background(), f.board.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"B1", "B2", "P1", "D1"}, titlesOf(tasks))

		_, err = f.svc.ListPartition(context.Background(), f.board.ID, "nope")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}
