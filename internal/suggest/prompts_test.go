package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrompts_Render(t *testing.T) {
	p, err := LoadPrompts()
	require.NoError(t, err)
	assert.Contains(t, p.System, "project manager")

	out, err := p.Render(Request{
		BoardName:        "Side Planner",
		BoardDescription: "Kanban for side projects",
		Features:         "AI subtasks",
		TaskDescription:  "Add login",
		ExistingTasks:    []string{"Set up CI", "Design schema"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Project Name: Side Planner")
	assert.Contains(t, out, "Project Features: AI subtasks")
	assert.Contains(t, out, "Task Description: Add login")
	assert.Contains(t, out, "- Set up CI")
	assert.Contains(t, out, "- Design schema")
}

func TestRender_OmitsEmptySections(t *testing.T) {
	p, err := LoadPrompts()
	require.NoError(t, err)

	out, err := p.Render(Request{BoardName: "B", TaskDescription: "T"})
	require.NoError(t, err)
	assert.NotContains(t, out, "Project Features")
	assert.NotContains(t, out, "already on the board")
}

func TestParsePrompts_Invalid(t *testing.T) {
	_, err := ParsePrompts([]byte("system: hi\n"))
	assert.Error(t, err)

	_, err = ParsePrompts([]byte("task: \"{{ .Broken\"\n"))
	assert.Error(t, err)

	_, err = ParsePrompts([]byte(":\n  - ["))
	assert.Error(t, err)
}
