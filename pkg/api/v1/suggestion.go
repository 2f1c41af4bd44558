package v1

// Suggestion is one AI-proposed subtask.
type Suggestion struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Complexity  TaskComplexity `json:"complexity"`
}

type SuggestRequest struct {
	TaskDescription string `json:"task_description" binding:"required"`
}

type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Cached      bool         `json:"cached"`
}

// AcceptSuggestionsRequest turns chosen suggestions into a parent task with
// subtasks, all placed in the backlog.
type AcceptSuggestionsRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Subtasks    []Suggestion `json:"subtasks"`
}

type AcceptSuggestionsResponse struct {
	Parent   Task   `json:"parent"`
	Subtasks []Task `json:"subtasks"`
}
