package controller

import (
	"context"

	"github.com/MohammadOTaha/side-planner/internal/board/dto"
	"github.com/MohammadOTaha/side-planner/internal/board/service"
	"github.com/MohammadOTaha/side-planner/internal/suggest"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// Suggester generates subtask suggestions.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) (*suggest.Result, error)
}

type SuggestionController struct {
	service   *service.Service
	suggester Suggester
}

func NewSuggestionController(svc *service.Service, suggester Suggester) *SuggestionController {
	return &SuggestionController{service: svc, suggester: suggester}
}

// Suggest builds the prompt context from the board and its live tasks.
func (c *SuggestionController) Suggest(ctx context.Context, ownerID, boardID string, req v1.SuggestRequest) (v1.SuggestResponse, error) {
	board, err := c.service.GetBoard(ctx, ownerID, boardID)
	if err != nil {
		return v1.SuggestResponse{}, err
	}
	tasks, err := c.service.ListTasks(ctx, boardID)
	if err != nil {
		return v1.SuggestResponse{}, err
	}
	existing := make([]string, 0, len(tasks))
	for _, t := range tasks {
		existing = append(existing, t.Title)
	}

	res, err := c.suggester.Suggest(ctx, suggest.Request{
		BoardName:        board.Name,
		BoardDescription: board.Description,
		Features:         board.Features,
		TaskDescription:  req.TaskDescription,
		ExistingTasks:    existing,
	})
	if err != nil {
		return v1.SuggestResponse{}, err
	}

	resp := v1.SuggestResponse{
		Suggestions: make([]v1.Suggestion, 0, len(res.Suggestions)),
		Cached:      res.Cached,
	}
	for _, s := range res.Suggestions {
		resp.Suggestions = append(resp.Suggestions, v1.Suggestion{
			Title:       s.Title,
			Description: s.Description,
			Complexity:  s.Complexity,
		})
	}
	return resp, nil
}

// Accept creates the parent task and the chosen subtasks in the backlog.
func (c *SuggestionController) Accept(ctx context.Context, ownerID, boardID string, req v1.AcceptSuggestionsRequest) (v1.AcceptSuggestionsResponse, error) {
	if _, err := c.service.GetBoard(ctx, ownerID, boardID); err != nil {
		return v1.AcceptSuggestionsResponse{}, err
	}

	subtasks := make([]service.SubtaskInput, 0, len(req.Subtasks))
	for _, s := range req.Subtasks {
		subtasks = append(subtasks, service.SubtaskInput{
			Title:       s.Title,
			Description: s.Description,
			Complexity:  dto.ParseComplexity(string(s.Complexity)),
		})
	}
	parent, children, err := c.service.CreateTaskWithSubtasks(ctx, &service.CreateTaskRequest{
		BoardID:     boardID,
		Title:       req.Title,
		Description: req.Description,
	}, subtasks)
	if err != nil {
		return v1.AcceptSuggestionsResponse{}, err
	}
	return v1.AcceptSuggestionsResponse{
		Parent:   dto.FromTask(parent),
		Subtasks: dto.FromTasks(children),
	}, nil
}
