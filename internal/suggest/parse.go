package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

type completion struct {
	Tasks []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Complexity  string `json:"complexity"`
	} `json:"tasks"`
}

// ParseSuggestions decodes a {"tasks":[...]} completion. Markdown code
// fences around the JSON are ignored, entries without a title are dropped
// and unknown complexities default to medium.
func ParseSuggestions(text string) ([]Suggestion, error) {
	var c completion
	if err := json.Unmarshal([]byte(stripFences(text)), &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCompletion, err)
	}

	out := make([]Suggestion, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			continue
		}
		complexity, ok := v1.ParseComplexity(t.Complexity)
		if !ok {
			complexity = v1.ComplexityMedium
		}
		out = append(out, Suggestion{
			Title:       title,
			Description: strings.TrimSpace(t.Description),
			Complexity:  complexity,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no tasks in completion", ErrBadCompletion)
	}
	return out, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// Drop the opening fence line, which may carry a language tag.
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}
