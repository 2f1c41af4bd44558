package suggest

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

// Prompts holds the system instruction and the per-request task template.
type Prompts struct {
	System string `yaml:"system"`
	Task   string `yaml:"task"`

	task *template.Template
}

// LoadPrompts parses the embedded prompt file.
func LoadPrompts() (*Prompts, error) {
	return ParsePrompts(promptsYAML)
}

// ParsePrompts parses prompts from YAML.
func ParsePrompts(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if strings.TrimSpace(p.Task) == "" {
		return nil, fmt.Errorf("parse prompts: task template is empty")
	}
	tmpl, err := template.New("task").Option("missingkey=error").Parse(p.Task)
	if err != nil {
		return nil, fmt.Errorf("parse task template: %w", err)
	}
	p.task = tmpl
	return &p, nil
}

// Render fills the task template with req.
func (p *Prompts) Render(req Request) (string, error) {
	var sb strings.Builder
	if err := p.task.Execute(&sb, req); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}
