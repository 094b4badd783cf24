package util

import (
	"fmt"
	"strings"

	"github.com/nakachan-ing/taskboard/internal/model"
	"gopkg.in/yaml.v3"
)

func ParseFrontMatter[T any](content string) (T, string, error) {
	var frontMatter T

	content = strings.TrimPrefix(content, "\ufeff")
	if !strings.HasPrefix(content, "---") {
		return frontMatter, content, fmt.Errorf("front matter not found")
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return frontMatter, content, fmt.Errorf("invalid front matter format")
	}

	frontMatterStr := strings.TrimSpace(parts[1])
	body := strings.TrimSpace(parts[2])

	if err := yaml.Unmarshal([]byte(frontMatterStr), &frontMatter); err != nil {
		return frontMatter, content, fmt.Errorf("failed to parse front matter: %w", err)
	}

	return frontMatter, body, nil
}

func UpdateFrontMatter(frontMatter any, body string) (string, error) {
	frontMatterBytes, err := yaml.Marshal(frontMatter)
	if err != nil {
		return "", fmt.Errorf("failed to convert front matter to YAML: %w", err)
	}

	// Preserve `---` and merge YAML with body
	return fmt.Sprintf("---\n%s---\n\n%s\n", string(frontMatterBytes), body), nil
}

// RenderTaskFile writes a task as Markdown: YAML front matter for the fields
// and the content as the body.
func RenderTaskFile(f model.TaskFields) (string, error) {
	return UpdateFrontMatter(f, f.Content)
}

// ParseTaskFile reads a file produced by RenderTaskFile, possibly edited.
// Category and priority labels are normalised when recognised; anything
// else is left for the store to reject.
func ParseTaskFile(content string) (model.TaskFields, error) {
	f, body, err := ParseFrontMatter[model.TaskFields](content)
	if err != nil {
		return model.TaskFields{}, err
	}
	f.Content = body

	if c, ok := model.ParseCategory(string(f.Category)); ok {
		f.Category = c
	}
	if p, ok := model.ParsePriority(string(f.Priority)); ok {
		f.Priority = p
	}
	return f, nil
}
