package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// AllCategories is the list filter sentinel that matches every category.
const AllCategories = "all"

type Category string

const (
	CategoryWork            Category = "Work"
	CategoryPersonalProject Category = "Personal-Project"
	CategoryOther           Category = "Other"
)

// Categories returns the closed category set in display order.
// The first entry is the default for a new task.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonalProject, CategoryOther}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonalProject, CategoryOther:
		return true
	}
	return false
}

// ParseCategory maps user input onto the closed category set.
func ParseCategory(s string) (Category, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "-")
	norm = strings.ReplaceAll(norm, "_", "-")
	for _, c := range Categories() {
		if strings.ToLower(string(c)) == norm {
			return c, true
		}
	}
	return "", false
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities returns the closed priority set, highest first.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func (p Priority) Valid() bool {
	return PriorityRank(p) > 0
}

// PriorityRank is the ordinal used as a sort key: 3 for High down to 1 for Low.
// Values outside the set rank 0.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority accepts High/Medium/Low and the Top/Elevated/Normal labels.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "top":
		return PriorityHigh, true
	case "medium", "elevated":
		return PriorityMedium, true
	case "low", "normal":
		return PriorityLow, true
	}
	return "", false
}

// ParseDate reads a YYYY-MM-DD calendar date. Blank input is an error.
func ParseDate(s string) (strfmt.Date, error) {
	t, err := time.Parse(strfmt.RFC3339FullDate, strings.TrimSpace(s))
	if err != nil {
		return strfmt.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return strfmt.Date(t), nil
}

// TaskFields are the user-editable fields of a task.
type TaskFields struct {
	Category  Category    `yaml:"category"`
	Title     string      `yaml:"title"`
	Content   string      `yaml:"-"`
	Priority  Priority    `yaml:"priority"`
	Deadline  strfmt.Date `yaml:"deadline"`
	Completed bool        `yaml:"completed"`
}

// Trimmed returns the fields as the store saves them.
func (f TaskFields) Trimmed() TaskFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	return f
}

type Task struct {
	ID        int64       `db:"id" json:"id"`
	Category  Category    `db:"category" json:"category"`
	Title     string      `db:"title" json:"title"`
	Content   string      `db:"content" json:"content"`
	Priority  Priority    `db:"priority" json:"priority"`
	Deadline  strfmt.Date `db:"deadline" json:"deadline"`
	Completed bool        `db:"completed" json:"completed"`
}

func (t Task) Fields() TaskFields {
	return TaskFields{
		Category:  t.Category,
		Title:     t.Title,
		Content:   t.Content,
		Priority:  t.Priority,
		Deadline:  t.Deadline,
		Completed: t.Completed,
	}
}
