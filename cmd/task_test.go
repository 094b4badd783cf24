package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/nakachan-ing/taskboard/internal/model"
	"github.com/nakachan-ing/taskboard/internal/store"
	"github.com/spf13/cobra"
)

func mustDate(t *testing.T, s string) strfmt.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestParseDeadline(t *testing.T) {
	now := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2025-01-15", want: "2025-01-15"},
		{in: " today ", want: "2024-12-31"},
		{in: "Tomorrow", want: "2025-01-01"},
		{in: "15/01/2025", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseDeadline(tt.in, now)
		if tt.wantErr {
			if !errors.Is(err, store.ErrTaskInvalidArgs) {
				t.Errorf("parseDeadline(%q): expected invalid args, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDeadline(%q) returned error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("parseDeadline(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		from, to string
		wantErr  bool
	}{
		{"", "", false},
		{"2024-05-01", "", false},
		{"", "2024-05-31", false},
		{"2024-05-01", "2024-05-31", false},
		{"2024-5-1", "", true},
		{"", "next week", true},
	}
	for _, tt := range tests {
		err := validateDateRange(tt.from, tt.to)
		if tt.wantErr {
			if !errors.Is(err, store.ErrTaskInvalidArgs) {
				t.Errorf("validateDateRange(%q, %q) = %v, want invalid args", tt.from, tt.to, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("validateDateRange(%q, %q) returned error: %v", tt.from, tt.to, err)
		}
	}
}

func TestParseTaskID(t *testing.T) {
	if id, err := parseTaskID("42"); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d (%v)", id, err)
	}
	for _, in := range []string{"0", "-3", "abc", ""} {
		if _, err := parseTaskID(in); !errors.Is(err, store.ErrTaskInvalidArgs) {
			t.Errorf("parseTaskID(%q): expected invalid args, got %v", in, err)
		}
	}
}

func TestApplyFieldFlagsOnlyChanged(t *testing.T) {
	c := &cobra.Command{Use: "update"}
	addFieldFlags(c)
	c.Flags().BoolVar(&taskCompleted, "completed", false, "")

	if err := c.Flags().Parse([]string{"--priority", "top", "--category", "personal project", "--completed"}); err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	f := model.TaskFields{
		Category: model.CategoryWork,
		Title:    "keep me",
		Content:  "body",
		Priority: model.PriorityLow,
		Deadline: mustDate(t, "2024-06-01"),
	}
	if err := applyFieldFlags(c, &f); err != nil {
		t.Fatalf("applyFieldFlags returned error: %v", err)
	}

	if f.Priority != model.PriorityHigh || f.Category != model.CategoryPersonalProject || !f.Completed {
		t.Fatalf("expected flag values applied, got %+v", f)
	}
	if f.Title != "keep me" || f.Content != "body" || f.Deadline.String() != "2024-06-01" {
		t.Fatalf("expected untouched fields to survive, got %+v", f)
	}
}

func TestApplyFieldFlagsRejectsUnknownValues(t *testing.T) {
	tests := [][]string{
		{"--category", "Errands"},
		{"--priority", "urgent"},
		{"--deadline", "next week"},
	}

	for _, args := range tests {
		c := &cobra.Command{Use: "add"}
		addFieldFlags(c)
		if err := c.Flags().Parse(args); err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}

		var f model.TaskFields
		err := applyFieldFlags(c, &f)
		var vErr *store.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("%v: expected ValidationError, got %v", args, err)
		}
	}
}

func TestListFilterFromFlag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: model.AllCategories},
		{in: "ALL", want: model.AllCategories},
		{in: "work", want: string(model.CategoryWork)},
		{in: "personal_project", want: string(model.CategoryPersonalProject)},
		{in: "Errands", want: "Errands"},
	}

	for _, tt := range tests {
		got := listFilterFromFlag(tt.in, true)
		if got.Category != tt.want || !got.IncludeCompleted {
			t.Errorf("listFilterFromFlag(%q) = %+v, want category %q", tt.in, got, tt.want)
		}
	}
}

func sampleTasks(t *testing.T, n int) []model.Task {
	t.Helper()
	tasks := make([]model.Task, 0, n)
	for i := 1; i <= n; i++ {
		tasks = append(tasks, model.Task{
			ID:       int64(i),
			Category: model.CategoryWork,
			Title:    "task-" + strings.Repeat("x", i),
			Priority: model.PriorityMedium,
			Deadline: mustDate(t, "2024-06-01"),
		})
	}
	return tasks
}

func TestPageTasksStopsOnQuit(t *testing.T) {
	var out bytes.Buffer
	pageTasks(strings.NewReader("q\n"), &out, sampleTasks(t, 5), 2)

	got := out.String()
	if !strings.Contains(got, "Tasks: 5 tasks shown") {
		t.Fatalf("expected header, got:\n%s", got)
	}
	if !strings.Contains(got, "task-xx") || strings.Contains(got, "task-xxx") {
		t.Fatalf("expected only the first page, got:\n%s", got)
	}
	if strings.Count(got, "Press Enter") != 1 {
		t.Fatalf("expected one prompt, got:\n%s", got)
	}
}

func TestPageTasksShowsAllPages(t *testing.T) {
	var out bytes.Buffer
	pageTasks(strings.NewReader("\n\n"), &out, sampleTasks(t, 5), 2)

	got := out.String()
	if !strings.Contains(got, "task-xxxxx") {
		t.Fatalf("expected the last task, got:\n%s", got)
	}
	if strings.Count(got, "Press Enter") != 2 {
		t.Fatalf("expected two prompts, got:\n%s", got)
	}
}

func TestPageTasksUnlimited(t *testing.T) {
	var out bytes.Buffer
	pageTasks(strings.NewReader(""), &out, sampleTasks(t, 3), -1)

	if strings.Contains(out.String(), "Press Enter") || !strings.Contains(out.String(), "task-xxx") {
		t.Fatalf("expected a single page with every task, got:\n%s", out.String())
	}
}

func TestCollectStats(t *testing.T) {
	tasks := []model.Task{
		{Category: model.CategoryWork},
		{Category: model.CategoryWork, Completed: true},
		{Category: model.CategoryOther},
		{Category: model.CategoryWork},
	}

	stats := collectStats(tasks)
	if len(stats) != len(model.Categories()) {
		t.Fatalf("expected one row per category, got %d", len(stats))
	}

	want := map[model.Category][2]int{
		model.CategoryWork:            {2, 1},
		model.CategoryPersonalProject: {0, 0},
		model.CategoryOther:           {1, 0},
	}
	for _, s := range stats {
		w := want[s.Category]
		if s.Open != w[0] || s.Completed != w[1] {
			t.Errorf("%s: got open %d completed %d, want %v", s.Category, s.Open, s.Completed, w)
		}
	}
}

func TestPrintTaskMetaOnly(t *testing.T) {
	var out bytes.Buffer
	printTask(&out, model.Task{
		ID:       3,
		Category: model.CategoryOther,
		Title:    "read book",
		Content:  "# chapter one",
		Priority: model.PriorityLow,
		Deadline: mustDate(t, "2024-07-01"),
	}, false)

	got := out.String()
	for _, want := range []string{"read book", "Other", "Low", "2024-07-01", "open"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "chapter one") {
		t.Errorf("content must be skipped:\n%s", got)
	}
}
