package ui

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/taskboard/internal/model"
	"github.com/nakachan-ing/taskboard/internal/session"
	"github.com/nakachan-ing/taskboard/internal/store"
)

func newTestBoard(t *testing.T, seed ...model.TaskFields) (Model, *store.TaskStore) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.OpenTaskStore(logger, filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("OpenTaskStore returned error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	for _, f := range seed {
		id, err := st.Insert(ctx, f)
		if err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
		if f.Completed {
			if err := st.Update(ctx, id, f); err != nil {
				t.Fatalf("Update returned error: %v", err)
			}
		}
	}

	clock := func() time.Time { return time.Date(2024, time.May, 17, 9, 0, 0, 0, time.UTC) }
	sess := session.New(session.WithClock(clock))
	return New(ctx, st, sess, logger), st
}

func task(category model.Category, title, deadline string, priority model.Priority) model.TaskFields {
	d, err := model.ParseDate(deadline)
	if err != nil {
		panic(err)
	}
	return model.TaskFields{Category: category, Title: title, Priority: priority, Deadline: d}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func count(t *testing.T, st *store.TaskStore) int {
	t.Helper()
	n, err := st.Count(context.Background())
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	return n
}

func TestBoardListsOpenTasksInOrder(t *testing.T) {
	m, _ := newTestBoard(t,
		task(model.CategoryWork, "later", "2024-06-10", model.PriorityHigh),
		task(model.CategoryOther, "sooner", "2024-06-01", model.PriorityLow),
	)

	if len(m.tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(m.tasks))
	}
	if m.tasks[0].Title != "sooner" || m.tasks[1].Title != "later" {
		t.Fatalf("expected deadline order, got %q, %q", m.tasks[0].Title, m.tasks[1].Title)
	}
	if m.focus != focusList || m.sess.Editing() {
		t.Fatalf("expected list focus in new-task mode")
	}
}

func TestBoardSelectRowLoadsForm(t *testing.T) {
	m, _ := newTestBoard(t,
		task(model.CategoryOther, "first", "2024-06-01", model.PriorityLow),
		task(model.CategoryWork, "second", "2024-06-02", model.PriorityHigh),
	)

	m = press(t, m, "down", "enter")

	if m.focus != focusForm {
		t.Fatalf("expected form focus after selecting a row")
	}
	if !m.sess.Editing() || m.sess.ActiveID() != m.tasks[1].ID {
		t.Fatalf("expected task %d loaded, got %d", m.tasks[1].ID, m.sess.ActiveID())
	}
	if m.title.Value() != "second" || m.deadline.Value() != "2024-06-02" {
		t.Fatalf("expected form to show selected task, got title %q deadline %q", m.title.Value(), m.deadline.Value())
	}
	if model.Categories()[m.categoryIdx] != model.CategoryWork || model.Priorities()[m.priorityIdx] != model.PriorityHigh {
		t.Fatalf("expected Work/High in form, got %s/%s", model.Categories()[m.categoryIdx], model.Priorities()[m.priorityIdx])
	}
}

func TestBoardSaveNewTaskInserts(t *testing.T) {
	m, st := newTestBoard(t)

	m = press(t, m, "n", "write", "-", "report", "enter")

	if count(t, st) != 1 {
		t.Fatalf("expected one stored task, got %d (status %q)", count(t, st), m.status)
	}
	got := m.tasks[0]
	if got.Title != "write-report" || got.Category != model.CategoryWork || got.Priority != model.PriorityMedium || got.Deadline.String() != "2024-05-17" {
		t.Fatalf("expected defaults with typed title, got %+v", got)
	}
	if m.sess.Editing() || m.title.Value() != "" {
		t.Fatalf("expected cleared form after insert")
	}
	if m.focus != focusList || m.statusKind != statusInfo {
		t.Fatalf("expected list focus and info status, got focus %d status %q", m.focus, m.status)
	}
}

func TestBoardSaveEditedTaskUpdates(t *testing.T) {
	m, st := newTestBoard(t, task(model.CategoryOther, "draft", "2024-06-01", model.PriorityLow))
	id := m.tasks[0].ID

	// title, then three tabs to priority, cycle Low -> High
	m = press(t, m, "enter", "2", "tab", "tab", "tab", "right", "enter")

	got, err := st.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "draft2" || got.Priority != model.PriorityHigh {
		t.Fatalf("expected updated title and priority, got %+v", got)
	}
	if count(t, st) != 1 {
		t.Fatalf("update must not insert")
	}
	if m.sess.Editing() {
		t.Fatalf("expected new-task mode after update")
	}
}

func TestBoardContentKeepsNewlines(t *testing.T) {
	m, st := newTestBoard(t)

	// enter inside the content field adds a line; ctrl+s saves
	m = press(t, m, "n", "shop", "tab", "- milk", "enter", "- eggs", "ctrl+s")

	if count(t, st) != 1 {
		t.Fatalf("expected one stored task, got %d (status %q)", count(t, st), m.status)
	}
	got, err := st.Get(context.Background(), m.tasks[0].ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "shop" || got.Content != "- milk\n- eggs" {
		t.Fatalf("expected multi-line content, got title %q content %q", got.Title, got.Content)
	}
}

func TestBoardBlankTitleWarns(t *testing.T) {
	m, st := newTestBoard(t)

	m = press(t, m, "n", "enter")

	if count(t, st) != 0 {
		t.Fatalf("expected nothing stored")
	}
	if m.statusKind != statusWarn {
		t.Fatalf("expected warning status, got %q", m.status)
	}
	if m.focus != focusForm {
		t.Fatalf("expected form to stay focused")
	}
}

func TestBoardInvalidDeadlineWarns(t *testing.T) {
	m, st := newTestBoard(t)

	// title, then four tabs to the deadline and drop its last digit
	m = press(t, m, "n", "x", "tab", "tab", "tab", "tab", "backspace", "enter")

	if count(t, st) != 0 {
		t.Fatalf("expected nothing stored")
	}
	if m.statusKind != statusWarn {
		t.Fatalf("expected warning status, got %q", m.status)
	}
	if m.title.Value() != "x" {
		t.Fatalf("expected form values kept, got title %q", m.title.Value())
	}
}

func TestBoardDeleteWithNothingSelectedWarns(t *testing.T) {
	m, st := newTestBoard(t, task(model.CategoryWork, "keep", "2024-06-01", model.PriorityLow))

	m = press(t, m, "d")

	if m.statusKind != statusWarn || m.confirmDelete {
		t.Fatalf("expected a warning without confirmation, got %q", m.status)
	}
	if count(t, st) != 1 {
		t.Fatalf("store must be untouched")
	}
}

func TestBoardDeleteLoadedTask(t *testing.T) {
	m, st := newTestBoard(t,
		task(model.CategoryWork, "gone", "2024-06-01", model.PriorityLow),
		task(model.CategoryWork, "stays", "2024-06-02", model.PriorityLow),
	)

	m = press(t, m, "enter", "ctrl+d")
	if !m.confirmDelete {
		t.Fatalf("expected delete confirmation")
	}
	m = press(t, m, "y")

	if count(t, st) != 1 {
		t.Fatalf("expected one task left, got %d", count(t, st))
	}
	if len(m.tasks) != 1 || m.tasks[0].Title != "stays" {
		t.Fatalf("expected list to be reloaded, got %+v", m.tasks)
	}
	if m.sess.Editing() || m.focus != focusList {
		t.Fatalf("expected new-task mode and list focus after delete")
	}
}

func TestBoardDeleteCancelled(t *testing.T) {
	m, st := newTestBoard(t, task(model.CategoryWork, "keep", "2024-06-01", model.PriorityLow))

	m = press(t, m, "enter", "ctrl+d", "n")

	if count(t, st) != 1 {
		t.Fatalf("expected task to survive")
	}
	if !m.sess.Editing() {
		t.Fatalf("expected task to stay loaded")
	}
}

func TestBoardCategoryTabsAndCompletedToggle(t *testing.T) {
	done := task(model.CategoryWork, "done work", "2024-06-03", model.PriorityLow)
	done.Completed = true
	m, _ := newTestBoard(t,
		task(model.CategoryWork, "work", "2024-06-01", model.PriorityLow),
		task(model.CategoryOther, "other", "2024-06-02", model.PriorityLow),
		done,
	)

	if len(m.tasks) != 2 {
		t.Fatalf("expected 2 open tasks, got %d", len(m.tasks))
	}

	m = press(t, m, "right")
	if m.filterCategory() != string(model.CategoryWork) || len(m.tasks) != 1 || m.tasks[0].Title != "work" {
		t.Fatalf("expected Work tab with one task, got %q %+v", m.filterCategory(), m.tasks)
	}

	m = press(t, m, "c")
	if len(m.tasks) != 2 || m.tasks[1].Title != "done work" {
		t.Fatalf("expected completed task after toggle, got %+v", m.tasks)
	}

	m = press(t, m, "left")
	if m.filterCategory() != model.AllCategories || len(m.tasks) != 3 {
		t.Fatalf("expected all tasks, got %q %d", m.filterCategory(), len(m.tasks))
	}
}

func TestBoardClearFormKeepsStore(t *testing.T) {
	m, st := newTestBoard(t, task(model.CategoryWork, "orig", "2024-06-01", model.PriorityLow))
	id := m.tasks[0].ID

	m = press(t, m, "enter", "!", "ctrl+n")

	if m.sess.Editing() || m.title.Value() != "" {
		t.Fatalf("expected a blank new-task form")
	}
	got, err := st.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "orig" {
		t.Fatalf("clearing the form must not write, got %q", got.Title)
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		cursor, length, want int
	}{
		{0, 0, 0},
		{-1, 3, 0},
		{5, 3, 2},
		{1, 3, 1},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cursor, tt.length); got != tt.want {
			t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.length, got, tt.want)
		}
	}
}
