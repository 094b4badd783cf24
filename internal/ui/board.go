// Package ui is the full-screen task board: category tabs, the task list and
// the add/edit form. Every user action goes through a session.Session.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nakachan-ing/taskboard/internal/model"
	"github.com/nakachan-ing/taskboard/internal/session"
	"github.com/nakachan-ing/taskboard/internal/store"
)

// Store is what the board needs from the task store.
type Store interface {
	session.Store
	List(ctx context.Context, f store.ListFilter) ([]model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
}

type focus int

const (
	focusList focus = iota
	focusForm
)

type formField int

const (
	fieldTitle formField = iota
	fieldContent
	fieldCategory
	fieldPriority
	fieldDeadline
	fieldCompleted
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Content", "Category", "Priority", "Deadline", "Completed"}

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarn
	statusError
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("242"))
	labelStyle     = lipgloss.NewStyle().Width(11).Foreground(lipgloss.Color("245"))
	activeLabel    = lipgloss.NewStyle().Width(11).Bold(true).Foreground(lipgloss.Color("212"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activePanel    = panelStyle.BorderForeground(lipgloss.Color("62"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	priorityStyles = map[model.Priority]lipgloss.Style{
		model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
)

type Model struct {
	ctx   context.Context
	store Store
	sess  *session.Session
	log   *slog.Logger

	tasks            []model.Task
	cursor           int
	filter           int // 0 is all, otherwise index+1 into model.Categories()
	includeCompleted bool

	focus       focus
	field       formField
	title       textinput.Model
	content     textarea.Model
	deadline    textinput.Model
	categoryIdx int
	priorityIdx int
	completed   bool

	confirmDelete bool
	status        string
	statusKind    statusKind
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48
	ti.Prompt = ""
	return ti
}

func newTextArea(placeholder string, limit int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = limit
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(48)
	ta.SetHeight(4)
	return ta
}

func New(ctx context.Context, st Store, sess *session.Session, log *slog.Logger) Model {
	m := Model{
		ctx:      ctx,
		store:    st,
		sess:     sess,
		log:      log,
		title:    newInput("Task title", 256),
		content:  newTextArea("Details in Markdown (optional)", 2048),
		deadline: newInput("YYYY-MM-DD", 10),
	}
	m.loadForm()
	if m.reload() {
		m.setStatus(statusInfo, "enter: edit selected • n: new task • ?: keys")
	}
	return m
}

// Run shows the board until the user quits or ctx is cancelled.
func Run(ctx context.Context, st Store, sess *session.Session, log *slog.Logger) error {
	p := tea.NewProgram(New(ctx, st, sess, log), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := max(msg.Width-20, 20)
		m.title.Width = w
		m.content.SetWidth(w)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmDelete {
			return m.updateConfirm(msg.String())
		}
		if m.focus == focusForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg.String())
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case "left", "h", "[":
		m.filter = (m.filter + len(model.Categories())) % (len(model.Categories()) + 1)
		m.cursor = 0
		m.reload()
	case "right", "l", "]":
		m.filter = (m.filter + 1) % (len(model.Categories()) + 1)
		m.cursor = 0
		m.reload()
	case "c":
		m.includeCompleted = !m.includeCompleted
		if m.reload() {
			if m.includeCompleted {
				m.setStatus(statusInfo, "Showing completed tasks")
			} else {
				m.setStatus(statusInfo, "Hiding completed tasks")
			}
		}
	case "r":
		if m.reload() {
			m.setStatus(statusInfo, "Reloaded")
		}
	case "enter", "e":
		m.selectRow()
	case "n":
		m.newTask()
	case "tab":
		m.setFocus(focusForm)
	case "d":
		m.requestDelete()
	case "?":
		m.setStatus(statusInfo, "←/→ category • c completed • enter edit • n new • d delete • tab form • q quit")
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.field == fieldContent && (key == "enter" || key == "up" || key == "down") {
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		return m, cmd
	}

	switch key {
	case "esc":
		m.setFocus(focusList)
		return m, nil
	case "enter", "ctrl+s":
		m.save()
		return m, nil
	case "tab", "down":
		m.field = (m.field + 1) % fieldCount
		m.focusField()
		return m, nil
	case "shift+tab", "up":
		m.field = (m.field + fieldCount - 1) % fieldCount
		m.focusField()
		return m, nil
	case "ctrl+n":
		m.newTask()
		return m, nil
	case "ctrl+d":
		m.requestDelete()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldContent:
		m.content, cmd = m.content.Update(msg)
	case fieldDeadline:
		m.deadline, cmd = m.deadline.Update(msg)
	case fieldCategory:
		m.categoryIdx = cycle(m.categoryIdx, len(model.Categories()), key)
	case fieldPriority:
		m.priorityIdx = cycle(m.priorityIdx, len(model.Priorities()), key)
	case fieldCompleted:
		if key == " " || key == "x" || key == "left" || key == "right" {
			m.completed = !m.completed
		}
	}
	return m, cmd
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	if key == "y" || key == "Y" {
		m.deleteLoaded()
		return m, nil
	}
	m.setStatus(statusInfo, "Delete cancelled")
	return m, nil
}

// selectRow loads the task under the cursor into the session and the form.
func (m *Model) selectRow() {
	if len(m.tasks) == 0 {
		m.setStatus(statusWarn, "No tasks to select")
		return
	}
	task, err := m.store.Get(m.ctx, m.tasks[m.cursor].ID)
	if err != nil {
		m.reportErr("load task", err)
		m.reload()
		return
	}
	m.sess.Load(task)
	m.loadForm()
	m.field = fieldTitle
	m.setFocus(focusForm)
	m.setStatus(statusInfo, fmt.Sprintf("Editing task #%d", task.ID))
}

func (m *Model) newTask() {
	m.sess.Clear()
	m.loadForm()
	m.field = fieldTitle
	m.setFocus(focusForm)
	m.setStatus(statusInfo, "New task")
}

func (m *Model) save() {
	f, err := m.formFields()
	if err != nil {
		m.reportErr("save", err)
		return
	}
	m.sess.SetFields(f)

	editing := m.sess.Editing()
	id, err := m.sess.Commit(m.ctx, m.store)
	if err != nil {
		m.reportErr("save", err)
		return
	}

	m.loadForm()
	if !m.reload() {
		return
	}
	if editing {
		m.setStatus(statusInfo, fmt.Sprintf("Updated task #%d", id))
	} else {
		m.setStatus(statusInfo, fmt.Sprintf("Added task #%d", id))
	}
	if !m.sess.Editing() {
		m.setFocus(focusList)
	}
}

func (m *Model) requestDelete() {
	if !m.sess.Editing() {
		m.deleteLoaded()
		return
	}
	m.confirmDelete = true
	m.setStatus(statusWarn, fmt.Sprintf("Delete task #%d %q? y/n", m.sess.ActiveID(), m.sess.Fields().Title))
}

func (m *Model) deleteLoaded() {
	id := m.sess.ActiveID()
	deleted, err := m.sess.Delete(m.ctx, m.store)
	if err != nil {
		m.reportErr("delete", err)
		return
	}
	if !deleted {
		m.setStatus(statusWarn, "No task selected: press enter on a task first")
		return
	}
	m.loadForm()
	m.setFocus(focusList)
	if m.reload() {
		m.setStatus(statusInfo, fmt.Sprintf("Deleted task #%d", id))
	}
}

// formFields reads the widgets. Only the deadline can fail to parse here;
// everything else is validated by the store.
func (m *Model) formFields() (model.TaskFields, error) {
	raw := strings.TrimSpace(m.deadline.Value())
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.TaskFields{}, &store.ValidationError{Field: "deadline", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", raw)}
	}
	return model.TaskFields{
		Category:  model.Categories()[m.categoryIdx],
		Title:     m.title.Value(),
		Content:   m.content.Value(),
		Priority:  model.Priorities()[m.priorityIdx],
		Deadline:  d,
		Completed: m.completed,
	}, nil
}

// loadForm copies the session values into the widgets.
func (m *Model) loadForm() {
	f := m.sess.Fields()
	m.title.SetValue(f.Title)
	m.content.SetValue(f.Content)
	m.deadline.SetValue(f.Deadline.String())
	m.title.CursorEnd()
	m.content.CursorEnd()
	m.deadline.CursorEnd()
	m.categoryIdx = max(indexOf(model.Categories(), f.Category), 0)
	m.priorityIdx = max(indexOf(model.Priorities(), f.Priority), 0)
	m.completed = f.Completed
}

func (m *Model) reload() bool {
	tasks, err := m.store.List(m.ctx, store.ListFilter{Category: m.filterCategory(), IncludeCompleted: m.includeCompleted})
	if err != nil {
		m.reportErr("list", err)
		return false
	}
	m.tasks = tasks
	m.cursor = clampCursor(m.cursor, len(m.tasks))
	return true
}

func (m *Model) filterCategory() string {
	if m.filter == 0 {
		return model.AllCategories
	}
	return string(model.Categories()[m.filter-1])
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.focusField()
}

func (m *Model) focusField() {
	m.title.Blur()
	m.content.Blur()
	m.deadline.Blur()
	if m.focus != focusForm {
		return
	}
	switch m.field {
	case fieldTitle:
		m.title.Focus()
	case fieldContent:
		m.content.Focus()
	case fieldDeadline:
		m.deadline.Focus()
	}
}

func (m *Model) setStatus(kind statusKind, msg string) {
	m.statusKind = kind
	m.status = msg
}

// reportErr shows validation and not-found errors as warnings; anything else
// is a storage failure and is also logged.
func (m *Model) reportErr(action string, err error) {
	switch {
	case errors.Is(err, store.ErrTaskInvalidArgs), errors.Is(err, store.ErrTaskNotFound):
		m.setStatus(statusWarn, fmt.Sprintf("%s: %v", action, err))
	default:
		if m.log != nil {
			m.log.Error("board action failed", "action", action, "error", err)
		}
		m.setStatus(statusError, fmt.Sprintf("%s failed: %v", action, err))
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	list := panelStyle
	form := panelStyle
	if m.focus == focusList {
		list = activePanel
	} else {
		form = activePanel
	}
	b.WriteString(list.Render(m.viewList()))
	b.WriteString("\n")
	b.WriteString(form.Render(m.viewForm()))
	b.WriteString("\n")

	switch m.statusKind {
	case statusWarn:
		b.WriteString(warnStyle.Render("⚠️ " + m.status))
	case statusError:
		b.WriteString(errorStyle.Render("❌ " + m.status))
	default:
		b.WriteString(infoStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.focus == focusForm {
		b.WriteString(helpStyle.Render("tab field • ←/→ change • enter save (newline in content) • ctrl+s save • ctrl+n new • ctrl+d delete • esc list"))
	} else {
		b.WriteString(helpStyle.Render("←/→ category • c completed • enter edit • n new • d delete • tab form • q quit"))
	}
	return b.String()
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(model.Categories())+1)
	names := []string{"All"}
	for _, c := range model.Categories() {
		names = append(names, string(c))
	}
	for i, name := range names {
		if i == m.filter {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.includeCompleted {
		row += helpStyle.Render("  (completed shown)")
	}
	return row
}

func (m Model) viewList() string {
	if len(m.tasks) == 0 {
		return helpStyle.Render("No tasks")
	}

	var b strings.Builder
	for i, t := range m.tasks {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		priority := string(t.Priority)
		if style, ok := priorityStyles[t.Priority]; ok {
			priority = style.Render(priority)
		}
		title := t.Title
		if t.Completed {
			title = doneStyle.Render(title)
		}
		marker := " "
		if m.sess.ActiveID() == t.ID {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s%s#%-4d %s  %s  %-6s  %s\n", prefix, marker, t.ID, t.Deadline.String(), t.Category, priority, title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewForm() string {
	var b strings.Builder
	if m.sess.Editing() {
		fmt.Fprintf(&b, "Editing task #%d\n\n", m.sess.ActiveID())
	} else {
		b.WriteString("New task\n\n")
	}

	for f := formField(0); f < fieldCount; f++ {
		label := labelStyle
		if m.focus == focusForm && m.field == f {
			label = activeLabel
		}
		if f == fieldContent {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(fieldLabels[f]), m.content.View()))
			b.WriteString("\n")
			continue
		}
		b.WriteString(label.Render(fieldLabels[f]))
		switch f {
		case fieldTitle:
			b.WriteString(m.title.View())
		case fieldCategory:
			b.WriteString("‹ " + string(model.Categories()[m.categoryIdx]) + " ›")
		case fieldPriority:
			b.WriteString("‹ " + string(model.Priorities()[m.priorityIdx]) + " ›")
		case fieldDeadline:
			b.WriteString(m.deadline.View())
		case fieldCompleted:
			if m.completed {
				b.WriteString("[x]")
			} else {
				b.WriteString("[ ]")
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func cycle(idx, n int, key string) int {
	switch key {
	case "left", "h":
		return (idx + n - 1) % n
	case "right", "l", " ":
		return (idx + 1) % n
	}
	return idx
}

func clampCursor(cursor, length int) int {
	if length == 0 || cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}
