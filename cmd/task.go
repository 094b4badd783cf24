/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/go-openapi/strfmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/taskboard/internal/model"
	"github.com/nakachan-ing/taskboard/internal/store"
	"github.com/nakachan-ing/taskboard/internal/util"
	"github.com/spf13/cobra"
)

var taskCategory string
var taskTitle string
var taskContent string
var taskPriority string
var taskDeadline string
var taskCompleted bool
var taskUndo bool

var taskListCategory string
var taskListCompleted bool
var taskFrom string
var taskTo string
var taskSearchQuery string
var taskPageSize int
var taskMeta bool
var taskJSON bool

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

// applyFieldFlags overrides f with the field flags set on the command line.
// Flags left at their default do not touch f.
func applyFieldFlags(cmd *cobra.Command, f *model.TaskFields) error {
	flags := cmd.Flags()

	if flags.Changed("category") {
		category, ok := model.ParseCategory(taskCategory)
		if !ok {
			return &store.ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", taskCategory)}
		}
		f.Category = category
	}
	if flags.Changed("title") {
		f.Title = taskTitle
	}
	if flags.Changed("content") {
		f.Content = taskContent
	}
	if flags.Changed("priority") {
		priority, ok := model.ParsePriority(taskPriority)
		if !ok {
			return &store.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", taskPriority)}
		}
		f.Priority = priority
	}
	if flags.Changed("deadline") {
		deadline, err := parseDeadline(taskDeadline, time.Now())
		if err != nil {
			return err
		}
		f.Deadline = deadline
	}
	if flags.Changed("completed") {
		f.Completed = taskCompleted
	}
	return nil
}

// parseDeadline accepts YYYY-MM-DD, "today" and "tomorrow".
func parseDeadline(value string, now time.Time) (strfmt.Date, error) {
	value = strings.TrimSpace(value)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch strings.ToLower(value) {
	case "today":
		return strfmt.Date(today), nil
	case "tomorrow":
		return strfmt.Date(today.AddDate(0, 0, 1)), nil
	}

	d, err := model.ParseDate(value)
	if err != nil {
		return strfmt.Date{}, &store.ValidationError{Field: "deadline", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", value)}
	}
	return d, nil
}

// validateDateRange checks the optional --from and --to bounds.
func validateDateRange(from, to string) error {
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, err := model.ParseDate(bound); err != nil {
			return &store.ValidationError{Field: "date range", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", bound)}
		}
	}
	return nil
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, &store.ValidationError{Field: "id", Reason: fmt.Sprintf("%q is not a task id", arg)}
	}
	return id, nil
}

// listFilterFromFlag turns the --category value into a store filter.
func listFilterFromFlag(category string, includeCompleted bool) store.ListFilter {
	filter := store.ListFilter{Category: model.AllCategories, IncludeCompleted: includeCompleted}
	if category == "" || strings.EqualFold(category, model.AllCategories) {
		return filter
	}
	if c, ok := model.ParseCategory(category); ok {
		filter.Category = string(c)
	} else {
		// let the store reject it
		filter.Category = category
	}
	return filter
}

func coloredPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return text.FgHiRed.Sprintf("%s", p)
	case model.PriorityMedium:
		return text.FgHiYellow.Sprintf("%s", p)
	case model.PriorityLow:
		return text.FgHiBlue.Sprintf("%s", p)
	default:
		return string(p)
	}
}

func coloredDeadline(task model.Task, today time.Time) string {
	d := task.Deadline.String()
	if !task.Completed && time.Time(task.Deadline).Before(today) {
		return text.FgHiRed.Sprintf("%s", d)
	}
	return d
}

func renderTaskTable(w io.Writer, tasks []model.Task, now time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("ID"), text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Title")),
		text.FgGreen.Sprintf("Category"),
		text.FgGreen.Sprintf("Priority"),
		text.FgGreen.Sprintf("Deadline"),
		text.FgGreen.Sprintf("Done"),
	})

	for _, task := range tasks {
		done := ""
		if task.Completed {
			done = text.FgHiGreen.Sprint("✔")
		}
		t.AppendRow(table.Row{
			task.ID,
			task.Title,
			task.Category,
			coloredPriority(task.Priority),
			coloredDeadline(task, today),
			done,
		})
	}

	t.Render()
}

// pageTasks prints tasks pageSize rows at a time, waiting for Enter between
// pages. A non-positive pageSize prints everything at once.
func pageTasks(in io.Reader, out io.Writer, tasks []model.Task, pageSize int) {
	reader := bufio.NewReader(in)
	page := 0

	fmt.Fprintln(out, strings.Repeat("=", 30))
	fmt.Fprintf(out, "Tasks: %v tasks shown\n", len(tasks))
	fmt.Fprintln(out, strings.Repeat("=", 30))

	if len(tasks) == 0 {
		return
	}
	if pageSize <= 0 {
		pageSize = len(tasks)
	}

	for {
		start := page * pageSize
		end := start + pageSize

		if start >= len(tasks) {
			fmt.Fprintln(out, "No more tasks to display.")
			break
		}
		if end > len(tasks) {
			end = len(tasks)
		}

		renderTaskTable(out, tasks[start:end], time.Now())

		if end >= len(tasks) {
			break
		}

		fmt.Fprint(out, "\nPress Enter for the next page (q to quit): ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "q" || err != nil {
			fmt.Fprintln(out)
			break
		}

		page++
	}
}

var addTaskCmd = &cobra.Command{
	Use:     "add [title]",
	Short:   "Add a new task",
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"new", "n"},
	RunE: func(cmd *cobra.Command, args []string) error {
		st, config, logger, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st, logger)

		sess := newSession(config)
		fields := sess.Fields()
		if len(args) == 1 {
			fields.Title = args[0]
		}
		if err := applyFieldFlags(cmd, &fields); err != nil {
			return err
		}
		sess.SetFields(fields)

		id, err := sess.Commit(cmd.Context(), st)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %d has been created successfully.\n", id)
		return nil
	},
}

var listTaskCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks ordered by deadline, priority and title",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		st, config, logger, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st, logger)

		if err := validateDateRange(taskFrom, taskTo); err != nil {
			return err
		}

		tasks, err := st.List(cmd.Context(), listFilterFromFlag(taskListCategory, taskListCompleted))
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		tasks = util.FullTextSearch(tasks, taskSearchQuery)
		tasks = util.FilterByDeadline(tasks, taskFrom, taskTo)

		if taskJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tasks)
		}

		pageSize := taskPageSize
		if !cmd.Flags().Changed("limit") {
			pageSize = config.List.PageSize
		}

		pageTasks(cmd.InOrStdin(), cmd.OutOrStdout(), tasks, pageSize)
		return nil
	},
}

var showTaskCmd = &cobra.Command{
	Use:     "show [Task ID]",
	Short:   "Show task detail",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"s"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		st, _, logger, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st, logger)

		task, err := st.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}

		printTask(cmd.OutOrStdout(), task, !taskMeta)
		return nil
	},
}

func printTask(w io.Writer, task model.Task, withContent bool) {
	titleStyle := color.New(color.FgCyan, color.Bold).SprintFunc()
	fieldStyle := color.New(color.FgHiGreen).SprintFunc()

	status := "open"
	if task.Completed {
		status = "completed"
	}

	fmt.Fprintf(w, "[%v] %v\n", titleStyle(task.ID), titleStyle(task.Title))
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Category: %v\n", fieldStyle(task.Category))
	fmt.Fprintf(w, "Priority: %v\n", fieldStyle(task.Priority))
	fmt.Fprintf(w, "Deadline: %v\n", fieldStyle(task.Deadline.String()))
	fmt.Fprintf(w, "Status: %v\n", fieldStyle(status))

	if !withContent || task.Content == "" {
		return
	}

	rendered, err := glamour.Render(task.Content, "dark")
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️ Failed to render markdown content: %v\n", err)
		fmt.Fprintln(w, task.Content)
		return
	}
	fmt.Fprintln(w, rendered)
}

var updateTaskCmd = &cobra.Command{
	Use:   "update [Task ID]",
	Short: "Update the fields given as flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		st, config, logger, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st, logger)

		task, err := st.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}

		sess := newSession(config)
		sess.Load(task)
		fields := sess.Fields()
		if err := applyFieldFlags(cmd, &fields); err != nil {
			return err
		}
		sess.SetFields(fields)

		if _, err := sess.Commit(cmd.Context(), st); err != nil {
			return fmt.Errorf("failed to update task %d: %w", id, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %d has been updated.\n", id)
		return nil
	},
}

var doneTaskCmd = &cobra.Command{
	Use:   "done [Task ID]",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		st, config, logger, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st, logger)

		task, err := st.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}

		sess := newSession(config)
		sess.Load(task)
		fields := sess.Fields()
		fields.Completed = !taskUndo
		sess.SetFields(fields)

		if _, err := sess.Commit(cmd.Context(), st); err != nil {
			return fmt.Errorf("failed to update task %d: %w", id, err)
		}

		if taskUndo {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %d reopened.\n", id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %d completed.\n", id)
		}
		return nil
	},
}

var editTaskCmd = &cobra.Command{
	Use:     "edit [Task ID]",
	Short:   "Edit a task in your editor",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"e"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		st, config, logger, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st, logger)

		task, err := st.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}

		content, err := util.RenderTaskFile(task.Fields())
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp("", fmt.Sprintf("taskboard-%d-*.md", id))
		if err != nil {
			return fmt.Errorf("failed to create temp file: %w", err)
		}
		defer os.Remove(tmp.Name())

		if _, err := tmp.WriteString(content); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write temp file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("failed to write temp file: %w", err)
		}

		if err := util.OpenEditor(config.Editor, tmp.Name()); err != nil {
			return fmt.Errorf("failed to open editor: %w", err)
		}

		edited, err := os.ReadFile(tmp.Name())
		if err != nil {
			return fmt.Errorf("failed to read edited file: %w", err)
		}

		fields, err := util.ParseTaskFile(string(edited))
		if err != nil {
			return &store.ValidationError{Field: "front matter", Reason: err.Error()}
		}

		sess := newSession(config)
		sess.Load(task)
		sess.SetFields(fields)

		if _, err := sess.Commit(cmd.Context(), st); err != nil {
			return fmt.Errorf("failed to update task %d: %w", id, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %d has been updated.\n", id)
		return nil
	},
}

var removeTaskCmd = &cobra.Command{
	Use:     "remove [Task ID]",
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		st, config, logger, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st, logger)

		task, err := st.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}

		sess := newSession(config)
		sess.Load(task)

		deleted, err := sess.Delete(cmd.Context(), st)
		if err != nil {
			return fmt.Errorf("failed to delete task %d: %w", id, err)
		}
		if !deleted {
			fmt.Fprintln(cmd.OutOrStdout(), "⚠️ No task selected.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task %d deleted.\n", id)
		return nil
	},
}

type categoryStats struct {
	Category  model.Category
	Open      int
	Completed int
}

func collectStats(tasks []model.Task) []categoryStats {
	byCategory := make(map[model.Category]*categoryStats)
	stats := make([]categoryStats, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		stats = append(stats, categoryStats{Category: c})
	}
	for i := range stats {
		byCategory[stats[i].Category] = &stats[i]
	}

	for _, task := range tasks {
		s, ok := byCategory[task.Category]
		if !ok {
			continue
		}
		if task.Completed {
			s.Completed++
		} else {
			s.Open++
		}
	}
	return stats
}

var statsTaskCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, logger, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st, logger)

		tasks, err := st.List(cmd.Context(), store.ListFilter{Category: model.AllCategories, IncludeCompleted: true})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		total, err := st.Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleDouble)
		t.AppendHeader(table.Row{
			text.FgGreen.Sprintf("Category"), text.FgGreen.Sprintf("Open"), text.FgGreen.Sprintf("Completed"),
		})
		for _, s := range collectStats(tasks) {
			t.AppendRow(table.Row{s.Category, s.Open, s.Completed})
		}
		t.AppendFooter(table.Row{"Total", "", total})
		t.Render()
		return nil
	},
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&taskCategory, "category", "c", "", "Category (Work, Personal-Project, Other)")
	cmd.Flags().StringVarP(&taskTitle, "title", "t", "", "Title")
	cmd.Flags().StringVar(&taskContent, "content", "", "Content (Markdown)")
	cmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "Priority (High, Medium, Low)")
	cmd.Flags().StringVarP(&taskDeadline, "deadline", "d", "", "Deadline (YYYY-MM-DD, today, tomorrow)")
}

func init() {
	taskCmd.AddCommand(addTaskCmd)
	taskCmd.AddCommand(listTaskCmd)
	taskCmd.AddCommand(showTaskCmd)
	taskCmd.AddCommand(updateTaskCmd)
	taskCmd.AddCommand(doneTaskCmd)
	taskCmd.AddCommand(editTaskCmd)
	taskCmd.AddCommand(removeTaskCmd)
	taskCmd.AddCommand(statsTaskCmd)
	rootCmd.AddCommand(taskCmd)

	addFieldFlags(addTaskCmd)
	addFieldFlags(updateTaskCmd)
	updateTaskCmd.Flags().BoolVar(&taskCompleted, "completed", false, "Mark as completed (--completed=false reopens)")
	doneTaskCmd.Flags().BoolVar(&taskUndo, "undo", false, "Reopen the task instead")

	listTaskCmd.Flags().StringVarP(&taskListCategory, "category", "c", model.AllCategories, "Filter by category (all, Work, Personal-Project, Other)")
	listTaskCmd.Flags().BoolVar(&taskListCompleted, "completed", false, "Include completed tasks")
	listTaskCmd.Flags().StringVar(&taskFrom, "from", "", "Filter by deadline from (YYYY-MM-DD)")
	listTaskCmd.Flags().StringVar(&taskTo, "to", "", "Filter by deadline to (YYYY-MM-DD)")
	listTaskCmd.Flags().StringVarP(&taskSearchQuery, "search", "q", "", "Search by title or content")
	listTaskCmd.Flags().IntVar(&taskPageSize, "limit", 20, "Set the number of tasks to display per page (-1 for all)")
	listTaskCmd.Flags().BoolVar(&taskJSON, "json", false, "Print tasks as JSON instead of a table")
	showTaskCmd.Flags().BoolVar(&taskMeta, "meta", false, "Show only metadata without task content")
}
