package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/nakachan-ing/taskboard/internal/model"
)

//go:embed schema.sql
var schemaSQL string

const taskColumns = `id, category, title, COALESCE(content, '') AS content, COALESCE(priority, '') AS priority, deadline, completed`

// TaskStore keeps tasks in a single SQLite file.
type TaskStore struct {
	log  *slog.Logger
	conn *sqlx.DB
	path string
}

type ListFilter struct {
	// Category is a category name or model.AllCategories. Empty means all.
	Category string
	// IncludeCompleted also returns completed tasks.
	IncludeCompleted bool
}

func OpenTaskStore(log *slog.Logger, path string) (*TaskStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, storageErr("create database directory", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		log.Error("connection problem", "path", path, "error", err)
		return nil, storageErr("open database", err)
	}
	db.SetMaxOpenConns(1)

	s := &TaskStore{log: log, conn: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *TaskStore) migrate() error {
	s.log.Debug("applying tasks schema", "path", s.path)
	if _, err := s.conn.Exec(schemaSQL); err != nil {
		return storageErr("apply schema", err)
	}
	return nil
}

// Path returns the database file the store was opened on.
func (s *TaskStore) Path() string {
	return s.path
}

func (s *TaskStore) Close() error {
	return s.conn.Close()
}

func (s *TaskStore) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

func (s *TaskStore) List(ctx context.Context, f ListFilter) ([]model.Task, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`)

	if !f.IncludeCompleted {
		sb.WriteString(` AND completed = 0`)
	}

	if f.Category != "" && f.Category != model.AllCategories {
		category := model.Category(f.Category)
		if !category.Valid() {
			return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", f.Category)}
		}
		sb.WriteString(` AND category = ?`)
		args = append(args, category)
	}

	sb.WriteString(` ORDER BY id ASC`)

	out := []model.Task{}
	if err := s.conn.SelectContext(ctx, &out, sb.String(), args...); err != nil {
		return nil, storageErr("list tasks", err)
	}

	SortTasks(out)
	s.log.Debug("listed tasks", "category", f.Category, "include_completed", f.IncludeCompleted, "count", len(out))
	return out, nil
}

// SortTasks orders tasks by deadline ascending, then priority rank descending,
// then title, then open before completed. Ties keep their order.
func SortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		da, dl := time.Time(a.Deadline), time.Time(b.Deadline)
		if !da.Equal(dl) {
			return da.Before(dl)
		}
		ra, rb := model.PriorityRank(a.Priority), model.PriorityRank(b.Priority)
		if ra != rb {
			return ra > rb
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return !a.Completed && b.Completed
	})
}

func (s *TaskStore) Get(ctx context.Context, id int64) (model.Task, error) {
	if id <= 0 {
		return model.Task{}, &ValidationError{Field: "id", Reason: "must be positive"}
	}

	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	var t model.Task
	if err := s.conn.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrTaskNotFound
		}
		return model.Task{}, storageErr("get task", err)
	}
	return t, nil
}

func (s *TaskStore) Insert(ctx context.Context, f model.TaskFields) (int64, error) {
	f, err := normalizeFields(f)
	if err != nil {
		return 0, err
	}

	const q = `
		INSERT INTO tasks (category, title, content, priority, deadline, completed)
		VALUES (?, ?, ?, ?, ?, 0);
	`

	res, err := s.conn.ExecContext(ctx, q, f.Category, f.Title, f.Content, f.Priority, f.Deadline)
	if err != nil {
		return 0, storageErr("insert task", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert task", err)
	}

	s.log.Debug("inserted task", "id", id, "title", f.Title)
	return id, nil
}

func (s *TaskStore) Update(ctx context.Context, id int64, f model.TaskFields) error {
	if id <= 0 {
		return &ValidationError{Field: "id", Reason: "must be positive"}
	}
	f, err := normalizeFields(f)
	if err != nil {
		return err
	}

	const q = `
		UPDATE tasks
		SET category = ?,
		    title = ?,
		    content = ?,
		    priority = ?,
		    deadline = ?,
		    completed = ?
		WHERE id = ?;
	`

	res, err := s.conn.ExecContext(ctx, q, f.Category, f.Title, f.Content, f.Priority, f.Deadline, f.Completed, id)
	if err != nil {
		return storageErr("update task", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return storageErr("update task", err)
	}
	if aff == 0 {
		return ErrTaskNotFound
	}

	s.log.Debug("updated task", "id", id, "completed", f.Completed)
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: "id", Reason: "must be positive"}
	}

	const q = `DELETE FROM tasks WHERE id = ?`

	res, err := s.conn.ExecContext(ctx, q, id)
	if err != nil {
		return storageErr("delete task", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete task", err)
	}
	if aff == 0 {
		return ErrTaskNotFound
	}

	s.log.Debug("deleted task", "id", id)
	return nil
}

// Count returns the number of stored tasks, completed ones included.
func (s *TaskStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM tasks`); err != nil {
		return 0, storageErr("count tasks", err)
	}
	return n, nil
}

func normalizeFields(f model.TaskFields) (model.TaskFields, error) {
	f = f.Trimmed()

	if f.Title == "" {
		return f, &ValidationError{Field: "title", Reason: "must not be blank"}
	}
	if !f.Category.Valid() {
		return f, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", f.Category)}
	}
	if !f.Priority.Valid() {
		return f, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", f.Priority)}
	}
	if time.Time(f.Deadline).IsZero() {
		return f, &ValidationError{Field: "deadline", Reason: "is required"}
	}
	return f, nil
}
