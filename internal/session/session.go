// Package session holds the state of the add/edit form: which task, if any,
// is loaded and the values currently shown. It decides whether a save is an
// insert or an update. The store stays the only authority on task data.
package session

import (
	"context"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/nakachan-ing/taskboard/internal/model"
)

// Store is the part of the task store a session writes through.
type Store interface {
	Insert(ctx context.Context, f model.TaskFields) (int64, error)
	Update(ctx context.Context, id int64, f model.TaskFields) error
	Delete(ctx context.Context, id int64) error
}

type Option func(*Session)

// WithClock sets the source of "today" for the default deadline.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithKeepAfterUpdate keeps the saved values loaded after a successful
// update instead of returning to new-task mode.
func WithKeepAfterUpdate(keep bool) Option {
	return func(s *Session) {
		s.keepAfterUpdate = keep
	}
}

type Session struct {
	activeID        int64
	fields          model.TaskFields
	now             func() time.Time
	keepAfterUpdate bool
}

func New(opts ...Option) *Session {
	s := &Session{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.Clear()
	return s
}

// Defaults returns the values of an empty form.
func (s *Session) Defaults() model.TaskFields {
	t := s.now()
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return model.TaskFields{
		Category: model.Categories()[0],
		Priority: model.PriorityMedium,
		Deadline: strfmt.Date(today),
	}
}

// ActiveID is the id of the loaded task, or 0 in new-task mode.
func (s *Session) ActiveID() int64 {
	return s.activeID
}

func (s *Session) Editing() bool {
	return s.activeID != 0
}

func (s *Session) Fields() model.TaskFields {
	return s.fields
}

// SetFields records the values currently entered in the form.
func (s *Session) SetFields(f model.TaskFields) {
	s.fields = f
}

// Load copies task into the form and switches to editing mode.
func (s *Session) Load(task model.Task) {
	s.activeID = task.ID
	s.fields = task.Fields()
}

// Clear returns to new-task mode with default values.
func (s *Session) Clear() {
	s.activeID = 0
	s.fields = s.Defaults()
}

// Commit inserts the form as a new task in new-task mode and updates the
// loaded task otherwise. It returns the id written. On error the session is
// left as it was.
func (s *Session) Commit(ctx context.Context, store Store) (int64, error) {
	if !s.Editing() {
		id, err := store.Insert(ctx, s.fields)
		if err != nil {
			return 0, err
		}
		s.Clear()
		return id, nil
	}

	id := s.activeID
	if err := store.Update(ctx, id, s.fields); err != nil {
		return 0, err
	}
	if !s.keepAfterUpdate {
		s.Clear()
		return id, nil
	}
	s.fields = s.fields.Trimmed()
	return id, nil
}

// Delete removes the loaded task. With nothing loaded it reports false and
// does not touch the store.
func (s *Session) Delete(ctx context.Context, store Store) (bool, error) {
	if !s.Editing() {
		return false, nil
	}
	if err := store.Delete(ctx, s.activeID); err != nil {
		return false, err
	}
	s.Clear()
	return true, nil
}
