// Package actions is a transactional undo/redo stack over a document.
//
// Every change is an Action applied to a fresh clone of the current
// document. A failed apply leaves the document untouched. Undo and redo
// swap whole snapshots, so actions never need an inverse.
package actions

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Action is one deferred, describable mutation of a document.
type Action[T any] interface {
	Description() string
	Apply(doc *T) error
}

// Entry identifies an applied action in the history.
type Entry struct {
	ID          uuid.UUID
	Description string
	At          time.Time
}

type step[T any] struct {
	entry  Entry
	before *T
	after  *T
}

// Stack owns the current document and its history. It is not safe for
// concurrent use; the host loop serializes all access.
type Stack[T any] struct {
	current *T
	clone   func(*T) *T

	undo []step[T]
	redo []step[T]

	limit int
	log   zerolog.Logger
	now   func() time.Time
}

// Option configures a Stack.
type Option func(*options)

type options struct {
	limit int
	log   zerolog.Logger
	now   func() time.Time
}

// WithLimit caps the number of undo steps kept. Zero keeps everything.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithLogger sets the logger used for commit/undo/redo events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a stack over doc. clone must return a deep copy.
func New[T any](doc *T, clone func(*T) *T, opts ...Option) *Stack[T] {
	o := options{log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Stack[T]{
		current: doc,
		clone:   clone,
		limit:   o.limit,
		log:     o.log,
		now:     o.now,
	}
}

// Current returns the current document. The pointer changes after every
// Push, Undo and Redo; callers must not keep it across them.
func (s *Stack[T]) Current() *T {
	return s.current
}

// Push applies a to a copy of the current document and, on success, makes
// the copy current. The redo history is discarded.
func (s *Stack[T]) Push(a Action[T]) (Entry, error) {
	entry := Entry{ID: uuid.New(), Description: a.Description(), At: s.now()}

	next := s.clone(s.current)
	if err := a.Apply(next); err != nil {
		s.log.Warn().Err(err).Str("action", entry.Description).Msg("action rejected")
		return Entry{}, err
	}

	s.undo = append(s.undo, step[T]{entry: entry, before: s.current, after: next})
	if s.limit > 0 && len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
	s.redo = nil
	s.current = next

	s.log.Debug().Str("id", entry.ID.String()).Str("action", entry.Description).Msg("action applied")
	return entry, nil
}

// Undo reverts the most recent action.
func (s *Stack[T]) Undo() (Entry, bool) {
	if len(s.undo) == 0 {
		return Entry{}, false
	}
	st := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, st)
	s.current = st.before

	s.log.Debug().Str("id", st.entry.ID.String()).Str("action", st.entry.Description).Msg("undo")
	return st.entry, true
}

// Redo reapplies the most recently undone action.
func (s *Stack[T]) Redo() (Entry, bool) {
	if len(s.redo) == 0 {
		return Entry{}, false
	}
	st := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, st)
	s.current = st.after

	s.log.Debug().Str("id", st.entry.ID.String()).Str("action", st.entry.Description).Msg("redo")
	return st.entry, true
}

// CanUndo reports whether there is an action to undo.
func (s *Stack[T]) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether there is an undone action to redo.
func (s *Stack[T]) CanRedo() bool { return len(s.redo) > 0 }

// History lists applied actions, oldest first.
func (s *Stack[T]) History() []Entry {
	out := make([]Entry, len(s.undo))
	for i, st := range s.undo {
		out[i] = st.entry
	}
	return out
}
