// Package journal coordinates the diary codec, the storage provider,
// and the quick-note store: document load/save, the calendar index, and
// note-link reconciliation.
package journal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/daybook/internal/diary"
	"github.com/starford/daybook/internal/storage"
)

// EventFunc is called after a journal mutation so interested parties
// (the SSE broker) can notify open views. kind is one of "diary.saved",
// "note.created", "note.deleted", "note.renamed".
type EventFunc func(kind, user, name string)

// Service is the journal core. It is stateless between calls: every
// operation loads, mutates, and saves through the storage provider, so
// two views editing the same date follow last-write-wins.
type Service struct {
	store  storage.Provider
	logger *slog.Logger
	notify EventFunc
	now    func() time.Time
}

// NewService creates a journal service. notify may be nil.
func NewService(store storage.Provider, logger *slog.Logger, notify EventFunc) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		notify: notify,
		now:    time.Now,
	}
}

func (s *Service) emit(kind, user, name string) {
	if s.notify != nil {
		s.notify(kind, user, name)
	}
}

// Load returns the parsed diary for user/date. A missing file or a
// storage failure degrades to an empty document: the day simply has no
// diary yet. Read failures are logged, never surfaced.
func (s *Service) Load(user string, date time.Time) *diary.Document {
	text, err := s.store.LoadDiary(user, date)
	if err != nil {
		s.logger.Warn("journal: load diary failed",
			slog.String("user", user),
			slog.String("date", date.Format("2006-01-02")),
			slog.String("error", err.Error()))
		return diary.NewDocument(date)
	}
	doc, err := diary.Parse(date, text)
	if err != nil {
		// Only a zero date can fail the codec; treat it like a read failure.
		s.logger.Warn("journal: parse diary failed", slog.String("error", err.Error()))
		return diary.NewDocument(date)
	}
	return doc
}

// SaveDocument formats and stores the full document. Save failures are
// surfaced to the caller for user notification.
func (s *Service) SaveDocument(user string, doc *diary.Document) error {
	text, err := diary.Format(doc)
	if err != nil {
		return err
	}
	if err := s.store.SaveDiary(user, doc.Date, text); err != nil {
		return fmt.Errorf("journal: save diary: %w", err)
	}
	s.emit("diary.saved", user, doc.Date.Format("2006-01-02"))
	return nil
}

// SaveTasks rewrites only the TODO section of the stored diary for
// user/date, splicing the new block into the existing text so that
// Notes and Summary content the caller never loaded is preserved.
func (s *Service) SaveTasks(user string, date time.Time, tasks []diary.Task) error {
	original, err := s.store.LoadDiary(user, date)
	if err != nil {
		return fmt.Errorf("journal: load before task merge: %w", err)
	}
	merged, err := diary.MergeTodo(original, diary.FormatTodoBlock(tasks))
	if err != nil {
		return err
	}
	if err := s.store.SaveDiary(user, date, merged); err != nil {
		return fmt.Errorf("journal: save merged diary: %w", err)
	}
	s.emit("diary.saved", user, date.Format("2006-01-02"))
	return nil
}

// DatesWithDiary returns the dates in (year, month) that have a diary
// file. Existence only; nothing is parsed.
func (s *Service) DatesWithDiary(user string, year int, month time.Month) ([]time.Time, error) {
	return s.store.DiaryDatesInMonth(user, year, month)
}

// DatesWithOpenTodos returns the subset of DatesWithDiary whose parsed
// task list contains at least one unfinished task. A diary that fails
// to load or parse counts as having no open to-dos. Bounded by the
// length of a month, so the per-render full parses stay cheap.
func (s *Service) DatesWithOpenTodos(user string, year int, month time.Month) ([]time.Time, error) {
	dates, err := s.store.DiaryDatesInMonth(user, year, month)
	if err != nil {
		return nil, err
	}
	var open []time.Time
	for _, d := range dates {
		if s.Load(user, d).HasOpenTasks() {
			open = append(open, d)
		}
	}
	return open, nil
}
