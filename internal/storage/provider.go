// Package storage implements the per-user file-system layout that holds
// diaries, quick-notes, and user preferences.
package storage

import "time"

// Provider is the storage collaborator the journal core depends on.
// Physical path layout is an implementation detail of the provider.
type Provider interface {
	// SaveDiary writes the full text of the diary for user/date.
	SaveDiary(user string, date time.Time, text string) error
	// LoadDiary returns the stored diary text, or "" when absent.
	LoadDiary(user string, date time.Time) (string, error)
	// DiaryDatesInMonth returns the dates in (year, month) for which a
	// diary file exists. Existence only; files are not parsed.
	DiaryDatesInMonth(user string, year int, month time.Month) ([]time.Time, error)

	// SaveNote writes a quick-note. On first write of a new note a
	// non-empty title produces a heading and creation stamp before the
	// content. The absolute path of the note is returned.
	SaveNote(user, filename, content, title string) (string, error)
	// LoadNote returns the raw text of a quick-note.
	LoadNote(user, filename string) (string, error)
	// ListNotes returns the filenames of every stored quick-note.
	ListNotes(user string) ([]string, error)
	// DeleteNote removes a quick-note.
	DeleteNote(user, filename string) error
	// RenameNote renames a quick-note in place.
	RenameNote(user, oldFilename, newFilename string) error
	// NoteDir returns the absolute quick-note directory for user,
	// creating it if needed. Used by the change watcher.
	NoteDir(user string) (string, error)

	// LoadPrefs returns the user's preferences, creating defaults on
	// first access. SavePrefs overwrites them.
	LoadPrefs(user string) (*Prefs, error)
	SavePrefs(user string, p *Prefs) error
}
