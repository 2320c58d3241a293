package journal

import (
	"log/slog"
	"time"

	"github.com/starford/daybook/internal/diary"
	"github.com/starford/daybook/internal/notename"
)

// Note-link reconciliation keeps the "## Notes" section of diaries in
// sync with the quick-note store. Every operation here goes through the
// storage provider with a full load/modify/save cycle (never the
// partial TODO splice), because the Notes section co-exists with TODO
// and Summary content that must be preserved.
//
// A filename whose date prefix cannot be parsed makes the operation a
// logged no-op: a malformed external filename must never corrupt a
// diary.

// NoteCreated records a new quick-note as a backlink in today's diary,
// stamped with the current time.
func (s *Service) NoteCreated(user, filename string) error {
	name, err := notename.Parse(filename)
	if err != nil {
		s.logger.Warn("journal: skip note-created reconciliation",
			slog.String("filename", filename), slog.String("error", err.Error()))
		return nil
	}

	today := s.today()
	doc := s.Load(user, today)
	doc.AppendNoteLink(s.now(), name.Title)
	if err := s.SaveDocument(user, doc); err != nil {
		return err
	}
	s.emit("note.created", user, filename)
	return nil
}

// NoteDeleted removes every backlink to the deleted quick-note from the
// diary of the date embedded in its filename. Other dates' diaries are
// untouched.
func (s *Service) NoteDeleted(user, filename string) error {
	name, err := notename.Parse(filename)
	if err != nil {
		s.logger.Warn("journal: skip note-deleted reconciliation",
			slog.String("filename", filename), slog.String("error", err.Error()))
		return nil
	}

	doc := s.Load(user, name.Date)
	if s.removeLinks(doc, filename, name) == 0 {
		s.logger.Debug("journal: no backlink to remove",
			slog.String("user", user), slog.String("filename", filename))
		return nil
	}
	if err := s.SaveDocument(user, doc); err != nil {
		return err
	}
	s.emit("note.deleted", user, filename)
	return nil
}

// NoteRenamed replaces the backlink for oldFilename with a freshly
// timed one for newFilename. The diary date comes from the new
// filename's prefix; renames keep the creation-date prefix in practice.
func (s *Service) NoteRenamed(user, oldFilename, newFilename string) error {
	newName, err := notename.Parse(newFilename)
	if err != nil {
		s.logger.Warn("journal: skip note-renamed reconciliation",
			slog.String("filename", newFilename), slog.String("error", err.Error()))
		return nil
	}

	doc := s.Load(user, newName.Date)
	if oldName, perr := notename.Parse(oldFilename); perr == nil {
		s.removeLinks(doc, oldFilename, oldName)
	} else {
		doc.RemoveNoteLinkByFilename(oldFilename)
	}
	doc.AppendNoteLink(s.now(), newName.Title)
	if err := s.SaveDocument(user, doc); err != nil {
		return err
	}
	s.emit("note.renamed", user, newFilename)
	return nil
}

// removeLinks drops backlinks matching either the literal quick-note
// filename or the synthesized join key recomputed from its parsed date
// and title. The second form covers links created by reconciliation,
// whose titles have the tag suffixes stripped.
func (s *Service) removeLinks(doc *diary.Document, filename string, name notename.Name) int {
	removed := doc.RemoveNoteLinkByFilename(filename)
	if synthesized := diary.SynthesizeLinkFilename(name.Date, name.Title); synthesized != filename {
		removed += doc.RemoveNoteLinkByFilename(synthesized)
	}
	return removed
}

func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
