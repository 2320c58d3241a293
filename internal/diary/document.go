// Package diary implements the diary document model, the three-section
// text codec, and the partial-section merge engine.
//
// A diary document is one Markdown file per user per calendar date. It
// carries an ordered task list, an ordered list of backlinks to
// quick-notes, and a free-text summary.
package diary

import (
	"fmt"
	"time"
)

// Task is one checklist entry. Identity is positional: a task is
// addressed by its index in Document.Tasks, never by a stable ID, so
// callers must operate on a freshly loaded list.
//
// Priority and Tags are open string-keyed values; the format imposes no
// validation on them.
type Task struct {
	Text     string   `json:"text"`
	Done     bool     `json:"done"`
	Priority string   `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// NoteLink is a diary-side backlink to an independently stored
// quick-note. Filename is the synthesized join key
// "<yyyyMMdd>_<Title>.md" derived from the document date.
type NoteLink struct {
	Time     string `json:"time"` // HH:mm
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

// Document is the parsed three-section record for one user-date.
type Document struct {
	Date    time.Time  `json:"date"`
	Tasks   []Task     `json:"tasks"`
	Notes   []NoteLink `json:"notes"`
	Summary string     `json:"summary"`
}

// NewDocument returns an empty document for the given date.
func NewDocument(date time.Time) *Document {
	return &Document{Date: date}
}

// AddTask appends a task to the list.
func (d *Document) AddTask(t Task) {
	d.Tasks = append(d.Tasks, t)
}

// SetTaskDone sets the completion flag of the task at index i.
func (d *Document) SetTaskDone(i int, done bool) error {
	if i < 0 || i >= len(d.Tasks) {
		return fmt.Errorf("diary: task index %d out of range", i)
	}
	d.Tasks[i].Done = done
	return nil
}

// SetTaskText replaces the text of the task at index i.
func (d *Document) SetTaskText(i int, text string) error {
	if i < 0 || i >= len(d.Tasks) {
		return fmt.Errorf("diary: task index %d out of range", i)
	}
	d.Tasks[i].Text = text
	return nil
}

// RemoveTask deletes the task at index i, shifting later tasks down.
func (d *Document) RemoveTask(i int) error {
	if i < 0 || i >= len(d.Tasks) {
		return fmt.Errorf("diary: task index %d out of range", i)
	}
	d.Tasks = append(d.Tasks[:i], d.Tasks[i+1:]...)
	return nil
}

// AppendNoteLink adds a backlink for title at the given wall-clock time,
// synthesizing the join-key filename from the document date. Duplicate
// titles are allowed; the whole tuple is the only identity.
func (d *Document) AppendNoteLink(t time.Time, title string) NoteLink {
	link := NoteLink{
		Time:     t.Format("15:04"),
		Title:    title,
		Filename: SynthesizeLinkFilename(d.Date, title),
	}
	d.Notes = append(d.Notes, link)
	return link
}

// RemoveNoteLinkByFilename removes every backlink whose synthesized
// filename equals filename. It reports how many links were removed.
func (d *Document) RemoveNoteLinkByFilename(filename string) int {
	kept := d.Notes[:0]
	removed := 0
	for _, n := range d.Notes {
		if n.Filename == filename {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	d.Notes = kept
	if len(d.Notes) == 0 {
		d.Notes = nil
	}
	return removed
}

// SetSummary replaces the summary text.
func (d *Document) SetSummary(s string) {
	d.Summary = s
}

// HasOpenTasks reports whether any task is still unfinished. It is the
// predicate behind the calendar's "day has open to-dos" marker.
func (d *Document) HasOpenTasks() bool {
	for _, t := range d.Tasks {
		if !t.Done {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the document carries no content at all.
func (d *Document) IsEmpty() bool {
	return len(d.Tasks) == 0 && len(d.Notes) == 0 && d.Summary == ""
}

// Equal compares two documents structurally (tasks, notes, summary).
// The date is part of the comparison because note filenames embed it.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if !d.Date.Equal(o.Date) || d.Summary != o.Summary {
		return false
	}
	if len(d.Tasks) != len(o.Tasks) || len(d.Notes) != len(o.Notes) {
		return false
	}
	for i := range d.Tasks {
		if !d.Tasks[i].equal(o.Tasks[i]) {
			return false
		}
	}
	for i := range d.Notes {
		if d.Notes[i] != o.Notes[i] {
			return false
		}
	}
	return true
}

func (t Task) equal(o Task) bool {
	if t.Text != o.Text || t.Done != o.Done || t.Priority != o.Priority {
		return false
	}
	if len(t.Tags) != len(o.Tags) {
		return false
	}
	for i := range t.Tags {
		if t.Tags[i] != o.Tags[i] {
			return false
		}
	}
	return true
}

// SynthesizeLinkFilename derives the quick-note join key for a backlink:
// the document date as yyyyMMdd, an underscore, the title, and ".md".
func SynthesizeLinkFilename(date time.Time, title string) string {
	return date.Format("20060102") + "_" + title + ".md"
}
