package api

import "github.com/starford/daybook/internal/diary"

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// DiaryResponse is the full parsed document for one date.
type DiaryResponse struct {
	Date    string           `json:"date"`
	Tasks   []diary.Task     `json:"tasks"`
	Notes   []diary.NoteLink `json:"notes"`
	Summary string           `json:"summary"`
}

// SaveDiaryRequest is the body for PUT /diary/{date}: the full document.
type SaveDiaryRequest struct {
	Tasks   []diary.Task `json:"tasks"`
	Notes   []NoteLinkIn `json:"notes"`
	Summary string       `json:"summary"`
}

// NoteLinkIn is a note backlink as submitted by a client; the filename
// join key is synthesized server-side from the diary date.
type NoteLinkIn struct {
	Time  string `json:"time"`
	Title string `json:"title"`
}

// SaveTasksRequest is the body for PUT /diary/{date}/tasks: only the
// task list, spliced into the stored document.
type SaveTasksRequest struct {
	Tasks []diary.Task `json:"tasks"`
}

// CalendarResponse carries both calendar marker sets for one month.
type CalendarResponse struct {
	Dates     []string `json:"dates"`
	OpenTodos []string `json:"open_todos"`
}

// CreateNoteRequest is the body for POST /notes. The filename is built
// from today's date, the title, and the tags.
type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Tags    []string `json:"tags,omitempty"`
	Content string   `json:"content"`
}

// UpdateNoteRequest is the body for PUT /notes/{filename}.
type UpdateNoteRequest struct {
	Content string `json:"content"`
}

// RenameNoteRequest is the body for POST /notes/{filename}/rename. The
// date prefix of the new name is kept from the old one.
type RenameNoteRequest struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// NoteDetail is the response payload for a single quick-note.
type NoteDetail struct {
	Filename string   `json:"filename"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
	Content  string   `json:"content"`
	Checksum string   `json:"checksum"`
}

// NoteListItem is a lightweight item in the note list response.
type NoteListItem struct {
	Filename string   `json:"filename"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
	Date     string   `json:"date,omitempty"`
}

// TagsResponse carries the per-user tag preference lists.
type TagsResponse struct {
	NoteTags []string `json:"note_tags"`
	TodoTags []string `json:"todo_tags"`
}

// TextRequest is the body for POST /text/{action}.
type TextRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang,omitempty"`
}

// TextResponse reports the processed text and the method that produced
// it ("local" or "ollama").
type TextResponse struct {
	Result string `json:"result"`
	Method string `json:"method"`
}
