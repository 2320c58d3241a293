package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/daybook/internal/apperr"
	"github.com/starford/daybook/internal/checksum"
	"github.com/starford/daybook/internal/notename"
)

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.ListNotes(requestUser(r))
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	items := make([]NoteListItem, 0, len(names))
	for _, fn := range names {
		item := NoteListItem{Filename: fn, Tags: []string{}}
		if n, perr := notename.Parse(fn); perr == nil {
			item.Title = n.Title
			item.Date = n.Date.Format(dateLayout)
			if n.Tags != nil {
				item.Tags = n.Tags
			}
		} else {
			// Non-standard filename: show it as-is.
			item.Title = fn
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": items, "total": len(items)})
}

// GetNote handles GET /notes/{filename}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	content, err := h.store.LoadNote(requestUser(r), filename)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("load note failed", slog.String("filename", filename), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, noteDetail(filename, content))
}

// CreateNote handles POST /notes. The filename is synthesized from
// today's date, the title, and the tags; the new note is then linked
// into today's diary.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}

	user := requestUser(r)
	filename := notename.Build(time.Now(), req.Title, req.Tags)

	if _, err := h.store.LoadNote(user, filename); err == nil {
		writeJSON(w, http.StatusConflict, errorBody("note already exists"))
		return
	}

	if _, err := h.store.SaveNote(user, filename, req.Content, req.Title); err != nil {
		slog.Error("create note failed", slog.String("filename", filename), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("save failed"))
		return
	}
	if err := h.svc.NoteCreated(user, filename); err != nil {
		slog.Error("note-created reconciliation failed", slog.String("filename", filename), slog.String("error", err.Error()))
	}

	content, _ := h.store.LoadNote(user, filename)
	writeJSON(w, http.StatusCreated, noteDetail(filename, content))
}

// UpdateNote handles PUT /notes/{filename} with optimistic concurrency:
// when an If-Match header is present the stored content's checksum must
// still match it.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	user := requestUser(r)
	existing, err := h.store.LoadNote(user, filename)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("load note failed", slog.String("filename", filename), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if ifMatch := r.Header.Get("If-Match"); ifMatch != "" && ifMatch != checksum.Sum([]byte(existing)) {
		writeJSON(w, http.StatusConflict, errorBody("note changed since last read"))
		return
	}

	if _, err := h.store.SaveNote(user, filename, req.Content, ""); err != nil {
		slog.Error("update note failed", slog.String("filename", filename), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("save failed"))
		return
	}
	writeJSON(w, http.StatusOK, noteDetail(filename, req.Content))
}

// DeleteNote handles DELETE /notes/{filename} and removes the backlink
// from the owning diary.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	user := requestUser(r)

	if err := h.store.DeleteNote(user, filename); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete note failed", slog.String("filename", filename), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if err := h.svc.NoteDeleted(user, filename); err != nil {
		slog.Error("note-deleted reconciliation failed", slog.String("filename", filename), slog.String("error", err.Error()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenameNote handles POST /notes/{filename}/rename: retitling or
// retagging a note changes its filename, so the diary backlink is
// replaced as well. The creation-date prefix is kept.
func (h *Handler) RenameNote(w http.ResponseWriter, r *http.Request) {
	oldFilename := chi.URLParam(r, "filename")
	var req RenameNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}

	oldName, err := notename.Parse(oldFilename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("filename has no date prefix"))
		return
	}
	newFilename := notename.Build(oldName.Date, req.Title, req.Tags)
	if newFilename == oldFilename {
		content, _ := h.store.LoadNote(requestUser(r), oldFilename)
		writeJSON(w, http.StatusOK, noteDetail(oldFilename, content))
		return
	}

	user := requestUser(r)
	if err := h.store.RenameNote(user, oldFilename, newFilename); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("rename note failed", slog.String("filename", oldFilename), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("rename failed"))
		return
	}
	if err := h.svc.NoteRenamed(user, oldFilename, newFilename); err != nil {
		slog.Error("note-renamed reconciliation failed", slog.String("filename", newFilename), slog.String("error", err.Error()))
	}

	content, _ := h.store.LoadNote(user, newFilename)
	writeJSON(w, http.StatusOK, noteDetail(newFilename, content))
}

func noteDetail(filename, content string) NoteDetail {
	d := NoteDetail{
		Filename: filename,
		Content:  content,
		Checksum: checksum.Sum([]byte(content)),
		Tags:     []string{},
	}
	if n, err := notename.Parse(filename); err == nil {
		d.Title = n.Title
		if n.Tags != nil {
			d.Tags = n.Tags
		}
	} else {
		d.Title = filename
	}
	return d
}
