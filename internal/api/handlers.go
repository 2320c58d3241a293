package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/daybook/internal/diary"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/storage"
)

const dateLayout = "2006-01-02"

// Handler holds the journal route handlers.
type Handler struct {
	svc   *journal.Service
	store storage.Provider
}

// NewHandler creates a new Handler.
func NewHandler(svc *journal.Service, store storage.Provider) *Handler {
	return &Handler{svc: svc, store: store}
}

// diaryDate parses the {date} URL parameter.
func diaryDate(r *http.Request) (time.Time, bool) {
	d, err := time.Parse(dateLayout, chi.URLParam(r, "date"))
	return d, err == nil
}

// GetDiary handles GET /diary/{date}. An absent diary returns an empty
// document, not 404: the day simply has no diary yet.
func (h *Handler) GetDiary(w http.ResponseWriter, r *http.Request) {
	date, ok := diaryDate(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid date, want yyyy-MM-dd"))
		return
	}
	doc := h.svc.Load(requestUser(r), date)
	writeJSON(w, http.StatusOK, diaryResponse(doc))
}

// PutDiary handles PUT /diary/{date}: the full-document save path used
// by the diary editor.
func (h *Handler) PutDiary(w http.ResponseWriter, r *http.Request) {
	date, ok := diaryDate(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid date, want yyyy-MM-dd"))
		return
	}
	var req SaveDiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	doc := diary.NewDocument(date)
	doc.Tasks = req.Tasks
	for _, n := range req.Notes {
		doc.Notes = append(doc.Notes, diary.NoteLink{
			Time:     n.Time,
			Title:    n.Title,
			Filename: diary.SynthesizeLinkFilename(date, n.Title),
		})
	}
	doc.Summary = req.Summary

	if err := h.svc.SaveDocument(requestUser(r), doc); err != nil {
		slog.Error("save diary failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("save failed"))
		return
	}
	writeJSON(w, http.StatusOK, diaryResponse(doc))
}

// PutTasks handles PUT /diary/{date}/tasks: the partial save path used
// by the daily to-do view. Only the TODO section of the stored text is
// rewritten; Notes and Summary are preserved unparsed.
func (h *Handler) PutTasks(w http.ResponseWriter, r *http.Request) {
	date, ok := diaryDate(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid date, want yyyy-MM-dd"))
		return
	}
	var req SaveTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SaveTasks(requestUser(r), date, req.Tasks); err != nil {
		slog.Error("save tasks failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("save failed"))
		return
	}
	writeJSON(w, http.StatusOK, diaryResponse(h.svc.Load(requestUser(r), date)))
}

// Calendar handles GET /calendar/{year}/{month}: the two marker sets
// the calendar paints (has a diary, has open to-dos).
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid year"))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid month"))
		return
	}

	user := requestUser(r)
	dates, err := h.svc.DatesWithDiary(user, year, time.Month(month))
	if err != nil {
		slog.Error("calendar listing failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	open, err := h.svc.DatesWithOpenTodos(user, year, time.Month(month))
	if err != nil {
		slog.Error("calendar open-todo scan failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	writeJSON(w, http.StatusOK, CalendarResponse{
		Dates:     formatDates(dates),
		OpenTodos: formatDates(open),
	})
}

// GetTags handles GET /tags.
func (h *Handler) GetTags(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.LoadPrefs(requestUser(r))
	if err != nil {
		slog.Error("load prefs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{NoteTags: prefs.NoteTags, TodoTags: prefs.TodoTags})
}

// PutTags handles PUT /tags: overwrites both tag preference lists.
func (h *Handler) PutTags(w http.ResponseWriter, r *http.Request) {
	var req TagsResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	user := requestUser(r)
	prefs, err := h.store.LoadPrefs(user)
	if err != nil {
		slog.Error("load prefs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if req.NoteTags != nil {
		prefs.NoteTags = req.NoteTags
	}
	if req.TodoTags != nil {
		prefs.TodoTags = req.TodoTags
	}
	if err := h.store.SavePrefs(user, prefs); err != nil {
		slog.Error("save prefs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("save failed"))
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{NoteTags: prefs.NoteTags, TodoTags: prefs.TodoTags})
}

func diaryResponse(doc *diary.Document) DiaryResponse {
	resp := DiaryResponse{
		Date:    doc.Date.Format(dateLayout),
		Tasks:   doc.Tasks,
		Notes:   doc.Notes,
		Summary: doc.Summary,
	}
	if resp.Tasks == nil {
		resp.Tasks = []diary.Task{}
	}
	if resp.Notes == nil {
		resp.Notes = []diary.NoteLink{}
	}
	return resp
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}
