package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/daybook/internal/account"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/storage"
	"github.com/starford/daybook/internal/textproc"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events inside the
// session-protected group.
func NewRouter(
	svc *journal.Service,
	store storage.Provider,
	accounts *account.DB,
	sessions *account.Sessions,
	proc *textproc.Processor,
	sseHandler http.Handler,
) chi.Router {
	h := NewHandler(svc, store)
	ah := NewAuthHandler(accounts, sessions)
	th := NewTextHandler(proc)

	r := chi.NewRouter()

	// Authentication (unprotected).
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	// Everything else requires a session.
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(sessions))

		r.Post("/auth/logout", ah.Logout(sessions))

		// Diary.
		r.Get("/diary/{date}", h.GetDiary)
		r.Put("/diary/{date}", h.PutDiary)
		r.Put("/diary/{date}/tasks", h.PutTasks)

		// Calendar markers.
		r.Get("/calendar/{year}/{month}", h.Calendar)

		// Quick-notes.
		r.Get("/notes", h.ListNotes)
		r.Post("/notes", h.CreateNote)
		r.Get("/notes/{filename}", h.GetNote)
		r.Put("/notes/{filename}", h.UpdateNote)
		r.Delete("/notes/{filename}", h.DeleteNote)
		r.Post("/notes/{filename}/rename", h.RenameNote)

		// Preferences.
		r.Get("/tags", h.GetTags)
		r.Put("/tags", h.PutTags)

		// Text processing.
		r.Post("/text/{action}", th.Process)

		// SSE.
		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
