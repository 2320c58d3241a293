package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/daybook/internal/textproc"
)

// TextHandler exposes the text-processing collaborator.
type TextHandler struct {
	proc *textproc.Processor
}

// NewTextHandler creates a new TextHandler.
func NewTextHandler(proc *textproc.Processor) *TextHandler {
	return &TextHandler{proc: proc}
}

// Process handles POST /text/{action}. Unknown actions are a 400;
// everything else answers with (result, method), degrading to the local
// method when the model is unavailable.
func (h *TextHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("text is required"))
		return
	}

	var result, method string
	switch chi.URLParam(r, "action") {
	case "swapcase":
		result, method = h.proc.SwapCase(req.Text)
	case "capitalize":
		result, method = h.proc.Capitalize(req.Text)
	case "highlight":
		result, method = h.proc.Highlight(req.Text)
	case "spellcheck":
		result, method = h.proc.SpellCheck(r.Context(), req.Text)
	case "translate":
		result, method = h.proc.Translate(r.Context(), req.Text, req.TargetLang)
	case "polish":
		result, method = h.proc.Polish(r.Context(), req.Text)
	case "summarize":
		result, method = h.proc.Summarize(r.Context(), req.Text)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("unknown action"))
		return
	}

	writeJSON(w, http.StatusOK, TextResponse{Result: result, Method: method})
}
