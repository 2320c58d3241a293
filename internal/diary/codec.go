package diary

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/daybook/internal/apperr"
)

// Section headers delimiting a diary document. Matching is by exact
// line prefix; anything before the first recognized header is ignored.
const (
	headerTodo    = "## TODO"
	headerNotes   = "## Notes"
	headerSummary = "## Summary"
)

type section int

const (
	sectionNone section = iota
	sectionTodo
	sectionNotes
	sectionSummary
)

// Parse decodes the stored text of a diary into a Document. The date is
// needed to synthesize note-link filenames and must be set.
//
// Parsing is single-pass and tolerant: malformed task lines fall through
// to a permissive legacy form, unrecognizable note lines are skipped,
// and a repeated section header replaces the earlier section's content.
// Malformed content never produces an error.
func Parse(date time.Time, text string) (*Document, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("diary: parse: date is required: %w", apperr.ErrInvalidArgument)
	}

	doc := NewDocument(date)
	cur := sectionNone
	var summary []string

	for _, line := range splitLines(text) {
		switch {
		case strings.HasPrefix(line, headerTodo):
			cur = sectionTodo
			doc.Tasks = nil
			continue
		case strings.HasPrefix(line, headerNotes):
			cur = sectionNotes
			doc.Notes = nil
			continue
		case strings.HasPrefix(line, headerSummary):
			cur = sectionSummary
			summary = nil
			continue
		}

		switch cur {
		case sectionTodo:
			if strings.TrimSpace(line) == "" || !strings.HasPrefix(line, "- ") {
				continue
			}
			doc.Tasks = append(doc.Tasks, parseTaskLine(line))
		case sectionNotes:
			if strings.TrimSpace(line) == "" {
				continue
			}
			if link, ok := parseNoteLine(date, line); ok {
				doc.Notes = append(doc.Notes, link)
			}
		case sectionSummary:
			summary = append(summary, line)
		}
	}

	doc.Summary = strings.Join(summary, "\n")
	return doc, nil
}

// parseTaskLine decodes one "- ..." line of the TODO section.
//
// Recognized forms, checked in order: "- [x] "/"- [X] " (done),
// "- [ ] " (open), and a legacy fallback that strips leading '-', '[',
// ']' characters and treats a literal "[x]" anywhere as done.
func parseTaskLine(line string) Task {
	var payload string
	var done bool

	switch {
	case strings.HasPrefix(line, "- [x]") || strings.HasPrefix(line, "- [X]"):
		payload = strings.TrimSpace(line[5:])
		done = true
	case strings.HasPrefix(line, "- [ ]"):
		payload = strings.TrimSpace(line[5:])
		done = false
	default:
		payload = strings.TrimSpace(strings.TrimLeft(line, "- []"))
		done = strings.Contains(line, "[x]") || strings.Contains(line, "[X]")
	}

	payload, priority, tags := extractTaskMeta(payload)
	return Task{Text: payload, Done: done, Priority: priority, Tags: tags}
}

// extractTaskMeta strips the inline "{...}" metadata block from a task
// payload and returns the remaining text, priority, and tags.
//
// The block is the span between the first '{' and the next '}' after
// it. Text BEFORE the block is discarded: the remaining payload is
// everything after the closing brace, trimmed. This is long-standing
// behavior that existing diary files rely on; see the codec tests.
func extractTaskMeta(payload string) (string, string, []string) {
	open := strings.Index(payload, "{")
	if open < 0 {
		return payload, "", nil
	}
	closeOff := strings.Index(payload[open+1:], "}")
	if closeOff < 0 {
		return payload, "", nil
	}
	block := payload[open+1 : open+1+closeOff]
	rest := strings.TrimSpace(payload[open+1+closeOff+1:])

	var priority string
	var tags []string
	for _, part := range strings.Split(block, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, ":"); ok {
			if strings.EqualFold(strings.TrimSpace(k), "priority") {
				priority = strings.TrimSpace(v)
			}
			// Other key:value pairs are not recognized and are dropped.
			continue
		}
		tags = append(tags, part)
	}
	return rest, priority, tags
}

// parseNoteLine decodes one "- [HH:mm] [[Title]]" line of the Notes
// section. Trailing text after the closing "]]" is ignored.
func parseNoteLine(date time.Time, line string) (NoteLink, bool) {
	if !strings.HasPrefix(line, "- [") {
		return NoteLink{}, false
	}
	open := strings.Index(line, "[")
	end := strings.Index(line[open:], "]")
	if end < 0 {
		return NoteLink{}, false
	}
	timeStr := line[open+1 : open+end]

	titleOpen := strings.Index(line, "[[")
	if titleOpen < 0 {
		return NoteLink{}, false
	}
	titleClose := strings.Index(line[titleOpen:], "]]")
	if titleClose < 0 {
		return NoteLink{}, false
	}
	title := line[titleOpen+2 : titleOpen+titleClose]

	return NoteLink{
		Time:     timeStr,
		Title:    title,
		Filename: SynthesizeLinkFilename(date, title),
	}, true
}

// Format encodes a document back to its stored text. All three headers
// are always emitted in TODO, Notes, Summary order, even when a section
// is empty; saving therefore normalizes any hand-edited ordering.
func Format(d *Document) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diary: format: nil document: %w", apperr.ErrInvalidArgument)
	}

	var b strings.Builder
	b.WriteString(FormatTodoBlock(d.Tasks))

	b.WriteString("\n")
	b.WriteString(headerNotes)
	b.WriteString("\n")
	for _, n := range d.Notes {
		fmt.Fprintf(&b, "- [%s] [[%s]]\n", n.Time, n.Title)
	}

	b.WriteString("\n")
	b.WriteString(headerSummary)
	b.WriteString("\n")
	b.WriteString(d.Summary)

	return b.String(), nil
}

// FormatTodoBlock encodes only the TODO section, header included, one
// line per task with a trailing newline. The result is the unit the
// merge engine splices into an existing document.
func FormatTodoBlock(tasks []Task) string {
	var b strings.Builder
	b.WriteString(headerTodo)
	b.WriteString("\n")
	for _, t := range tasks {
		b.WriteString(formatTaskLine(t))
		b.WriteString("\n")
	}
	return b.String()
}

// formatTaskLine is the inverse of parseTaskLine. The metadata block,
// when present, directly precedes the task text with no separator; the
// parser expects the text to start right after the closing brace.
func formatTaskLine(t Task) string {
	mark := "[ ]"
	if t.Done {
		mark = "[x]"
	}

	var parts []string
	if t.Priority != "" {
		parts = append(parts, "priority:"+t.Priority)
	}
	parts = append(parts, t.Tags...)

	line := "- " + mark + " "
	if len(parts) > 0 {
		line += "{ " + strings.Join(parts, ", ") + "}"
	}
	return line + t.Text
}

// splitLines splits text on newlines, tolerating CRLF endings.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
