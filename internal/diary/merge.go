package diary

import (
	"fmt"
	"strings"

	"github.com/starford/daybook/internal/apperr"
)

// MergeTodo splices a freshly formatted TODO block into the existing
// stored text of a diary without parsing or disturbing the Notes and
// Summary sections. It is the save path used when a caller only holds
// the task list (the daily quick view) and must not destroy content it
// never loaded.
//
// If original contains a "## TODO" header, the span from that header up
// to (but not including) the next "## " header, or to end-of-string, is
// replaced by todoBlock. Otherwise todoBlock is prepended, followed by
// a blank line.
//
// original may be empty (a diary that does not exist yet); todoBlock is
// required.
func MergeTodo(original, todoBlock string) (string, error) {
	if todoBlock == "" {
		return "", fmt.Errorf("diary: merge: todo block is required: %w", apperr.ErrInvalidArgument)
	}

	start := strings.Index(original, headerTodo)
	if start < 0 {
		return todoBlock + "\n" + original, nil
	}

	end := strings.Index(original[start+1:], "## ")
	if end < 0 {
		return original[:start] + todoBlock, nil
	}
	end += start + 1
	return original[:start] + todoBlock + original[end:], nil
}
