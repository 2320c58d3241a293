// Package notename implements the quick-note filename convention.
//
// A quick-note's filename is its primary key and encodes creation date,
// title, and tags: "yyyyMMdd_Title_#tag1_#tag2.md". Title words are
// underscore-separated segments; tag segments are prefixed with '#'.
// Renaming or retagging a note therefore changes its filename, and the
// journal layer propagates that change into every referencing diary.
package notename

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/daybook/internal/apperr"
)

const datePrefixLayout = "20060102"

// Name is the decoded form of a quick-note filename.
type Name struct {
	Date  time.Time
	Title string
	Tags  []string
}

// Parse decodes a quick-note filename. The 8-digit date prefix is
// mandatory; without it the name cannot be attributed to a diary date
// and reconciliation must skip the file.
func Parse(filename string) (Name, error) {
	base, ok := strings.CutSuffix(filename, ".md")
	if !ok || base == "" {
		return Name{}, fmt.Errorf("notename: %q is not a markdown filename: %w", filename, apperr.ErrInvalidFilename)
	}

	parts := strings.Split(base, "_")
	if len(parts[0]) != 8 {
		return Name{}, fmt.Errorf("notename: %q has no date prefix: %w", filename, apperr.ErrInvalidFilename)
	}
	date, err := time.Parse(datePrefixLayout, parts[0])
	if err != nil {
		return Name{}, fmt.Errorf("notename: %q has a malformed date prefix: %w", filename, apperr.ErrInvalidFilename)
	}

	var titleWords, tags []string
	for _, p := range parts[1:] {
		if strings.HasPrefix(p, "#") {
			tags = append(tags, p[1:])
			continue
		}
		if p != "" {
			titleWords = append(titleWords, p)
		}
	}

	return Name{
		Date:  date,
		Title: strings.Join(titleWords, " "),
		Tags:  tags,
	}, nil
}

// Build encodes a filename from its parts. Spaces in the title become
// underscores so that Parse recovers the original words.
func Build(date time.Time, title string, tags []string) string {
	var b strings.Builder
	b.WriteString(date.Format(datePrefixLayout))
	b.WriteString("_")
	b.WriteString(strings.ReplaceAll(title, " ", "_"))
	for _, t := range tags {
		b.WriteString("_#")
		b.WriteString(strings.ReplaceAll(t, " ", "_"))
	}
	b.WriteString(".md")
	return b.String()
}

// Filename re-encodes a Name.
func (n Name) Filename() string {
	return Build(n.Date, n.Title, n.Tags)
}
