package notename

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/daybook/internal/apperr"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		title    string
		tags     []string
		date     string
	}{
		{"title and tags", "20240101_Trip_Plan_#travel_#family.md", "Trip Plan", []string{"travel", "family"}, "2024-01-01"},
		{"title only", "20240315_Standup_Notes.md", "Standup Notes", nil, "2024-03-15"},
		{"tags only", "20240315_#inbox.md", "", []string{"inbox"}, "2024-03-15"},
		{"bare date", "20240315.md", "", nil, "2024-03-15"},
		{"tag between words", "20240101_Trip_#travel_Plan.md", "Trip Plan", []string{"travel"}, "2024-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.filename)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.filename, err)
			}
			if got.Title != tc.title {
				t.Errorf("title = %q, want %q", got.Title, tc.title)
			}
			if len(got.Tags) != len(tc.tags) {
				t.Fatalf("tags = %v, want %v", got.Tags, tc.tags)
			}
			for i := range tc.tags {
				if got.Tags[i] != tc.tags[i] {
					t.Errorf("tag %d = %q, want %q", i, got.Tags[i], tc.tags[i])
				}
			}
			if got.Date.Format("2006-01-02") != tc.date {
				t.Errorf("date = %s, want %s", got.Date.Format("2006-01-02"), tc.date)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"no-extension",
		".md",
		"Trip_Plan.md",          // no date prefix
		"2024_Trip.md",          // prefix too short
		"20241301_Trip.md",      // month out of range
		"notadate_Trip.md",      // eight chars but not digits
		"20240101 Trip Plan.md", // first segment not exactly the date
	}
	for _, filename := range cases {
		if _, err := Parse(filename); !errors.Is(err, apperr.ErrInvalidFilename) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidFilename", filename, err)
		}
	}
}

func TestBuild(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got := Build(date, "Trip Plan", []string{"travel", "family"})
	want := "20240101_Trip_Plan_#travel_#family.md"
	if got != want {
		t.Errorf("Build = %q, want %q", got, want)
	}

	if got := Build(date, "Solo", nil); got != "20240101_Solo.md" {
		t.Errorf("Build = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	date := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	filename := Build(date, "Quarterly Review", []string{"work"})

	n, err := Parse(filename)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Title != "Quarterly Review" || len(n.Tags) != 1 || n.Tags[0] != "work" {
		t.Errorf("parsed = %+v", n)
	}
	if n.Filename() != filename {
		t.Errorf("re-encoded = %q, want %q", n.Filename(), filename)
	}
}
