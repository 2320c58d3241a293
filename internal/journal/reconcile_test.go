package journal

import (
	"testing"
	"time"

	"github.com/starford/daybook/internal/diary"
)

func fixedClock(t *testing.T, svc *Service, at time.Time) {
	t.Helper()
	svc.now = func() time.Time { return at }
}

func TestNoteCreated_AppendsLinkToToday(t *testing.T) {
	svc, rec := testService(t)
	at := time.Date(2024, 1, 1, 14, 32, 0, 0, time.UTC)
	fixedClock(t, svc, at)

	if err := svc.NoteCreated("alice", "20240101_Trip_Plan_#travel.md"); err != nil {
		t.Fatalf("NoteCreated: %v", err)
	}

	doc := svc.Load("alice", day(t, "2024-01-01"))
	if len(doc.Notes) != 1 {
		t.Fatalf("notes = %+v, want 1", doc.Notes)
	}
	link := doc.Notes[0]
	if link.Time != "14:32" || link.Title != "Trip Plan" {
		t.Errorf("link = %+v", link)
	}
	if link.Filename != "20240101_Trip Plan.md" {
		t.Errorf("filename = %q", link.Filename)
	}

	events := rec.all()
	last := events[len(events)-1]
	if last.kind != "note.created" || last.name != "20240101_Trip_Plan_#travel.md" {
		t.Errorf("last event = %+v", last)
	}
}

func TestNoteCreated_BadFilenameIsNoOp(t *testing.T) {
	svc, rec := testService(t)
	fixedClock(t, svc, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	if err := svc.NoteCreated("alice", "no-date-prefix.md"); err != nil {
		t.Fatalf("NoteCreated: %v", err)
	}
	doc := svc.Load("alice", day(t, "2024-01-01"))
	if !doc.IsEmpty() {
		t.Errorf("diary should be untouched: %+v", doc)
	}
	if len(rec.all()) != 0 {
		t.Errorf("events = %v, want none", rec.all())
	}
}

func TestNoteDeleted_RemovesExactLink(t *testing.T) {
	svc, _ := testService(t)
	fixedClock(t, svc, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	// A diary on the note's date with the backlink, plus another date
	// that must stay untouched.
	if err := svc.NoteCreated("alice", "20240101_Trip_#travel.md"); err != nil {
		t.Fatal(err)
	}
	other := diary.NewDocument(day(t, "2024-01-02"))
	other.AppendNoteLink(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), "Trip")
	if err := svc.SaveDocument("alice", other); err != nil {
		t.Fatal(err)
	}

	if err := svc.NoteDeleted("alice", "20240101_Trip_#travel.md"); err != nil {
		t.Fatalf("NoteDeleted: %v", err)
	}

	if notes := svc.Load("alice", day(t, "2024-01-01")).Notes; len(notes) != 0 {
		t.Errorf("backlink survived: %+v", notes)
	}
	if notes := svc.Load("alice", day(t, "2024-01-02")).Notes; len(notes) != 1 {
		t.Errorf("other date's diary touched: %+v", notes)
	}
}

func TestNoteDeleted_NoLinkIsNoOp(t *testing.T) {
	svc, rec := testService(t)
	fixedClock(t, svc, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	if err := svc.NoteDeleted("alice", "20240101_Never_Linked.md"); err != nil {
		t.Fatalf("NoteDeleted: %v", err)
	}
	for _, ev := range rec.all() {
		if ev.kind == "note.deleted" {
			t.Errorf("unexpected delete event: %+v", ev)
		}
	}
}

func TestNoteDeleted_BadFilenameIsNoOp(t *testing.T) {
	svc, _ := testService(t)
	if err := svc.NoteDeleted("alice", "not a note"); err != nil {
		t.Fatalf("NoteDeleted: %v", err)
	}
}

func TestNoteRenamed_SwapsLink(t *testing.T) {
	svc, rec := testService(t)
	fixedClock(t, svc, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	if err := svc.NoteCreated("alice", "20240101_Old_Title_#work.md"); err != nil {
		t.Fatal(err)
	}
	fixedClock(t, svc, time.Date(2024, 1, 1, 16, 45, 0, 0, time.UTC))

	if err := svc.NoteRenamed("alice", "20240101_Old_Title_#work.md", "20240101_New_Title_#work_#q1.md"); err != nil {
		t.Fatalf("NoteRenamed: %v", err)
	}

	doc := svc.Load("alice", day(t, "2024-01-01"))
	if len(doc.Notes) != 1 {
		t.Fatalf("notes = %+v, want exactly the new link", doc.Notes)
	}
	link := doc.Notes[0]
	if link.Title != "New Title" || link.Time != "16:45" {
		t.Errorf("link = %+v", link)
	}

	events := rec.all()
	last := events[len(events)-1]
	if last.kind != "note.renamed" || last.name != "20240101_New_Title_#work_#q1.md" {
		t.Errorf("last event = %+v", last)
	}
}

func TestNoteRenamed_BadNewFilenameIsNoOp(t *testing.T) {
	svc, _ := testService(t)
	fixedClock(t, svc, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	if err := svc.NoteCreated("alice", "20240101_Keep.md"); err != nil {
		t.Fatal(err)
	}
	if err := svc.NoteRenamed("alice", "20240101_Keep.md", "garbage"); err != nil {
		t.Fatalf("NoteRenamed: %v", err)
	}
	if notes := svc.Load("alice", day(t, "2024-01-01")).Notes; len(notes) != 1 {
		t.Errorf("diary should be untouched: %+v", notes)
	}
}
