package journal

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/starford/daybook/internal/diary"
	"github.com/starford/daybook/internal/testutil"
)

type recordedEvent struct {
	kind, user, name string
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) record(kind, user, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind, user, name})
}

func (r *eventRecorder) all() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

func testService(t *testing.T) (*Service, *eventRecorder) {
	t.Helper()
	_, store := testutil.TestDataRoot(t)
	rec := &eventRecorder{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(store, logger, rec.record), rec
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestLoad_AbsentDiaryIsEmptyDocument(t *testing.T) {
	svc, _ := testService(t)
	doc := svc.Load("alice", day(t, "2024-01-01"))
	if !doc.IsEmpty() {
		t.Errorf("doc = %+v, want empty", doc)
	}
}

func TestSaveDocumentAndLoad(t *testing.T) {
	svc, rec := testService(t)
	d := day(t, "2024-01-01")

	doc := diary.NewDocument(d)
	doc.AddTask(diary.Task{Text: "write tests", Priority: "high"})
	doc.SetSummary("a fine day")

	if err := svc.SaveDocument("alice", doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	back := svc.Load("alice", d)
	if !back.Equal(doc) {
		t.Errorf("loaded = %+v, want %+v", back, doc)
	}

	events := rec.all()
	if len(events) != 1 || events[0].kind != "diary.saved" || events[0].user != "alice" {
		t.Errorf("events = %v", events)
	}
}

func TestSaveTasks_PreservesOtherSections(t *testing.T) {
	svc, _ := testService(t)
	d := day(t, "2024-01-01")

	full := diary.NewDocument(d)
	full.AddTask(diary.Task{Text: "stale task"})
	full.AppendNoteLink(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), "Keep Me")
	full.SetSummary("keep this summary")
	if err := svc.SaveDocument("alice", full); err != nil {
		t.Fatal(err)
	}

	// The quick view only holds the task list.
	if err := svc.SaveTasks("alice", d, []diary.Task{{Text: "fresh task", Done: true}}); err != nil {
		t.Fatalf("SaveTasks: %v", err)
	}

	back := svc.Load("alice", d)
	if len(back.Tasks) != 1 || back.Tasks[0].Text != "fresh task" || !back.Tasks[0].Done {
		t.Errorf("tasks = %+v", back.Tasks)
	}
	if len(back.Notes) != 1 || back.Notes[0].Title != "Keep Me" {
		t.Errorf("notes = %+v", back.Notes)
	}
	if back.Summary != "keep this summary" {
		t.Errorf("summary = %q", back.Summary)
	}
}

func TestSaveTasks_NoDiaryYet(t *testing.T) {
	svc, _ := testService(t)
	d := day(t, "2024-01-01")

	if err := svc.SaveTasks("alice", d, []diary.Task{{Text: "first ever"}}); err != nil {
		t.Fatalf("SaveTasks: %v", err)
	}
	back := svc.Load("alice", d)
	if len(back.Tasks) != 1 || back.Tasks[0].Text != "first ever" {
		t.Errorf("tasks = %+v", back.Tasks)
	}
}

func TestCalendarMarkers(t *testing.T) {
	svc, _ := testService(t)

	// 2024-03-02: all tasks done. 2024-03-15: one open task.
	// 2024-03-20: no tasks at all.
	done := diary.NewDocument(day(t, "2024-03-02"))
	done.AddTask(diary.Task{Text: "done", Done: true})
	if err := svc.SaveDocument("alice", done); err != nil {
		t.Fatal(err)
	}

	open := diary.NewDocument(day(t, "2024-03-15"))
	open.AddTask(diary.Task{Text: "open"})
	open.AddTask(diary.Task{Text: "also done", Done: true})
	if err := svc.SaveDocument("alice", open); err != nil {
		t.Fatal(err)
	}

	summaryOnly := diary.NewDocument(day(t, "2024-03-20"))
	summaryOnly.SetSummary("nothing to do")
	if err := svc.SaveDocument("alice", summaryOnly); err != nil {
		t.Fatal(err)
	}

	dates, err := svc.DatesWithDiary("alice", 2024, time.March)
	if err != nil {
		t.Fatalf("DatesWithDiary: %v", err)
	}
	if len(dates) != 3 {
		t.Errorf("dates = %v, want 3", dates)
	}

	openDates, err := svc.DatesWithOpenTodos("alice", 2024, time.March)
	if err != nil {
		t.Fatalf("DatesWithOpenTodos: %v", err)
	}
	if len(openDates) != 1 || openDates[0].Format("2006-01-02") != "2024-03-15" {
		t.Errorf("open dates = %v, want exactly 2024-03-15", openDates)
	}
}
