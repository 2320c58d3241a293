package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "diary.saved", Data: map[string]string{"name": "2024-01-01"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: diary.saved") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"name":"2024-01-01"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishJournalEvent(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishJournalEvent("note.created", "alice", "20240101_Trip.md")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: note.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"user":"alice"`) || !strings.Contains(s, `"name":"20240101_Trip.md"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishJournalEvent("diary.saved", "alice", "2024-01-01")
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: diary.saved") {
		t.Errorf("body missing event: %q", body)
	}
	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("content type = %q", got)
	}
}

func TestCloseTerminatesClients(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel close, got message")
		}
	case <-time.After(time.Second):
		t.Fatal("client channel not closed after broker close")
	}

	// Post-close operations are safe no-ops.
	b.Publish(Event{Type: "diary.saved"})
	if b.ClientCount() != 0 {
		t.Error("client count after close should be 0")
	}
}
