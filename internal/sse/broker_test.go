package sse

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func waitForCount(t *testing.T, b *Broker, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if b.ClientCount() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("client count never reached %d (got %d)", want, b.ClientCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func recvMsg(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while waiting for message")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return ""
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ch := b.Subscribe()
	waitForCount(t, b, 1)

	b.Unsubscribe(ch)
	waitForCount(t, b, 0)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ch := b.Subscribe()
	waitForCount(t, b, 1)

	b.Publish(Event{Type: "task.completed", Data: map[string]string{"task_id": "t-1"}})

	msg := recvMsg(t, ch)
	if !strings.Contains(msg, "event: task.completed") {
		t.Errorf("missing event name: %q", msg)
	}
	if !strings.Contains(msg, `"task_id":"t-1"`) {
		t.Errorf("missing payload: %q", msg)
	}
	if !strings.HasSuffix(msg, "\n\n") {
		t.Errorf("message not frame-terminated: %q", msg)
	}
}

func TestDirectoryUpdatedThrottle(t *testing.T) {
	b := NewBroker(200 * time.Millisecond)
	defer b.Close()

	ch := b.Subscribe()
	waitForCount(t, b, 1)

	// A burst of refreshes collapses to a single event.
	for i := 0; i < 5; i++ {
		b.PublishDirectoryUpdated()
	}

	first := recvMsg(t, ch)
	if !strings.Contains(first, "event: directory.updated") {
		t.Errorf("unexpected event: %q", first)
	}
	select {
	case msg := <-ch:
		t.Errorf("throttle leaked a second event: %q", msg)
	case <-time.After(100 * time.Millisecond):
	}

	// After the window, a refresh comes through again.
	time.Sleep(200 * time.Millisecond)
	b.PublishDirectoryUpdated()
	second := recvMsg(t, ch)
	if !strings.Contains(second, "event: directory.updated") {
		t.Errorf("unexpected event: %q", second)
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	slow := b.Subscribe()
	waitForCount(t, b, 1)

	// Overfill the per-client buffer without draining.
	for i := 0; i < 128; i++ {
		b.Publish(Event{Type: "menu.updated", Data: map[string]int{"i": i}})
	}

	// Broker loop must stay responsive even with a stalled client.
	done := make(chan struct{})
	go func() {
		b.Publish(Event{Type: "menu.updated", Data: nil})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broker blocked on a slow client")
	}

	b.Unsubscribe(slow)
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := NewBroker(time.Second)

	ch := b.Subscribe()
	waitForCount(t, b, 1)

	b.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				goto closed
			}
		case <-deadline:
			t.Fatal("subscriber channel never closed")
		}
	}
closed:

	// Operations after Close are no-ops.
	b.Publish(Event{Type: "task.created", Data: nil})
	b.PublishDirectoryUpdated()
	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount after close = %d", n)
	}
	late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribe after close should return a closed channel")
	}
	b.Close()
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(rec, req)
		close(done)
	}()

	waitForCount(t, b, 1)
	b.Publish(Event{Type: "comment.added", Data: map[string]string{"task_id": "t-9"}})

	deadline := time.After(2 * time.Second)
	for !strings.Contains(rec.Body.String(), "event: comment.added") {
		select {
		case <-deadline:
			t.Fatalf("event never written, body: %q", rec.Body.String())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after context cancel")
	}

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}
}
