package realtime

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := GroupChannel(uuid.New())

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventMessageCreated, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventEventCreated, Data: map[string]any{"seq": 2}})

	gotFirst := recvMessage(t, clientA.Outbound, time.Second)
	gotSecond := recvMessage(t, clientA.Outbound, time.Second)
	if gotFirst.Event != SSEEventMessageCreated || gotSecond.Event != SSEEventEventCreated {
		t.Fatalf("wrong order: %s then %s", gotFirst.Event, gotSecond.Event)
	}

	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if n := hub.Subscribers(channel); n != 0 {
		t.Fatalf("expected no subscribers after close, got %d", n)
	}
	// Broadcasting to a channel whose only client closed must not panic.
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventMessageCreated})

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventMessageCreated, Data: map[string]any{"seq": 3}})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventMessageCreated {
		t.Fatalf("reconnect event: got %s", got.Event)
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := UserChannel(uuid.New())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)

	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventEventCreated, Data: i})
	}
	if got := len(client.Outbound); got != outboundBuffer {
		t.Fatalf("expected buffer to hold %d messages, got %d", outboundBuffer, got)
	}
	first := recvMessage(t, client.Outbound, time.Second)
	if first.Data != 0 {
		t.Fatalf("expected oldest message kept, got %v", first.Data)
	}
}

func TestSSEHubChannelIsolation(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	a := hub.NewSSEClient(uuid.New())
	b := hub.NewSSEClient(uuid.New())
	hub.AddChannel(a, "group:a")
	hub.AddChannel(b, "group:b")

	hub.Broadcast(SSEMessage{Channel: "group:a", Event: SSEEventMessageCreated})
	recvMessage(t, a.Outbound, time.Second)
	if len(b.Outbound) != 0 {
		t.Fatalf("client b received a message for another channel")
	}

	hub.RemoveChannel(a, "group:a")
	hub.Broadcast(SSEMessage{Channel: "group:a", Event: SSEEventMessageCreated})
	if len(a.Outbound) != 0 {
		t.Fatalf("client a still subscribed after RemoveChannel")
	}
}

func TestSSEHubServeHTTPStreamsMessages(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "user:x")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	hub.Broadcast(SSEMessage{Channel: "user:x", Event: SSEEventEventCreated, Data: map[string]any{"title": "Hike"}})

	reader := bufio.NewReader(resp.Body)
	var eventLine, dataLine string
	for eventLine == "" || dataLine == "" {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		switch {
		case strings.HasPrefix(line, "event: "):
			eventLine = strings.TrimSpace(line)
		case strings.HasPrefix(line, "data: "):
			dataLine = strings.TrimSpace(line)
		}
	}
	if eventLine != "event: EventCreated" {
		t.Fatalf("unexpected event line %q", eventLine)
	}
	if !strings.Contains(dataLine, `"title":"Hike"`) || !strings.Contains(dataLine, `"channel":"user:x"`) {
		t.Fatalf("unexpected data line %q", dataLine)
	}
}

type fakePublisher struct {
	err  error
	msgs []SSEMessage
}

func (f *fakePublisher) Publish(ctx context.Context, msg SSEMessage) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestNotifierRouting(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "group:g")
	msg := SSEMessage{Channel: "group:g", Event: SSEEventMessageCreated}

	bus := &fakePublisher{}
	NewNotifier(logger.Nop(), hub, bus).Notify(context.Background(), msg)
	if len(bus.msgs) != 1 {
		t.Fatalf("expected bus publish, got %d", len(bus.msgs))
	}
	if len(client.Outbound) != 0 {
		t.Fatalf("bus-backed notifier must not also broadcast locally")
	}

	failing := &fakePublisher{err: errors.New("redis down")}
	NewNotifier(logger.Nop(), hub, failing).Notify(context.Background(), msg)
	recvMessage(t, client.Outbound, time.Second)

	NewNotifier(logger.Nop(), hub, nil).Notify(context.Background(), msg)
	recvMessage(t, client.Outbound, time.Second)
}

func TestParseGroupIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	got := ParseGroupIDs(" " + a.String() + ",junk,," + b.String() + "," + a.String())
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("unexpected ids: %v", got)
	}
	if got := ParseGroupIDs(""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}
