package sse

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz4killua/wikirec/internal/domain"
	"github.com/kz4killua/wikirec/internal/dto"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(cancel)
	return m
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.EventChan:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestManager_DeliversOnlyToSessionSubscribers(t *testing.T) {
	m := startManager(t)

	a, err := m.Connect("fs-a")
	require.NoError(t, err)
	b, err := m.Connect("fs-b")
	require.NoError(t, err)

	m.Emit(NewLoadingEvent("fs-a", true))

	ev := receive(t, a)
	assert.Equal(t, EventSessionLoading, ev.Type)
	assert.Equal(t, LoadingEventData{Loading: true}, ev.Data)

	select {
	case ev := <-b.EventChan:
		t.Fatalf("unexpected event for other session: %s", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}

	following := 0
	for c := range m.Clients() {
		if c.SessionID == "fs-a" {
			following++
		}
	}
	assert.Equal(t, 1, following)
	assert.Equal(t, 2, m.ClientCount())
}

func TestManager_HeartbeatReachesEveryone(t *testing.T) {
	m := NewManager(testLogger())
	m.SetHeartbeatInterval(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	a, err := m.Connect("fs-a")
	require.NoError(t, err)
	b, err := m.Connect("fs-b")
	require.NoError(t, err)

	assert.Equal(t, EventHeartbeat, receive(t, a).Type)
	assert.Equal(t, EventHeartbeat, receive(t, b).Type)
}

func TestManager_DisconnectClosesChannels(t *testing.T) {
	m := NewManager(testLogger())
	c, err := m.Connect("fs-a")
	require.NoError(t, err)

	m.Disconnect(c.ID)
	m.Disconnect(c.ID) // second call is a no-op

	_, open := <-c.EventChan
	assert.False(t, open)
	assert.Zero(t, m.ClientCount())
}

func TestManager_EmitAfterShutdownIsDropped(t *testing.T) {
	m := NewManager(testLogger())

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))

	assert.NotPanics(t, func() { m.Emit(NewLoadingEvent("fs-a", false)) })
}

type frame struct {
	id    string
	event string
	data  string
}

func readFrame(t *testing.T, sc *bufio.Scanner) frame {
	t.Helper()
	var f frame
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			return f
		case strings.HasPrefix(line, "id: "):
			f.id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			f.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			f.data = strings.TrimPrefix(line, "data: ")
		}
	}
	require.NoError(t, sc.Err())
	return f
}

func TestHandler_StreamsSessionEventsUntilClosed(t *testing.T) {
	m := startManager(t)
	h := NewHandler(m, testLogger())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, "fs-a")
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)

	connected := readFrame(t, sc)
	assert.Equal(t, "connected", connected.event)
	assert.NotEmpty(t, connected.id)

	slot := dto.Slot{ID: 2, State: domain.SlotBrowsing, Query: "Interstellar"}
	m.Emit(NewSlotUpdatedEvent("fs-b", dto.Slot{ID: 1}))
	m.Emit(NewSlotUpdatedEvent("fs-a", slot))

	updated := readFrame(t, sc)
	assert.Equal(t, "slot.updated", updated.event)

	var payload struct {
		Type string        `json:"type"`
		Data SlotEventData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(updated.data), &payload))
	assert.Equal(t, "slot.updated", payload.Type)
	assert.Equal(t, 2, payload.Data.Slot.ID)
	assert.Equal(t, "Interstellar", payload.Data.Slot.Query)

	m.Emit(NewSessionClosedEvent("fs-a", "deleted"))
	closed := readFrame(t, sc)
	assert.Equal(t, "session.closed", closed.event)

	// The server ends the stream after session.closed.
	assert.False(t, sc.Scan())
	require.Eventually(t, func() bool { return m.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
