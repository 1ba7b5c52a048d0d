// Package sse implements Server-Sent Events for live finder session updates.
package sse

import (
	"time"

	"github.com/google/uuid"

	"github.com/kz4killua/wikirec/internal/dto"
)

// Finder clients drive a session with plain HTTP commands; SSE carries the
// asynchronous half back (debounced search results, submission outcomes).

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventConnected is the first event on every stream.
	EventConnected EventType = "connected"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"

	// EventSlotUpdated carries the new view of one slot.
	EventSlotUpdated EventType = "slot.updated"
	// EventSessionLoading reports the submission loading flag.
	EventSessionLoading EventType = "session.loading"
	// EventRecommendationsReady carries a fresh results view.
	EventRecommendationsReady EventType = "recommendations.ready"
	// EventRecommendationsFailed reports that a submission did not produce results.
	EventRecommendationsFailed EventType = "recommendations.failed"
	// EventFinderNotice is a user-visible message (validation problems, warnings).
	EventFinderNotice EventType = "finder.notice"
	// EventSessionClosed is the last event of a session. Streams end after it.
	EventSessionClosed EventType = "session.closed"
)

// Notice levels.
const (
	NoticeError = "error"
	NoticeInfo  = "info"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// ID is written as the SSE id field.
	ID string `json:"-"`

	// SessionID limits delivery to subscribers of one finder session.
	// Empty means every subscriber.
	SessionID string `json:"-"`
}

// ConnectedEventData is the data payload for connected events.
type ConnectedEventData struct {
	ClientID  string `json:"client_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// SlotEventData is the data payload for slot.updated events.
type SlotEventData struct {
	Slot dto.Slot `json:"slot"`
}

// LoadingEventData is the data payload for session.loading events.
type LoadingEventData struct {
	Loading bool `json:"loading"`
}

// RecommendationsReadyEventData is the data payload for recommendations.ready events.
// Scroll asks the client to bring the results into view.
type RecommendationsReadyEventData struct {
	Results *dto.Results `json:"results"`
	Scroll  bool         `json:"scroll"`
}

// RecommendationsFailedEventData is the data payload for recommendations.failed events.
type RecommendationsFailedEventData struct {
	Message string `json:"message"`
}

// NoticeEventData is the data payload for finder.notice events.
type NoticeEventData struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SessionClosedEventData is the data payload for session.closed events.
type SessionClosedEventData struct {
	Reason string `json:"reason"`
}

func newEvent(sessionID string, eventType EventType, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Data:      data,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// NewConnectedEvent creates a connected event for a new subscriber.
func NewConnectedEvent(clientID, sessionID string) Event {
	return newEvent(sessionID, EventConnected, ConnectedEventData{
		ClientID:  clientID,
		SessionID: sessionID,
		Message:   "SSE connection established",
	})
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return newEvent("", EventHeartbeat, HeartbeatEventData{ServerTime: time.Now()})
}

// NewSlotUpdatedEvent creates a slot.updated event.
func NewSlotUpdatedEvent(sessionID string, slot dto.Slot) Event {
	return newEvent(sessionID, EventSlotUpdated, SlotEventData{Slot: slot})
}

// NewLoadingEvent creates a session.loading event.
func NewLoadingEvent(sessionID string, loading bool) Event {
	return newEvent(sessionID, EventSessionLoading, LoadingEventData{Loading: loading})
}

// NewRecommendationsReadyEvent creates a recommendations.ready event.
func NewRecommendationsReadyEvent(sessionID string, results *dto.Results) Event {
	return newEvent(sessionID, EventRecommendationsReady, RecommendationsReadyEventData{
		Results: results,
		Scroll:  true,
	})
}

// NewRecommendationsFailedEvent creates a recommendations.failed event.
func NewRecommendationsFailedEvent(sessionID, message string) Event {
	return newEvent(sessionID, EventRecommendationsFailed, RecommendationsFailedEventData{Message: message})
}

// NewNoticeEvent creates a finder.notice event.
func NewNoticeEvent(sessionID, level, message string) Event {
	return newEvent(sessionID, EventFinderNotice, NoticeEventData{Level: level, Message: message})
}

// NewSessionClosedEvent creates a session.closed event.
func NewSessionClosedEvent(sessionID, reason string) Event {
	return newEvent(sessionID, EventSessionClosed, SessionClosedEventData{Reason: reason})
}
