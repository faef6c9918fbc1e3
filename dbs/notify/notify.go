// Package notify implements the live-query notification sink threaded
// through dbs.Options: an in-process channel sink, and an optional
// websocket forwarder for remote subscribers.
package notify

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Action describes the kind of change a Notification reports.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Notification describes a single live-query event.
type Notification struct {
	ID     uuid.UUID `json:"id"`
	Action Action    `json:"action"`
	Result any       `json:"result"`
}

// Sink is anything that can receive notifications. Send is best-effort:
// a failure to deliver is logged by the implementation, not propagated
// to the statement that produced the notification.
type Sink interface {
	Send(n Notification)
}

// ChannelSink is an in-process, buffered notification sink.
type ChannelSink struct {
	ch  chan Notification
	log *zap.Logger
}

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int, log *zap.Logger) *ChannelSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChannelSink{ch: make(chan Notification, buffer), log: log}
}

// Send enqueues n without blocking; if the buffer is full the
// notification is dropped and logged.
func (s *ChannelSink) Send(n Notification) {
	select {
	case s.ch <- n:
	default:
		s.log.Warn("dropping notification: sink buffer full",
			zap.String("action", string(n.Action)))
	}
}

// C exposes the underlying channel for consumers that want to range
// over it directly.
func (s *ChannelSink) C() <-chan Notification { return s.ch }

// Close closes the underlying channel. Callers must not call Send
// after Close.
func (s *ChannelSink) Close() { close(s.ch) }

// WebsocketSink forwards every notification it receives to a connected
// websocket peer, serialized as JSON. Writes are serialized with a
// mutex since *websocket.Conn is not safe for concurrent writers.
type WebsocketSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
	log  *zap.Logger
}

// NewWebsocketSink wraps an already-established websocket connection.
func NewWebsocketSink(conn *websocket.Conn, log *zap.Logger) *WebsocketSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebsocketSink{conn: conn, log: log}
}

// Send marshals n to JSON and writes it as a text frame; failures are
// logged, not propagated.
func (s *WebsocketSink) Send(n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		s.log.Error("marshal notification", zap.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.log.Warn("forward notification over websocket", zap.Error(err))
	}
}
