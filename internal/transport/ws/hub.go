package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Session message types
const (
	MsgSubmissionState MessageType = "submission_state"
	MsgSessionClosed   MessageType = "session_closed"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans session events out to the connections watching each session
type Hub struct {
	// session -> connections
	conns map[string]map[*Connection]struct{}

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	logger *zap.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
}

// BroadcastMessage is a message to broadcast. Disconnect closes the
// session's subscribers after earlier messages were queued.
type BroadcastMessage struct {
	SessionID  string
	Message    *Message
	Disconnect bool
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		logger:     logger.Named("ws"),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case conn := <-h.register:
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SessionID][conn] = struct{}{}
			h.logger.Debug("subscriber connected", zap.String("sessionId", conn.SessionID))

		case conn := <-h.unregister:
			if set, ok := h.conns[conn.SessionID]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					if len(set) == 0 {
						delete(h.conns, conn.SessionID)
					}
					h.logger.Debug("subscriber disconnected", zap.String("sessionId", conn.SessionID))
				}
			}

		case msg := <-h.broadcast:
			if msg.Disconnect {
				for conn := range h.conns[msg.SessionID] {
					close(conn.Send)
				}
				delete(h.conns, msg.SessionID)
				continue
			}
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.logger.Error("failed to encode message", zap.Error(err))
				continue
			}
			for conn := range h.conns[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}

		case <-h.done:
			for _, set := range h.conns {
				for conn := range set {
					close(conn.Send)
				}
			}
			h.conns = nil
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// BroadcastToSession sends a message to every subscriber of a session
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}:
	case <-h.done:
	}
}

// DisconnectSession closes every subscriber of a session (implements
// service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	select {
	case h.broadcast <- &BroadcastMessage{SessionID: sessionID, Disconnect: true}:
	case <-h.done:
	}
}

// Close stops the hub loop and closes all subscriber channels
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}
