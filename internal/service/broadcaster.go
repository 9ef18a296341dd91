package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

// Message types pushed to session subscribers
const (
	MsgSubmissionState = "submission_state"
	MsgSessionClosed   = "session_closed"
)

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToSession(string, string, interface{}) {}
func (nopBroadcaster) DisconnectSession(string)                       {}
