package websocket

import "github.com/stemsi/certquiz-backend/internal/quiz"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect   Action = "select"
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestPayload is every client message. Answer is only read for select.
type RequestPayload struct {
	Action Action `json:"action"`
	Answer string `json:"answer,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSnapshot  Event = "snapshot"
	EventCompleted Event = "completed"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// SnapshotResponse carries the session state after a tick or an action.
// The final snapshot of a session is sent as EventCompleted.
type SnapshotResponse struct {
	Event    Event         `json:"event"`
	Snapshot quiz.Snapshot `json:"snapshot"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

// NewSnapshotResponse picks the event from the snapshot state.
func NewSnapshotResponse(snap quiz.Snapshot) SnapshotResponse {
	ev := EventSnapshot
	if snap.State == quiz.StateCompleted {
		ev = EventCompleted
	}
	return SnapshotResponse{Event: ev, Snapshot: snap}
}
