// Package agent exposes assessment sessions over HTTP and WebSocket.
package agent

import (
	"github.com/ashureev/avika/internal/dialogue"
)

// MessageRequest is the body of POST /api/sessions/{id}/messages.
type MessageRequest struct {
	Message string `json:"message"`
	// Legacy routes the turn through keyword relevance matching.
	Legacy bool `json:"legacy,omitempty"`
}

// AnswerRequest is the body of PUT /api/sessions/{id}/answers/{questionID}.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// SimulateRequest is the body of POST /api/sessions/{id}/simulate.
type SimulateRequest struct {
	Style string `json:"style"`
}

// CreateResponse is returned when a session starts.
type CreateResponse struct {
	SessionID string         `json:"session_id"`
	Greeting  string         `json:"greeting"`
	State     dialogue.State `json:"state"`
}

// TurnResponse carries the assistant reply and the state after the turn.
type TurnResponse struct {
	Response string         `json:"response"`
	State    dialogue.State `json:"state"`
}

// SimulateResponse carries a synthetic user message.
type SimulateResponse struct {
	Message string `json:"message"`
}

// Frame types exchanged over the chat socket.
const (
	FrameMessage = "message"
	FrameAnswer  = "answer"
	FramePing    = "ping"

	FrameReply = "reply"
	FrameState = "state"
	FrameError = "error"
	FramePong  = "pong"
)

// InboundFrame is a client-to-server socket frame.
type InboundFrame struct {
	Type       string `json:"type"`
	Content    string `json:"content,omitempty"`
	QuestionID int    `json:"question_id,omitempty"`
	Answer     string `json:"answer,omitempty"`
	Legacy     bool   `json:"legacy,omitempty"`
}

// OutboundFrame is a server-to-client socket frame.
type OutboundFrame struct {
	Type    string          `json:"type"`
	Content string          `json:"content,omitempty"`
	State   *dialogue.State `json:"state,omitempty"`
	Error   string          `json:"error,omitempty"`
}
