package ws

import (
	"time"

	"github.com/HerbHall/curvefit/pkg/curve"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageFitResult      MessageType = "fit.result"
	MessageFitError       MessageType = "fit.error"
	MessageServerShutdown MessageType = "server.shutdown"
)

// Message is the envelope for all server-to-client messages.
type Message struct {
	Type      MessageType `json:"type"`
	ID        string      `json:"id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}

// FitRequestMessage is a client frame. ID is echoed on the reply; the server
// assigns one when it is empty.
type FitRequestMessage struct {
	ID string `json:"id"`
	curve.FitRequest
}

// FitErrorData is the payload for fit.error messages.
type FitErrorData struct {
	Error string `json:"error"`
}

// ShutdownData is the payload for server.shutdown messages.
type ShutdownData struct {
	Reason string `json:"reason"`
}
