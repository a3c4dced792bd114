package host

import (
	"errors"
	"strings"

	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/trace"
)

// MessageType identifies a boundary message.
type MessageType string

// Message types.
const (
	MsgRunCode MessageType = "RUN_CODE"
	MsgReady   MessageType = "READY"
	MsgSuccess MessageType = "SUCCESS"
	MsgError   MessageType = "ERROR"
)

// NotReadyMessage is the error text of a RUN_CODE rejected before READY.
const NotReadyMessage = "runtime not ready"

// Errors for boundary operations.
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrProtocol         = errors.New("protocol error")
	ErrNotReady         = errors.New(NotReadyMessage)
)

// RunContext is the level a RUN_CODE is played against.
type RunContext struct {
	Level          level.Config       `json:"level"`
	InitialObjects []level.GameObject `json:"initialObjects,omitempty"`
}

// Message is one boundary message. Only the fields relevant to Type are set.
type Message struct {
	Type MessageType `json:"type"`

	// ID correlates a reply with its RUN_CODE. Boot messages carry none.
	ID string `json:"id,omitempty"`

	Code    string      `json:"code,omitempty"`
	Context *RunContext `json:"context,omitempty"`

	Trace trace.Trace `json:"trace,omitempty"`
	Error string      `json:"error,omitempty"`
}

// RemoteError is an ERROR reply from the execution context.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Is matches ErrNotReady for rejected runs.
func (e *RemoteError) Is(target error) bool {
	return target == ErrNotReady && strings.HasPrefix(e.Message, NotReadyMessage)
}
