package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReply indicates no reply received from the firmware.
	// This happens when a reply is received for a latter request, and all
	// previous requests fail with this error.
	ErrNoReply = errors.New("no reply")
	// ErrClosed indicates the Client stopped before a reply is received.
	ErrClosed = errors.New("client closed")
)

// CommandError wraps error codes from reply.
type CommandError struct {
	Code byte
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command error %d", e.Code)
}
