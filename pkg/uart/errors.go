package uart

import (
	"errors"

	"github.com/robotalks/mcu.go/pkg/lists"
)

var (
	// ErrBufferOverflow indicates bytes were rejected or dropped because a
	// buffer was full.
	ErrBufferOverflow = errors.New("buffer overflow")
	// ErrOutOfMemory indicates a buffer of the port could not be created.
	ErrOutOfMemory = lists.ErrOutOfMemory
	// ErrNotEnoughData indicates less bytes are received than requested.
	ErrNotEnoughData = lists.ErrNotEnoughData
	// ErrInvalidPriority indicates an interrupt priority is out of range.
	ErrInvalidPriority = errors.New("invalid interrupt priority")
	// ErrInvalidBaudrate indicates the hardware can't run at the baudrate.
	ErrInvalidBaudrate = errors.New("invalid baudrate")
	// ErrFrameTooLarge indicates frame data exceeds MaxFrameData.
	ErrFrameTooLarge = errors.New("frame too large")
)
