package lists

import "errors"

// MaxCapacity is the largest arena a container can address with 16-bit offsets.
const MaxCapacity = 0xffff

var (
	// ErrOutOfMemory indicates the container itself could not be allocated.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrFull indicates a write is rejected. Nothing is written.
	ErrFull = errors.New("full")
	// ErrNotEnoughData indicates a read is rejected. Nothing is read.
	ErrNotEnoughData = errors.New("not enough data")
	// ErrOutOfRange indicates an index based operation is out of bounds.
	ErrOutOfRange = errors.New("out of range")
)

func validCapacity(size int) bool {
	return size > 0 && size <= MaxCapacity
}

func panicIfFreed(freed bool, name string) {
	if freed {
		panic("lists: " + name + " used after Free()")
	}
}
