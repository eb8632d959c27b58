package lists

// ByteLIFO is a fixed-capacity byte stack. The last byte pushed is
// the first one read.
type ByteLIFO struct {
	data []byte
	next int // one past the top byte, never wraps
}

// NewByteLIFO creates a ByteLIFO holding up to size bytes.
func NewByteLIFO(size int) (*ByteLIFO, error) {
	if !validCapacity(size) {
		return nil, ErrOutOfMemory
	}
	return &ByteLIFO{data: make([]byte, size)}, nil
}

// Size returns the capacity in bytes.
func (l *ByteLIFO) Size() int {
	panicIfFreed(l.data == nil, "ByteLIFO")
	return len(l.data)
}

// IsEmpty indicates no byte is stored.
func (l *ByteLIFO) IsEmpty() bool {
	panicIfFreed(l.data == nil, "ByteLIFO")
	return l.next == 0
}

// IsFull indicates no more byte can be pushed.
func (l *ByteLIFO) IsFull() bool {
	panicIfFreed(l.data == nil, "ByteLIFO")
	return l.next == len(l.data)
}

// DataSize returns the number of bytes stored.
func (l *ByteLIFO) DataSize() int {
	panicIfFreed(l.data == nil, "ByteLIFO")
	return l.next
}

// AvailableSize returns the number of free bytes.
func (l *ByteLIFO) AvailableSize() int {
	panicIfFreed(l.data == nil, "ByteLIFO")
	return len(l.data) - l.next
}

// Clear drops all stored bytes.
func (l *ByteLIFO) Clear() {
	panicIfFreed(l.data == nil, "ByteLIFO")
	l.next = 0
}

// Free releases the arena. Any later call panics, Free included.
func (l *ByteLIFO) Free() {
	l.Clear()
	l.data = nil
}

// Get reads the top byte without removing it. It returns 0, false on
// an empty stack.
func (l *ByteLIFO) Get() (byte, bool) {
	panicIfFreed(l.data == nil, "ByteLIFO")
	if l.next == 0 {
		return 0, false
	}
	return l.data[l.next-1], true
}

// Pop reads and removes the top byte. It returns 0, false on an empty
// stack and nothing is removed.
func (l *ByteLIFO) Pop() (byte, bool) {
	panicIfFreed(l.data == nil, "ByteLIFO")
	if l.next == 0 {
		return 0, false
	}
	l.next--
	return l.data[l.next], true
}

// Push pushes one byte, or returns ErrFull.
func (l *ByteLIFO) Push(b byte) error {
	panicIfFreed(l.data == nil, "ByteLIFO")
	if l.IsFull() {
		return ErrFull
	}
	l.data[l.next] = b
	l.next++
	return nil
}

// PushBlock pushes p in the given order, p[len(p)-1] ending on top.
func (l *ByteLIFO) PushBlock(p []byte) error {
	panicIfFreed(l.data == nil, "ByteLIFO")
	if l.AvailableSize() < len(p) {
		return ErrFull
	}
	l.next += copy(l.data[l.next:], p)
	return nil
}

// RPushBlock pushes p in reversed order, p[0] ending on top.
// Useful to flip the byte order of a word.
func (l *ByteLIFO) RPushBlock(p []byte) error {
	panicIfFreed(l.data == nil, "ByteLIFO")
	if l.AvailableSize() < len(p) {
		return ErrFull
	}
	for i := len(p) - 1; i >= 0; i-- {
		l.data[l.next] = p[i]
		l.next++
	}
	return nil
}

// PopBlock removes len(p) bytes, writing them in pop order: p[0] is the
// former top of the stack.
func (l *ByteLIFO) PopBlock(p []byte) error {
	panicIfFreed(l.data == nil, "ByteLIFO")
	n := len(p)
	if l.next < n {
		return ErrNotEnoughData
	}
	for i := 0; i < n; i++ {
		l.next--
		p[i] = l.data[l.next]
	}
	return nil
}

// RPopBlock removes len(p) bytes, writing them in storage order, the
// reverse of PopBlock.
func (l *ByteLIFO) RPopBlock(p []byte) error {
	panicIfFreed(l.data == nil, "ByteLIFO")
	n := len(p)
	if l.next < n {
		return ErrNotEnoughData
	}
	l.next -= n
	copy(p, l.data[l.next:l.next+n])
	return nil
}
