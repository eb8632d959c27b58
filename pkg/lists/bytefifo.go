package lists

// ByteFIFO is a fixed-capacity circular byte queue.
// Bytes are read in the same order they are written.
type ByteFIFO struct {
	data     []byte
	size     int
	readPtr  int
	writePtr int
	dataSize int
}

// NewByteFIFO creates a ByteFIFO holding up to size bytes.
func NewByteFIFO(size int) (*ByteFIFO, error) {
	if !validCapacity(size) {
		return nil, ErrOutOfMemory
	}
	return &ByteFIFO{data: make([]byte, size), size: size}, nil
}

// Size returns the capacity in bytes.
func (f *ByteFIFO) Size() int {
	panicIfFreed(f.data == nil, "ByteFIFO")
	return f.size
}

// IsEmpty indicates no byte is stored.
func (f *ByteFIFO) IsEmpty() bool {
	panicIfFreed(f.data == nil, "ByteFIFO")
	return f.dataSize == 0
}

// IsNotEmpty indicates at least one byte is stored.
func (f *ByteFIFO) IsNotEmpty() bool {
	panicIfFreed(f.data == nil, "ByteFIFO")
	return f.dataSize != 0
}

// IsFull indicates no more byte can be written.
func (f *ByteFIFO) IsFull() bool {
	panicIfFreed(f.data == nil, "ByteFIFO")
	return f.dataSize == f.size
}

// DataSize returns the number of bytes stored.
func (f *ByteFIFO) DataSize() int {
	panicIfFreed(f.data == nil, "ByteFIFO")
	return f.dataSize
}

// AvailableSize returns the number of free bytes.
func (f *ByteFIFO) AvailableSize() int {
	panicIfFreed(f.data == nil, "ByteFIFO")
	return f.size - f.dataSize
}

// Clear drops all stored bytes but keeps the arena.
func (f *ByteFIFO) Clear() {
	panicIfFreed(f.data == nil, "ByteFIFO")
	f.readPtr, f.writePtr = 0, 0
	f.dataSize = 0
}

// Free releases the arena. Any later call panics, Free included.
func (f *ByteFIFO) Free() {
	f.Clear()
	f.data = nil
}

// Get reads the oldest byte without removing it.
// ok is false if the FIFO is empty.
func (f *ByteFIFO) Get() (b byte, ok bool) {
	panicIfFreed(f.data == nil, "ByteFIFO")
	if f.dataSize == 0 {
		return 0, false
	}
	return f.data[f.readPtr], true
}

// Pop reads and removes the oldest byte.
// ok is false if the FIFO is empty, in which case nothing changes.
func (f *ByteFIFO) Pop() (b byte, ok bool) {
	panicIfFreed(f.data == nil, "ByteFIFO")
	if f.dataSize == 0 {
		return 0, false
	}
	b = f.data[f.readPtr]
	if f.readPtr++; f.readPtr == f.size {
		f.readPtr = 0
	}
	f.dataSize--
	return b, true
}

// PushByte writes one byte, or returns ErrFull.
func (f *ByteFIFO) PushByte(b byte) error {
	panicIfFreed(f.data == nil, "ByteFIFO")
	if f.IsFull() {
		return ErrFull
	}
	f.data[f.writePtr] = b
	if f.writePtr++; f.writePtr == f.size {
		f.writePtr = 0
	}
	f.dataSize++
	return nil
}

// PushBlock writes all of p, or nothing and returns ErrFull.
func (f *ByteFIFO) PushBlock(p []byte) error {
	panicIfFreed(f.data == nil, "ByteFIFO")
	n := len(p)
	if f.AvailableSize() < n {
		return ErrFull
	}
	if f.writePtr+n >= f.size {
		k := copy(f.data[f.writePtr:], p)
		f.writePtr = copy(f.data, p[k:])
	} else {
		f.writePtr += copy(f.data[f.writePtr:], p)
	}
	f.dataSize += n
	return nil
}

// PushStr writes the bytes of s, without terminator.
func (f *ByteFIFO) PushStr(s string) error {
	return f.PushBlock([]byte(s))
}

// PopBlock fills p with the oldest len(p) bytes and removes them.
// If fewer bytes are stored, nothing is read and ErrNotEnoughData is returned,
// which makes it usable as "read n bytes if available".
func (f *ByteFIFO) PopBlock(p []byte) error {
	panicIfFreed(f.data == nil, "ByteFIFO")
	n := len(p)
	if f.dataSize < n {
		return ErrNotEnoughData
	}
	if f.readPtr+n >= f.size {
		k := copy(p, f.data[f.readPtr:])
		f.readPtr = copy(p[k:], f.data)
	} else {
		f.readPtr += copy(p, f.data[f.readPtr:f.readPtr+n])
	}
	f.dataSize -= n
	return nil
}
