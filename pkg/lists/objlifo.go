package lists

import "encoding/binary"

// ObjectLIFO is a fixed-capacity stack of variable-length records.
// Records are appended one after another, each header linking back to
// the previous record, so the stack can only be walked from the top.
//
// A record takes its payload plus the 4-byte header, rounded up to 2
// bytes. To hold nb records of sizes S1..Snb, size must satisfy
//
//	size >= 5*nb + sum(Sj)
//
// This is not checked.
type ObjectLIFO struct {
	data          []byte
	allocatedSize int
	current       int // top record, -1 when empty
	objNb         int
}

// NewObjectLIFO creates an ObjectLIFO with an arena of size bytes,
// headers included.
func NewObjectLIFO(size int) (*ObjectLIFO, error) {
	if !validCapacity(size) {
		return nil, ErrOutOfMemory
	}
	return &ObjectLIFO{data: make([]byte, size), current: -1}, nil
}

// Size returns the arena size.
func (l *ObjectLIFO) Size() int {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	return len(l.data)
}

// IsEmpty indicates no record is stored.
func (l *ObjectLIFO) IsEmpty() bool {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	return l.allocatedSize == 0
}

// IsFull indicates the arena is completely used.
func (l *ObjectLIFO) IsFull() bool {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	return l.allocatedSize == len(l.data)
}

// AvailableSize returns the number of free bytes. The largest record
// that still fits is 4 bytes smaller.
func (l *ObjectLIFO) AvailableSize() int {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	return len(l.data) - l.allocatedSize
}

// AllocatedSize returns the number of bytes in use, headers included.
func (l *ObjectLIFO) AllocatedSize() int {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	return l.allocatedSize
}

// ObjectNb returns the number of records stored.
func (l *ObjectLIFO) ObjectNb() int {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	return l.objNb
}

// Clear drops all records.
func (l *ObjectLIFO) Clear() {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	l.allocatedSize = 0
	l.current = -1
	l.objNb = 0
}

// Free releases the arena. Any later call panics, Free included.
func (l *ObjectLIFO) Free() {
	l.Clear()
	l.data = nil
}

// Get returns the top record without removing it.
func (l *ObjectLIFO) Get() ([]byte, bool) {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	if l.current < 0 {
		return nil, false
	}
	return l.payload(l.current), true
}

// Pop removes the top record and returns it. The arena is truncated at
// the start of the popped record, so the slice is only valid until the
// next Push or Alloc.
func (l *ObjectLIFO) Pop() ([]byte, bool) {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	if l.current < 0 {
		return nil, false
	}
	at := l.current
	l.allocatedSize = at
	l.current = int(binary.LittleEndian.Uint16(l.data[at:])) - 1
	l.objNb--
	return l.payload(at), true
}

// Push copies p into a new record on top of the stack.
func (l *ObjectLIFO) Push(p []byte) ([]byte, error) {
	rec, err := l.Alloc(len(p))
	if err != nil {
		return nil, err
	}
	copy(rec, p)
	return rec, nil
}

// Alloc reserves a record of n bytes on top of the stack and returns it
// for the caller to fill in place.
func (l *ObjectLIFO) Alloc(n int) ([]byte, error) {
	panicIfFreed(l.data == nil, "ObjectLIFO")
	if n < 0 {
		panic("lists: negative record size")
	}
	if l.AvailableSize() < objectHeaderSize+n {
		return nil, ErrFull
	}
	at := l.allocatedSize
	binary.LittleEndian.PutUint16(l.data[at:], uint16(l.current+1))
	binary.LittleEndian.PutUint16(l.data[at+2:], uint16(n))
	l.current = at
	l.objNb++
	// the padding byte may not fit on an odd sized arena, it is useless then
	if l.allocatedSize = alignRecord(at + objectHeaderSize + n); l.allocatedSize > len(l.data) {
		l.allocatedSize = len(l.data)
	}
	return l.payload(at), nil
}

func (l *ObjectLIFO) payload(at int) []byte {
	start := at + objectHeaderSize
	end := start + int(binary.LittleEndian.Uint16(l.data[at+2:]))
	return l.data[start:end:end]
}
