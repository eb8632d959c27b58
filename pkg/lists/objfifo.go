package lists

import "encoding/binary"

// Each object record starts with a header of two little-endian uint16:
// a link (arena offset) and the payload length. The whole record is
// aligned to 2 bytes.
const objectHeaderSize = 4

func alignRecord(n int) int {
	return (n + 1) &^ 1
}

// ObjectFIFO is a fixed-capacity circular queue of variable-length records.
// Records are never split nor compacted: an allocation only succeeds if a
// contiguous run of free bytes is large enough.
//
// A record takes its payload plus the 4-byte header, rounded up to 2
// bytes. The extra record and the largest payload in the rule below
// cover the space lost at the arena end. To hold nb records of sizes S1..Snb at any time, size must satisfy
//
//	size >= 5*(nb+1) + sum(Sj) + max(Sj)
//
// This is not checked.
type ObjectFIFO struct {
	data        []byte
	size        int
	write       int // where the next record is placed
	read        int // oldest record
	lastWritten int // newest record, its link is patched on allocation
	objNb       int
}

// NewObjectFIFO creates an ObjectFIFO with an arena of size bytes,
// headers included.
func NewObjectFIFO(size int) (*ObjectFIFO, error) {
	if !validCapacity(size) {
		return nil, ErrOutOfMemory
	}
	return &ObjectFIFO{data: make([]byte, size), size: size}, nil
}

// Size returns the arena size.
func (f *ObjectFIFO) Size() int {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	return f.size
}

// IsEmpty indicates no record is stored.
func (f *ObjectFIFO) IsEmpty() bool {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	return f.objNb == 0
}

// IsFull indicates not even an empty record fits.
func (f *ObjectFIFO) IsFull() bool {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	return f.AvailableSize() < objectHeaderSize
}

// AvailableSize returns the number of free bytes. Because of
// fragmentation, the largest record that fits may be smaller.
func (f *ObjectFIFO) AvailableSize() int {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	switch {
	case f.objNb == 0:
		return f.size
	case f.read == f.write:
		return 0
	case f.read < f.write:
		return f.size + f.read - f.write
	default:
		return f.read - f.write
	}
}

// AllocatedSize returns the number of bytes in use, headers included.
func (f *ObjectFIFO) AllocatedSize() int {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	return f.size - f.AvailableSize()
}

// ObjectNb returns the number of records stored.
func (f *ObjectFIFO) ObjectNb() int {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	return f.objNb
}

// Clear drops all records.
func (f *ObjectFIFO) Clear() {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	f.write, f.read, f.lastWritten = 0, 0, 0
	f.objNb = 0
}

// Free releases the arena. Any later call panics, Free included.
func (f *ObjectFIFO) Free() {
	f.Clear()
	f.data = nil
}

// Get returns the oldest record without removing it.
func (f *ObjectFIFO) Get() ([]byte, bool) {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	if f.objNb == 0 {
		return nil, false
	}
	return f.payload(f.read), true
}

// Pop removes the oldest record and returns it. The returned slice aliases
// the arena: it stays valid only until a later allocation reuses the space,
// so a consumer racing with producers should Get, process, then Pop.
func (f *ObjectFIFO) Pop() ([]byte, bool) {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	if f.objNb == 0 {
		return nil, false
	}
	at := f.read
	if f.objNb--; f.objNb == 0 {
		f.read, f.write = 0, 0
	} else {
		f.read = f.link(at)
	}
	return f.payload(at), true
}

// Push copies p into a new record and returns the stored copy.
func (f *ObjectFIFO) Push(p []byte) ([]byte, error) {
	rec, err := f.Allocate(len(p))
	if err != nil {
		return nil, err
	}
	copy(rec, p)
	return rec, nil
}

// Allocate reserves a record of n bytes and returns it for the caller to
// fill in place. The record is already queued: it must be filled before a
// consumer may read it.
func (f *ObjectFIFO) Allocate(n int) ([]byte, error) {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	if n < 0 {
		panic("lists: negative record size")
	}
	needed := alignRecord(objectHeaderSize + n)
	var at int
	switch {
	case f.objNb == 0:
		if needed > f.size {
			return nil, ErrFull
		}
		at = 0
	case f.write <= f.read:
		// wrapped: free run ends at read
		if f.write+needed > f.read {
			return nil, ErrFull
		}
		at = f.write
	case f.write+needed <= f.size:
		at = f.write
	case needed <= f.read:
		at = 0
	default:
		return nil, ErrFull
	}

	if f.objNb == 0 {
		f.read = at
	} else {
		f.setLink(f.lastWritten, at)
	}
	f.setLink(at, 0)
	binary.LittleEndian.PutUint16(f.data[at+2:], uint16(n))
	f.objNb++
	f.lastWritten = at
	f.write = at + needed
	return f.payload(at), nil
}

// Each calls fn on every record from the oldest to the newest until fn
// returns false.
func (f *ObjectFIFO) Each(fn func([]byte) bool) {
	panicIfFreed(f.data == nil, "ObjectFIFO")
	at := f.read
	for i := 0; i < f.objNb; i++ {
		if !fn(f.payload(at)) {
			return
		}
		at = f.link(at)
	}
}

func (f *ObjectFIFO) link(at int) int {
	return int(binary.LittleEndian.Uint16(f.data[at:]))
}

func (f *ObjectFIFO) setLink(at, next int) {
	binary.LittleEndian.PutUint16(f.data[at:], uint16(next))
}

func (f *ObjectFIFO) payload(at int) []byte {
	start := at + objectHeaderSize
	end := start + int(binary.LittleEndian.Uint16(f.data[at+2:]))
	return f.data[start:end:end]
}
