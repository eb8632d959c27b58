package lists

import "sync/atomic"

// SPSCRing is a byte ring safe for exactly one producer and one consumer
// running concurrently without any Mask. The producer only moves tail
// and the consumer only moves head. Both counters run freely and wrap at
// 2^32, the capacity must be a power of two.
type SPSCRing struct {
	data []byte
	mask uint32
	head uint32 // consumer owned
	tail uint32 // producer owned
}

// NewSPSCRing creates a ring of size bytes, size must be a power of two.
func NewSPSCRing(size int) (*SPSCRing, error) {
	if !validCapacity(size) || size&(size-1) != 0 {
		return nil, ErrOutOfMemory
	}
	return &SPSCRing{data: make([]byte, size), mask: uint32(size - 1)}, nil
}

// Size returns the capacity in bytes.
func (r *SPSCRing) Size() int {
	return len(r.data)
}

// DataSize returns the number of bytes stored. Seen from either side it
// is a lower (consumer) or upper (producer) bound.
func (r *SPSCRing) DataSize() int {
	return int(atomic.LoadUint32(&r.tail) - atomic.LoadUint32(&r.head))
}

// AvailableSize returns the number of free bytes.
func (r *SPSCRing) AvailableSize() int {
	return len(r.data) - r.DataSize()
}

// Push writes one byte. Producer side.
func (r *SPSCRing) Push(b byte) error {
	tail := atomic.LoadUint32(&r.tail)
	if int(tail-atomic.LoadUint32(&r.head)) == len(r.data) {
		return ErrFull
	}
	r.data[tail&r.mask] = b
	atomic.StoreUint32(&r.tail, tail+1)
	return nil
}

// PushBlock writes all of p or nothing. Producer side.
func (r *SPSCRing) PushBlock(p []byte) error {
	tail := atomic.LoadUint32(&r.tail)
	if len(r.data)-int(tail-atomic.LoadUint32(&r.head)) < len(p) {
		return ErrFull
	}
	at := int(tail & r.mask)
	if k := copy(r.data[at:], p); k < len(p) {
		copy(r.data, p[k:])
	}
	atomic.StoreUint32(&r.tail, tail+uint32(len(p)))
	return nil
}

// Pop reads and removes the oldest byte. Consumer side.
func (r *SPSCRing) Pop() (byte, bool) {
	head := atomic.LoadUint32(&r.head)
	if head == atomic.LoadUint32(&r.tail) {
		return 0, false
	}
	b := r.data[head&r.mask]
	atomic.StoreUint32(&r.head, head+1)
	return b, true
}

// PopBlock fills p with the oldest len(p) bytes, or returns
// ErrNotEnoughData and reads nothing. Consumer side.
func (r *SPSCRing) PopBlock(p []byte) error {
	head := atomic.LoadUint32(&r.head)
	if int(atomic.LoadUint32(&r.tail)-head) < len(p) {
		return ErrNotEnoughData
	}
	at := int(head & r.mask)
	if k := copy(p, r.data[at:]); k < len(p) {
		copy(p[k:], r.data)
	}
	atomic.StoreUint32(&r.head, head+uint32(len(p)))
	return nil
}
