package lists

import "sync"

// Mask models raising the interrupt priority mask. Raise blocks the
// contexts that could touch a shared container and returns the function
// restoring the previous state.
type Mask interface {
	Raise() (restore func())
}

// Protect runs fn with m raised. The mask is restored when fn returns
// or panics.
func Protect(m Mask, fn func()) {
	restore := m.Raise()
	defer restore()
	fn()
}

// MutexMask is a Mask for hosted code, where "interrupt handlers" are
// goroutines.
type MutexMask struct {
	mu sync.Mutex
}

// Raise implements Mask.
func (m *MutexMask) Raise() func() {
	m.mu.Lock()
	return m.mu.Unlock
}

// NoMask is a Mask for containers only used from a single context.
type NoMask struct{}

// Raise implements Mask.
func (NoMask) Raise() func() {
	return func() {}
}
