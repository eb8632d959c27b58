package lists

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtectRestoresOnPanic(t *testing.T) {
	m := &MutexMask{}
	require.Panics(t, func() {
		Protect(m, func() { panic("boom") })
	})
	// would deadlock if the mask was left raised
	Protect(m, func() {})
	Protect(NoMask{}, func() {})
}

func TestProtectSharedFIFO(t *testing.T) {
	f, err := NewByteFIFO(64)
	require.NoError(t, err)
	m := &MutexMask{}

	const total = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for sent := 0; sent < total; {
			Protect(m, func() {
				if f.PushByte(byte(sent)) == nil {
					sent++
				}
			})
		}
	}()

	for recv := 0; recv < total; {
		var b byte
		var ok bool
		Protect(m, func() { b, ok = f.Pop() })
		if ok {
			require.Equal(t, byte(recv), b)
			recv++
		}
	}
	wg.Wait()
	require.True(t, f.IsEmpty())
}
