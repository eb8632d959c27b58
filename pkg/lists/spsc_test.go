package lists

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSPSCRingCreate(t *testing.T) {
	testCases := []struct {
		name string
		size int
		err  error
	}{
		{name: "power of two", size: 16},
		{name: "one", size: 1},
		{name: "not power of two", size: 12, err: ErrOutOfMemory},
		{name: "zero", size: 0, err: ErrOutOfMemory},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewSPSCRing(tc.size)
			if tc.err != nil {
				require.Equal(t, tc.err, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.size, r.Size())
			require.Equal(t, tc.size, r.AvailableSize())
		})
	}
}

func TestSPSCRingBlocks(t *testing.T) {
	r, err := NewSPSCRing(8)
	require.NoError(t, err)
	out := make([]byte, 5)
	for round := 0; round < 5; round++ {
		in := []byte{byte(round), 1, 2, 3, 4}
		require.NoError(t, r.PushBlock(in))
		require.Equal(t, ErrFull, r.PushBlock(in))
		require.NoError(t, r.PopBlock(out))
		require.Equal(t, in, out)
	}
	require.Equal(t, ErrNotEnoughData, r.PopBlock(out))
	_, ok := r.Pop()
	require.False(t, ok)
	for i := 0; i < 8; i++ {
		require.NoError(t, r.Push(byte(i)))
	}
	require.Equal(t, ErrFull, r.Push(8))
	b, ok := r.Pop()
	require.True(t, ok)
	require.Equal(t, byte(0), b)
	require.Equal(t, 7, r.DataSize())
}

func TestSPSCRingConcurrent(t *testing.T) {
	r, err := NewSPSCRing(16)
	require.NoError(t, err)

	const total = 20000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for sent := 0; sent < total; {
			if r.Push(byte(sent)) == nil {
				sent++
			}
		}
	}()
	for recv := 0; recv < total; {
		if b, ok := r.Pop(); ok {
			require.Equal(t, byte(recv), b)
			recv++
		}
	}
	wg.Wait()
	require.Equal(t, 0, r.DataSize())
}
