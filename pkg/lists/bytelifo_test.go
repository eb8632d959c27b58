package lists

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestByteLIFO(t *testing.T, size int) *ByteLIFO {
	l, err := NewByteLIFO(size)
	require.NoError(t, err)
	return l
}

func TestByteLIFOBytes(t *testing.T) {
	l := newTestByteLIFO(t, 3)
	_, ok := l.Pop()
	require.False(t, ok)

	for i := byte(1); i <= 3; i++ {
		require.NoError(t, l.Push(i))
	}
	require.True(t, l.IsFull())
	require.Equal(t, ErrFull, l.Push(4))

	b, ok := l.Get()
	require.True(t, ok)
	require.Equal(t, byte(3), b)
	for i := byte(3); i >= 1; i-- {
		b, ok := l.Pop()
		require.True(t, ok)
		require.Equal(t, i, b)
	}
	require.True(t, l.IsEmpty())
	_, ok = l.Get()
	require.False(t, ok)
}

func TestByteLIFOBlocks(t *testing.T) {
	testCases := []struct {
		name   string
		push   func(*ByteLIFO, []byte) error
		pop    func(*ByteLIFO, []byte) error
		expect []byte
	}{
		{
			name:   "push then pop reverses",
			push:   (*ByteLIFO).PushBlock,
			pop:    (*ByteLIFO).PopBlock,
			expect: []byte{4, 3, 2, 1},
		},
		{
			name:   "rpush then pop keeps order",
			push:   (*ByteLIFO).RPushBlock,
			pop:    (*ByteLIFO).PopBlock,
			expect: []byte{1, 2, 3, 4},
		},
		{
			name:   "push then rpop keeps order",
			push:   (*ByteLIFO).PushBlock,
			pop:    (*ByteLIFO).RPopBlock,
			expect: []byte{1, 2, 3, 4},
		},
		{
			name:   "rpush then rpop reverses",
			push:   (*ByteLIFO).RPushBlock,
			pop:    (*ByteLIFO).RPopBlock,
			expect: []byte{4, 3, 2, 1},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestByteLIFO(t, 6)
			require.NoError(t, l.Push(0xee))
			require.NoError(t, tc.push(l, []byte{1, 2, 3, 4}))
			require.Equal(t, 5, l.DataSize())
			out := make([]byte, 4)
			require.NoError(t, tc.pop(l, out))
			require.Equal(t, tc.expect, out)
			b, ok := l.Pop()
			require.True(t, ok)
			require.Equal(t, byte(0xee), b)
		})
	}
}

func TestByteLIFOBlockAtomic(t *testing.T) {
	l := newTestByteLIFO(t, 4)
	require.NoError(t, l.PushBlock([]byte{1, 2, 3}))
	require.Equal(t, ErrFull, l.PushBlock([]byte{4, 5}))
	require.Equal(t, ErrFull, l.RPushBlock([]byte{4, 5}))
	require.Equal(t, 3, l.DataSize())

	out := make([]byte, 4)
	require.Equal(t, ErrNotEnoughData, l.PopBlock(out))
	require.Equal(t, ErrNotEnoughData, l.RPopBlock(out))
	require.Equal(t, 3, l.DataSize())

	l.Clear()
	require.True(t, l.IsEmpty())
	require.Equal(t, 4, l.AvailableSize())
	l.Free()
	require.Panics(t, func() { l.Push(1) })
}

func TestByteLIFOUseAfterFree(t *testing.T) {
	testCases := []struct {
		name string
		call func(*ByteLIFO)
	}{
		{"Size", func(l *ByteLIFO) { l.Size() }},
		{"IsEmpty", func(l *ByteLIFO) { l.IsEmpty() }},
		{"IsFull", func(l *ByteLIFO) { l.IsFull() }},
		{"DataSize", func(l *ByteLIFO) { l.DataSize() }},
		{"AvailableSize", func(l *ByteLIFO) { l.AvailableSize() }},
		{"Clear", func(l *ByteLIFO) { l.Clear() }},
		{"Free", func(l *ByteLIFO) { l.Free() }},
		{"Pop", func(l *ByteLIFO) { l.Pop() }},
		{"RPushBlock", func(l *ByteLIFO) { l.RPushBlock(nil) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestByteLIFO(t, 4)
			l.Free()
			require.Panics(t, func() { tc.call(l) })
		})
	}
}
