package lists

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestByteFIFO(t *testing.T, size int) *ByteFIFO {
	f, err := NewByteFIFO(size)
	require.NoError(t, err)
	return f
}

func TestByteFIFOCreate(t *testing.T) {
	testCases := []struct {
		name string
		size int
		err  error
	}{
		{name: "zero", size: 0, err: ErrOutOfMemory},
		{name: "negative", size: -1, err: ErrOutOfMemory},
		{name: "one", size: 1},
		{name: "max", size: MaxCapacity},
		{name: "too large", size: MaxCapacity + 1, err: ErrOutOfMemory},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewByteFIFO(tc.size)
			if tc.err != nil {
				require.Equal(t, tc.err, err)
				require.Nil(t, f)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.size, f.Size())
			require.True(t, f.IsEmpty())
			require.Equal(t, tc.size, f.AvailableSize())
		})
	}
}

func TestByteFIFOBytes(t *testing.T) {
	f := newTestByteFIFO(t, 3)
	_, ok := f.Pop()
	require.False(t, ok)
	_, ok = f.Get()
	require.False(t, ok)

	for i := byte(1); i <= 3; i++ {
		require.NoError(t, f.PushByte(i))
	}
	require.True(t, f.IsFull())
	require.Equal(t, ErrFull, f.PushByte(4))
	require.Equal(t, 3, f.DataSize())

	b, ok := f.Get()
	require.True(t, ok)
	require.Equal(t, byte(1), b)
	require.Equal(t, 3, f.DataSize())

	for i := byte(1); i <= 3; i++ {
		b, ok := f.Pop()
		require.True(t, ok)
		require.Equal(t, i, b)
	}
	require.True(t, f.IsEmpty())
	require.False(t, f.IsNotEmpty())
}

func TestByteFIFOWrapAround(t *testing.T) {
	testCases := []struct {
		name   string
		size   int
		offset int
		block  int
	}{
		{name: "no wrap", size: 8, offset: 0, block: 5},
		{name: "ends at arena end", size: 8, offset: 3, block: 5},
		{name: "wraps", size: 8, offset: 6, block: 5},
		{name: "full wrap", size: 8, offset: 5, block: 8},
		{name: "single byte arena", size: 1, offset: 1, block: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestByteFIFO(t, tc.size)
			for i := 0; i < tc.offset; i++ {
				require.NoError(t, f.PushByte(0xee))
				_, ok := f.Pop()
				require.True(t, ok)
			}
			in := make([]byte, tc.block)
			for i := range in {
				in[i] = byte(i + 1)
			}
			require.NoError(t, f.PushBlock(in))
			require.Equal(t, tc.block, f.DataSize())
			out := make([]byte, tc.block)
			require.NoError(t, f.PopBlock(out))
			require.Equal(t, in, out)
			require.True(t, f.IsEmpty())

			// the pointers must still be consistent
			require.NoError(t, f.PushByte('a'))
			b, ok := f.Pop()
			require.True(t, ok)
			require.Equal(t, byte('a'), b)
		})
	}
}

func TestByteFIFOBlockAtomic(t *testing.T) {
	f := newTestByteFIFO(t, 6)
	require.NoError(t, f.PushStr("abcd"))
	before := *f
	require.Equal(t, ErrFull, f.PushBlock([]byte("xyz")))
	require.Equal(t, before, *f)

	out := make([]byte, 5)
	require.Equal(t, ErrNotEnoughData, f.PopBlock(out))
	require.Equal(t, before, *f)
	require.Equal(t, make([]byte, 5), out)

	require.NoError(t, f.PopBlock(out[:0]))
	require.NoError(t, f.PushBlock(nil))
	require.Equal(t, 4, f.DataSize())
}

func TestByteFIFOClearAndFree(t *testing.T) {
	f := newTestByteFIFO(t, 4)
	require.NoError(t, f.PushStr("abc"))
	f.Clear()
	require.True(t, f.IsEmpty())
	require.Equal(t, 4, f.AvailableSize())
	require.NoError(t, f.PushStr("abcd"))

	f.Free()
	require.Panics(t, func() { f.PushByte(1) })
	require.Panics(t, func() { f.Pop() })
}

func TestByteFIFOUseAfterFree(t *testing.T) {
	testCases := []struct {
		name string
		call func(*ByteFIFO)
	}{
		{"Size", func(f *ByteFIFO) { f.Size() }},
		{"IsEmpty", func(f *ByteFIFO) { f.IsEmpty() }},
		{"IsNotEmpty", func(f *ByteFIFO) { f.IsNotEmpty() }},
		{"IsFull", func(f *ByteFIFO) { f.IsFull() }},
		{"DataSize", func(f *ByteFIFO) { f.DataSize() }},
		{"AvailableSize", func(f *ByteFIFO) { f.AvailableSize() }},
		{"Clear", func(f *ByteFIFO) { f.Clear() }},
		{"Free", func(f *ByteFIFO) { f.Free() }},
		{"Get", func(f *ByteFIFO) { f.Get() }},
		{"PushStr", func(f *ByteFIFO) { f.PushStr("a") }},
		{"PopBlock", func(f *ByteFIFO) { f.PopBlock(nil) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestByteFIFO(t, 4)
			f.Free()
			require.Panics(t, func() { tc.call(f) })
		})
	}
}
