package lists

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestObjectFIFO(t *testing.T, size int) *ObjectFIFO {
	f, err := NewObjectFIFO(size)
	require.NoError(t, err)
	return f
}

func mustPushObject(t *testing.T, f *ObjectFIFO, p string) {
	rec, err := f.Push([]byte(p))
	require.NoError(t, err)
	require.Equal(t, p, string(rec))
}

func mustPopObject(t *testing.T, f *ObjectFIFO, expected string) {
	rec, ok := f.Pop()
	require.True(t, ok)
	require.Equal(t, expected, string(rec))
}

func TestObjectFIFOOrder(t *testing.T) {
	f := newTestObjectFIFO(t, 64)
	_, ok := f.Pop()
	require.False(t, ok)

	records := []string{"a", "bc", "def", "", "ghij"}
	for _, r := range records {
		mustPushObject(t, f, r)
	}
	require.Equal(t, len(records), f.ObjectNb())
	require.Equal(t, 6+6+8+4+8, f.AllocatedSize())

	var seen []string
	f.Each(func(p []byte) bool {
		seen = append(seen, string(p))
		return true
	})
	require.Equal(t, records, seen)

	rec, ok := f.Get()
	require.True(t, ok)
	require.Equal(t, "a", string(rec))
	for _, r := range records {
		mustPopObject(t, f, r)
	}
	require.True(t, f.IsEmpty())
	require.Equal(t, 64, f.AvailableSize())
}

func TestObjectFIFOWrapAndExactFill(t *testing.T) {
	f := newTestObjectFIFO(t, 24)
	mustPushObject(t, f, "AAAA")
	mustPushObject(t, f, "BBBB")
	mustPushObject(t, f, "CCCC")
	require.Equal(t, 0, f.AvailableSize())
	require.True(t, f.IsFull())
	_, err := f.Allocate(0)
	require.Equal(t, ErrFull, err)

	mustPopObject(t, f, "AAAA")
	require.Equal(t, 8, f.AvailableSize())
	mustPushObject(t, f, "DDDD")

	// write caught up with read: the queue is full, not empty
	require.Equal(t, 4, f.ObjectNb())
	require.Equal(t, 0, f.AvailableSize())
	_, err = f.Allocate(0)
	require.Equal(t, ErrFull, err)

	for _, r := range []string{"BBBB", "CCCC", "DDDD"} {
		mustPopObject(t, f, r)
	}
	require.True(t, f.IsEmpty())
	mustPushObject(t, f, "0123456789ABCDEFGHIJ")
}

func TestObjectFIFOFragmentation(t *testing.T) {
	f := newTestObjectFIFO(t, 24)
	mustPushObject(t, f, "AAAA")
	mustPushObject(t, f, "BBBB")
	mustPopObject(t, f, "AAAA")

	// 8 free bytes at the tail and 8 at the head, no run of 12
	require.Equal(t, 16, f.AvailableSize())
	_, err := f.Allocate(8)
	require.Equal(t, ErrFull, err)
	require.Equal(t, 1, f.ObjectNb())

	rec, err := f.Allocate(4)
	require.NoError(t, err)
	copy(rec, "CCCC")
	rec, err = f.Allocate(4)
	require.NoError(t, err)
	copy(rec, "DDDD")
	_, err = f.Allocate(0)
	require.Equal(t, ErrFull, err)

	for _, r := range []string{"BBBB", "CCCC", "DDDD"} {
		mustPopObject(t, f, r)
	}
}

func TestObjectFIFOAllocate(t *testing.T) {
	testCases := []struct {
		name string
		size int
		n    int
		err  error
	}{
		{name: "empty record", size: 4, n: 0},
		{name: "exact", size: 8, n: 4},
		{name: "padding overflows", size: 8, n: 5, err: ErrFull},
		{name: "too large", size: 5, n: 1, err: ErrFull},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestObjectFIFO(t, tc.size)
			rec, err := f.Allocate(tc.n)
			if tc.err != nil {
				require.Equal(t, tc.err, err)
				require.True(t, f.IsEmpty())
				return
			}
			require.NoError(t, err)
			require.Len(t, rec, tc.n)
			require.Equal(t, tc.n, cap(rec))
			require.Equal(t, 1, f.ObjectNb())
		})
	}

	f := newTestObjectFIFO(t, 8)
	require.Panics(t, func() { f.Allocate(-1) })
	f.Free()
	require.Panics(t, func() { f.Get() })
}

func TestObjectFIFOUseAfterFree(t *testing.T) {
	testCases := []struct {
		name string
		call func(*ObjectFIFO)
	}{
		{"Size", func(f *ObjectFIFO) { f.Size() }},
		{"IsEmpty", func(f *ObjectFIFO) { f.IsEmpty() }},
		{"IsFull", func(f *ObjectFIFO) { f.IsFull() }},
		{"AvailableSize", func(f *ObjectFIFO) { f.AvailableSize() }},
		{"AllocatedSize", func(f *ObjectFIFO) { f.AllocatedSize() }},
		{"ObjectNb", func(f *ObjectFIFO) { f.ObjectNb() }},
		{"Clear", func(f *ObjectFIFO) { f.Clear() }},
		{"Free", func(f *ObjectFIFO) { f.Free() }},
		{"Push", func(f *ObjectFIFO) { f.Push([]byte("a")) }},
		{"Each", func(f *ObjectFIFO) { f.Each(func([]byte) bool { return true }) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestObjectFIFO(t, 16)
			f.Free()
			require.Panics(t, func() { tc.call(f) })
		})
	}
}

func TestObjectFIFOSizingRule(t *testing.T) {
	// two records of up to 5 bytes in flight: 5*(2+1) + 5+5 + 5
	f := newTestObjectFIFO(t, 30)
	sizes := []int{3, 5, 1}
	var inFlight []string
	for i := 0; i < 500; i++ {
		if len(inFlight) == 2 {
			mustPopObject(t, f, inFlight[0])
			inFlight = inFlight[1:]
		}
		p := strings.Repeat(string(rune('a'+i%26)), sizes[i%len(sizes)])
		mustPushObject(t, f, p)
		inFlight = append(inFlight, p)
	}
}
