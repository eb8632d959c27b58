package containers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcu.go/pkg/lists"
)

func TestNew(t *testing.T) {
	cs, err := New(16)
	require.NoError(t, err)
	require.Equal(t, 16, cs.FIFO.Size())
	require.Equal(t, 16, cs.LIFO.Size())
	require.Equal(t, 16, cs.Queue.Size())
	require.Equal(t, 16, cs.Stack.Size())
	require.True(t, cs.List.IsEmpty())

	_, err = New(0)
	require.Equal(t, lists.ErrOutOfMemory, err)
}

func TestInfoString(t *testing.T) {
	testCases := []struct {
		name     string
		info     Info
		expected string
	}{
		{
			name:     "bytes",
			info:     Info{Size: 8, Used: 3, Available: 5},
			expected: "size=8 used=3 available=5",
		},
		{
			name:     "objects",
			info:     Info{Size: 16, Used: 8, Available: 8, Objects: 2},
			expected: "size=16 used=8 available=8 objects=2",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.info.String())
		})
	}
}
