package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcu.go/pkg/uart"
)

func TestPortStatsEncoding(t *testing.T) {
	m := NewPortStats("port-1",
		uart.Stats{TxBuffered: 3, TxFree: 253, RxFree: 256, Sent: 1000, Dropped: 2},
		uart.FrameStats{Frames: 12, Resyncs: 1})
	b, err := m.Encode()
	require.NoError(t, err)
	decoded, err := DecodePortStats(b)
	require.NoError(t, err)
	require.Equal(t, m, decoded)
	require.Contains(t, decoded.String(), `port_id:"port-1"`)

	_, err = DecodePortStats([]byte{0xff})
	require.Error(t, err)
}
