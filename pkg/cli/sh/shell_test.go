package sh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcu.go/pkg/uart"
)

func TestParseBytes(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected []byte
	}{
		{name: "none", args: nil, expected: nil},
		{name: "numbers", args: []string{"1", "0x7f", "0b11"}, expected: []byte{1, 0x7f, 3}},
		{name: "text", args: []string{"hi", "256"}, expected: []byte("hi256")},
		{name: "mixed", args: []string{"a", "0"}, expected: []byte{'a', 0}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ParseBytes(tc.args))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "(empty)", FormatBytes(nil))
	require.Equal(t, `6869 "hi"`, FormatBytes([]byte("hi")))
	require.Equal(t, `#3 code=0x01 6869 "hi"`,
		FormatFrame(uart.Frame{Seq: 3, Code: 1, Data: []byte("hi")}))
}

func newTestSim(t *testing.T) *Sim {
	conf := uart.NewConfig()
	conf.TxBufferSize, conf.RxBufferSize = 64, 64
	sim, err := NewSim(conf)
	require.NoError(t, err)
	return sim
}

func TestSimHostToFirmware(t *testing.T) {
	sim := newTestSim(t)
	frames, err := sim.Receive()
	require.NoError(t, err)
	require.Empty(t, frames)

	// longer than the hardware FIFO
	f, err := sim.HostSend(1, []byte("hello, firmware"))
	require.NoError(t, err)
	require.Equal(t, uart.FrameSeq(1), f.Seq)
	_, err = sim.HostSend(2, []byte{9})
	require.NoError(t, err)

	frames, err = sim.Receive()
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, uart.Frame{Seq: 1, Code: 1, Data: []byte("hello, firmware")}, frames[0])
	require.Equal(t, uart.Frame{Seq: 2, Code: 2, Data: []byte{9}}, frames[1])
	require.Equal(t, uint64(2), sim.Reader.Stats().Frames)

	_, err = sim.HostSend(1, make([]byte, uart.MaxFrameData+1))
	require.Equal(t, uart.ErrFrameTooLarge, err)
	require.Equal(t, uart.FrameSeq(3), sim.HostSeq)
}

func TestSimFirmwareToHost(t *testing.T) {
	sim := newTestSim(t)
	require.Empty(t, sim.HostDrain())
	require.NoError(t, sim.Writer.WriteFrame(3, []byte("abcdefgh")))
	expected, err := (&uart.Frame{Seq: 1, Code: 3, Data: []byte("abcdefgh")}).Bytes()
	require.NoError(t, err)
	require.Equal(t, expected, sim.HostDrain())
	require.Equal(t, 0, sim.Port.TxDataSize())
}

func TestFormatFrames(t *testing.T) {
	require.Equal(t, "none", FormatFrames(nil, "none"))
	require.Equal(t, "#1 code=0x02 (empty)\n#2 code=0x83 01 \"\\x01\"",
		FormatFrames([]uart.Frame{{Seq: 1, Code: 2}, {Seq: 2, Code: 0x83, Data: []byte{1}}}, "none"))
}
