package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/mcu.go/pkg/framework"
	"github.com/robotalks/mcu.go/pkg/uart"
)

func TestEcho(t *testing.T) {
	conf := uart.NewConfig()
	hw := uart.NewSimHardware()
	port, err := conf.NewPort(hw)
	require.NoError(t, err)
	app, err := newEcho(port, 64)
	require.NoError(t, err)
	loop := fx.NewLoop()
	port.AddToLoop(loop)
	service := func() { loop.ServiceAll(context.Background()) }

	in := uart.Frame{Seq: 1, Code: 4, Data: []byte("ping")}
	b, err := in.Bytes()
	require.NoError(t, err)
	for len(b) > 0 {
		b = b[hw.HostWrite(b):]
		service()
	}
	require.Equal(t, 1, app.poll())
	require.Equal(t, uint64(1), app.Stats().Frames)

	var out []byte
	buf := make([]byte, uart.SimFIFODepth)
	for {
		service()
		n := hw.HostRead(buf)
		if n == 0 {
			break
		}
		out = append(out, buf[:n]...)
	}
	reply := uart.Frame{Seq: 1, Code: 4, Data: append([]byte{1}, "ping"...)}
	expected, err := reply.Bytes()
	require.NoError(t, err)
	require.Equal(t, expected, out)
}
