package env

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcu.go/pkg/bridge"
	"github.com/robotalks/mcu.go/pkg/bridge/mqtt"
	"github.com/robotalks/mcu.go/pkg/bridge/stream"
)

func TestNewEndpoint(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		invalid  bool
	}{
		{name: "tcp", url: "tcp://localhost:7000", expected: "tcp://localhost:7000"},
		{name: "websocket", url: "ws://:8080/uart", expected: "ws://:8080"},
		{name: "mqtt", url: "mqtt://broker:1883/mcu/", expected: "mqtt://broker:1883"},
		{name: "unknown scheme", url: "udp://localhost:7000", invalid: true},
		{name: "bad url", url: "tcp://%zz", invalid: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := NewConfig()
			conf.PortID, conf.EndpointURL = "port0", tc.url
			ep, err := conf.NewEndpoint(mqtt.PortMeta{}, nil)
			if tc.invalid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "port0", ep.ID)
			require.Equal(t, tc.expected, ep.Name())
		})
	}
}

func TestNewConfigCopies(t *testing.T) {
	conf := NewConfig()
	conf.PortID = "changed"
	require.NotEqual(t, "changed", Default().PortID)
}

func TestServeStream(t *testing.T) {
	// reserve a free port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	conf := NewConfig()
	conf.PortID, conf.EndpointURL = "port0", "tcp://"+addr
	ep := conf.MustNewEndpoint(mqtt.PortMeta{}, func(ctx context.Context, conn bridge.PacketReadWriter, stats bridge.PacketWriter) error {
		if stats != nil {
			return errors.New("unexpected stats writer")
		}
		pkt, err := conn.ReadPacket()
		if err != nil {
			return err
		}
		return conn.WritePacket(append(pkt, '!'))
	})

	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan error, 1)
	go func() { doneCh <- ep.Run(ctx) }()

	var conn net.Conn
	for i := 0; i < 100; i++ {
		if conn, err = net.Dial("tcp", addr); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	rw := stream.New(conn)
	require.NoError(t, rw.WritePacket([]byte("hi")))
	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("hi!"), pkt)
	rw.Close()

	cancel()
	require.Equal(t, context.Canceled, <-doneCh)
}

func TestDialInvalid(t *testing.T) {
	testCases := []struct {
		name string
		conf Config
	}{
		{name: "unknown scheme", conf: Config{EndpointURL: "udp://localhost:7000"}},
		{name: "bad url", conf: Config{EndpointURL: "tcp://%zz"}},
		{name: "mqtt without port", conf: Config{EndpointURL: "mqtt://localhost:1883/"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conn, err := tc.conf.Dial()
			require.Error(t, err)
			require.Nil(t, conn)
		})
	}
}
