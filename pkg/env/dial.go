package env

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/robotalks/mcu.go/pkg/bridge"
	"github.com/robotalks/mcu.go/pkg/bridge/mqtt"
	"github.com/robotalks/mcu.go/pkg/bridge/stream"
	"github.com/robotalks/mcu.go/pkg/bridge/websocket"
)

// HostConn is the host side connection to a port.
type HostConn interface {
	bridge.PacketReadWriter
	Close() error
}

type mqttHostConn struct {
	*mqtt.ReadWriter
	queue  *mqtt.Queue
	cancel func()
}

func (c *mqttHostConn) Close() error {
	c.cancel()
	return c.queue.Close()
}

// Dial connects the host to the port served at EndpointURL.
func (c *Config) Dial() (HostConn, error) {
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %v", err)
	}
	switch u.Scheme {
	case "tcp":
		conn, err := net.Dial("tcp", u.Host)
		if err != nil {
			return nil, err
		}
		return stream.New(conn), nil
	case "ws":
		conn, err := websocket.Dial(c.EndpointURL, "http://"+u.Host)
		if err != nil {
			return nil, err
		}
		return conn, nil
	case "mqtt":
		if c.PortID == "" {
			return nil, fmt.Errorf("port ID required")
		}
		q, err := mqtt.NewQueueFromURL(c.EndpointURL)
		if err != nil {
			return nil, err
		}
		if token := q.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connect %s: %w", u.Host, token.Error())
		}
		ctx, cancel := context.WithCancel(context.Background())
		rw := mqtt.NewPacketReadWriter(q).ForHost(c.PortID)
		go rw.Run(ctx)
		return &mqttHostConn{ReadWriter: rw, queue: q, cancel: cancel}, nil
	default:
		return nil, fmt.Errorf("unknown endpoint URL scheme: %q", u.Scheme)
	}
}
