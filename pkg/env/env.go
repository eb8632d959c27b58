// Package env sets up where a simulated port is served to the host.
package env

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/mcu.go/pkg/bridge"
	"github.com/robotalks/mcu.go/pkg/bridge/mqtt"
	"github.com/robotalks/mcu.go/pkg/bridge/stream"
	"github.com/robotalks/mcu.go/pkg/bridge/websocket"
	fx "github.com/robotalks/mcu.go/pkg/framework"
)

// AppID protects the machine ID used as default port ID.
const AppID = "mcu.go"

// Config provides common options to serve a port.
type Config struct {
	// PortID identifies the port, defaults to the protected machine ID.
	PortID string

	// EndpointURL specifies where the port is served, e.g.
	//   tcp://host:port
	//   ws://host:port/path
	//   mqtt://host:port/topic-prefix
	EndpointURL string
}

var defaultConfig = Config{
	EndpointURL: "tcp://localhost:7000",
}

func init() {
	if val := os.Getenv("MCU_PORT_ID"); val != "" {
		defaultConfig.PortID = val
	}
	if val := os.Getenv("MCU_ENDPOINT_URL"); val != "" {
		defaultConfig.EndpointURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.PortID, "port-id", defaultConfig.PortID, "Port ID, default is derived from machine ID.")
	flag.StringVar(&defaultConfig.EndpointURL, "endpoint", defaultConfig.EndpointURL, "Endpoint URL serving the port.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ID returns PortID or the one derived from the machine ID.
func (c *Config) ID() (string, error) {
	if c.PortID != "" {
		return c.PortID, nil
	}
	id, err := MachineID(AppID)
	if err != nil {
		return "", fmt.Errorf("machine ID: %w", err)
	}
	// topics don't need the full length
	if len(id) > 12 {
		id = id[:12]
	}
	return id, nil
}

// MustID returns ID and fails on error.
func (c *Config) MustID() string {
	id, err := c.ID()
	if err != nil {
		log.Fatalln(err)
	}
	return id
}

// ServeFunc serves one host connection. stats is nil if the endpoint
// doesn't publish statistics.
type ServeFunc func(ctx context.Context, conn bridge.PacketReadWriter, stats bridge.PacketWriter) error

// Endpoint serves the port to hosts.
type Endpoint struct {
	URL  *url.URL
	ID   string
	Meta mqtt.PortMeta
	Fn   ServeFunc
}

// NewEndpoint creates an Endpoint using current config.
func (c *Config) NewEndpoint(meta mqtt.PortMeta, fn ServeFunc) (*Endpoint, error) {
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %v", err)
	}
	switch u.Scheme {
	case "tcp", "ws", "mqtt":
	default:
		return nil, fmt.Errorf("unknown endpoint URL scheme: %q", u.Scheme)
	}
	id, err := c.ID()
	if err != nil {
		return nil, err
	}
	return &Endpoint{URL: u, ID: id, Meta: meta, Fn: fn}, nil
}

// MustNewEndpoint creates an Endpoint and fails on error.
func (c *Config) MustNewEndpoint(meta mqtt.PortMeta, fn ServeFunc) *Endpoint {
	ep, err := c.NewEndpoint(meta, fn)
	if err != nil {
		log.Fatalln(err)
	}
	return ep
}

// Name implements Named.
func (e *Endpoint) Name() string {
	return e.URL.Scheme + "://" + e.URL.Host
}

// Run implements Runnable.
func (e *Endpoint) Run(ctx context.Context) error {
	switch e.URL.Scheme {
	case "tcp":
		return e.serveStream(ctx)
	case "ws":
		return e.serveWebSocket(ctx)
	default:
		return e.serveMQTT(ctx)
	}
}

// serveStream accepts TCP connections, one host at a time.
func (e *Endpoint) serveStream(ctx context.Context) error {
	ln, err := net.Listen("tcp", e.URL.Host)
	if err != nil {
		return err
	}
	glog.Infof("port %s listening on %s", e.ID, ln.Addr())
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			glog.V(1).Infof("host %s connected", conn.RemoteAddr())
			if err := e.Fn(ctx, stream.New(conn), nil); err != nil && ctx.Err() == nil {
				glog.Warningf("host %s: %v", conn.RemoteAddr(), err)
			}
			conn.Close()
		}
	})
}

// serveWebSocket serves websocket connections on the URL path. All
// connections share one wire, so they are served one at a time.
func (e *Endpoint) serveWebSocket(ctx context.Context) error {
	var lock sync.Mutex
	path := e.URL.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Handler(ctx, func(ctx context.Context, rw *websocket.ReadWriter) error {
		lock.Lock()
		defer lock.Unlock()
		return e.Fn(ctx, rw, nil)
	}))
	server := &http.Server{Addr: e.URL.Host, Handler: mux}
	glog.Infof("port %s serving websocket on %s%s", e.ID, e.URL.Host, path)
	return fx.RunWithContextCloser(ctx, server, server.ListenAndServe)
}

// serveMQTT announces the port on the broker and exchanges packets on
// its topics, see mqtt.ReadWriter.ForFirmware.
func (e *Endpoint) serveMQTT(ctx context.Context) error {
	q, err := mqtt.NewPortQueue(e.URL.String(), e.ID, e.Meta)
	if err != nil {
		return err
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", e.URL.Host, token.Error())
	}
	defer q.Close()
	defer q.Withdraw(e.ID)
	glog.Infof("port %s online on %s", e.ID, e.URL.Host)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	rw := mqtt.NewPacketReadWriter(q).ForFirmware(e.ID)
	stats := mqtt.NewPacketReadWriter(q).WithTopics("", mqtt.StatsTopic(e.ID))
	return fx.NewRunnerWith(ctx).Go(
		fx.NamedRun("mqtt", rw),
		fx.NamedRun("bridge", fx.RunFunc(func(ctx context.Context) error {
			defer cancel()
			return e.Fn(ctx, rw, stats)
		})),
	).Wait()
}
