package bridge

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mcu.go/pkg/bridge/msgs"
	fx "github.com/robotalks/mcu.go/pkg/framework"
)

// DefaultPollInterval is how often the wire is polled when idle.
const DefaultPollInterval = time.Millisecond

// StatsFunc collects the statistics to publish.
type StatsFunc func() *msgs.PortStats

// Bridge pumps bytes between a Wire and a PacketReadWriter.
type Bridge struct {
	Wire Wire
	Conn PacketReadWriter

	// MaxPacketSize limits the bytes forwarded in one packet.
	MaxPacketSize int
	PollInterval  time.Duration

	// Stats are written to StatsWriter every StatsInterval when both are set.
	Stats         StatsFunc
	StatsWriter   PacketWriter
	StatsInterval time.Duration
}

// New creates a Bridge.
func New(wire Wire, conn PacketReadWriter) *Bridge {
	return &Bridge{
		Wire:          wire,
		Conn:          conn,
		MaxPacketSize: 256,
		PollInterval:  DefaultPollInterval,
		StatsInterval: time.Second,
	}
}

// Run implements Runnable. It stops when ctx is done or any pump fails,
// closing the connection if it's a Closer.
func (b *Bridge) Run(ctx context.Context) error {
	pumpCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pump := func(name string, fn func(context.Context) error) fx.Runnable {
		return fx.NamedRun(name, fx.RunFunc(func(ctx context.Context) error {
			defer cancel()
			return fn(ctx)
		}))
	}
	runner := fx.NewRunnerWith(pumpCtx)
	runner.Go(pump("uplink", b.uplink), pump("downlink", b.downlink))
	if b.Stats != nil && b.StatsWriter != nil {
		runner.Go(pump("stats", b.publishStats))
	}
	go func() {
		<-pumpCtx.Done()
		if closer, ok := b.Conn.(io.Closer); ok {
			closer.Close()
		}
	}()
	if err := runner.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (b *Bridge) interval() time.Duration {
	if b.PollInterval > 0 {
		return b.PollInterval
	}
	return DefaultPollInterval
}

func (b *Bridge) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.interval()):
		return nil
	}
}

// uplink forwards bytes transmitted by the firmware.
func (b *Bridge) uplink(ctx context.Context) error {
	size := b.MaxPacketSize
	if size <= 0 {
		size = 256
	}
	buf := make([]byte, size)
	for {
		n := b.Wire.HostRead(buf)
		if n == 0 {
			if err := b.sleep(ctx); err != nil {
				return err
			}
			continue
		}
		glog.V(3).Infof("bridge: uplink %d bytes", n)
		if err := b.Conn.WritePacket(append([]byte(nil), buf[:n]...)); err != nil {
			return err
		}
	}
}

// downlink feeds received packets to the firmware, waiting for room on
// the wire rather than dropping bytes.
func (b *Bridge) downlink(ctx context.Context) error {
	for {
		pkt, err := b.Conn.ReadPacket()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == io.EOF {
				glog.V(1).Info("bridge: connection closed by peer")
				return nil
			}
			return err
		}
		glog.V(3).Infof("bridge: downlink %d bytes", len(pkt))
		for len(pkt) > 0 {
			n := b.Wire.HostWrite(pkt)
			if pkt = pkt[n:]; n == 0 {
				if err := b.sleep(ctx); err != nil {
					return err
				}
			}
		}
	}
}

func (b *Bridge) publishStats(ctx context.Context) error {
	interval := b.StatsInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		pkt, err := b.Stats().Encode()
		if err != nil {
			return err
		}
		if err := b.StatsWriter.WritePacket(pkt); err != nil {
			glog.Warningf("bridge: publish stats: %v", err)
		}
	}
}
