package mqtt

import (
	"context"
	"io"
	"sync"
)

// ReadWriter implements bridge.PacketReadWriter over a pair of topics.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
	doneCh   chan struct{}
	doneOnce sync.Once
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 16),
		doneCh:   make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForFirmware sets topics for the firmware side of a port:
// SubTopic = id/rx
// PubTopic = id/tx
func (p *ReadWriter) ForFirmware(portID string) *ReadWriter {
	return p.WithTopics(portID+"/rx", portID+"/tx")
}

// ForHost sets topics for the host side of a port:
// SubTopic = id/tx
// PubTopic = id/rx
func (p *ReadWriter) ForHost(portID string) *ReadWriter {
	return p.WithTopics(portID+"/tx", portID+"/rx")
}

// ReadPacket implements PacketReader. It returns io.EOF once Run stopped.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.doneCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Run implements Runnable, receiving packets until ctx is done.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, p.handleMsg)
	defer sub.Close()
	defer p.Close()
	<-ctx.Done()
	return ctx.Err()
}

// Close stops delivering packets.
func (p *ReadWriter) Close() error {
	p.doneOnce.Do(func() { close(p.doneCh) })
	return nil
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.doneCh:
	}
}
