// Package stream carries packets over a byte stream, e.g. a TCP connection.
package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"sync"
)

// DefaultMaxPacketSize is the largest packet accepted by default.
const DefaultMaxPacketSize = 64 * 1024

// ErrPacketTooLarge indicates a packet exceeds MaxPacketSize.
var ErrPacketTooLarge = errors.New("packet too large")

// ReadWriter implements bridge.PacketReadWriter.
// Each packet is prefixed by 4 bytes (little-endian) indicating the length.
type ReadWriter struct {
	MaxPacketSize int

	conn      io.ReadWriter
	reader    *bufio.Reader
	writeLock sync.Mutex
}

// New creates a ReadWriter on a stream.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{
		MaxPacketSize: DefaultMaxPacketSize,
		conn:          s,
		reader:        bufio.NewReader(s),
	}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(p.reader, head[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(head[:])
	if int64(size) > int64(p.MaxPacketSize) {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p.reader, pkt); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements PacketWriter. Concurrent writes don't interleave.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > p.MaxPacketSize {
		return ErrPacketTooLarge
	}
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	p.writeLock.Lock()
	defer p.writeLock.Unlock()
	_, err := p.conn.Write(buf)
	return err
}

// Close closes the underlying stream if it's a Closer.
func (p *ReadWriter) Close() error {
	if closer, ok := p.conn.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
