// Package msgs defines the messages published by the bridge.
package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/mcu.go/pkg/uart"
)

// PortStats reports buffer statistics of a port.
type PortStats struct {
	PortID     string `protobuf:"bytes,1,opt,name=port_id,proto3" json:"port_id,omitempty"`
	TxBuffered uint32 `protobuf:"varint,2,opt,name=tx_buffered,proto3" json:"tx_buffered,omitempty"`
	TxFree     uint32 `protobuf:"varint,3,opt,name=tx_free,proto3" json:"tx_free,omitempty"`
	RxBuffered uint32 `protobuf:"varint,4,opt,name=rx_buffered,proto3" json:"rx_buffered,omitempty"`
	RxFree     uint32 `protobuf:"varint,5,opt,name=rx_free,proto3" json:"rx_free,omitempty"`
	Sent       uint64 `protobuf:"varint,6,opt,name=sent,proto3" json:"sent,omitempty"`
	Received   uint64 `protobuf:"varint,7,opt,name=received,proto3" json:"received,omitempty"`
	Dropped    uint64 `protobuf:"varint,8,opt,name=dropped,proto3" json:"dropped,omitempty"`
	Rejected   uint64 `protobuf:"varint,9,opt,name=rejected,proto3" json:"rejected,omitempty"`
	Frames     uint64 `protobuf:"varint,10,opt,name=frames,proto3" json:"frames,omitempty"`
	Resyncs    uint64 `protobuf:"varint,11,opt,name=resyncs,proto3" json:"resyncs,omitempty"`
}

// NewPortStats fills PortStats from the port and frame statistics.
func NewPortStats(portID string, s uart.Stats, fs uart.FrameStats) *PortStats {
	return &PortStats{
		PortID:     portID,
		TxBuffered: uint32(s.TxBuffered),
		TxFree:     uint32(s.TxFree),
		RxBuffered: uint32(s.RxBuffered),
		RxFree:     uint32(s.RxFree),
		Sent:       s.Sent,
		Received:   s.Received,
		Dropped:    s.Dropped,
		Rejected:   s.Rejected,
		Frames:     fs.Frames,
		Resyncs:    fs.Resyncs,
	}
}

// ProtoMessage implements proto.Message.
func (m *PortStats) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PortStats) Reset() { *m = PortStats{} }

// String implements proto.Message.
func (m *PortStats) String() string { return proto.CompactTextString(m) }

// Encode serializes the message.
func (m *PortStats) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodePortStats parses a serialized PortStats.
func DecodePortStats(b []byte) (*PortStats, error) {
	m := &PortStats{}
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, err
	}
	return m, nil
}
