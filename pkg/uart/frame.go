package uart

import (
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/mcu.go/pkg/lists"
)

// MaxFrameData is the largest data a frame carries.
const MaxFrameData = 0x7f

// FrameSeq is the sequence number of a frame.
type FrameSeq byte

// Next calculates the next sequence number.
func (s FrameSeq) Next() FrameSeq {
	n := byte(s) + 1
	if n == 0 || n >= 0xf0 {
		n = 1
	}
	return FrameSeq(n)
}

// IsValid checks if it's a valid sequence number.
func (s FrameSeq) IsValid() bool {
	n := byte(s)
	return n > 0 && n < 0xf0
}

// Frame is a packet carried over a port.
type Frame struct {
	Seq  FrameSeq
	Code byte
	Data []byte
}

// Bytes encodes the frame.
func (f *Frame) Bytes() ([]byte, error) {
	l := len(f.Data)
	if l > MaxFrameData {
		return nil, ErrFrameTooLarge
	}
	b := make([]byte, 0, l+3)
	if l < 7 {
		b = append(b, byte(f.Seq), f.Code&0x8f|byte(l)<<4)
	} else {
		b = append(b, byte(f.Seq), f.Code&0x8f|0x70, byte(l))
	}
	return append(b, f.Data...), nil
}

// WriteTo implements io.WriterTo.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	b, err := f.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// Flags in the code of frames sent by the firmware.
const (
	// FrameEvent flags a frame which doesn't reply to any request.
	FrameEvent byte = 0x80
	// FrameError flags a reply reporting the request failed.
	FrameError byte = 0x01
)

// FrameWriter sends frames with increasing sequence numbers.
type FrameWriter struct {
	port *Port
	seq  FrameSeq
}

// NewFrameWriter creates a FrameWriter on a port.
func NewFrameWriter(port *Port) *FrameWriter {
	return &FrameWriter{port: port, seq: FrameSeq(0).Next()}
}

// WriteFrame queues a frame for transmission, entirely or not at all.
// The sequence number only advances when the frame is queued.
func (w *FrameWriter) WriteFrame(code byte, data []byte) error {
	f := Frame{Seq: w.seq, Code: code, Data: data}
	b, err := f.Bytes()
	if err != nil {
		return err
	}
	if err := w.port.SendTab(b); err != nil {
		return err
	}
	w.seq = w.seq.Next()
	return nil
}

// Reply answers req. The data of a reply starts with the sequence number
// of the request.
func (w *FrameWriter) Reply(req Frame, code byte, data []byte) error {
	if len(data) >= MaxFrameData {
		return ErrFrameTooLarge
	}
	reply := make([]byte, 0, len(data)+1)
	reply = append(append(reply, byte(req.Seq)), data...)
	return w.WriteFrame(code&^(FrameEvent|FrameError), reply)
}

// ReplyError tells req failed with an error code.
func (w *FrameWriter) ReplyError(req Frame, code byte) error {
	return w.WriteFrame(code&^FrameEvent|FrameError, []byte{byte(req.Seq)})
}

// Event sends a frame not replying to any request.
func (w *FrameWriter) Event(code byte, data []byte) error {
	return w.WriteFrame(code|FrameEvent, data)
}

// FrameStats reports the activity of a FrameReader.
type FrameStats struct {
	Frames  uint64
	Resyncs uint64
	Gaps    uint64
	Dropped uint64
}

type parseState int

const (
	stateSeq  parseState = iota // waiting for frame seq
	stateCode                   // waiting for frame code
	stateLen                    // waiting for frame length
	stateData                   // waiting for frame data
)

// frame records in the inbox are [seq] [code] [data...]
const frameRecordHeader = 2

// FrameReader decodes frames received by a port, or any non-blocking
// reader, and keeps complete frames in an ObjectFIFO inbox until they
// are read. It must be used from a single context.
type FrameReader struct {
	src   io.Reader
	inbox *lists.ObjectFIFO

	state   parseState
	seq     FrameSeq
	lastSeq FrameSeq
	code    byte
	data    [MaxFrameData]byte
	dataLen int
	recvLen int
	stats   FrameStats
}

// NewFrameReader creates a FrameReader with an inbox of inboxSize bytes.
// Reading src must not block, it's usually a *Port.
func NewFrameReader(src io.Reader, inboxSize int) (*FrameReader, error) {
	inbox, err := lists.NewObjectFIFO(inboxSize)
	if err != nil {
		return nil, err
	}
	return &FrameReader{src: src, inbox: inbox}, nil
}

// Poll decodes all bytes received so far. It returns the number of frames
// completed, and ErrBufferOverflow if some were dropped because the inbox
// was full.
func (r *FrameReader) Poll() (frames int, err error) {
	var buf [32]byte
	for {
		n, _ := r.src.Read(buf[:])
		if n == 0 {
			return
		}
		for _, b := range buf[:n] {
			if !r.parse(b) {
				continue
			}
			if r.store() {
				frames++
			} else {
				err = ErrBufferOverflow
			}
		}
	}
}

// parse consumes one byte and tells if a frame is complete.
func (r *FrameReader) parse(b byte) bool {
	switch r.state {
	case stateSeq:
		seq := FrameSeq(b)
		if !seq.IsValid() {
			r.stats.Resyncs++
			return false
		}
		if r.lastSeq.IsValid() && seq != r.lastSeq.Next() {
			r.stats.Gaps++
		}
		r.seq, r.lastSeq = seq, seq
		r.state = stateCode
	case stateCode:
		r.code = b & 0x8f
		r.recvLen = 0
		switch l := int(b>>4) & 7; l {
		case 0:
			r.dataLen = 0
			return r.complete()
		case 7:
			r.state = stateLen
		default:
			r.dataLen, r.state = l, stateData
		}
	case stateLen:
		if b > MaxFrameData {
			r.stats.Resyncs++
			r.state = stateSeq
			return false
		}
		if r.dataLen = int(b); r.dataLen == 0 {
			return r.complete()
		}
		r.state = stateData
	case stateData:
		r.data[r.recvLen] = b
		if r.recvLen++; r.recvLen >= r.dataLen {
			return r.complete()
		}
	}
	return false
}

func (r *FrameReader) complete() bool {
	r.state = stateSeq
	return true
}

func (r *FrameReader) store() bool {
	rec, err := r.inbox.Allocate(frameRecordHeader + r.dataLen)
	if err != nil {
		r.stats.Dropped++
		glog.Warningf("uart: frame inbox full, frame %d dropped", r.seq)
		return false
	}
	rec[0], rec[1] = byte(r.seq), r.code
	copy(rec[frameRecordHeader:], r.data[:r.dataLen])
	r.stats.Frames++
	return true
}

// Pending returns the number of frames in the inbox.
func (r *FrameReader) Pending() int {
	return r.inbox.ObjectNb()
}

// Next removes the oldest frame from the inbox.
func (r *FrameReader) Next() (f Frame, ok bool) {
	rec, ok := r.inbox.Get()
	if !ok {
		return
	}
	f.Seq, f.Code = FrameSeq(rec[0]), rec[1]
	f.Data = append([]byte(nil), rec[frameRecordHeader:]...)
	r.inbox.Pop()
	return f, true
}

// Stats returns the statistics of the reader.
func (r *FrameReader) Stats() FrameStats {
	return r.stats
}
