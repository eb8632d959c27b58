package uart

import (
	"context"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/mcu.go/pkg/framework"
	"github.com/robotalks/mcu.go/pkg/lists"
)

// Stats reports the state of a Port.
type Stats struct {
	TxBuffered      int
	TxFree          int
	RxBuffered      int
	RxFree          int
	ProtectPriority int
	// Sent counts bytes written to the hardware.
	Sent uint64
	// Received counts bytes stored in the receive buffer.
	Received uint64
	// Dropped counts received bytes lost because the buffer was full.
	Dropped uint64
	// Rejected counts Send* calls failing with ErrBufferOverflow.
	Rejected uint64
}

// Port is a buffered UART port.
type Port struct {
	// 64-bit counters first for atomic alignment
	sent     uint64
	received uint64
	dropped  uint64
	rejected uint64
	txFlag   uint32

	config      Config
	hw          Hardware
	mask        lists.Mask
	// handlerMask is raised by the interrupt handlers. It is mask while
	// handlers run as goroutines, and NoMask once the loop serializes them.
	handlerMask lists.Mask
	tx          *lists.ByteFIFO
	rx          *lists.ByteFIFO
	pend        func(level int)
}

// NewPort creates the buffers and configures the hardware.
// The port is protected by a MutexMask until AddToLoop is called, and
// the interrupt handlers may be called from any goroutine.
func NewPort(config Config, hw Hardware) (*Port, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	tx, err := lists.NewByteFIFO(config.TxBufferSize)
	if err != nil {
		return nil, ErrOutOfMemory
	}
	rx, err := lists.NewByteFIFO(config.RxBufferSize)
	if err != nil {
		return nil, ErrOutOfMemory
	}
	if err := hw.Configure(config.Baudrate); err != nil {
		return nil, err
	}
	glog.V(1).Infof("uart: tx %d bytes @%d, rx %d bytes @%d, protect @%d, %d bps",
		config.TxBufferSize, config.TxPriority, config.RxBufferSize, config.RxPriority,
		config.ProtectPriority(), config.Baudrate)
	mask := &lists.MutexMask{}
	return &Port{
		config:      config,
		hw:          hw,
		mask:        mask,
		handlerMask: mask,
		tx:          tx,
		rx:          rx,
	}, nil
}

// Config returns the configuration of the port.
func (p *Port) Config() Config {
	return p.config
}

// AddToLoop installs the interrupt handlers of the port in loop, and
// protects the port with the mask of loop. The receive handler is only
// installed if RxPriority is not 0. The loop holds its mask while
// servicing handlers, so the handlers must not raise it again.
func (p *Port) AddToLoop(loop *framework.Loop) {
	p.mask = loop.Mask()
	p.handlerMask = lists.NoMask{}
	p.pend = loop.Pend
	loop.AddHandler(p.TxLevel(), framework.ServiceFunc(func(context.Context) error {
		p.OnTxInterrupt()
		return nil
	}))
	if p.config.RxPriority > 0 {
		loop.AddHandler(p.RxLevel(), framework.ServiceFunc(func(context.Context) error {
			return p.OnRxInterrupt()
		}))
	}
}

// TxLevel is the framework.Loop level of the transmit interrupt.
func (p *Port) TxLevel() int {
	return loopLevel(p.config.TxPriority)
}

// RxLevel is the framework.Loop level of the receive interrupt.
func (p *Port) RxLevel() int {
	return loopLevel(p.config.RxPriority)
}

// RaiseRx requests the receive interrupt to be serviced.
func (p *Port) RaiseRx() {
	if p.pend != nil && p.config.RxPriority > 0 {
		p.pend(p.RxLevel())
	}
}

// SendByte queues one byte for transmission.
func (p *Port) SendByte(b byte) error {
	return p.send(func() error { return p.tx.PushByte(b) })
}

// SendTab queues all of data for transmission, or nothing.
func (p *Port) SendTab(data []byte) error {
	return p.send(func() error { return p.tx.PushBlock(data) })
}

// SendStr queues the bytes of s, without terminator.
func (p *Port) SendStr(s string) error {
	return p.send(func() error { return p.tx.PushStr(s) })
}

func (p *Port) send(push func() error) (err error) {
	lists.Protect(p.mask, func() { err = push() })
	atomic.StoreUint32(&p.txFlag, 1)
	if p.pend != nil {
		p.pend(p.TxLevel())
	}
	if err != nil {
		atomic.AddUint64(&p.rejected, 1)
		glog.Warningf("uart: transmit buffer overflow")
		return ErrBufferOverflow
	}
	return nil
}

// Write implements io.Writer. It writes all of data or nothing.
func (p *Port) Write(data []byte) (int, error) {
	if err := p.SendTab(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// TxDataSize returns the number of bytes waiting for transmission.
func (p *Port) TxDataSize() (n int) {
	lists.Protect(p.mask, func() { n = p.tx.DataSize() })
	return
}

// RxDataSize returns the number of received bytes not read yet.
func (p *Port) RxDataSize() (n int) {
	lists.Protect(p.mask, func() { n = p.rx.DataSize() })
	return
}

// ReceiveByte reads one received byte, ok is false if none is available.
func (p *Port) ReceiveByte() (b byte, ok bool) {
	lists.Protect(p.mask, func() { b, ok = p.rx.Pop() })
	return
}

// ReadTab reads exactly len(data) received bytes, or nothing and returns
// ErrNotEnoughData.
func (p *Port) ReadTab(data []byte) (err error) {
	lists.Protect(p.mask, func() { err = p.rx.PopBlock(data) })
	return
}

// Read implements io.Reader without blocking: it reads what is received,
// up to len(data). It returns ErrNotEnoughData if nothing is received.
func (p *Port) Read(data []byte) (n int, err error) {
	if len(data) == 0 {
		return 0, nil
	}
	lists.Protect(p.mask, func() {
		if n = p.rx.DataSize(); n > len(data) {
			n = len(data)
		}
		p.rx.PopBlock(data[:n])
	})
	if n == 0 {
		err = ErrNotEnoughData
	}
	return
}

// OnTxInterrupt moves queued bytes to the hardware until it's full.
// It only does something while the transmit flag is raised, and the flag
// stays raised until the transmit buffer is drained.
func (p *Port) OnTxInterrupt() {
	if atomic.LoadUint32(&p.txFlag) == 0 {
		return
	}
	var n uint64
	lists.Protect(p.handlerMask, func() {
		for !p.hw.TxFull() {
			b, ok := p.tx.Pop()
			if !ok {
				break
			}
			p.hw.WriteTx(b)
			n++
		}
		if p.tx.IsEmpty() {
			atomic.StoreUint32(&p.txFlag, 0)
		}
	})
	if n > 0 {
		atomic.AddUint64(&p.sent, n)
		glog.V(2).Infof("uart: tx %d bytes", n)
	}
}

// OnRxInterrupt moves every received byte from the hardware to the
// receive buffer. When the buffer is full the newest bytes are dropped
// and ErrBufferOverflow is returned once the hardware is drained.
func (p *Port) OnRxInterrupt() error {
	var received, dropped uint64
	lists.Protect(p.handlerMask, func() {
		for p.hw.RxReady() {
			if p.rx.PushByte(p.hw.ReadRx()) != nil {
				dropped++
			} else {
				received++
			}
		}
	})
	if received > 0 {
		atomic.AddUint64(&p.received, received)
		glog.V(2).Infof("uart: rx %d bytes", received)
	}
	if dropped > 0 {
		atomic.AddUint64(&p.dropped, dropped)
		glog.Warningf("uart: receive buffer overflow, %d bytes dropped", dropped)
		return ErrBufferOverflow
	}
	return nil
}

// Stats returns the statistics of the port.
func (p *Port) Stats() (s Stats) {
	lists.Protect(p.mask, func() {
		s.TxBuffered, s.TxFree = p.tx.DataSize(), p.tx.AvailableSize()
		s.RxBuffered, s.RxFree = p.rx.DataSize(), p.rx.AvailableSize()
	})
	s.ProtectPriority = p.config.ProtectPriority()
	s.Sent = atomic.LoadUint64(&p.sent)
	s.Received = atomic.LoadUint64(&p.received)
	s.Dropped = atomic.LoadUint64(&p.dropped)
	s.Rejected = atomic.LoadUint64(&p.rejected)
	return
}
