package uart

import (
	"sync"

	"github.com/robotalks/mcu.go/pkg/lists"
)

// Hardware is the register level view of a UART peripheral.
type Hardware interface {
	// Configure sets the baudrate and enables the peripheral.
	Configure(baudrate int) error
	// TxFull indicates the transmit register can't take another byte.
	TxFull() bool
	// WriteTx writes one byte to the transmit register.
	WriteTx(b byte)
	// RxReady indicates a received byte is waiting.
	RxReady() bool
	// ReadRx reads one received byte.
	ReadRx() byte
}

// SimFIFODepth is the depth of the hardware FIFOs of SimHardware.
const SimFIFODepth = 4

// SimHardware simulates a UART peripheral with 4-deep hardware FIFOs.
// The other end of the wire is driven with HostRead and HostWrite,
// possibly from another goroutine.
type SimHardware struct {
	// Notify is called after HostWrite delivered bytes, to raise the
	// receive interrupt.
	Notify func()

	baudrate int
	tx       *lists.ByteFIFO
	rx       *lists.ByteFIFO
	overruns int
	lock     sync.Mutex
}

// NewSimHardware creates a SimHardware.
func NewSimHardware() *SimHardware {
	tx, _ := lists.NewByteFIFO(SimFIFODepth)
	rx, _ := lists.NewByteFIFO(SimFIFODepth)
	return &SimHardware{tx: tx, rx: rx}
}

// Configure implements Hardware.
func (h *SimHardware) Configure(baudrate int) error {
	if baudrate <= 0 {
		return ErrInvalidBaudrate
	}
	h.lock.Lock()
	h.baudrate = baudrate
	h.lock.Unlock()
	return nil
}

// Baudrate returns the configured baudrate.
func (h *SimHardware) Baudrate() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.baudrate
}

// TxFull implements Hardware.
func (h *SimHardware) TxFull() bool {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.tx.IsFull()
}

// WriteTx implements Hardware. Writing to a full register loses the byte.
func (h *SimHardware) WriteTx(b byte) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.tx.PushByte(b) != nil {
		h.overruns++
	}
}

// RxReady implements Hardware.
func (h *SimHardware) RxReady() bool {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.rx.IsNotEmpty()
}

// ReadRx implements Hardware. It reads 0 if nothing is received.
func (h *SimHardware) ReadRx() byte {
	h.lock.Lock()
	defer h.lock.Unlock()
	b, _ := h.rx.Pop()
	return b
}

// Overruns returns the number of bytes lost by writing a full register.
func (h *SimHardware) Overruns() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.overruns
}

// HostRead takes the bytes transmitted by the port, up to len(p).
func (h *SimHardware) HostRead(p []byte) int {
	h.lock.Lock()
	defer h.lock.Unlock()
	n := h.tx.DataSize()
	if n > len(p) {
		n = len(p)
	}
	h.tx.PopBlock(p[:n])
	return n
}

// HostWrite sends bytes to the port. It returns how many bytes fit into
// the receive FIFO, the caller retries with the rest once the port
// serviced its interrupt.
func (h *SimHardware) HostWrite(p []byte) int {
	h.lock.Lock()
	n := h.rx.AvailableSize()
	if n > len(p) {
		n = len(p)
	}
	h.rx.PushBlock(p[:n])
	notify := h.Notify
	h.lock.Unlock()
	if n > 0 && notify != nil {
		notify()
	}
	return n
}
