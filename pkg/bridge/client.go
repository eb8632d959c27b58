package bridge

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/mcu.go/pkg/framework"
	"github.com/robotalks/mcu.go/pkg/lists"
	"github.com/robotalks/mcu.go/pkg/uart"
)

// ClientInboxSize is the size of the inbox decoding frames on the host.
const ClientInboxSize = 1024

// Result is the result of a request using Do.
type Result struct {
	Err  error
	Code byte
	Data []byte
}

// Command represents a pending request waiting for reply.
type Command struct {
	requestSeq uart.FrameSeq
	resultCh   chan Result
}

// RequestSeq returns the request frame seq.
func (c *Command) RequestSeq() uart.FrameSeq {
	return c.requestSeq
}

// ResultChan returns the chan to retrieve result.
func (c *Command) ResultChan() <-chan Result {
	return c.resultCh
}

// Wait waits for the result until ctx is done.
func (c *Command) Wait(ctx context.Context) Result {
	select {
	case r := <-c.resultCh:
		return r
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

// Client sends requests to the firmware behind a bridge and matches
// replies, see uart.FrameWriter.Reply.
type Client struct {
	conn    PacketReadWriter
	rx      bytes.Buffer
	reader  *uart.FrameReader
	eventCh chan uart.Frame

	seq      uart.FrameSeq
	cmds     *lists.LinkedList[*Command]
	cmdsLock sync.Mutex
}

// NewClient creates a Client on the connection to a bridge.
func NewClient(conn PacketReadWriter) *Client {
	c := &Client{
		conn:    conn,
		eventCh: make(chan uart.Frame, 16),
		seq:     uart.FrameSeq(0).Next(),
		cmds:    lists.NewLinkedList[*Command](nil),
	}
	reader, err := uart.NewFrameReader(&c.rx, ClientInboxSize)
	if err != nil {
		panic(err)
	}
	c.reader = reader
	return c
}

// EventChan retrieves the event reporting chan.
func (c *Client) EventChan() <-chan uart.Frame {
	return c.eventCh
}

// Pending returns the number of requests waiting for reply.
func (c *Client) Pending() int {
	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	return c.cmds.Size()
}

// DoWith sends a request and expects a result in the provided chan.
func (c *Client) DoWith(code byte, data []byte, ch chan Result) *Command {
	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	cmd := &Command{requestSeq: c.seq, resultCh: ch}
	f := uart.Frame{Seq: c.seq, Code: code &^ uart.FrameEvent, Data: data}
	pkt, err := f.Bytes()
	if err == nil {
		err = c.conn.WritePacket(pkt)
	}
	if err != nil {
		cmd.resultCh <- Result{Err: err}
		return cmd
	}
	c.seq = c.seq.Next()
	c.cmds.AddLast(cmd)
	return cmd
}

// Do sends a request and returns a Command for result.
func (c *Client) Do(code byte, data []byte) *Command {
	return c.DoWith(code, data, make(chan Result, 1))
}

// Run implements Runnable. Pending requests fail with ErrClosed once it
// returns.
func (c *Client) Run(ctx context.Context) error {
	defer c.fail(ErrClosed)
	return fx.RunWithContextCancel(ctx, func() {
		if closer, ok := c.conn.(io.Closer); ok {
			closer.Close()
		}
	}, func() error {
		for {
			pkt, err := c.conn.ReadPacket()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			c.rx.Write(pkt)
			if _, err := c.reader.Poll(); err != nil {
				glog.Warningf("client: %v", err)
			}
			for {
				f, ok := c.reader.Next()
				if !ok {
					break
				}
				c.handleFrame(f)
			}
		}
	})
}

func (c *Client) handleFrame(f uart.Frame) {
	if f.Code&uart.FrameEvent != 0 {
		select {
		case c.eventCh <- f:
		default:
			glog.Warningf("client: event %d dropped", f.Seq)
		}
		return
	}
	if len(f.Data) == 0 {
		// invalid reply.
		return
	}
	seq := uart.FrameSeq(f.Data[0])
	if !seq.IsValid() {
		return
	}
	match := func(cmd *Command) bool { return cmd.requestSeq == seq }
	var skipped []*Command
	c.cmdsLock.Lock()
	cmd, ok := c.cmds.GetFilter(match)
	for ok {
		head, _ := c.cmds.RemoveFirst()
		if head == cmd {
			break
		}
		skipped = append(skipped, head)
	}
	c.cmdsLock.Unlock()
	if !ok {
		glog.V(1).Infof("client: reply to unknown request %d", seq)
		return
	}
	for _, head := range skipped {
		head.resultCh <- Result{Err: ErrNoReply}
	}
	if f.Code&uart.FrameError != 0 {
		cmd.resultCh <- Result{Err: &CommandError{Code: f.Code &^ uart.FrameError}}
	} else {
		cmd.resultCh <- Result{Code: f.Code, Data: f.Data[1:]}
	}
}

func (c *Client) fail(err error) {
	c.cmdsLock.Lock()
	var cmds []*Command
	c.cmds.RemoveIf(func(cmd *Command) bool {
		cmds = append(cmds, cmd)
		return true
	})
	c.cmdsLock.Unlock()
	for _, cmd := range cmds {
		cmd.resultCh <- Result{Err: err}
	}
}
