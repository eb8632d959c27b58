package main

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mcu.go/pkg/uart"
)

// echo is the application of the simulated firmware: every request is
// replied with the same code and data.
type echo struct {
	reader *uart.FrameReader
	writer *uart.FrameWriter
	lock   sync.Mutex
}

func newEcho(port *uart.Port, inboxSize int) (*echo, error) {
	reader, err := uart.NewFrameReader(port, inboxSize)
	if err != nil {
		return nil, err
	}
	return &echo{reader: reader, writer: uart.NewFrameWriter(port)}, nil
}

func (e *echo) Name() string {
	return "echo"
}

// Run implements Runnable as the main loop of the firmware.
func (e *echo) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.poll()
		}
	}
}

func (e *echo) poll() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	if _, err := e.reader.Poll(); err != nil {
		glog.Warningf("echo: %v", err)
	}
	var n int
	for {
		f, ok := e.reader.Next()
		if !ok {
			return n
		}
		err := e.writer.Reply(f, f.Code, f.Data)
		if err == uart.ErrFrameTooLarge {
			err = e.writer.ReplyError(f, f.Code)
		}
		if err != nil {
			glog.Warningf("echo: reply to %d not sent: %v", f.Seq, err)
			continue
		}
		n++
	}
}

func (e *echo) Stats() uart.FrameStats {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.reader.Stats()
}
