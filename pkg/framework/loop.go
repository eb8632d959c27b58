package framework

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mcu.go/pkg/lists"
)

// Loop simulates the interrupt controller of a microcontroller.
// Handlers are registered at a priority level and serviced from a single
// goroutine, the most urgent level first, on every tick or as soon as
// their level is pended.
//
// While handlers of a level run, the Loop holds its mask, so code running
// outside of the Loop and protected by Mask() never overlaps a handler.
// Handlers already run masked and must not raise Mask() themselves.
type Loop struct {
	Interval time.Duration

	handlers [PriorityLevels][]Handler
	runners  []Runnable
	pending  uint32
	lock     sync.Mutex

	wakeUpCh chan struct{}
}

type loopMask struct {
	loop *Loop
}

// Raise implements lists.Mask.
func (m loopMask) Raise() func() {
	m.loop.lock.Lock()
	return m.loop.lock.Unlock
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{
		Interval: 10 * time.Millisecond,
		wakeUpCh: make(chan struct{}, 1),
	}
}

// AddHandler registers handlers at a priority level.
func (l *Loop) AddHandler(level int, handlers ...Handler) *Loop {
	if !ValidPriority(level) {
		panic("invalid priority level")
	}
	l.lock.Lock()
	l.handlers[level] = append(l.handlers[level], handlers...)
	l.lock.Unlock()
	return l
}

// AddRunnable adds Runnables started and stopped together with the Loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Mask returns the mask keeping all handlers of the loop out.
func (l *Loop) Mask() lists.Mask {
	return loopMask{loop: l}
}

// Pend raises the interrupt flag of a level, its handlers are serviced
// without waiting for the next tick.
func (l *Loop) Pend(level int) {
	for {
		old := atomic.LoadUint32(&l.pending)
		if atomic.CompareAndSwapUint32(&l.pending, old, old|1<<uint(level)) {
			break
		}
	}
	l.wakeUp()
}

// TriggerNext services all levels immediately.
func (l *Loop) TriggerNext() {
	atomic.StoreUint32(&l.pending, 1<<uint(PriorityLevels)-1)
	l.wakeUp()
}

func (l *Loop) wakeUp() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval == 0 {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			atomic.StoreUint32(&l.pending, 0)
			l.service(ctx, 1<<uint(PriorityLevels)-1)
		case <-l.wakeUpCh:
			l.service(ctx, atomic.SwapUint32(&l.pending, 0))
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.TODO()); err != nil {
		log.Fatalln(err)
	}
}

// ServiceAll services every level once from the caller's goroutine.
func (l *Loop) ServiceAll(ctx context.Context) {
	l.service(ctx, 1<<uint(PriorityLevels)-1)
}

func (l *Loop) service(ctx context.Context, levels uint32) {
	for level := 0; level < PriorityLevels; level++ {
		if levels&(1<<uint(level)) == 0 {
			continue
		}
		l.lock.Lock()
		for _, h := range l.handlers[level] {
			if err := h.Service(ctx); err != nil {
				glog.Errorf("handler error at level %d: %v", level, err)
			}
		}
		l.lock.Unlock()
	}
}
