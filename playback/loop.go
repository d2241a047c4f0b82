package playback

import (
	"context"
	"sync"
	"time"
)

// Scheduler arms a one-shot callback that runs no earlier than delay from now
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func())
}

// Loop runs submitted commands and fired timers one at a time on the goroutine
// calling Run, so the controller it drives never sees concurrent calls.
type Loop struct {
	cmds chan func()
	done chan struct{}
	once sync.Once

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

// NewLoop creates a loop; call Run to start processing
func NewLoop() *Loop {
	return &Loop{
		cmds:   make(chan func()),
		done:   make(chan struct{}),
		timers: make(map[*time.Timer]struct{}),
	}
}

// Run processes commands until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.cmds:
			fn()
		}
	}
}

// Do queues fn for the loop goroutine and reports whether it was accepted.
// It blocks until the loop picks fn up or has stopped.
func (l *Loop) Do(fn func()) bool {
	select {
	case l.cmds <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for it to finish
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	if !l.Do(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	<-finished
	return true
}

// AfterFunc implements Scheduler: once delay has passed, fn is queued on the loop
func (l *Loop) AfterFunc(delay time.Duration, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-l.done:
		return
	default:
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		l.mu.Lock()
		delete(l.timers, t)
		l.mu.Unlock()
		l.Do(fn)
	})
	l.timers[t] = struct{}{}
}

func (l *Loop) stop() {
	l.once.Do(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		close(l.done)
		for t := range l.timers {
			t.Stop()
		}
		clear(l.timers)
	})
}
