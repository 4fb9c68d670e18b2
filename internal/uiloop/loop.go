// Package uiloop provides the single goroutine that owns presentation state.
// Everything that touches a presenter is posted here and runs in order.
package uiloop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Do when the loop is no longer running.
var ErrStopped = errors.New("ui loop stopped")

const defaultQueueSize = 64

// Loop is a serial executor.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// New creates a loop; call Run to start draining it.
func New() *Loop {
	return &Loop{
		tasks: make(chan func(), defaultQueueSize),
		done:  make(chan struct{}),
	}
}

// Run executes posted tasks until ctx is cancelled or Stop is called.
// Tasks still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-l.done:
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn and reports whether it was accepted.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do posts fn and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop terminates the loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} { return l.done }
