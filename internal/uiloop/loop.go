// Package uiloop provides the single scheduling context that owns screen
// state. Work produced on other goroutines is posted back to the loop instead
// of mutating screen state directly.
package uiloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned when work is posted to a loop that has been stopped.
var ErrStopped = errors.New("ui loop stopped")

// Loop runs posted tasks one at a time, in order, on a single goroutine.
//
// The loop ends when its context is done or Stop is called. From then on
// Post reports false and Call returns ErrStopped. Tasks accepted before the
// end still run on the loop goroutine as it exits.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// New creates a loop whose queue holds up to buffer pending tasks before
// Post blocks.
func New(buffer int) *Loop {
	if buffer < 0 {
		buffer = 0
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		quit:  make(chan struct{}),
	}
}

// Start runs the loop on a new goroutine until ctx is done or Stop is called.
func (l *Loop) Start(ctx context.Context) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.Run(ctx)
	}()
}

// Run drains the queue on the calling goroutine until ctx is done or Stop is
// called, then closes the loop and runs the tasks it had already accepted.
func (l *Loop) Run(ctx context.Context) {
	defer l.drain()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.quit:
			return
		case task := <-l.tasks:
			l.run(task)
		}
	}
}

// drain closes the loop to new work and runs what was already accepted.
func (l *Loop) drain() {
	l.close()
	for {
		select {
		case task := <-l.tasks:
			l.run(task)
		default:
			return
		}
	}
}

// close unblocks pending senders, then waits for them to leave so that no
// task can be queued afterwards.
func (l *Loop) close() {
	l.once.Do(func() {
		close(l.quit)
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()
	})
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Recovered panic in ui loop task", "panic", r)
		}
	}()
	task()
}

func (l *Loop) enqueue(ctx context.Context, task func()) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.stopped {
		return ErrStopped
	}
	select {
	case <-l.quit:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- task:
		return nil
	case <-l.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post enqueues task. It reports false once the loop has ended.
func (l *Loop) Post(task func()) bool {
	return l.enqueue(context.Background(), task) == nil
}

// Call runs fn on the loop and waits for it to finish. It must not be called
// from a task already running on the loop.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	if err := l.enqueue(ctx, task); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-l.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends the loop and waits for a loop started with Start to exit.
func (l *Loop) Stop() {
	l.close()
	l.wg.Wait()
}
