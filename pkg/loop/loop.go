// Package loop provides the single-threaded event loop that inlinesvg runs on.
//
// Every engine callback (timer ticks, animation-frame callbacks, fetch
// completions) executes on the loop goroutine, one at a time. State owned by
// the engine is therefore never shared between goroutines and needs no locks.
// Only work handed to Go runs elsewhere, and its continuation is posted back.
package loop

import (
	"context"
	"sync"
	"time"

	"github.com/go-drift/inlinesvg/pkg/errors"
)

// DefaultFrameInterval is the animation-frame period used when none is set.
const DefaultFrameInterval = 16 * time.Millisecond

// Scheduler is the contract the engine needs from an event loop.
type Scheduler interface {
	// After runs fn on the loop once d has elapsed.
	After(d time.Duration, fn func())
	// RequestFrame runs fn on the loop at the next frame boundary.
	RequestFrame(fn func())
	// Post runs fn on the loop as soon as possible. Safe from any goroutine.
	Post(fn func())
	// Go runs work on its own goroutine and posts the returned continuation,
	// if any, back to the loop.
	Go(work func() func())
}

// Loop is the production Scheduler.
type Loop struct {
	frameInterval time.Duration

	mu      sync.Mutex
	tasks   []func()
	frames  []func()
	pending int // timers and Go work not yet posted back
	wake    chan struct{}
}

// Option configures a Loop.
type Option func(*Loop)

// WithFrameInterval sets the frame period.
func WithFrameInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// New creates a loop. Nothing runs until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		frameInterval: DefaultFrameInterval,
		wake:          make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post implements Scheduler.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.signal()
}

// After implements Scheduler.
func (l *Loop) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if d <= 0 {
		l.Post(fn)
		return
	}
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
	time.AfterFunc(d, func() {
		l.mu.Lock()
		l.pending--
		l.tasks = append(l.tasks, fn)
		l.mu.Unlock()
		l.signal()
	})
}

// RequestFrame implements Scheduler.
func (l *Loop) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// Go implements Scheduler.
func (l *Loop) Go(work func() func()) {
	if work == nil {
		return
	}
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
	go func() {
		var cont func()
		func() {
			defer errors.Recover("loop.go")
			cont = work()
		}()
		l.mu.Lock()
		l.pending--
		if cont != nil {
			l.tasks = append(l.tasks, cont)
		}
		l.mu.Unlock()
		l.signal()
	}()
}

// Run processes tasks and frames until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	return l.run(ctx, false)
}

// RunUntilIdle processes tasks and frames until nothing is queued, no timer
// is armed and no Go work is outstanding, or until ctx is done.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	return l.run(ctx, true)
}

// Idle reports whether the loop has no outstanding work.
func (l *Loop) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idleLocked()
}

func (l *Loop) idleLocked() bool {
	return len(l.tasks) == 0 && len(l.frames) == 0 && l.pending == 0
}

func (l *Loop) run(ctx context.Context, untilIdle bool) error {
	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	l.drainTasks()
	for {
		if untilIdle && l.Idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.drainTasks()
		case <-ticker.C:
			l.flushFrame()
			l.drainTasks()
		}
	}
}

func (l *Loop) drainTasks() {
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return
		}
		tasks := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		for _, fn := range tasks {
			runTask("loop.task", fn)
		}
	}
}

func (l *Loop) flushFrame() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, fn := range frames {
		runTask("loop.frame", fn)
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func runTask(op string, fn func()) {
	defer errors.Recover(op)
	fn()
}
