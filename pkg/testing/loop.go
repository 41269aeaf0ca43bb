package testing

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/go-drift/inlinesvg/pkg/loop"
)

// ErrSettleTimeout is returned when Settle does not reach an idle state.
var ErrSettleTimeout = errors.New("Settle timed out: loop did not become idle")

// maxSettleSteps bounds Settle so a self-rescheduling task cannot hang a test.
const maxSettleSteps = 100000

// goWait bounds how long the loop waits for work handed to Go.
const goWait = 5 * time.Second

type fakeTimer struct {
	at  time.Time
	seq int
	fn  func()
}

// FakeLoop is a loop.Scheduler that runs on virtual time.
//
// Posted tasks run in order. Timers fire in due-time order; at equal times the
// pending animation frame runs first. Work handed to Go runs on a real
// goroutine and takes no virtual time: the loop blocks until it posts back.
type FakeLoop struct {
	clock         *FakeClock
	frameInterval time.Duration

	mu       sync.Mutex
	posted   []func()
	inflight int
	arrived  chan struct{}

	timers   []fakeTimer
	seq      int
	frames   []func()
	frameAt  time.Time
	frameSet bool

	frameCount    int
	callbackCount int
	current       int
}

var _ loop.Scheduler = (*FakeLoop)(nil)

// NewFakeLoop returns a loop with a 16ms frame interval.
func NewFakeLoop() *FakeLoop {
	return &FakeLoop{
		clock:         NewFakeClock(),
		frameInterval: loop.DefaultFrameInterval,
		arrived:       make(chan struct{}, 1),
	}
}

// Clock returns the loop's virtual clock.
func (l *FakeLoop) Clock() *FakeClock { return l.clock }

// Now returns the current virtual time.
func (l *FakeLoop) Now() time.Time { return l.clock.Now() }

// Post implements loop.Scheduler.
func (l *FakeLoop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	l.signal()
}

// After implements loop.Scheduler.
func (l *FakeLoop) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	l.seq++
	l.timers = append(l.timers, fakeTimer{at: l.clock.Now().Add(d), seq: l.seq, fn: fn})
	sort.SliceStable(l.timers, func(i, j int) bool {
		if l.timers[i].at.Equal(l.timers[j].at) {
			return l.timers[i].seq < l.timers[j].seq
		}
		return l.timers[i].at.Before(l.timers[j].at)
	})
}

// RequestFrame implements loop.Scheduler.
func (l *FakeLoop) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	l.frames = append(l.frames, fn)
	if !l.frameSet {
		now := l.clock.Now()
		l.frameAt = now.Truncate(l.frameInterval).Add(l.frameInterval)
		l.frameSet = true
	}
}

// Go implements loop.Scheduler.
func (l *FakeLoop) Go(work func() func()) {
	if work == nil {
		return
	}
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()
	go func() {
		cont := work()
		l.mu.Lock()
		l.inflight--
		if cont != nil {
			l.posted = append(l.posted, cont)
		}
		l.mu.Unlock()
		l.signal()
	}()
}

// Frames returns the number of animation frames flushed so far.
func (l *FakeLoop) Frames() int { return l.frameCount }

// FrameCallbacks returns the number of frame callbacks run so far.
func (l *FakeLoop) FrameCallbacks() int { return l.callbackCount }

// CurrentFrameCallback returns the 1-based sequence number of the frame
// callback that is running, or 0 outside a frame callback.
func (l *FakeLoop) CurrentFrameCallback() int { return l.current }

// RunPending runs posted tasks without advancing time.
func (l *FakeLoop) RunPending() {
	for l.runPosted() {
	}
}

// Advance moves virtual time forward by d, running everything due on the way.
func (l *FakeLoop) Advance(d time.Duration) error {
	return l.runUntil(l.clock.Now().Add(d), true)
}

// Settle runs until no task, timer, frame or Go work remains.
func (l *FakeLoop) Settle() error {
	return l.runUntil(time.Time{}, false)
}

// Idle reports whether nothing is queued.
func (l *FakeLoop) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.posted) == 0 && l.inflight == 0 && len(l.timers) == 0 && len(l.frames) == 0
}

func (l *FakeLoop) runUntil(target time.Time, bounded bool) error {
	for step := 0; step < maxSettleSteps; step++ {
		if l.runPosted() {
			continue
		}
		if l.waiting() {
			select {
			case <-l.arrived:
			case <-time.After(goWait):
				return ErrSettleTimeout
			}
			continue
		}

		at, isFrame, ok := l.nextEvent()
		if !ok || bounded && at.After(target) {
			if bounded {
				l.clock.Set(target)
			}
			return nil
		}
		l.clock.Set(at)
		if isFrame {
			l.flushFrame()
		} else {
			t := l.timers[0]
			l.timers = l.timers[1:]
			t.fn()
		}
	}
	return ErrSettleTimeout
}

func (l *FakeLoop) runPosted() bool {
	l.mu.Lock()
	tasks := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
	return len(tasks) > 0
}

func (l *FakeLoop) waiting() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight > 0 && len(l.posted) == 0
}

func (l *FakeLoop) nextEvent() (time.Time, bool, bool) {
	switch {
	case l.frameSet && len(l.timers) > 0:
		if !l.timers[0].at.Before(l.frameAt) {
			return l.frameAt, true, true
		}
		return l.timers[0].at, false, true
	case l.frameSet:
		return l.frameAt, true, true
	case len(l.timers) > 0:
		return l.timers[0].at, false, true
	}
	return time.Time{}, false, false
}

func (l *FakeLoop) flushFrame() {
	frames := l.frames
	l.frames = nil
	l.frameSet = false
	l.frameCount++
	for _, fn := range frames {
		l.callbackCount++
		l.current = l.callbackCount
		fn()
	}
	l.current = 0
}

func (l *FakeLoop) signal() {
	select {
	case l.arrived <- struct{}{}:
	default:
	}
}
