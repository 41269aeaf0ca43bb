// Package aggregate coalesces bursts of work items into bounded batches that
// run on loop ticks.
//
// When many requests arrive at once they are all appended to one queue and
// only the push that started the cycle schedules processing. Each tick takes
// the next Unit items; items pushed while the cycle is draining are picked up
// by later ticks of the same cycle. Once a tick reaches the end of the queue
// the queue is reset and the next push starts a fresh cycle.
package aggregate

import (
	"time"

	"github.com/go-drift/inlinesvg/pkg/loop"
)

const (
	// DefaultDelay is the pause between ticks after the first.
	DefaultDelay = 16 * time.Millisecond
	// DefaultUnit is the maximum number of items per tick.
	DefaultUnit = 16
)

// Options tunes a queue's batching. Zero values select the defaults.
type Options struct {
	Delay time.Duration
	Unit  int
}

func (o Options) withDefaults() Options {
	if o.Delay <= 0 {
		o.Delay = DefaultDelay
	}
	if o.Unit <= 0 {
		o.Unit = DefaultUnit
	}
	return o
}

// Queue is the state of one aggregation queue.
type Queue[T any] struct {
	items   []T
	batches int
	gen     int
}

// Len returns the number of items in the current cycle, processed or not.
func (q *Queue[T]) Len() int { return len(q.items) }

// Batches returns how many batches have run since the queue was created.
func (q *Queue[T]) Batches() int { return q.batches }

// Reset drops the current cycle. A drain already scheduled finds an empty
// queue and stops.
func (q *Queue[T]) Reset() {
	q.items = nil
	q.gen++
}

// Push appends item to q. If this push started a new cycle, a drain is
// scheduled on s: the first batch runs immediately on the next tick and each
// following batch opts.Delay later.
func Push[T any](s loop.Scheduler, q *Queue[T], item T, run func([]T), opts Options) {
	q.items = append(q.items, item)
	if len(q.items) != 1 {
		return
	}
	d := &drain[T]{s: s, q: q, run: run, opts: opts.withDefaults(), gen: q.gen}
	s.After(0, d.tick)
}

type drain[T any] struct {
	s    loop.Scheduler
	q    *Queue[T]
	run  func([]T)
	opts Options
	pos  int
	gen  int
}

func (d *drain[T]) tick() {
	if d.gen != d.q.gen {
		return
	}
	next := d.pos + d.opts.Unit
	if batch := window(d.q.items, d.pos, next); len(batch) > 0 {
		d.q.batches++
		d.run(batch)
	}
	if len(d.q.items) <= next {
		d.q.items = nil
		return
	}
	d.pos = next
	d.s.After(d.opts.Delay, d.tick)
}

func window[T any](items []T, from, to int) []T {
	if from >= len(items) {
		return nil
	}
	if to > len(items) {
		to = len(items)
	}
	return append([]T(nil), items[from:to]...)
}
