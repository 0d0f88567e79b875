package event

import "sync/atomic"

const (
	// QueueSize is the ring capacity, must be a power of two
	QueueSize = 256
	queueMask = QueueSize - 1
)

// Queue holds events posted from any goroutine until the game loop drains them
// Producers claim a slot by advancing the write cursor with CAS, then mark the
// slot ready once the event is stored. The single reader only takes ready slots.
// When producers lap the reader, the read cursor is pushed forward and the
// overwritten events are counted in Dropped
type Queue struct {
	slots [QueueSize]GameEvent
	ready [QueueSize]atomic.Bool
	read  atomic.Uint64
	write atomic.Uint64

	dropped atomic.Uint64
}

// NewQueue returns an empty queue; the zero value is also ready to use
func NewQueue() *Queue {
	return &Queue{}
}

// Push stores ev, overwriting the oldest pending event when the ring is full
func (q *Queue) Push(ev GameEvent) {
	var seq uint64
	for {
		seq = q.write.Load()
		if q.write.CompareAndSwap(seq, seq+1) {
			break
		}
	}

	slot := seq & queueMask
	q.slots[slot] = ev
	q.ready[slot].Store(true)

	// Lapped the reader: skip it past the slot just reused
	if r := q.read.Load(); seq+1-r > QueueSize {
		if q.read.CompareAndSwap(r, seq+1-QueueSize) {
			q.dropped.Add(1)
		}
	}
}

// Consume drains ready events in FIFO order
// Stops early at a slot whose producer has not finished writing
// Must only be called from one goroutine
func (q *Queue) Consume() []GameEvent {
	for {
		start := q.read.Load()
		end := q.write.Load()
		if end == start {
			return nil
		}
		if end-start > QueueSize {
			start = end - QueueSize
		}

		out := make([]GameEvent, 0, end-start)
		for seq := start; seq < end; seq++ {
			slot := seq & queueMask
			if !q.ready[slot].Load() {
				break
			}
			out = append(out, q.slots[slot])
			q.ready[slot].Store(false)
		}

		if q.read.CompareAndSwap(start, start+uint64(len(out))) {
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
}

// Len returns the approximate pending count
func (q *Queue) Len() int {
	start, end := q.read.Load(), q.write.Load()
	switch {
	case end <= start:
		return 0
	case end-start >= QueueSize:
		return QueueSize
	default:
		return int(end - start)
	}
}

// Dropped returns how many events were overwritten before being consumed
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
