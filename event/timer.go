package event

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/marc/core"
	"github.com/lixenwraith/marc/status"
)

type timerEntry struct {
	when time.Time
	seq  uint64 // FIFO among equal deadlines
	ev   GameEvent
}

// timerHeap orders entries by deadline
type timerHeap []timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = timerEntry{}
	*h = old[:n-1]
	return e
}

// Scheduler holds delayed events and posts each one when its deadline passes
// A single worker goroutine sleeps until the earliest deadline or a wake signal
type Scheduler struct {
	mu      sync.Mutex
	entries timerHeap
	seq     uint64

	post func(GameEvent)

	wake     chan struct{}
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	statScheduled *atomic.Int64
}

func newScheduler(post func(GameEvent), reg *status.Registry) *Scheduler {
	return &Scheduler{
		post:          post,
		wake:          make(chan struct{}, 1),
		stopChan:      make(chan struct{}),
		statScheduled: reg.Counter(status.EventsScheduled),
	}
}

func (s *Scheduler) start() {
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		core.Go(s.loop)
	}
}

func (s *Scheduler) stop() {
	s.stopOnce.Do(func() {
		if s.running.CompareAndSwap(true, false) {
			close(s.stopChan)
			s.wg.Wait()
		}
	})
}

func (s *Scheduler) schedule(delay time.Duration, ev GameEvent) {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	s.seq++
	heap.Push(&s.entries, timerEntry{when: time.Now().Add(delay), seq: s.seq, ev: ev})
	earliest := s.entries[0].seq == s.seq
	s.mu.Unlock()

	s.statScheduled.Add(1)

	// Re-arm only when the new entry moved the earliest deadline
	if earliest {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

func (s *Scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		wait, armed := s.fireDue(time.Now())
		if armed {
			timer.Reset(wait)
		}

		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-s.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// fireDue posts every entry due at now and returns the wait until the next one
func (s *Scheduler) fireDue(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	var due []GameEvent
	for len(s.entries) > 0 && !s.entries[0].when.After(now) {
		e := heap.Pop(&s.entries).(timerEntry)
		due = append(due, e.ev)
	}
	var wait time.Duration
	armed := len(s.entries) > 0
	if armed {
		wait = s.entries[0].when.Sub(now)
	}
	s.mu.Unlock()

	for _, ev := range due {
		s.post(ev)
	}
	return wait, armed
}
