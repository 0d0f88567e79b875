package event

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/marc/status"
)

// Handler receives dispatched events
// Called synchronously on the dispatching goroutine, outside the registry lock
type Handler interface {
	HandleEvent(ctx context.Context, ev GameEvent) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, ev GameEvent) error

func (f HandlerFunc) HandleEvent(ctx context.Context, ev GameEvent) error {
	return f(ctx, ev)
}

// Subscription is the handle returned by Register
// The zero value is never issued and unregisters nothing
type Subscription struct {
	Type EventType
	id   uint64
}

// ID returns the registry-unique subscription number
func (s Subscription) ID() uint64 { return s.id }

// Config tunes a Registry
type Config struct {
	// DispatchTimeout bounds one dispatch pass; 0 disables the deadline
	// Handlers see it through their context; once expired, remaining handlers are skipped
	DispatchTimeout time.Duration

	// Logger receives partial dispatch reports; nil uses log.Default()
	Logger *log.Logger

	// Status receives dispatch counters; nil creates a private registry
	Status *status.Registry
}

type registryState int32

const (
	stateNew registryState = iota
	stateRunning
	stateClosed
)

type subscriber struct {
	id      uint64
	handler Handler
}

// Registry maps event types to ordered subscriber lists
//
// Lifecycle: NewRegistry -> InitializeThreading -> Register/Dispatch -> Close
//
// Thread-Safety:
//   - Register/Unregister/Post/Schedule: any goroutine
//   - Dispatch: any goroutine, runs handlers on the caller
//   - DispatchPending: single consumer (game loop)
//
// Subscriber slices are copy-on-write under mu, so a dispatch snapshot is a
// slice header read under the lock and never changes while handlers run
type Registry struct {
	cfg    Config
	logger *log.Logger

	mu     sync.Mutex
	state  registryState
	subs   map[EventType][]subscriber
	nextID uint64

	queue  *Queue
	timers *Scheduler
	frame  atomic.Int64

	statDispatched *atomic.Int64
	statFailed     *atomic.Int64
	statPosted     *atomic.Int64
	statHandlers   *atomic.Int64
}

// NewRegistry creates a registry; call InitializeThreading before use
func NewRegistry(cfg Config) *Registry {
	if cfg.Status == nil {
		cfg.Status = status.NewRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		cfg:            cfg,
		logger:         logger,
		subs:           make(map[EventType][]subscriber),
		statDispatched: cfg.Status.Counter(status.EventsDispatched),
		statFailed:     cfg.Status.Counter(status.EventsFailed),
		statPosted:     cfg.Status.Counter(status.EventsPosted),
		statHandlers:   cfg.Status.Counter(status.HandlersActive),
	}
}

// InitializeThreading arms the cross-goroutine machinery: the pending queue
// and the timer worker goroutine. Must run exactly once before any other call
func (r *Registry) InitializeThreading() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateRunning:
		return ErrAlreadyInitialized
	case stateClosed:
		return ErrClosed
	}

	r.queue = NewQueue()
	r.timers = newScheduler(r.push, r.cfg.Status)
	r.timers.start()
	r.state = stateRunning
	return nil
}

// Close stops the timer worker and drops every subscription
func (r *Registry) Close() {
	r.mu.Lock()
	if r.state != stateRunning {
		r.state = stateClosed
		r.mu.Unlock()
		return
	}
	r.state = stateClosed
	r.subs = make(map[EventType][]subscriber)
	r.statHandlers.Store(0)
	timers := r.timers
	r.mu.Unlock()

	timers.stop()
}

// Register appends h to the subscriber list of et
// Existing subscribers keep their relative order
func (r *Registry) Register(et EventType, h Handler) (Subscription, error) {
	if h == nil {
		return Subscription{}, errors.New("event: nil handler")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.usableLocked(); err != nil {
		return Subscription{}, err
	}

	r.nextID++
	sub := subscriber{id: r.nextID, handler: h}

	old := r.subs[et]
	next := make([]subscriber, len(old), len(old)+1)
	copy(next, old)
	r.subs[et] = append(next, sub)

	r.statHandlers.Add(1)
	return Subscription{Type: et, id: sub.id}, nil
}

// RegisterFunc is Register with a HandlerFunc
func (r *Registry) RegisterFunc(et EventType, fn func(ctx context.Context, ev GameEvent) error) (Subscription, error) {
	return r.Register(et, HandlerFunc(fn))
}

// Unregister removes exactly one subscription
// Unknown or already removed handles are a no-op
func (r *Registry) Unregister(s Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateNew:
		return ErrNotInitialized
	case stateClosed:
		return nil
	}

	old := r.subs[s.Type]
	for i, sub := range old {
		if sub.id != s.id {
			continue
		}
		next := make([]subscriber, 0, len(old)-1)
		next = append(next, old[:i]...)
		next = append(next, old[i+1:]...)
		if len(next) == 0 {
			delete(r.subs, s.Type)
		} else {
			r.subs[s.Type] = next
		}
		r.statHandlers.Add(-1)
		return nil
	}
	return nil
}

// HandlerCount returns the number of subscribers for et
func (r *Registry) HandlerCount(et EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[et])
}

// SetFrame stamps subsequently created events with the game loop frame number
func (r *Registry) SetFrame(frame int64) {
	r.frame.Store(frame)
}

// NewEvent builds a GameEvent stamped with the current frame and time
func (r *Registry) NewEvent(et EventType, payload any) GameEvent {
	return GameEvent{
		Type:      et,
		Payload:   payload,
		Frame:     r.frame.Load(),
		Timestamp: time.Now(),
	}
}

// Dispatch invokes every subscriber of et with payload, in registration order
func (r *Registry) Dispatch(ctx context.Context, et EventType, payload any) error {
	return r.DispatchEvent(ctx, r.NewEvent(et, payload))
}

// DispatchEvent runs one dispatch pass for ev
//
// The subscriber list is snapshotted under the lock; handlers registered or
// removed during the pass do not affect it. A failing or panicking handler
// does not stop the pass; failures are returned as *PartialDispatchError
func (r *Registry) DispatchEvent(ctx context.Context, ev GameEvent) error {
	r.mu.Lock()
	if err := r.usableLocked(); err != nil {
		r.mu.Unlock()
		return err
	}
	snapshot := r.subs[ev.Type]
	r.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}

	if r.cfg.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.DispatchTimeout)
		defer cancel()
	}

	var failures []HandlerFailure
	for i, sub := range snapshot {
		if err := ctx.Err(); err != nil {
			for _, skipped := range snapshot[i:] {
				failures = append(failures, HandlerFailure{
					Subscription: Subscription{Type: ev.Type, id: skipped.id},
					Err:          fmt.Errorf("skipped: %w", err),
				})
			}
			break
		}
		if err := invoke(ctx, sub.handler, ev); err != nil {
			failures = append(failures, HandlerFailure{
				Subscription: Subscription{Type: ev.Type, id: sub.id},
				Err:          err,
			})
		}
	}

	r.statDispatched.Add(1)
	if len(failures) == 0 {
		return nil
	}

	r.statFailed.Add(int64(len(failures)))
	return &PartialDispatchError{
		Type:        ev.Type,
		Subscribers: len(snapshot),
		Failures:    failures,
	}
}

// Post enqueues ev for the next DispatchPending call; safe from any goroutine
func (r *Registry) Post(ev GameEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.usableLocked(); err != nil {
		return err
	}
	r.push(ev)
	return nil
}

// Schedule posts ev once delay has elapsed
// Delays are served in deadline order by the timer worker
func (r *Registry) Schedule(delay time.Duration, ev GameEvent) error {
	r.mu.Lock()
	if err := r.usableLocked(); err != nil {
		r.mu.Unlock()
		return err
	}
	timers := r.timers
	r.mu.Unlock()

	timers.schedule(delay, ev)
	return nil
}

// PendingTimers returns the number of scheduled events not yet posted
func (r *Registry) PendingTimers() int {
	r.mu.Lock()
	timers := r.timers
	r.mu.Unlock()
	if timers == nil {
		return 0
	}
	return timers.pending()
}

// DispatchPending drains the queue and dispatches each event in FIFO order
// Partial failures are logged and joined into the returned error
// Must be called from the single consumer (game loop)
func (r *Registry) DispatchPending(ctx context.Context) (int, error) {
	r.mu.Lock()
	if err := r.usableLocked(); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	q := r.queue
	r.mu.Unlock()

	events := q.Consume()
	var errs []error
	for _, ev := range events {
		if err := r.DispatchEvent(ctx, ev); err != nil {
			r.logger.Printf("event: %v", err)
			errs = append(errs, err)
		}
	}
	return len(events), errors.Join(errs...)
}

// push is lock-free; Post takes mu only to order against
// InitializeThreading and Close
func (r *Registry) push(ev GameEvent) {
	r.queue.Push(ev)
	r.statPosted.Add(1)
}

func (r *Registry) usableLocked() error {
	switch r.state {
	case stateNew:
		return ErrNotInitialized
	case stateClosed:
		return ErrClosed
	}
	return nil
}

func invoke(ctx context.Context, h Handler, ev GameEvent) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, rec)
		}
	}()
	return h.HandleEvent(ctx, ev)
}
