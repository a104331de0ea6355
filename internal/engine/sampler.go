package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/dm/pcpulse/internal/model"
	"github.com/dm/pcpulse/internal/probe"
)

// DefaultInterval is the pause between the end of one sample and the
// start of the next.
const DefaultInterval = time.Second

// ErrAlreadyRunning is returned by Start on a sampler that is not idle.
var ErrAlreadyRunning = errors.New("sampler already running")

// State is the lifecycle state of a Sampler.
type State int

const (
	Idle State = iota
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Consumer receives every published Snapshot. It is called from a single
// goroutine, in sampling order, and must not call Stop.
type Consumer func(model.Snapshot)

// Sampler collects a Snapshot, publishes it to its Consumer, waits for
// the interval, and repeats until stopped. The interval is measured from
// the end of a sample, so a probe slower than the interval never causes
// overlapping samples.
type Sampler struct {
	probe    probe.PlatformProbe
	consumer Consumer
	interval time.Duration
	log      logr.Logger

	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	loopDone chan struct{}
	sendDone chan struct{}
	stopped  chan struct{}
	queue    *queue
}

// NewSampler returns an idle Sampler. A non-positive interval selects
// DefaultInterval.
func NewSampler(p probe.PlatformProbe, consumer Consumer, interval time.Duration, logger logr.Logger) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		probe:    p,
		consumer: consumer,
		interval: interval,
		log:      logger.WithName("sampler"),
	}
}

// State returns the current lifecycle state.
func (s *Sampler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interval returns the pause between samples.
func (s *Sampler) Interval() time.Duration {
	return s.interval
}

// Start begins sampling in the background. The first sample is taken
// immediately. Start on a sampler that is running or stopping returns
// ErrAlreadyRunning.
func (s *Sampler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return fmt.Errorf("start: %w (state %s)", ErrAlreadyRunning, s.state)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	s.sendDone = make(chan struct{})
	s.stopped = make(chan struct{})
	s.queue = newQueue()
	s.state = Running

	go s.loop(ctx, s.queue, s.loopDone)
	go s.deliver(s.queue, s.sendDone)

	s.log.V(1).Info("started", "interval", s.interval, "platform", s.probe.Platform())
	return nil
}

// Stop ends sampling and returns once no further Snapshot will be
// published. A sample in flight is allowed to finish and is discarded;
// samples already queued for the consumer are delivered before Stop
// returns. Stop on an idle sampler does nothing.
func (s *Sampler) Stop() {
	s.mu.Lock()
	switch s.state {
	case Idle:
		s.mu.Unlock()
		return
	case Stopping:
		stopped := s.stopped
		s.mu.Unlock()
		<-stopped
		return
	}
	s.state = Stopping
	cancel, loopDone, sendDone, q, stopped := s.cancel, s.loopDone, s.sendDone, s.queue, s.stopped
	s.mu.Unlock()

	cancel()
	<-loopDone
	q.close()
	<-sendDone

	s.mu.Lock()
	s.state = Idle
	s.cancel = nil
	s.queue = nil
	s.mu.Unlock()
	close(stopped)

	s.log.V(1).Info("stopped")
}

func (s *Sampler) loop(ctx context.Context, q *queue, done chan<- struct{}) {
	defer close(done)

	for {
		if snap, ok := s.tick(ctx); ok {
			q.push(snap)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}
	}
}

// tick takes one sample. Probes run to completion even if Stop is called
// meanwhile; the result is then dropped.
func (s *Sampler) tick(ctx context.Context) (snap model.Snapshot, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(fmt.Errorf("panic: %v", r), "sample skipped")
			ok = false
		}
	}()

	if ctx.Err() != nil {
		return model.Snapshot{}, false
	}

	start := time.Now()
	snap, err := Collect(context.WithoutCancel(ctx), s.probe)
	if err != nil {
		s.log.Error(err, "sample skipped")
		return model.Snapshot{}, false
	}
	s.log.V(2).Info("sample collected", "took", time.Since(start))

	if ctx.Err() != nil {
		s.log.V(1).Info("sample discarded after stop")
		return model.Snapshot{}, false
	}
	return snap, true
}

// deliver hands queued snapshots to the consumer in order until the
// queue is closed and drained.
func (s *Sampler) deliver(q *queue, done chan<- struct{}) {
	defer close(done)
	for {
		snap, ok := q.pop()
		if !ok {
			return
		}
		s.publish(snap)
	}
}

func (s *Sampler) publish(snap model.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(fmt.Errorf("panic: %v", r), "consumer failed")
		}
	}()
	s.consumer(snap)
}

// queue is an unbounded FIFO between the sampling and delivery
// goroutines, so a slow consumer never delays sampling.
type queue struct {
	mu     sync.Mutex
	items  []model.Snapshot
	closed bool
	notify chan struct{}
}

func newQueue() *queue {
	return &queue{notify: make(chan struct{}, 1)}
}

func (q *queue) push(snap model.Snapshot) {
	q.mu.Lock()
	q.items = append(q.items, snap)
	q.mu.Unlock()
	q.signal()
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// pop blocks until an item is available or the queue is closed and
// empty.
func (q *queue) pop() (model.Snapshot, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			snap := q.items[0]
			q.items[0] = model.Snapshot{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return snap, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return model.Snapshot{}, false
		}
		<-q.notify
	}
}
