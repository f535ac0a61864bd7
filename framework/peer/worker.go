package peer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/UTDS16/battleship/common/log"
	"github.com/UTDS16/battleship/framework/session"
)

var ErrIntentQueueFull = errors.New("peer: intent queue is full")

// Transport is the non-blocking side of the bus the loop talks to.
type Transport interface {
	Poll(limit int) [][]byte
}

type WorkerOptions struct {
	TickRate   int // iterations per second
	DrainLimit int // envelopes handled per iteration at most
	QueueSize  int // pending intents
	Now        func() time.Time
	Logger     *log.Logger
}

// Worker is the single loop that owns a Session. Everything else talks to it
// through Submit and reads it through Snapshot.
type Worker struct {
	sess      *session.Session
	transport Transport
	logger    *log.Logger
	now       func() time.Time

	tickInterval time.Duration
	drainLimit   int
	intents      chan session.Intent

	snapshot atomic.Pointer[session.Snapshot]
	online   atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewWorker(sess *session.Session, transport Transport, opts WorkerOptions) *Worker {
	if opts.TickRate <= 0 {
		opts.TickRate = 30
	}
	if opts.DrainLimit <= 0 {
		opts.DrainLimit = 32
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}

	w := &Worker{
		sess:         sess,
		transport:    transport,
		logger:       opts.Logger.Named("worker"),
		now:          opts.Now,
		tickInterval: time.Second / time.Duration(opts.TickRate),
		drainLimit:   opts.DrainLimit,
		intents:      make(chan session.Intent, opts.QueueSize),
		stopChan:     make(chan struct{}),
		done:         make(chan struct{}),
	}
	w.snapshot.Store(sess.Snapshot())
	return w
}

// Run blocks until Stop is called or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.online.Store(true)
	defer close(w.done)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.logger.Info("peer %s online", w.sess.UUID())
	for w.online.Load() {
		select {
		case <-ctx.Done():
			w.online.Store(false)
		case <-w.stopChan:
			w.online.Store(false)
		case <-ticker.C:
			w.step()
		}
	}
	w.logger.Info("peer %s offline", w.sess.UUID())
}

// step is one loop iteration.
func (w *Worker) step() {
	for _, raw := range w.transport.Poll(w.drainLimit) {
		w.sess.HandleRaw(raw)
	}

	for pending := len(w.intents); pending > 0; pending-- {
		intent := <-w.intents
		if err := w.sess.Apply(intent); err != nil {
			w.logger.Debug("%T: %v", intent, err)
		}
	}

	w.sess.Tick(w.now())
	w.snapshot.Store(w.sess.Snapshot())
}

// Submit queues an intent for the next iteration.
func (w *Worker) Submit(intent session.Intent) error {
	select {
	case w.intents <- intent:
		return nil
	default:
		return ErrIntentQueueFull
	}
}

// Snapshot returns the state as of the last completed iteration.
func (w *Worker) Snapshot() *session.Snapshot {
	return w.snapshot.Load()
}

func (w *Worker) Online() bool {
	return w.online.Load()
}

// Stop clears the online flag; the loop exits after the current iteration.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.online.Store(false)
		close(w.stopChan)
	})
}

func (w *Worker) Done() <-chan struct{} {
	return w.done
}
