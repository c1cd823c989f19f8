package mainthread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/eventcentral/core/config"
	"github.com/dmitrymomot/eventcentral/core/logger"
)

const component = "mainthread"

var (
	// ErrClosed is returned when work is submitted to a closed Loop.
	ErrClosed = errors.New("mainthread: loop closed")

	// ErrAlreadyRunning is returned when Run is called while another Run is active.
	ErrAlreadyRunning = errors.New("mainthread: loop already running")

	// ErrPanic wraps a value recovered from work run by Invoke.
	ErrPanic = errors.New("mainthread: work panicked")
)

// Loop runs submitted functions one at a time on the goroutine that calls Run.
//
// Post never blocks, so work may be posted from inside work that the loop is running.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	closed  bool

	// spare is the buffer of the previous batch, reused as the next pending queue.
	// Only the goroutine in Run touches it.
	spare []func()

	wake    chan struct{}
	done    chan struct{}
	running atomic.Bool

	lockOSThread bool
	logger       *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger configures structured logging for the loop.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// WithLockOSThread pins the goroutine calling Run to its OS thread for the duration
// of Run, as required by most native UI toolkits.
func WithLockOSThread() Option {
	return func(lp *Loop) {
		lp.lockOSThread = true
	}
}

// WithCapacity preallocates room for n queued functions. The queue buffers are
// reused across batches, so the capacity holds for the life of the loop.
func WithCapacity(n int) Option {
	return func(lp *Loop) {
		if n > 0 {
			lp.pending = make([]func(), 0, n)
			lp.spare = make([]func(), 0, n)
		}
	}
}

// Config holds environment-driven settings for a Loop.
type Config struct {
	Capacity     int  `env:"MAINTHREAD_QUEUE_CAPACITY" envDefault:"64"`
	LockOSThread bool `env:"MAINTHREAD_LOCK_OS_THREAD" envDefault:"false"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig creates a Loop from cfg, then applies opts.
func NewFromConfig(cfg Config, opts ...Option) *Loop {
	base := []Option{WithCapacity(cfg.Capacity)}
	if cfg.LockOSThread {
		base = append(base, WithLockOSThread())
	}
	return New(append(base, opts...)...)
}

// New creates a Loop. Nothing runs until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues fn to run on the loop and returns ErrClosed once Close was called.
// Its signature matches event.MainThreadFunc, so loop.Post can be handed to a
// Central directly.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Invoke runs fn on the loop and waits for its result. It must not be called from the
// loop itself. A panic in fn is returned as an error wrapping ErrPanic.
func (l *Loop) Invoke(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	err := l.Post(func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		result <- fn()
	})
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued work on the calling goroutine until ctx is done or Close is
// called. After Close, work queued before it is drained and Run returns nil.
// On ctx cancellation Run returns ctx.Err() and leaves queued work in place for a later Run.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	if l.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	start := time.Now()
	l.logger.DebugContext(ctx, "loop started", logger.Component(component))

	for {
		l.drain()

		select {
		case <-ctx.Done():
			l.logger.DebugContext(ctx, "loop stopped",
				logger.Component(component),
				logger.Elapsed(start),
				logger.Error(ctx.Err()))
			return ctx.Err()
		case <-l.done:
			l.drain()
			l.logger.DebugContext(ctx, "loop closed",
				logger.Component(component),
				logger.Elapsed(start))
			return nil
		case <-l.wake:
		}
	}
}

// Close stops accepting work. A running Run drains what is already queued and returns.
func (l *Loop) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.closed = true
	close(l.done)
	return nil
}

// Pending returns the number of queued functions not yet started.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.pending) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.pending
		l.pending = l.spare
		l.spare = nil
		l.mu.Unlock()

		for _, fn := range batch {
			l.exec(fn)
		}
		clear(batch)
		l.spare = batch[:0]
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("posted work panicked",
				logger.Component(component),
				logger.Panic(r))
		}
	}()
	fn()
}
