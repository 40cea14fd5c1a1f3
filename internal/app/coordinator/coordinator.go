// Package coordinator races a fixed pool of password workers against each
// other and against a wall-clock budget.
//
// Every Generate call takes the next request ID. The ID is the only
// cancellation signal: once it moves on, workers still serving an older ID
// notice at their next candidate and stop. Before dispatching, a call waits
// until every worker of the previous request has retired, so at most one
// request is being generated at any time. The first worker to produce a
// valid candidate wins; the request is then marked settled and the
// remaining workers retire on their own.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/AlenaMolokova/passgen/internal/app/random"
	"github.com/AlenaMolokova/passgen/internal/app/worker"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	DefaultSliceDuration = 50 * time.Millisecond
	DefaultTimeout       = 5 * time.Second
	MinWorkers           = 2
)

type Config struct {
	// Workers is the pool size; zero means runtime.NumCPU(). Values below
	// MinWorkers are raised to it.
	Workers       int
	SliceDuration time.Duration
	PoolSize      int
	// NewSource builds the random source owned by one worker. Nil means a
	// crypto/rand backed random.Pool of PoolSize bytes.
	NewSource func(workerID int) random.Source
}

type Coordinator struct {
	workers []*worker.Worker
	slice   time.Duration
	now     func() time.Time

	current atomic.Uint64
	settled atomic.Uint64
	closed  atomic.Bool

	dispatch  sync.Mutex
	active    sync.WaitGroup
	closeOnce sync.Once
}

type outcome struct {
	workerID int
	password string
	err      error
}

func New(cfg Config) *Coordinator {
	n := cfg.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n < MinWorkers {
		n = MinWorkers
	}
	slice := cfg.SliceDuration
	if slice <= 0 {
		slice = DefaultSliceDuration
	}
	newSource := cfg.NewSource
	if newSource == nil {
		size := cfg.PoolSize
		newSource = func(int) random.Source { return random.NewPool(size) }
	}

	c := &Coordinator{
		slice: slice,
		now:   time.Now,
	}
	c.workers = make([]*worker.Worker, n)
	for i := range c.workers {
		c.workers[i] = worker.New(i+1, newSource(i+1), c)
		c.workers[i].Start()
	}

	logrus.WithFields(logrus.Fields{
		"workers": n,
		"slice":   slice.String(),
	}).Info("Password coordinator started")

	return c
}

func (c *Coordinator) Workers() int {
	return len(c.workers)
}

// CurrentRequestID returns the most recently issued request ID.
func (c *Coordinator) CurrentRequestID() uint64 {
	return c.current.Load()
}

// IsCurrent reports whether requestID is the latest request and has no
// winner yet.
func (c *Coordinator) IsCurrent(requestID uint64) bool {
	return c.current.Load() == requestID && c.settled.Load() < requestID
}

// Generate returns the first candidate any worker finds that satisfies
// opts. It fails with models.ErrCancelled if a newer call or ctx overtakes
// it, with a *models.TimeoutError if the budget runs out, and with a
// *models.EnvironmentError if the secure random source is unavailable.
// Calls are expected to be issued one after another; a call that is
// superseded while still running resolves to models.ErrCancelled even if
// one of its workers found a password.
func (c *Coordinator) Generate(ctx context.Context, opts models.GenerationOptions, timeout time.Duration) (string, error) {
	if c.closed.Load() {
		return "", models.ErrClosed
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	r := c.current.Add(1)
	log := logrus.WithField("request_id", r)
	log.Debug("Request issued")

	c.dispatch.Lock()
	if c.closed.Load() {
		c.dispatch.Unlock()
		return "", models.ErrClosed
	}
	c.active.Wait()
	if !c.IsCurrent(r) || ctx.Err() != nil {
		c.dispatch.Unlock()
		log.Debug("Request superseded before dispatch")
		return "", c.cancelled(ctx, r)
	}

	results := make(chan outcome, len(c.workers))
	start := c.now()
	c.active.Add(len(c.workers))
	for _, w := range c.workers {
		go c.drive(ctx, w, r, opts, start, timeout, results)
	}
	c.dispatch.Unlock()

	return c.race(ctx, r, results, timeout, start)
}

// drive keeps one worker on request r, one slice at a time, until it wins,
// fails, the request goes stale or the budget measured from start is spent.
func (c *Coordinator) drive(ctx context.Context, w *worker.Worker, r uint64, opts models.GenerationOptions,
	start time.Time, timeout time.Duration, results chan<- outcome) {
	defer c.active.Done()

	reply := make(chan worker.Response, 1)
	for {
		if !c.IsCurrent(r) || ctx.Err() != nil {
			results <- outcome{workerID: w.ID(), err: models.ErrCancelled}
			return
		}
		remaining := timeout - c.now().Sub(start)
		if remaining <= 0 {
			results <- outcome{workerID: w.ID(), err: &models.TimeoutError{Timeout: timeout}}
			return
		}

		w.Send(worker.Request{
			Type:          worker.MessageGenerate,
			RequestID:     r,
			Options:       opts,
			SliceDuration: min(c.slice, remaining),
			Reply:         reply,
		})
		resp := <-reply

		switch resp.Status {
		case worker.StatusSliceTimeout:
			continue
		case worker.StatusOK:
			results <- outcome{workerID: w.ID(), password: resp.Password}
		case worker.StatusCancelled:
			results <- outcome{workerID: w.ID(), err: models.ErrCancelled}
		default:
			logrus.WithError(resp.Err).WithFields(logrus.Fields{
				"request_id": r,
				"worker":     w.ID(),
			}).Warn("Worker failed")
			results <- outcome{workerID: w.ID(), err: resp.Err}
		}
		return
	}
}

func (c *Coordinator) race(ctx context.Context, r uint64, results <-chan outcome, timeout time.Duration, start time.Time) (string, error) {
	log := logrus.WithField("request_id", r)

	var (
		envErr  error
		failure error
	)
	for range c.workers {
		o := <-results
		if o.err == nil {
			c.settle(r)
			if c.current.Load() != r || ctx.Err() != nil {
				log.Debug("Discarding password of superseded request")
				return "", c.cancelled(ctx, r)
			}
			log.WithFields(logrus.Fields{
				"worker":   o.workerID,
				"duration": c.now().Sub(start).String(),
			}).Debug("Request resolved")
			return o.password, nil
		}

		switch {
		case errors.Is(o.err, models.ErrEnvironment):
			if envErr == nil {
				envErr = o.err
			}
		case errors.Is(o.err, models.ErrCancelled), errors.Is(o.err, models.ErrTimeout):
		default:
			failure = multierr.Append(failure, o.err)
		}
	}
	c.settle(r)

	if c.current.Load() != r || ctx.Err() != nil {
		return "", c.cancelled(ctx, r)
	}
	if envErr != nil {
		return "", envErr
	}
	if failure != nil {
		return "", fmt.Errorf("password generation failed: %w", failure)
	}
	log.WithField("timeout", timeout.String()).Info("Request timed out")
	return "", &models.TimeoutError{Timeout: timeout}
}

func (c *Coordinator) settle(r uint64) {
	for {
		s := c.settled.Load()
		if s >= r || c.settled.CompareAndSwap(s, r) {
			return
		}
	}
}

func (c *Coordinator) cancelled(ctx context.Context, r uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("request %d: %w: %w", r, models.ErrCancelled, err)
	}
	return fmt.Errorf("request %d: %w", r, models.ErrCancelled)
}

// Close supersedes any running request, waits for its workers to retire
// and stops the pool. Generate fails with models.ErrClosed afterwards.
func (c *Coordinator) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.current.Add(1)

		c.dispatch.Lock()
		defer c.dispatch.Unlock()
		c.active.Wait()
		for _, w := range c.workers {
			w.Stop()
		}
		logrus.Info("Password coordinator stopped")
	})
	return nil
}
