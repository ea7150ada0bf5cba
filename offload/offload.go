// Package offload runs blocking work on background goroutines and lets a task
// await the result without blocking the frame loop.
//
// Completion is observed by polling on the timer, so results are always
// delivered from inside Timer.Progress on the host's goroutine. Cancelling the
// awaiting task cancels the work's context but never kills a running goroutine.
package offload

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/lixenwraith/cadence/await"
	"github.com/lixenwraith/cadence/task"
	"github.com/lixenwraith/cadence/timer"
)

// Work is a blocking function run off the frame loop. It should honor ctx
type Work func(ctx context.Context) error

// WorkerPanic is the error produced when Work panics
type WorkerPanic struct {
	Value any
}

func (p *WorkerPanic) Error() string {
	return fmt.Sprintf("offload: worker panicked: %v", p.Value)
}

// Run executes work on a new goroutine and suspends t until it returns,
// checking for completion every poll of timer time.
// Errors and panics from work are returned wrapped with the worker's stack
func Run(t *task.Task, tm *timer.Timer, work Work, poll time.Duration) error {
	return wait(t, tm, poll, func(ctx context.Context, done chan<- error) {
		go execute(ctx, work, done)
	})
}

// Pool bounds the number of concurrently running Work functions
type Pool struct {
	sem    *semaphore.Weighted
	size   int64
	logger zerolog.Logger
}

// NewPool creates a pool running at most size workers. Size below one is raised to one
func NewPool(size int, logger zerolog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:    semaphore.NewWeighted(int64(size)),
		size:   int64(size),
		logger: logger.With().Str("component", "offload").Logger(),
	}
}

// Size returns the pool capacity
func (p *Pool) Size() int {
	return int(p.size)
}

// Run is like the package-level Run but waits for a free slot first.
// A task cancelled while its work is still queued gives up the queued slot
func (p *Pool) Run(t *task.Task, tm *timer.Timer, work Work, poll time.Duration) error {
	p.logger.Debug().Str("task", t.String()).Msg("queued")
	err := wait(t, tm, poll, func(ctx context.Context, done chan<- error) {
		go func() {
			if err := p.sem.Acquire(ctx, 1); err != nil {
				done <- errors.Wrap(err, "offload: acquire slot")
				return
			}
			defer p.sem.Release(1)
			execute(ctx, work, done)
		}()
	})
	p.logger.Debug().Str("task", t.String()).Err(err).Msg("finished")
	return err
}

func execute(ctx context.Context, work Work, done chan<- error) {
	defer func() {
		if r := recover(); r != nil {
			done <- errors.WithStack(&WorkerPanic{Value: r})
		}
	}()
	if err := work(ctx); err != nil {
		done <- errors.Wrap(err, "offload")
		return
	}
	done <- nil
}

func wait(t *task.Task, tm *timer.Timer, poll time.Duration, start func(context.Context, chan<- error)) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Buffered so an abandoned worker never blocks on send
	done := make(chan error, 1)
	start(ctx, done)

	ticks := await.Ticks(t, tm, poll)
	defer ticks.Close()

	for {
		select {
		case err := <-done:
			return err
		default:
		}
		if _, err := ticks.Next(); err != nil {
			return err
		}
	}
}
