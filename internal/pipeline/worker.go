package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/BitEU/Hashbrown/internal/config"
	"github.com/BitEU/Hashbrown/internal/logging"
)

var (
	// ErrBusy is returned by Submit while a job is still running.
	ErrBusy = errors.New("a job is already running")
	// ErrNoJob is returned by Wait when nothing was submitted.
	ErrNoJob = errors.New("no job submitted")
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("worker closed")
)

// statusBuffer bounds queued status updates; updates beyond it are dropped
// until the reader catches up.
const statusBuffer = 32

// jobFunc is the unit of work a Worker runs.
type jobFunc func(ctx context.Context, notify notifyFunc) (*Result, error)

// Worker runs at most one job at a time on a background goroutine.
type Worker struct {
	mu     sync.Mutex
	job    *job
	closed bool
}

type job struct {
	cancel context.CancelFunc
	status chan Status
	done   chan struct{}

	res *Result
	err error
}

// NewWorker returns an idle Worker.
func NewWorker() *Worker {
	return &Worker{}
}

// Submit starts redacting cfg.InputPath in the background and returns the
// job's status channel, which is closed when the job ends. It returns
// ErrBusy while a previous job is still running.
func (w *Worker) Submit(ctx context.Context, cfg *config.Config, log *logging.Logger) (<-chan Status, error) {
	return w.submit(ctx, func(ctx context.Context, notify notifyFunc) (*Result, error) {
		return run(ctx, cfg, log, notify)
	})
}

func (w *Worker) submit(ctx context.Context, fn jobFunc) (<-chan Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	if w.job != nil && !w.job.finished() {
		return nil, ErrBusy
	}

	ctx, cancel := context.WithCancel(ctx)
	j := &job{
		cancel: cancel,
		status: make(chan Status, statusBuffer),
		done:   make(chan struct{}),
	}
	w.job = j

	go func() {
		defer close(j.done)
		defer close(j.status)
		defer cancel()
		j.res, j.err = fn(ctx, func(s Status) {
			select {
			case j.status <- s:
			default:
			}
		})
	}()
	return j.status, nil
}

// Busy reports whether a job is running.
func (w *Worker) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.job != nil && !w.job.finished()
}

// Cancel stops the running job, if any. ffmpeg is killed and the partial
// output removed by the job itself.
func (w *Worker) Cancel() {
	w.mu.Lock()
	j := w.job
	w.mu.Unlock()
	if j != nil {
		j.cancel()
	}
}

// Wait blocks until the most recent job finishes and returns its result.
func (w *Worker) Wait() (*Result, error) {
	w.mu.Lock()
	j := w.job
	w.mu.Unlock()
	if j == nil {
		return nil, ErrNoJob
	}
	<-j.done
	return j.res, j.err
}

// Close cancels any running job, waits for it and rejects further submits.
func (w *Worker) Close() {
	w.mu.Lock()
	w.closed = true
	j := w.job
	w.mu.Unlock()
	if j != nil {
		j.cancel()
		<-j.done
	}
}

func (j *job) finished() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}
