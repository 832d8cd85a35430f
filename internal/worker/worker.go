package worker

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// ErrRunning is returned by Start while a check is still in flight.
var ErrRunning = errors.New("update check already running")

// Checker is the part of *update.Checker the worker drives.
type Checker interface {
	CheckForUpdates(ctx context.Context, current update.Version, location, filename string) (*update.UpdateInfo, error)
}

// Results is the outcome of a completed check.
type Results struct {
	Successful   bool
	ErrorMessage string
	Info         *update.UpdateInfo
	Err          error
}

// EventKind distinguishes a finished check from a cancelled one.
type EventKind int

const (
	Completed EventKind = iota
	Cancelled
)

func (k EventKind) String() string {
	if k == Cancelled {
		return "cancelled"
	}
	return "completed"
}

// Event is delivered once per Start.
type Event struct {
	Kind    EventKind
	Results Results // zero for Cancelled
}

// Worker runs one update check at a time off the caller's goroutine.
// It can be started again once the previous run delivered its event.
type Worker struct {
	checker  Checker
	current  update.Version
	location string
	filename string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New returns a worker that checks location/filename against current.
func New(c Checker, current update.Version, location, filename string) *Worker {
	return &Worker{checker: c, current: current, location: location, filename: filename}
}

// Start launches the check and returns the channel its single event is
// delivered on. The channel is closed after the event.
func (w *Worker) Start(ctx context.Context) (<-chan Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return nil, ErrRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	events := make(chan Event, 1)

	go func() {
		defer close(events)
		info, err := w.checker.CheckForUpdates(runCtx, w.current, w.location, w.filename)

		w.mu.Lock()
		w.cancel = nil
		w.mu.Unlock()
		cancelled := runCtx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
		cancel()

		if cancelled {
			log.Debug("update check cancelled")
			events <- Event{Kind: Cancelled}
			return
		}
		res := Results{Successful: err == nil, Info: info, Err: err}
		if err != nil {
			res.ErrorMessage = err.Error()
		}
		events <- Event{Kind: Completed, Results: res}
	}()
	return events, nil
}

// Cancel asks the running check to stop. The check notices at the download
// helper's next poll. Cancel is a no-op when nothing is running.
func (w *Worker) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
}

// Running reports whether a check is in flight.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}
