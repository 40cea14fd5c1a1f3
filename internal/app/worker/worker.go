// Package worker implements a password generation worker: a goroutine that
// owns one random source and serves GENERATE requests one time slice at a
// time.
//
// A worker never blocks on another worker and holds no locks while
// sampling. Cancellation is cooperative: between candidates the worker asks
// its Tracker whether the request it serves is still current and gives up
// as soon as it is not.
package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/generator"
	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/AlenaMolokova/passgen/internal/app/random"
	"github.com/AlenaMolokova/passgen/internal/app/validator"
	"github.com/sirupsen/logrus"
)

type MessageType int

const (
	MessageGenerate MessageType = iota + 1
	MessageGenerateResult
)

type Status int

const (
	StatusOK Status = iota
	StatusSliceTimeout
	StatusCancelled
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSliceTimeout:
		return "slice_timeout"
	case StatusCancelled:
		return "cancelled"
	default:
		return "error"
	}
}

// Request asks a worker to spend one slice on a request. The response is
// delivered on Reply, which must have room for one value.
type Request struct {
	Type          MessageType
	RequestID     uint64
	Options       models.GenerationOptions
	SliceDuration time.Duration
	Reply         chan<- Response
}

type Response struct {
	Type      MessageType
	WorkerID  int
	RequestID uint64
	Status    Status
	Password  string
	Err       error
	Attempts  int
}

// Tracker reports whether a request is still worth working on.
type Tracker interface {
	IsCurrent(requestID uint64) bool
}

type Worker struct {
	id      int
	source  random.Source
	tracker Tracker
	now     func() time.Time

	inbox chan Request
	done  chan struct{}
}

func New(id int, source random.Source, tracker Tracker) *Worker {
	return &Worker{
		id:      id,
		source:  source,
		tracker: tracker,
		now:     time.Now,
		inbox:   make(chan Request, 1),
		done:    make(chan struct{}),
	}
}

func (w *Worker) ID() int {
	return w.id
}

// Start launches the serving goroutine.
func (w *Worker) Start() {
	go w.serve()
}

// Send hands a request to the serving goroutine.
func (w *Worker) Send(req Request) {
	w.inbox <- req
}

// Stop closes the inbox and waits for the serving goroutine to exit.
func (w *Worker) Stop() {
	close(w.inbox)
	<-w.done
}

func (w *Worker) serve() {
	defer close(w.done)
	for req := range w.inbox {
		if req.Type != MessageGenerate {
			req.Reply <- Response{
				Type:      MessageGenerateResult,
				WorkerID:  w.id,
				RequestID: req.RequestID,
				Status:    StatusError,
				Err:       &models.WorkerError{WorkerID: w.id, Err: fmt.Errorf("unknown message type %d", req.Type)},
			}
			continue
		}
		req.Reply <- w.Run(req.Options, req.RequestID, req.SliceDuration)
	}
}

// Run generates candidates for one slice. It returns on the first valid
// candidate, when the request stops being current, or when the slice is
// used up. Failures of the random source keep their EnvironmentError type;
// anything else, panics included, comes back as a WorkerError.
func (w *Worker) Run(opts models.GenerationOptions, requestID uint64, slice time.Duration) (resp Response) {
	resp = Response{
		Type:      MessageGenerateResult,
		WorkerID:  w.id,
		RequestID: requestID,
	}

	defer func() {
		if r := recover(); r != nil {
			resp.Status = StatusError
			resp.Password = ""
			resp.Err = &models.WorkerError{WorkerID: w.id, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	gen, err := generator.NewCandidateGenerator(opts, w.source)
	if err != nil {
		resp.Status = StatusError
		resp.Err = &models.WorkerError{WorkerID: w.id, Err: err}
		return resp
	}

	start := w.now()
	for {
		candidate, err := gen.Generate()
		if err != nil {
			resp.Status = StatusError
			resp.Err = w.wrap(err)
			return resp
		}
		resp.Attempts++

		if !w.tracker.IsCurrent(requestID) {
			resp.Status = StatusCancelled
			return resp
		}
		if validator.IsValid(candidate, opts) {
			resp.Status = StatusOK
			resp.Password = candidate
			return resp
		}
		if w.now().Sub(start) >= slice {
			logrus.WithFields(logrus.Fields{
				"worker":     w.id,
				"request_id": requestID,
				"attempts":   resp.Attempts,
			}).Debug("Slice exhausted")
			resp.Status = StatusSliceTimeout
			return resp
		}
	}
}

func (w *Worker) wrap(err error) error {
	var envErr *models.EnvironmentError
	if errors.As(err, &envErr) {
		return err
	}
	return &models.WorkerError{WorkerID: w.id, Err: err}
}
