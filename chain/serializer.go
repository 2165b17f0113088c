package chain

import (
	"context"
	"errors"
)

// ErrEngineClosed is returned for operations submitted to a closed engine.
var ErrEngineClosed = errors.New("chain engine closed")

// serializer runs mutations strictly one at a time in submission order.
// Validation reads the store mid-operation, so a plain mutex over the head
// pointer would not be enough; the whole operation holds the writer slot.
type serializer struct {
	tasks   chan func()
	quit    chan struct{}
	stopped chan struct{}
}

func newSerializer() *serializer {
	return &serializer{
		tasks:   make(chan func()),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// run is the single-writer loop. Started once by the engine.
func (s *serializer) run() {
	defer close(s.stopped)
	for {
		select {
		case task := <-s.tasks:
			task()
		case <-s.quit:
			// Drain tasks that won the submission race against quit.
			for {
				select {
				case task := <-s.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// do submits fn and waits for it to finish. ctx only guards the wait for a
// writer slot; once started, an operation always runs to completion.
func (s *serializer) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	select {
	case s.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrEngineClosed
	}

	select {
	case <-done:
		return nil
	case <-s.stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrEngineClosed
		}
	}
}

func (s *serializer) stop() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
	<-s.stopped
}
