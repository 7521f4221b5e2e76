package weather

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Ticket identifies one issued request.
type Ticket struct {
	Seq uint64
	ID  string
}

// Sequencer hands out monotonically increasing tickets so that only the
// newest request's response is delivered. Starting a request cancels the one
// before it.
type Sequencer struct {
	latest atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Begin issues a ticket and a context derived from parent. The previously
// issued context, if still running, is canceled.
func (s *Sequencer) Begin(parent context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	seq := s.latest.Add(1)
	s.mu.Unlock()

	return ctx, Ticket{Seq: seq, ID: uuid.NewString()}
}

// Finish marks t as resolved and reports whether its response should be
// delivered. Stale tickets return false and their response must be dropped.
func (s *Sequencer) Finish(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq != s.latest.Load() {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// Latest returns the last issued sequence number, zero before any Begin.
func (s *Sequencer) Latest() uint64 {
	return s.latest.Load()
}

// Stop cancels whatever request is in flight.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
