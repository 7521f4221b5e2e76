package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/i474232898/weather-theme/internal/logger"
	"github.com/i474232898/weather-theme/internal/weather"
)

// Lookuper is the part of weather.Service a session needs.
type Lookuper interface {
	Lookup(ctx context.Context, loc weather.Location) (weather.Report, error)
}

// Session reads one city per line and prints the weather for the most
// recent one. A new line supersedes any lookup still in flight; results
// from superseded lookups are dropped.
type Session struct {
	svc    Lookuper
	out    io.Writer
	format string
	log    *logger.Logger

	seq weather.Sequencer
	mu  sync.Mutex // guards out
	wg  sync.WaitGroup
}

func NewSession(svc Lookuper, out io.Writer, format string, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{svc: svc, out: out, format: format, log: log}
}

// Run consumes in until EOF or ctx is done, then waits for the last lookup.
// Lines are "city" or "city,country"; blank lines are ignored. If in is an
// io.Closer it is closed when ctx is done so the reading goroutine can exit.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	canceled := func() error {
		if c, ok := in.(io.Closer); ok {
			c.Close()
		}
		s.seq.Stop()
		s.wg.Wait()
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return canceled()
		case line, ok := <-lines:
			if !ok {
				if ctx.Err() != nil {
					return canceled()
				}
				s.wg.Wait()
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if loc, ok := ParseLocation(line); ok {
				s.Submit(ctx, loc)
			}
		}
	}
}

// Submit starts a lookup for loc, canceling the previous one.
func (s *Session) Submit(ctx context.Context, loc weather.Location) {
	reqCtx, ticket := s.seq.Begin(ctx)
	s.log.Debugw("lookup started", "request", ticket.ID, "seq", ticket.Seq, "location", loc.Key())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		report, err := s.svc.Lookup(reqCtx, loc)

		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.seq.Finish(ticket) {
			s.log.Debugw("stale response dropped", "request", ticket.ID, "seq", ticket.Seq)
			return
		}
		if errors.Is(err, context.Canceled) {
			s.log.Debugw("lookup canceled", "request", ticket.ID, "seq", ticket.Seq)
			return
		}
		if err != nil {
			fmt.Fprintf(s.out, "%s: %s\n", loc, weather.UserMessage(err))
			return
		}
		if err := WriteReport(s.out, report, s.format); err != nil {
			s.log.Errorw("write report", "error", err)
		}
	}()
}

// ParseLocation reads "city" or "city,country".
func ParseLocation(line string) (weather.Location, bool) {
	city, country, _ := strings.Cut(line, ",")
	loc := weather.Location{
		City:    strings.TrimSpace(city),
		Country: strings.ToUpper(strings.TrimSpace(country)),
	}
	return loc, loc.City != ""
}
