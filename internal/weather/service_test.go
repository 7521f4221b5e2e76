package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeProvider struct {
	name  string
	obs   Observation
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(ctx context.Context, loc Location) (Observation, error) {
	p.calls++
	if p.err != nil {
		return Observation{}, p.err
	}
	obs := p.obs
	obs.Provider = p.name
	return obs, nil
}

type fakeStore struct {
	mu      sync.Mutex
	reports map[string][]Report
}

func newFakeStore() *fakeStore {
	return &fakeStore{reports: make(map[string][]Report)}
}

func (s *fakeStore) SaveReport(loc Location, r Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[loc.Key()] = append(s.reports[loc.Key()], r)
}

func (s *fakeStore) GetLatest(loc Location) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := s.reports[loc.Key()]
	if len(rs) == 0 {
		return Report{}, errors.New("empty")
	}
	return rs[len(rs)-1], nil
}

func (s *fakeStore) GetRange(loc Location, from, to time.Time) ([]Report, error) {
	return nil, errors.New("not implemented")
}

var delhi = Observation{
	TemperatureC:         33,
	ConditionCode:        "Haze",
	ConditionDescription: "haze",
	ObservedAtUnix:       1700000000,
	UTCOffsetSeconds:     19800,
}

func TestServiceLookupSuccess(t *testing.T) {
	st := newFakeStore()
	p := &fakeProvider{name: "primary", obs: delhi}
	svc := NewService(st, []Provider{p}, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("x", 3600)) }

	loc := Location{City: " Delhi ", Country: "IN"}
	report, err := svc.Lookup(context.Background(), loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Presentation.Theme != ThemeHaze {
		t.Fatalf("theme = %q, want haze", report.Presentation.Theme)
	}
	if report.LocalTime != "Wed, 15 Nov 2023 03:43 UTC+05:30" {
		t.Fatalf("local time = %q", report.LocalTime)
	}
	if report.Background != Background(ThemeHaze) {
		t.Fatalf("background = %q", report.Background)
	}
	if report.FetchedAt.Location() != time.UTC {
		t.Fatal("FetchedAt must be UTC")
	}
	if report.Location.City != "Delhi" {
		t.Fatalf("city not trimmed: %q", report.Location.City)
	}
	if _, err := st.GetLatest(loc); err != nil {
		t.Fatal("report was not stored")
	}
}

func TestServiceLookupFallback(t *testing.T) {
	down := &fakeProvider{name: "down", err: fmt.Errorf("%w: boom", ErrUnavailable)}
	up := &fakeProvider{name: "up", obs: delhi}
	svc := NewService(newFakeStore(), []Provider{down, up}, nil, nil)

	report, err := svc.Lookup(context.Background(), Location{City: "Delhi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Observation.Provider != "up" {
		t.Fatalf("provider = %q, want up", report.Observation.Provider)
	}
	if down.calls != 1 {
		t.Fatalf("failed provider called %d times, want exactly 1", down.calls)
	}
}

func TestServiceLookupErrors(t *testing.T) {
	notFound := fmt.Errorf("%w: 404", ErrNotFound)
	unavailable := fmt.Errorf("%w: 503", ErrUnavailable)

	tests := []struct {
		name      string
		providers []Provider
		city      string
		want      error
		msg       string
	}{
		{"not found", []Provider{&fakeProvider{name: "a", err: notFound}}, "Atlantis", ErrNotFound, MsgNotFound},
		{"not found wins", []Provider{&fakeProvider{name: "a", err: unavailable}, &fakeProvider{name: "b", err: notFound}}, "Atlantis", ErrNotFound, MsgNotFound},
		{"unavailable", []Provider{&fakeProvider{name: "a", err: unavailable}}, "Paris", ErrUnavailable, MsgUnavailable},
		{"unwrapped error", []Provider{&fakeProvider{name: "a", err: errors.New("raw")}}, "Paris", ErrUnavailable, MsgUnavailable},
		{"no providers", nil, "Paris", ErrUnavailable, MsgUnavailable},
		{"empty city", []Provider{&fakeProvider{name: "a", obs: delhi}}, "  ", ErrNotFound, MsgNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakeStore(), tt.providers, nil, nil)
			_, err := svc.Lookup(context.Background(), Location{City: tt.city})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got := UserMessage(err); got != tt.msg {
				t.Fatalf("UserMessage = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestServiceLookupCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakeProvider{name: "a", err: fmt.Errorf("%w: %w", ErrUnavailable, context.Canceled)}
	second := &fakeProvider{name: "b", obs: delhi}
	svc := NewService(newFakeStore(), []Provider{p, second}, nil, nil)

	_, err := svc.Lookup(ctx, Location{City: "Delhi"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if second.calls != 0 {
		t.Fatal("canceled lookup must not move on to the next provider")
	}
	if UserMessage(err) != MsgUnavailable {
		t.Fatalf("UserMessage = %q", UserMessage(err))
	}
}

func TestServiceProvidersAndClassifier(t *testing.T) {
	c := NewClassifier(Thresholds{HotAboveC: 30, ColdBelowC: 5})
	svc := NewService(nil, []Provider{&fakeProvider{name: "a"}, &fakeProvider{name: "b"}}, c, nil)
	if got := svc.Providers(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Providers() = %v", got)
	}
	if svc.Classifier() != c {
		t.Fatal("Classifier() should return the injected classifier")
	}
}
