package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-theme/internal/weather"
)

var (
	// ErrNotFound is returned when no report is available for a given location.
	ErrNotFound = errors.New("no weather report for location")
)

// MemoryStore is a concurrency-safe in-memory weather.Store. Reports are kept
// per location in FetchedAt order.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]weather.Report

	maxHistory int           // max reports per location, <= 0 is unlimited
	maxAge     time.Duration // max report age, <= 0 is unlimited
	now        func() time.Time
}

var _ weather.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore with optional limits.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string][]weather.Report),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveReport appends a report for a location and enforces retention.
func (s *MemoryStore) SaveReport(loc weather.Location, report weather.Report) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.data[key], report)

	if s.maxHistory > 0 && len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for i < len(history) && history[i].FetchedAt.Before(cutoff) {
			i++
		}
		// Never drop the newest report, however old.
		if i == len(history) {
			i = len(history) - 1
		}
		history = history[i:]
	}

	s.data[key] = history
}

// GetLatest returns the most recent report for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data[loc.Key()]
	if len(history) == 0 {
		return weather.Report{}, ErrNotFound
	}
	return history[len(history)-1], nil
}

// GetRange returns all reports for a location fetched between from and to (inclusive).
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Report
	for _, r := range s.data[loc.Key()] {
		if !r.FetchedAt.Before(from) && !r.FetchedAt.After(to) {
			result = append(result, r)
		}
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
