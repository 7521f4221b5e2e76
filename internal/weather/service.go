package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/weather-theme/internal/logger"
)

// Service looks observations up through providers, classifies them, and keeps
// the resulting reports in the store.
type Service struct {
	store      Store
	providers  []Provider
	classifier *Classifier
	log        *logger.Logger
	now        func() time.Time
}

// NewService creates a new Service. A nil classifier uses the default table
// and a nil logger discards output.
func NewService(store Store, providers []Provider, classifier *Classifier, log *logger.Logger) *Service {
	if classifier == nil {
		classifier = defaultClassifier
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:      store,
		providers:  providers,
		classifier: classifier,
		log:        log,
		now:        time.Now,
	}
}

// Lookup fetches the current observation for loc, trying providers in order
// until one succeeds. It never retries a provider.
//
// When all providers fail the error wraps ErrNotFound if any provider said the
// location does not exist, and ErrUnavailable otherwise.
func (s *Service) Lookup(ctx context.Context, loc Location) (Report, error) {
	loc.City = strings.TrimSpace(loc.City)
	loc.Country = strings.TrimSpace(loc.Country)
	if loc.City == "" {
		return Report{}, fmt.Errorf("%w: empty city", ErrNotFound)
	}
	if len(s.providers) == 0 {
		s.log.Errorw("no providers configured", "location", loc.Key())
		return Report{}, fmt.Errorf("%w: no weather providers configured", ErrUnavailable)
	}

	var notFound, lastErr error
	for _, p := range s.providers {
		obs, err := p.Fetch(ctx, loc)
		if err == nil {
			report := s.BuildReport(loc, obs)
			if s.store != nil {
				s.store.SaveReport(loc, report)
			}
			s.log.Debugw("lookup succeeded",
				"location", loc.Key(),
				"provider", p.Name(),
				"bucket", report.Presentation.Key(),
			)
			return report, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return Report{}, fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
		}

		s.log.Warnw("provider fetch failed", "provider", p.Name(), "location", loc.Key(), "error", err)
		if errors.Is(err, ErrNotFound) && notFound == nil {
			notFound = err
		}
		lastErr = err
	}

	if notFound != nil {
		return Report{}, notFound
	}
	if !errors.Is(lastErr, ErrUnavailable) {
		lastErr = fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
	}
	return Report{}, lastErr
}

// BuildReport classifies obs and renders its local time.
func (s *Service) BuildReport(loc Location, obs Observation) Report {
	bucket := s.classifier.Classify(obs)
	return Report{
		Location:     loc,
		Observation:  obs,
		Presentation: bucket,
		LocalTime:    FormatLocalTime(obs.ObservedAtUnix, obs.UTCOffsetSeconds),
		Background:   Background(bucket.Theme),
		FetchedAt:    s.now().UTC(),
	}
}

// Refresh is the scheduler entry point. Failures keep the last stored report.
func (s *Service) Refresh(ctx context.Context, loc Location) error {
	report, err := s.Lookup(ctx, loc)
	if err != nil {
		return err
	}
	s.log.Infow("refreshed", "location", loc.Key(), "bucket", report.Presentation.Key(), "localTime", report.LocalTime)
	return nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (Report, error) {
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]Report, error) {
	return s.store.GetRange(loc, from, to)
}

// Providers returns provider names in lookup order.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// Classifier returns the classifier used for reports.
func (s *Service) Classifier() *Classifier {
	return s.classifier
}
