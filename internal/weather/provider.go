package weather

import (
	"context"
	"time"
)

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
// Errors must wrap ErrNotFound or ErrUnavailable.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Observation, error)
}

// Store keeps the reports produced by lookups.
type Store interface {
	SaveReport(loc Location, report Report)
	GetLatest(loc Location) (Report, error)
	GetRange(loc Location, from, to time.Time) ([]Report, error)
}
