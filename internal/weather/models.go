package weather

import (
	"strings"
	"time"
)

// ThemeID identifies the background theme picked for an observation.
type ThemeID string

const (
	ThemeHot     ThemeID = "hot"
	ThemeSunny   ThemeID = "sunny"
	ThemeHaze    ThemeID = "haze"
	ThemeCloudy  ThemeID = "cloudy"
	ThemeRain    ThemeID = "rain"
	ThemeSnow    ThemeID = "snow"
	ThemeDefault ThemeID = "default"
)

// Themes lists every theme in classification priority order.
var Themes = []ThemeID{ThemeHaze, ThemeHot, ThemeSunny, ThemeCloudy, ThemeRain, ThemeSnow, ThemeDefault}

// ParseThemeID maps s to a known theme. Unknown values fall back to ThemeDefault.
func ParseThemeID(s string) ThemeID {
	id := ThemeID(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range Themes {
		if t == id {
			return t
		}
	}
	return ThemeDefault
}

// Location represents a logical place for which we look up weather.
// City is required, Country is optional.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.City)) + ":" + strings.ToUpper(strings.TrimSpace(l.Country))
}

func (l Location) String() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + ", " + l.Country
}

// Observation is a single provider snapshot for a location. Providers
// normalize into this shape; it is never mutated after creation.
type Observation struct {
	Provider string `json:"provider"`
	Place    string `json:"place"`

	TemperatureC float64 `json:"temperatureC"`
	FeelsLikeC   float64 `json:"feelsLikeC"`
	HumidityPct  float64 `json:"humidityPercent"`
	WindSpeedMS  float64 `json:"windSpeedMs"`
	PressureHpa  float64 `json:"pressureHpa"`

	ConditionCode        string `json:"conditionCode"`
	ConditionDescription string `json:"conditionDescription"`

	ObservedAtUnix   int64  `json:"observedAt"`
	UTCOffsetSeconds int64  `json:"utcOffsetSeconds"`
	SunriseUnix      *int64 `json:"sunrise,omitempty"`
	SunsetUnix       *int64 `json:"sunset,omitempty"`
}

// PresentationBucket is the display classification derived from an Observation.
type PresentationBucket struct {
	Theme   ThemeID `json:"themeId"`
	IsNight bool    `json:"isNight"`

	// HasDaylight is false when sunrise or sunset was missing, in which case
	// IsNight is always false.
	HasDaylight bool `json:"hasDaylight"`
}

// Key returns the theme, suffixed with "+day" or "+night" when daylight is known.
func (b PresentationBucket) Key() string {
	if !b.HasDaylight {
		return string(b.Theme)
	}
	if b.IsNight {
		return string(b.Theme) + "+night"
	}
	return string(b.Theme) + "+day"
}

// Report is what lookups hand to renderers.
type Report struct {
	Location     Location           `json:"location"`
	Observation  Observation        `json:"observation"`
	Presentation PresentationBucket `json:"presentation"`
	LocalTime    string             `json:"localTime"`
	Background   string             `json:"background"`
	FetchedAt    time.Time          `json:"fetchedAt"` // always UTC
}
