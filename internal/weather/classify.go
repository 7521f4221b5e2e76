package weather

import (
	"fmt"
	"math"

	"github.com/i474232898/weather-theme/internal/common"
)

// Default temperature thresholds in °C. Both comparisons are strict.
const (
	DefaultHotAboveC  = 28.0
	DefaultColdBelowC = 10.0
)

// Thresholds tune the temperature clauses of the rule table.
type Thresholds struct {
	HotAboveC  float64 `json:"hotAboveC"`
	ColdBelowC float64 `json:"coldBelowC"`
}

// DefaultThresholds returns the canonical thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{HotAboveC: DefaultHotAboveC, ColdBelowC: DefaultColdBelowC}
}

// Validate rejects thresholds that would make the cold band overlap the hot one.
func (t Thresholds) Validate() error {
	if math.IsNaN(t.HotAboveC) || math.IsNaN(t.ColdBelowC) {
		return fmt.Errorf("thresholds must be numbers")
	}
	if t.ColdBelowC >= t.HotAboveC {
		return fmt.Errorf("cold threshold %.1f must be below hot threshold %.1f", t.ColdBelowC, t.HotAboveC)
	}
	return nil
}

// TempClause is the optional temperature test attached to a rule.
type TempClause string

const (
	TempNone      TempClause = ""
	TempAboveHot  TempClause = "above_hot"
	TempBelowCold TempClause = "below_cold"
)

// Rule maps keywords and an optional temperature clause to a theme. A rule
// matches when any keyword appears in the condition code or description, or
// when its temperature clause holds.
type Rule struct {
	Theme    ThemeID    `json:"themeId"`
	Keywords []string   `json:"keywords"`
	Temp     TempClause `json:"temperature,omitempty"`
}

// DefaultRules returns the canonical ordered table. The first match wins and
// ThemeDefault applies when nothing matches.
func DefaultRules() []Rule {
	return []Rule{
		{Theme: ThemeHaze, Keywords: []string{"haze", "mist", "smoke", "dust", "fog"}},
		{Theme: ThemeHot, Keywords: []string{"hot"}, Temp: TempAboveHot},
		{Theme: ThemeSunny, Keywords: []string{"clear", "sunny"}},
		{Theme: ThemeCloudy, Keywords: []string{"cloud", "overcast", "scattered"}},
		{Theme: ThemeRain, Keywords: []string{"rain", "drizzle", "thunderstorm", "storm"}},
		{Theme: ThemeSnow, Keywords: []string{"snow", "sleet"}, Temp: TempBelowCold},
	}
}

// Classifier evaluates an ordered rule table against observations.
type Classifier struct {
	thresholds Thresholds
	rules      []Rule
}

// NewClassifier builds a classifier over the canonical rules.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{thresholds: th, rules: DefaultRules()}
}

var defaultClassifier = NewClassifier(DefaultThresholds())

// Classify runs the default classifier.
func Classify(obs Observation) PresentationBucket {
	return defaultClassifier.Classify(obs)
}

// Thresholds returns the thresholds in use.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Rules returns a copy of the rule table in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify never fails: unknown or missing data falls through to ThemeDefault
// and a daytime bucket.
func (c *Classifier) Classify(obs Observation) PresentationBucket {
	bucket := PresentationBucket{Theme: c.theme(obs)}
	if obs.SunriseUnix != nil && obs.SunsetUnix != nil {
		bucket.HasDaylight = true
		bucket.IsNight = IsNight(obs.ObservedAtUnix, obs.SunriseUnix, obs.SunsetUnix)
	}
	return bucket
}

func (c *Classifier) theme(obs Observation) ThemeID {
	for _, r := range c.rules {
		if c.matches(r, obs) {
			return r.Theme
		}
	}
	return ThemeDefault
}

func (c *Classifier) matches(r Rule, obs Observation) bool {
	if common.HasAny(obs.ConditionCode, r.Keywords...) || common.HasAny(obs.ConditionDescription, r.Keywords...) {
		return true
	}
	// NaN compares false both ways.
	switch r.Temp {
	case TempAboveHot:
		return obs.TemperatureC > c.thresholds.HotAboveC
	case TempBelowCold:
		return obs.TemperatureC < c.thresholds.ColdBelowC
	}
	return false
}

// IsNight reports whether dt falls outside [sunrise, sunset]. Missing bounds
// mean daylight is unknown, which counts as day.
func IsNight(dt int64, sunrise, sunset *int64) bool {
	if sunrise == nil || sunset == nil {
		return false
	}
	return dt < *sunrise || dt > *sunset
}
