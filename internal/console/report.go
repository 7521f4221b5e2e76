package console

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/i474232898/weather-theme/internal/weather"
)

// Output formats accepted by WriteReport.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// WriteReport renders r in the given format.
func WriteReport(w io.Writer, r weather.Report, format string) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	obs := r.Observation
	place := obs.Place
	if place == "" {
		place = r.Location.City
	}
	if r.Location.Country != "" {
		place += ", " + r.Location.Country
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weather in %s\n", place)
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Temperature: %.1f°C (feels like %.1f°C)\n", obs.TemperatureC, obs.FeelsLikeC)
	fmt.Fprintf(&b, "Conditions:  %s\n", describe(obs))
	fmt.Fprintf(&b, "Humidity:    %.0f%%\n", obs.HumidityPct)
	fmt.Fprintf(&b, "Wind:        %.1f m/s\n", obs.WindSpeedMS)
	fmt.Fprintf(&b, "Pressure:    %.0f hPa\n", obs.PressureHpa)
	fmt.Fprintf(&b, "Local time:  %s\n", r.LocalTime)
	fmt.Fprintf(&b, "Theme:       %s\n", r.Presentation.Key())
	fmt.Fprintf(&b, "Source:      %s\n", obs.Provider)

	_, err := io.WriteString(w, b.String())
	return err
}

func describe(obs weather.Observation) string {
	switch {
	case obs.ConditionDescription != "":
		return obs.ConditionDescription
	case obs.ConditionCode != "":
		return strings.ToLower(obs.ConditionCode)
	default:
		return "unknown"
	}
}
