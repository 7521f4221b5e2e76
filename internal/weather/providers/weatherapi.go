package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-theme/internal/common"
	"github.com/i474232898/weather-theme/internal/weather"
)

// weatherAPINoLocation is WeatherAPI's "No matching location found" error code.
const weatherAPINoLocation = 1006

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
// Its current endpoint carries no sunrise/sunset, so daylight stays unknown.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, backoff BackoffConfig) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: HTTPClientConfig{Client: client, Backoff: backoff},
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIPayload struct {
	Location struct {
		Name           string `json:"name"`
		TzID           string `json:"tz_id"`
		LocaltimeEpoch int64  `json:"localtime_epoch"`
	} `json:"location"`
	Current *struct {
		LastUpdatedEpoch int64    `json:"last_updated_epoch"`
		TempC            *float64 `json:"temp_c"`
		FeelsLikeC       float64  `json:"feelslike_c"`
		Humidity         float64  `json:"humidity"`
		WindKph          float64  `json:"wind_kph"`
		PressureMb       float64  `json:"pressure_mb"`
		Condition        struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, unavailable(p.name, errMissingAPIKey)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", locationQuery(loc))
		values.Set("aqi", "no")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, unavailable(p.name, err)
	}
	defer resp.Body.Close()

	var payload weatherAPIPayload
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusBadRequest {
		if err := decodeJSON(resp, &payload); err != nil {
			return weather.Observation{}, unavailable(p.name, err)
		}
	}

	switch {
	case payload.Error != nil && payload.Error.Code == weatherAPINoLocation:
		return weather.Observation{}, notFound(p.name, loc)
	case payload.Error != nil:
		return weather.Observation{}, unavailable(p.name, fmt.Errorf("api error %d: %s", payload.Error.Code, payload.Error.Message))
	case resp.StatusCode != http.StatusOK:
		return weather.Observation{}, statusError(p.name, resp.StatusCode)
	}

	if payload.Current == nil || payload.Current.TempC == nil {
		return weather.Observation{}, unavailable(p.name, fmt.Errorf("%w: missing current.temp_c", errMalformed))
	}

	observedAt := payload.Current.LastUpdatedEpoch
	if observedAt == 0 {
		observedAt = payload.Location.LocaltimeEpoch
	}

	return weather.Observation{
		Provider:             p.name,
		Place:                payload.Location.Name,
		TemperatureC:         *payload.Current.TempC,
		FeelsLikeC:           payload.Current.FeelsLikeC,
		HumidityPct:          payload.Current.Humidity,
		PressureHpa:          payload.Current.PressureMb,
		WindSpeedMS:          payload.Current.WindKph / 3.6,
		ConditionCode:        mapWeatherAPICondition(payload.Current.Condition.Text),
		ConditionDescription: strings.ToLower(strings.TrimSpace(payload.Current.Condition.Text)),
		ObservedAtUnix:       observedAt,
		UTCOffsetSeconds:     zoneOffset(payload.Location.TzID, observedAt),
	}, nil
}

// zoneOffset resolves an IANA zone to its UTC offset at dt. Unknown zones
// yield 0.
func zoneOffset(tzID string, dt int64) int64 {
	if tzID == "" {
		return 0
	}
	zone, err := time.LoadLocation(tzID)
	if err != nil {
		return 0
	}
	_, offset := time.Unix(dt, 0).In(zone).Zone()
	return int64(offset)
}

// mapWeatherAPICondition folds WeatherAPI's free text into an OpenWeatherMap
// style condition code.
func mapWeatherAPICondition(text string) string {
	switch {
	case text == "":
		return ""
	case common.HasAny(text, "thunder"):
		return "Thunderstorm"
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return "Snow"
	case common.HasAny(text, "drizzle"):
		return "Drizzle"
	case common.HasAny(text, "rain", "shower"):
		return "Rain"
	case common.HasAny(text, "fog"):
		return "Fog"
	case common.HasAny(text, "mist"):
		return "Mist"
	case common.HasAny(text, "cloud", "overcast"):
		return "Clouds"
	case common.HasAny(text, "sunny", "clear"):
		return "Clear"
	default:
		return ""
	}
}
