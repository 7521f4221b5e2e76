package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-theme/internal/weather"
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, backoff BackoffConfig) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: HTTPClientConfig{Client: client, Backoff: backoff},
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owmPayload struct {
	Name     string `json:"name"`
	Dt       *int64 `json:"dt"`
	Timezone int64  `json:"timezone"`
	Main     struct {
		Temp      *float64 `json:"temp"`
		FeelsLike float64  `json:"feels_like"`
		Humidity  float64  `json:"humidity"`
		Pressure  float64  `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Sys struct {
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, unavailable(p.name, errMissingAPIKey)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("q", locationQuery(loc))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, unavailable(p.name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return weather.Observation{}, notFound(p.name, loc)
	case resp.StatusCode != http.StatusOK:
		return weather.Observation{}, statusError(p.name, resp.StatusCode)
	}

	var payload owmPayload
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.Observation{}, unavailable(p.name, err)
	}
	return p.toObservation(payload)
}

// toObservation requires main.temp and dt; everything else is optional.
func (p *OpenWeatherProvider) toObservation(payload owmPayload) (weather.Observation, error) {
	if payload.Main.Temp == nil || payload.Dt == nil {
		return weather.Observation{}, unavailable(p.name, fmt.Errorf("%w: missing main.temp or dt", errMalformed))
	}

	obs := weather.Observation{
		Provider:         p.name,
		Place:            payload.Name,
		TemperatureC:     *payload.Main.Temp,
		FeelsLikeC:       payload.Main.FeelsLike,
		HumidityPct:      payload.Main.Humidity,
		PressureHpa:      payload.Main.Pressure,
		WindSpeedMS:      payload.Wind.Speed,
		ObservedAtUnix:   *payload.Dt,
		UTCOffsetSeconds: payload.Timezone,
		SunriseUnix:      knownUnix(payload.Sys.Sunrise),
		SunsetUnix:       knownUnix(payload.Sys.Sunset),
	}
	if len(payload.Weather) > 0 {
		obs.ConditionCode = payload.Weather[0].Main
		obs.ConditionDescription = payload.Weather[0].Description
	}
	return obs, nil
}
