package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-theme/internal/weather"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It needs no API key: the city is resolved through Open-Meteo's own
// geocoding endpoint before the forecast call.
type OpenMeteoProvider struct {
	name       string
	geocodeURL string
	baseURL    string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, backoff BackoffConfig) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:       "openmeteo",
		geocodeURL: "https://geocoding-api.open-meteo.com/v1/search",
		baseURL:    "https://api.open-meteo.com/v1/forecast",
		httpCfg:    HTTPClientConfig{Client: client, Backoff: backoff},
		circuit:    newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type geoPlace struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"country_code"`
}

type openMeteoPayload struct {
	UTCOffsetSeconds int64 `json:"utc_offset_seconds"`
	Current          struct {
		Time             *int64   `json:"time"`
		Temperature      *float64 `json:"temperature_2m"`
		ApparentTemp     float64  `json:"apparent_temperature"`
		RelativeHumidity float64  `json:"relative_humidity_2m"`
		SurfacePressure  float64  `json:"surface_pressure"`
		WindSpeed        float64  `json:"wind_speed_10m"`
		WeatherCode      *int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Sunrise []int64 `json:"sunrise"`
		Sunset  []int64 `json:"sunset"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	place, err := p.geocode(ctx, loc)
	if err != nil {
		return weather.Observation{}, err
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(place.Latitude, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(place.Longitude, 'f', 4, 64))
		values.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,wind_speed_10m,weather_code")
		values.Set("daily", "sunrise,sunset")
		values.Set("timezone", "auto")
		values.Set("timeformat", "unixtime")
		values.Set("wind_speed_unit", "ms")
		values.Set("forecast_days", "1")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, unavailable(p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weather.Observation{}, statusError(p.name, resp.StatusCode)
	}

	var payload openMeteoPayload
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.Observation{}, unavailable(p.name, err)
	}
	if payload.Current.Temperature == nil || payload.Current.Time == nil {
		return weather.Observation{}, unavailable(p.name, fmt.Errorf("%w: missing current temperature or time", errMalformed))
	}

	var code, desc string
	if payload.Current.WeatherCode != nil {
		code, desc = mapOpenMeteoCondition(*payload.Current.WeatherCode)
	}
	obs := weather.Observation{
		Provider:             p.name,
		Place:                place.Name,
		TemperatureC:         *payload.Current.Temperature,
		FeelsLikeC:           payload.Current.ApparentTemp,
		HumidityPct:          payload.Current.RelativeHumidity,
		PressureHpa:          payload.Current.SurfacePressure,
		WindSpeedMS:          payload.Current.WindSpeed,
		ConditionCode:        code,
		ConditionDescription: desc,
		ObservedAtUnix:       *payload.Current.Time,
		UTCOffsetSeconds:     payload.UTCOffsetSeconds,
	}
	if len(payload.Daily.Sunrise) > 0 && len(payload.Daily.Sunset) > 0 {
		obs.SunriseUnix = knownUnix(&payload.Daily.Sunrise[0])
		obs.SunsetUnix = knownUnix(&payload.Daily.Sunset[0])
	}
	return obs, nil
}

func (p *OpenMeteoProvider) geocode(ctx context.Context, loc weather.Location) (geoPlace, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("name", loc.City)
		values.Set("count", "1")
		values.Set("language", "en")
		values.Set("format", "json")
		if loc.Country != "" {
			values.Set("countryCode", loc.Country)
		}

		u := fmt.Sprintf("%s?%s", p.geocodeURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return geoPlace{}, unavailable(p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geoPlace{}, statusError(p.name, resp.StatusCode)
	}

	var payload struct {
		Results []geoPlace `json:"results"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return geoPlace{}, unavailable(p.name, err)
	}
	if len(payload.Results) == 0 {
		return geoPlace{}, notFound(p.name, loc)
	}
	return payload.Results[0], nil
}

// mapOpenMeteoCondition translates WMO weather codes into the OpenWeatherMap
// style code and description the classifier keys on.
func mapOpenMeteoCondition(code int) (string, string) {
	switch {
	case code == 0:
		return "Clear", "clear sky"
	case code == 1:
		return "Clear", "mainly clear"
	case code == 2:
		return "Clouds", "partly cloudy"
	case code == 3:
		return "Clouds", "overcast clouds"
	case code == 45 || code == 48:
		return "Fog", "fog"
	case code >= 51 && code <= 57:
		return "Drizzle", "drizzle"
	case code >= 61 && code <= 67:
		return "Rain", "rain"
	case code >= 71 && code <= 77:
		return "Snow", "snow"
	case code >= 80 && code <= 82:
		return "Rain", "rain showers"
	case code == 85 || code == 86:
		return "Snow", "snow showers"
	case code >= 95 && code <= 99:
		return "Thunderstorm", "thunderstorm"
	default:
		return "", ""
	}
}
