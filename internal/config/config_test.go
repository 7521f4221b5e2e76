package config

import (
	"testing"
	"time"

	"github.com/i474232898/weather-theme/internal/weather"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "PROVIDERS", "OPENWEATHER_API_KEY", "WEATHERAPI_API_KEY",
		"HTTP_TIMEOUT", "PROVIDER_MAX_RETRIES", "FETCH_INTERVAL", "STORE_MAX_HISTORY",
		"STORE_MAX_AGE", "HOT_THRESHOLD_C", "COLD_THRESHOLD_C",
		"WEATHER_LOCATION_CITY", "WEATHER_LOCATION_COUNTRY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if len(cfg.Providers) != 2 || cfg.Providers[0] != ProviderOpenWeather || cfg.Providers[1] != ProviderOpenMeteo {
		t.Fatalf("Providers = %v", cfg.Providers)
	}
	if cfg.ProviderMaxRetries != 0 {
		t.Fatalf("lookups must not retry by default, got %d", cfg.ProviderMaxRetries)
	}
	if cfg.FetchInterval != 15*time.Minute || cfg.HTTPTimeout != 10*time.Second || cfg.StoreMaxAge != 24*time.Hour {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.StoreMaxHistory != 96 {
		t.Fatalf("StoreMaxHistory = %d", cfg.StoreMaxHistory)
	}
	if cfg.Thresholds != weather.DefaultThresholds() {
		t.Fatalf("Thresholds = %+v", cfg.Thresholds)
	}
	if len(cfg.Locations) != 0 {
		t.Fatalf("expected no tracked locations, got %v", cfg.Locations)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROVIDERS", "WeatherAPI, openmeteo")
	t.Setenv("PROVIDER_MAX_RETRIES", "2")
	t.Setenv("HOT_THRESHOLD_C", "35")
	t.Setenv("COLD_THRESHOLD_C", "5.5")
	t.Setenv("WEATHER_LOCATION_CITY", "Delhi, Sydney")
	t.Setenv("WEATHER_LOCATION_COUNTRY", "IN,AU")
	t.Setenv("FETCH_INTERVAL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Providers[0] != ProviderWeatherAPI || cfg.Providers[1] != ProviderOpenMeteo {
		t.Fatalf("Providers = %v", cfg.Providers)
	}
	if cfg.ProviderMaxRetries != 2 || cfg.FetchInterval != 5*time.Minute {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if cfg.Thresholds.HotAboveC != 35 || cfg.Thresholds.ColdBelowC != 5.5 {
		t.Fatalf("Thresholds = %+v", cfg.Thresholds)
	}
	want := []weather.Location{{City: "Delhi", Country: "IN"}, {City: "Sydney", Country: "AU"}}
	if len(cfg.Locations) != 2 || cfg.Locations[0] != want[0] || cfg.Locations[1] != want[1] {
		t.Fatalf("Locations = %v", cfg.Locations)
	}
}

func TestLoadCitiesWithoutCountries(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEATHER_LOCATION_CITY", "Oslo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Locations) != 1 || cfg.Locations[0].City != "Oslo" || cfg.Locations[0].Country != "" {
		t.Fatalf("Locations = %v", cfg.Locations)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad interval", map[string]string{"FETCH_INTERVAL": "soon"}},
		{"bad timeout", map[string]string{"HTTP_TIMEOUT": "10"}},
		{"bad retries", map[string]string{"PROVIDER_MAX_RETRIES": "two"}},
		{"negative retries", map[string]string{"PROVIDER_MAX_RETRIES": "-1"}},
		{"bad history", map[string]string{"STORE_MAX_HISTORY": "12abc"}},
		{"bad threshold", map[string]string{"HOT_THRESHOLD_C": "warm"}},
		{"overlapping thresholds", map[string]string{"HOT_THRESHOLD_C": "5", "COLD_THRESHOLD_C": "10"}},
		{"unknown provider", map[string]string{"PROVIDERS": "openweather,darksky"}},
		{"no provider", map[string]string{"PROVIDERS": " , "}},
		{"mismatched locations", map[string]string{"WEATHER_LOCATION_CITY": "A,B", "WEATHER_LOCATION_COUNTRY": "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
