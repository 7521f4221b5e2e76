package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-theme/internal/common"
	"github.com/i474232898/weather-theme/internal/weather"
)

// Known provider names for PROVIDERS.
const (
	ProviderOpenWeather = "openweather"
	ProviderOpenMeteo   = "openmeteo"
	ProviderWeatherAPI  = "weatherapi"
)

type AppConfig struct {
	Port     string
	LogLevel string

	// Providers lists provider names in lookup order.
	Providers         []string
	OpenWeatherAPIKey string
	WeatherAPIKey     string

	HTTPTimeout        time.Duration
	// ProviderMaxRetries applies to transient provider failures only. Zero
	// keeps lookups single-shot.
	ProviderMaxRetries int

	// FetchInterval controls how often tracked locations are refreshed.
	FetchInterval time.Duration
	Locations     []weather.Location

	StoreMaxHistory int
	StoreMaxAge     time.Duration

	Thresholds weather.Thresholds
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PROVIDERS", "openweather,openmeteo")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("PROVIDER_MAX_RETRIES", 0)
	v.SetDefault("FETCH_INTERVAL", "15m")
	v.SetDefault("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	v.SetDefault("STORE_MAX_AGE", "24h")
	v.SetDefault("HOT_THRESHOLD_C", weather.DefaultHotAboveC)
	v.SetDefault("COLD_THRESHOLD_C", weather.DefaultColdBelowC)
}

// Load reads configuration from a .env file (if any) and the environment.
func Load() (*AppConfig, error) {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	cfg := &AppConfig{
		Port:              v.GetString("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		OpenWeatherAPIKey: v.GetString("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     v.GetString("WEATHERAPI_API_KEY"),
	}

	var err error
	if cfg.Providers, err = parseProviders(v.GetString("PROVIDERS")); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = duration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = duration(v, "FETCH_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = duration(v, "STORE_MAX_AGE"); err != nil {
		return nil, err
	}
	if cfg.ProviderMaxRetries, err = integer(v, "PROVIDER_MAX_RETRIES"); err != nil {
		return nil, err
	}
	if cfg.ProviderMaxRetries < 0 {
		return nil, fmt.Errorf("invalid PROVIDER_MAX_RETRIES: must not be negative")
	}
	if cfg.StoreMaxHistory, err = integer(v, "STORE_MAX_HISTORY"); err != nil {
		return nil, err
	}

	if cfg.Thresholds.HotAboveC, err = float(v, "HOT_THRESHOLD_C"); err != nil {
		return nil, err
	}
	if cfg.Thresholds.ColdBelowC, err = float(v, "COLD_THRESHOLD_C"); err != nil {
		return nil, err
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}

	if cfg.Locations, err = loadLocations(v.GetString("WEATHER_LOCATION_CITY"), v.GetString("WEATHER_LOCATION_COUNTRY")); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseProviders(raw string) ([]string, error) {
	names := common.SplitList(strings.ToLower(raw))
	if len(names) == 0 {
		return nil, fmt.Errorf("PROVIDERS must name at least one provider")
	}
	for _, n := range names {
		switch n {
		case ProviderOpenWeather, ProviderOpenMeteo, ProviderWeatherAPI:
		default:
			return nil, fmt.Errorf("unknown provider %q in PROVIDERS", n)
		}
	}
	return names, nil
}

// loadLocations pairs comma separated cities with countries. The country
// list may be empty, otherwise it must line up with the cities.
func loadLocations(cities, countries string) ([]weather.Location, error) {
	cityList := common.SplitList(cities)
	countryList := common.SplitList(countries)
	if len(countryList) > 0 && len(cityList) != len(countryList) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}

	locs := make([]weather.Location, 0, len(cityList))
	for i, city := range cityList {
		loc := weather.Location{City: city}
		if len(countryList) > 0 {
			loc.Country = countryList[i]
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// viper's typed getters swallow parse errors, so values are parsed here.

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func integer(v *viper.Viper, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func float(v *viper.Viper, key string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
